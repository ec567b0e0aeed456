package bank

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/bankbook-dev/bankbook/internal/model"
)

var (
	alice = model.NewCustomer("Alice")
	bob   = model.NewCustomer("Bob")
)

func usd(amount string) model.Money {
	return model.NewMoney(decimal.RequireFromString(amount), currency.USD)
}

func gbp(amount string) model.Money {
	return model.NewMoney(decimal.RequireFromString(amount), currency.GBP)
}

func assertMoney(t *testing.T, want, got model.Money) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func assertBalance(t *testing.T, b *Bank, c model.Customer, want string) {
	t.Helper()
	got, ok := b.BalanceFor(c)
	require.True(t, ok, "customer %s should have a balance", c)
	assertMoney(t, usd(want), got)
}

func TestTotalBalance_NewBankIsZeroInItsCurrency(t *testing.T) {
	assertMoney(t, usd("0"), New(currency.USD).TotalBalance())
	assertMoney(t, gbp("0"), New(currency.GBP).TotalBalance())
}

func TestDeposit_SingleDeposit(t *testing.T) {
	b := New(currency.USD)

	got, err := b.Deposit(alice, usd("1"))
	require.NoError(t, err)
	assertMoney(t, usd("1"), got)
	assertBalance(t, b, alice, "1")
}

func TestDeposit_OtherLedgerCurrency(t *testing.T) {
	b := New(currency.GBP)
	_, err := b.Deposit(alice, gbp("1"))
	require.NoError(t, err)

	got, ok := b.BalanceFor(alice)
	require.True(t, ok)
	assertMoney(t, gbp("1"), got)
}

func TestBalanceFor_UnknownCustomerIsAbsent(t *testing.T) {
	b := New(currency.USD)
	_, ok := b.BalanceFor(alice)
	assert.False(t, ok)
}

func TestDeposit_UnsupportedCurrency(t *testing.T) {
	b := New(currency.USD)

	_, err := b.Deposit(alice, gbp("1"))
	require.Error(t, err)
	assert.Equal(t, UnsupportedCurrencyError{Expected: currency.USD, Actual: currency.GBP}, err)
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	_, ok := b.BalanceFor(alice)
	assert.False(t, ok, "failed deposit must not open a balance")
	assertMoney(t, usd("0"), b.TotalBalance())
}

func TestDeposit_AccumulatesPerCustomer(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(alice, usd("1"))
	_, _ = b.Deposit(alice, usd("10"))
	_, _ = b.Deposit(bob, usd("10"))

	assertBalance(t, b, alice, "11")
	assertBalance(t, b, bob, "10")
	assertMoney(t, usd("21"), b.TotalBalance())
}

func TestDeposit_SingleCustomerTotal(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(alice, usd("1"))
	_, _ = b.Deposit(alice, usd("10"))

	assertBalance(t, b, alice, "11")
	assertMoney(t, usd("11"), b.TotalBalance())
}

func TestDeposit_NonPositiveAcceptedByDefault(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(alice, usd("5"))

	got, err := b.Deposit(alice, usd("0"))
	require.NoError(t, err)
	assertMoney(t, usd("0"), got)

	_, err = b.Deposit(alice, usd("-1"))
	require.NoError(t, err)
	assertBalance(t, b, alice, "4")
}

func TestDeposit_PositiveDepositsRequired(t *testing.T) {
	b := New(currency.USD, WithPositiveDeposits(true))
	_, err := b.Deposit(alice, usd("1"))
	require.NoError(t, err)

	for _, amount := range []string{"0", "-1"} {
		_, err := b.Deposit(alice, usd(amount))
		assert.Equal(t, AmountHasToBeMoreThanZeroError{Amount: usd(amount)}, err)
		assert.ErrorIs(t, err, ErrAmountNotPositive)
	}

	assertBalance(t, b, alice, "1")
	assertMoney(t, usd("1"), b.TotalBalance())
}

func TestDeposit_PositiveDepositsCheckCurrencyFirst(t *testing.T) {
	b := New(currency.USD, WithPositiveDeposits(true))
	_, err := b.Deposit(alice, gbp("-1"))
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestDeposit_KeepsDecimalPrecision(t *testing.T) {
	b := New(currency.USD)
	for i := 0; i < 10; i++ {
		_, err := b.Deposit(alice, usd("0.1"))
		require.NoError(t, err)
	}
	assertBalance(t, b, alice, "1")
}

func TestWithdraw_UnknownCustomer(t *testing.T) {
	b := New(currency.USD)
	unknown := model.NewCustomer("UnknownCustomerId")

	_, err := b.Withdraw(unknown, usd("1"))
	assert.Equal(t, UnknownCustomerError{Customer: unknown}, err)
	assert.ErrorIs(t, err, ErrUnknownCustomer)

	_, ok := b.BalanceFor(unknown)
	assert.False(t, ok)
	assertMoney(t, usd("0"), b.TotalBalance())
}

func TestWithdraw_LessThanBalance(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(alice, usd("10"))

	got, err := b.Withdraw(alice, usd("1"))
	require.NoError(t, err)
	assertMoney(t, usd("1"), got)
	assertBalance(t, b, alice, "9")
}

func TestWithdraw_FullBalance(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(alice, usd("10"))

	got, err := b.Withdraw(alice, usd("10"))
	require.NoError(t, err)
	assertMoney(t, usd("10"), got)
	assertBalance(t, b, alice, "0")
}

func TestWithdraw_FullBalanceRejectedWhenStrict(t *testing.T) {
	b := New(currency.USD, WithFullBalanceWithdrawal(false))
	_, _ = b.Deposit(alice, usd("10"))

	_, err := b.Withdraw(alice, usd("10"))
	assert.Equal(t, WithdrawExceedingBalanceError{Customer: alice, Attempted: usd("10")}, err)
	assertBalance(t, b, alice, "10")

	_, err = b.Withdraw(alice, usd("9.99"))
	require.NoError(t, err)
	assertBalance(t, b, alice, "0.01")
}

func TestWithdraw_ExceedingBalance(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(alice, usd("1"))
	_, _ = b.Deposit(bob, usd("10"))

	_, err := b.Withdraw(alice, usd("2"))
	assert.Equal(t, WithdrawExceedingBalanceError{Customer: alice, Attempted: usd("2")}, err)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assertBalance(t, b, alice, "1")
	assertMoney(t, usd("11"), b.TotalBalance())
}

func TestWithdraw_NonPositiveAmount(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(alice, usd("1"))

	for _, amount := range []string{"0", "-1"} {
		_, err := b.Withdraw(alice, usd(amount))
		assert.Equal(t, AmountHasToBeMoreThanZeroError{Amount: usd(amount)}, err)
		assertBalance(t, b, alice, "1")
	}
	assertMoney(t, usd("1"), b.TotalBalance())
}

func TestWithdraw_UnsupportedCurrency(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(alice, usd("1"))

	_, err := b.Withdraw(alice, gbp("1"))
	assert.Equal(t, UnsupportedCurrencyError{Expected: currency.USD, Actual: currency.GBP}, err)

	assertBalance(t, b, alice, "1")
	assertMoney(t, usd("1"), b.TotalBalance())
}

func TestWithdraw_CheckOrder(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(alice, usd("1"))
	stranger := model.NewCustomer("Mallory")

	tests := []struct {
		name     string
		customer model.Customer
		amount   model.Money
		want     error
	}{
		{"currency before amount", stranger, gbp("-1"), ErrUnsupportedCurrency},
		{"amount before customer", stranger, usd("0"), ErrAmountNotPositive},
		{"customer before funds", stranger, usd("100"), ErrUnknownCustomer},
		{"funds", alice, usd("100"), ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Withdraw(tt.customer, tt.amount)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
	assertBalance(t, b, alice, "1")
}

func TestTotalBalance_AcrossDepositsAndWithdrawals(t *testing.T) {
	b := New(currency.USD)

	_, _ = b.Deposit(alice, usd("1"))
	assertMoney(t, usd("1"), b.TotalBalance())

	_, _ = b.Deposit(bob, usd("1"))
	assertMoney(t, usd("2"), b.TotalBalance())

	_, _ = b.Deposit(alice, usd("1"))
	assertMoney(t, usd("3"), b.TotalBalance())

	_, _ = b.Withdraw(alice, usd("1"))
	assertMoney(t, usd("2"), b.TotalBalance())

	_, _ = b.Withdraw(alice, usd("1"))
	assertBalance(t, b, alice, "0")
	assertBalance(t, b, bob, "1")
	assertMoney(t, usd("1"), b.TotalBalance())
}

func TestCustomers_SortedAndKeptAtZero(t *testing.T) {
	b := New(currency.USD)
	_, _ = b.Deposit(bob, usd("1"))
	_, _ = b.Deposit(alice, usd("2"))
	_, _ = b.Withdraw(alice, usd("2"))

	assert.Equal(t, []model.Customer{alice, bob}, b.Customers())
	assert.Empty(t, New(currency.USD).Customers())
}

func TestLogging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	b := New(currency.USD, WithLogger(logger))

	_, _ = b.Deposit(alice, usd("5"))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "deposit", entry.Data["operation"])
	assert.Equal(t, "5 USD", entry.Data["balance"])

	_, _ = b.Withdraw(alice, usd("50"))
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "withdraw", entry.Data["operation"])
	assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), ErrInsufficientFunds)
	assert.Len(t, hook.AllEntries(), 2)
}

func TestConcurrentOperations(t *testing.T) {
	b := New(currency.USD)
	_, err := b.Deposit(alice, usd("0"))
	require.NoError(t, err)

	const workers = 200
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = b.Deposit(alice, usd("1"))
			_, _ = b.Deposit(bob, usd("0.01"))
			_ = b.TotalBalance()
			_, _ = b.BalanceFor(alice)
			_ = b.Customers()
			_, _ = b.Withdraw(alice, usd("1"))
		}()
	}
	wg.Wait()

	assertBalance(t, b, alice, "0")
	assertBalance(t, b, bob, "2")
	assertMoney(t, usd("2"), b.TotalBalance())
}

func TestTotalBalance_EqualsSumOfDeposits(t *testing.T) {
	tests := [][]string{
		nil,
		{"1"},
		{"0.1", "0.2", "0.3"},
		{"100", "-5", "0", "0.01"},
		{"12345678901234567890.12", "0.000001"},
	}
	customers := []model.Customer{alice, bob, model.NewCustomer("Carol")}

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		seq := make([]string, rng.IntN(30))
		for j := range seq {
			seq[j] = decimal.New(rng.Int64N(100000), -int32(rng.IntN(4))).String()
		}
		tests = append(tests, seq)
	}

	for i, amounts := range tests {
		t.Run(fmt.Sprintf("sequence %d", i), func(t *testing.T) {
			b := New(currency.USD)
			want := usd("0")
			perCustomer := make(map[model.Customer]model.Money)
			for j, amount := range amounts {
				c := customers[j%len(customers)]
				_, err := b.Deposit(c, usd(amount))
				require.NoError(t, err)

				want = want.Add(usd(amount))
				if prev, ok := perCustomer[c]; ok {
					perCustomer[c] = prev.Add(usd(amount))
				} else {
					perCustomer[c] = usd(amount)
				}
				assertMoney(t, want, b.TotalBalance())
			}
			for c, expected := range perCustomer {
				got, ok := b.BalanceFor(c)
				require.True(t, ok)
				assertMoney(t, expected, got)
			}
		})
	}
}
