// Package bank implements a single-currency account book keyed by customer.
package bank

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"

	"github.com/bankbook-dev/bankbook/internal/logger"
	"github.com/bankbook-dev/bankbook/internal/model"
)

// Bank holds one balance per customer, all in the bank's currency.
// A balance entry appears on a customer's first deposit and is never removed.
type Bank struct {
	mu       sync.Mutex
	currency currency.Unit
	balances map[model.Customer]model.Money

	allowFullWithdrawal    bool
	requirePositiveDeposit bool
	log                    logrus.FieldLogger
}

// New creates an empty Bank that accepts only cur.
func New(cur currency.Unit, opts ...Option) *Bank {
	b := &Bank{
		currency:            cur,
		balances:            make(map[model.Customer]model.Money),
		allowFullWithdrawal: true,
		log:                 logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Currency returns the only currency the bank accepts.
func (b *Bank) Currency() currency.Unit {
	return b.currency
}

// TotalBalance sums every customer balance. An empty bank has a zero total
// in its own currency.
func (b *Bank) TotalBalance() model.Money {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := model.ZeroMoney(b.currency)
	for _, balance := range b.balances {
		total = total.Add(balance)
	}
	return total
}

// BalanceFor returns the customer's balance. ok is false if the customer has
// never deposited; a zero balance is still reported as present.
func (b *Bank) BalanceFor(customer model.Customer) (balance model.Money, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	balance, ok = b.balances[customer]
	return balance, ok
}

// Customers returns every customer with a balance entry, sorted by ID.
func (b *Bank) Customers() []model.Customer {
	b.mu.Lock()
	defer b.mu.Unlock()

	customers := make([]model.Customer, 0, len(b.balances))
	for c := range b.balances {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers
}

// Deposit adds amount to the customer's balance, opening it if needed, and
// returns the deposited amount.
func (b *Bank) Deposit(customer model.Customer, amount model.Money) (model.Money, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.validateDeposit(amount); err != nil {
		b.rejected("deposit", customer, amount, err)
		return model.Money{}, err
	}

	balance, ok := b.balances[customer]
	if !ok {
		balance = model.ZeroMoney(b.currency)
	}
	b.balances[customer] = balance.Add(amount)
	b.accepted("deposit", customer, amount)
	return amount, nil
}

// Withdraw takes amount from the customer's balance and returns the withdrawn
// amount. Checks run in order (currency, positive amount, known customer,
// sufficient funds) and stop at the first failure.
func (b *Bank) Withdraw(customer model.Customer, amount model.Money) (model.Money, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	balance, err := b.validateWithdraw(customer, amount)
	if err != nil {
		b.rejected("withdraw", customer, amount, err)
		return model.Money{}, err
	}

	b.balances[customer] = balance.Sub(amount)
	b.accepted("withdraw", customer, amount)
	return amount, nil
}

func (b *Bank) validateDeposit(amount model.Money) error {
	if err := b.checkCurrency(amount); err != nil {
		return err
	}
	if b.requirePositiveDeposit {
		return checkPositive(amount)
	}
	return nil
}

// validateWithdraw returns the customer's current balance when every check passes.
func (b *Bank) validateWithdraw(customer model.Customer, amount model.Money) (model.Money, error) {
	if err := b.checkCurrency(amount); err != nil {
		return model.Money{}, err
	}
	if err := checkPositive(amount); err != nil {
		return model.Money{}, err
	}
	balance, ok := b.balances[customer]
	if !ok {
		return model.Money{}, UnknownCustomerError{Customer: customer}
	}
	if !b.covers(balance, amount) {
		return model.Money{}, WithdrawExceedingBalanceError{Customer: customer, Attempted: amount}
	}
	return balance, nil
}

func (b *Bank) checkCurrency(amount model.Money) error {
	if !amount.In(b.currency) {
		return UnsupportedCurrencyError{Expected: b.currency, Actual: amount.Currency}
	}
	return nil
}

func checkPositive(amount model.Money) error {
	if !amount.IsPositive() {
		return AmountHasToBeMoreThanZeroError{Amount: amount}
	}
	return nil
}

func (b *Bank) covers(balance, amount model.Money) bool {
	if b.allowFullWithdrawal {
		return balance.Cmp(amount) >= 0
	}
	return balance.Cmp(amount) > 0
}

func (b *Bank) accepted(op string, customer model.Customer, amount model.Money) {
	b.log.WithFields(logrus.Fields{
		"operation": op,
		"customer":  customer.ID,
		"amount":    amount.String(),
		"balance":   b.balances[customer].String(),
	}).Debug("operation accepted")
}

func (b *Bank) rejected(op string, customer model.Customer, amount model.Money, err error) {
	b.log.WithFields(logrus.Fields{
		"operation": op,
		"customer":  customer.ID,
		"amount":    amount.String(),
	}).WithError(err).Info("operation rejected")
}
