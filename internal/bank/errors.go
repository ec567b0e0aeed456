package bank

import (
	"errors"
	"fmt"

	"golang.org/x/text/currency"

	"github.com/bankbook-dev/bankbook/internal/model"
)

// Sentinels for errors.Is. Every rejection returned by Bank matches exactly one.
var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrAmountNotPositive   = errors.New("amount has to be more than zero")
	ErrUnknownCustomer     = errors.New("unknown customer")
	ErrInsufficientFunds   = errors.New("withdraw exceeding balance")
)

// UnsupportedCurrencyError is returned when an amount is not in the ledger currency.
type UnsupportedCurrencyError struct {
	Expected currency.Unit
	Actual   currency.Unit
}

func (e UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency %s, the supported currency is %s", e.Actual, e.Expected)
}

func (e UnsupportedCurrencyError) Is(target error) bool { return target == ErrUnsupportedCurrency }

// AmountHasToBeMoreThanZeroError is returned for zero or negative amounts.
type AmountHasToBeMoreThanZeroError struct {
	Amount model.Money
}

func (e AmountHasToBeMoreThanZeroError) Error() string {
	return fmt.Sprintf("amount has to be more than zero, invalid amount: %s", e.Amount)
}

func (e AmountHasToBeMoreThanZeroError) Is(target error) bool { return target == ErrAmountNotPositive }

// UnknownCustomerError is returned when withdrawing for a customer with no balance.
type UnknownCustomerError struct {
	Customer model.Customer
}

func (e UnknownCustomerError) Error() string {
	return fmt.Sprintf("customer %s is unknown", e.Customer.ID)
}

func (e UnknownCustomerError) Is(target error) bool { return target == ErrUnknownCustomer }

// WithdrawExceedingBalanceError is returned when the balance cannot cover a withdrawal.
type WithdrawExceedingBalanceError struct {
	Customer  model.Customer
	Attempted model.Money
}

func (e WithdrawExceedingBalanceError) Error() string {
	return fmt.Sprintf("customer %s attempted to withdraw more than available balance, attempted amount: %s",
		e.Customer.ID, e.Attempted)
}

func (e WithdrawExceedingBalanceError) Is(target error) bool { return target == ErrInsufficientFunds }
