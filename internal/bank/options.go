package bank

import "github.com/sirupsen/logrus"

// Option configures a Bank.
type Option func(*Bank)

// WithLogger sets the logger used to record accepted and rejected operations.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Bank) {
		if log != nil {
			b.log = log
		}
	}
}

// WithFullBalanceWithdrawal controls whether a withdrawal equal to the whole
// balance is allowed (the default). When false the balance must strictly
// exceed the amount.
func WithFullBalanceWithdrawal(allow bool) Option {
	return func(b *Bank) { b.allowFullWithdrawal = allow }
}

// WithPositiveDeposits makes Deposit reject zero and negative amounts.
func WithPositiveDeposits(enabled bool) Option {
	return func(b *Bank) { b.requirePositiveDeposit = enabled }
}
