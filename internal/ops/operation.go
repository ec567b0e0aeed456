// Package ops reads scripts of deposits and withdrawals and replays them
// against a ledger.
package ops

import (
	"fmt"
	"strings"

	"github.com/bankbook-dev/bankbook/internal/model"
)

// Kind is the operation applied to a customer's balance.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
)

// ParseKind accepts "deposit" or "withdraw" in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDeposit, KindWithdraw:
		return k, nil
	default:
		return "", fmt.Errorf("unknown operation %q", s)
	}
}

// Operation is one row of a script.
type Operation struct {
	Line     int // 1-based line in the source file, header included
	Customer model.Customer
	Kind     Kind
	Amount   model.Money
}

// Outcome is the result of replaying one Operation. Err is nil when the
// ledger accepted it, in which case Result holds the returned amount.
type Outcome struct {
	Operation Operation
	Result    model.Money
	Err       error
}

// OK reports whether the ledger accepted the operation.
func (o Outcome) OK() bool {
	return o.Err == nil
}
