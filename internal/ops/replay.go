package ops

import (
	"fmt"

	"github.com/bankbook-dev/bankbook/internal/model"
)

// Ledger is the part of a bank that operations are replayed against.
type Ledger interface {
	Deposit(customer model.Customer, amount model.Money) (model.Money, error)
	Withdraw(customer model.Customer, amount model.Money) (model.Money, error)
}

// Replay applies ops in order and returns one Outcome per applied operation.
// Rejections do not stop the replay unless stopOnFailure is set, in which
// case the rejected operation is the last outcome.
func Replay(l Ledger, ops []Operation, stopOnFailure bool) []Outcome {
	outcomes := make([]Outcome, 0, len(ops))
	for _, op := range ops {
		o := Apply(l, op)
		outcomes = append(outcomes, o)
		if !o.OK() && stopOnFailure {
			break
		}
	}
	return outcomes
}

// Apply runs a single operation against l.
func Apply(l Ledger, op Operation) Outcome {
	var (
		result model.Money
		err    error
	)
	switch op.Kind {
	case KindDeposit:
		result, err = l.Deposit(op.Customer, op.Amount)
	case KindWithdraw:
		result, err = l.Withdraw(op.Customer, op.Amount)
	default:
		err = fmt.Errorf("unknown operation %q", op.Kind)
	}
	return Outcome{Operation: op, Result: result, Err: err}
}

// Summary counts accepted and rejected outcomes.
type Summary struct {
	Accepted int
	Rejected int
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		if o.OK() {
			s.Accepted++
		} else {
			s.Rejected++
		}
	}
	return s
}

// FirstFailure returns the first rejected outcome, if any.
func FirstFailure(outcomes []Outcome) (Outcome, bool) {
	for _, o := range outcomes {
		if !o.OK() {
			return o, true
		}
	}
	return Outcome{}, false
}
