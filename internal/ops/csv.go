package ops

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bankbook-dev/bankbook/internal/model"
)

// Header is the CSV header of an operation script.
const Header = "customer,operation,amount,currency"

// OutcomeHeader is the CSV header written by WriteOutcomes.
const OutcomeHeader = "line,customer,operation,amount,currency,status,detail"

const (
	numFields   = 4
	colCustomer = 0
	colKind     = 1
	colAmount   = 2
	colCurrency = 3

	numOutcomeFields = 7

	statusOK       = "ok"
	statusRejected = "rejected"
)

// ReadOperations reads a script. The first row must be Header; blank lines
// and lines starting with '#' are skipped.
func ReadOperations(r io.Reader) ([]Operation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading operations CSV: %w", err)
	}
	if got := strings.Join(header, ","); !strings.EqualFold(got, Header) {
		return nil, fmt.Errorf("unexpected header %q, want %q", got, Header)
	}

	var ops []Operation
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading operations CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		op, err := UnmarshalOperation(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		op.Line = line
		ops = append(ops, op)
	}
	return ops, nil
}

// WriteOperations writes a script (including header).
func WriteOperations(w io.Writer, ops []Operation) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, op := range ops {
		if err := cw.Write(MarshalOperation(op)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalOperation converts an Operation to a CSV row.
func MarshalOperation(op Operation) []string {
	row := make([]string, numFields)
	row[colCustomer] = op.Customer.ID
	row[colKind] = string(op.Kind)
	row[colAmount] = op.Amount.Amount.String()
	row[colCurrency] = op.Amount.Currency.String()
	return row
}

// UnmarshalOperation converts a CSV row to an Operation. Line is left zero.
func UnmarshalOperation(record []string) (Operation, error) {
	if len(record) != numFields {
		return Operation{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id := strings.TrimSpace(record[colCustomer])
	if id == "" {
		return Operation{}, errors.New("missing customer")
	}

	kind, err := ParseKind(record[colKind])
	if err != nil {
		return Operation{}, err
	}

	amount, err := model.ParseMoney(record[colAmount], record[colCurrency])
	if err != nil {
		return Operation{}, err
	}

	return Operation{
		Customer: model.NewCustomer(id),
		Kind:     kind,
		Amount:   amount,
	}, nil
}

// WriteOutcomes writes one CSV row per outcome (including header).
func WriteOutcomes(w io.Writer, outcomes []Outcome) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(OutcomeHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, o := range outcomes {
		if err := cw.Write(MarshalOutcome(o)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalOutcome converts an Outcome to a CSV row.
func MarshalOutcome(o Outcome) []string {
	row := make([]string, 0, numOutcomeFields)
	row = append(row, strconv.Itoa(o.Operation.Line))
	row = append(row, MarshalOperation(o.Operation)...)
	if o.OK() {
		return append(row, statusOK, "")
	}
	return append(row, statusRejected, o.Err.Error())
}
