package ops

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/currency"

	"github.com/bankbook-dev/bankbook/internal/model"
)

// Book is the read side of a bank needed to print a statement.
type Book interface {
	Currency() currency.Unit
	Customers() []model.Customer
	BalanceFor(customer model.Customer) (model.Money, bool)
	TotalBalance() model.Money
}

// WriteStatement prints every customer balance followed by the total.
func WriteStatement(w io.Writer, name string, b Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Statement for %s (%s)\n", name, b.Currency())
	for _, c := range b.Customers() {
		balance, ok := b.BalanceFor(c)
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\n", c.ID, balance.Amount.String())
	}
	fmt.Fprintf(tw, "  Total\t%s\n", b.TotalBalance().Amount.String())

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing statement: %w", err)
	}
	return nil
}
