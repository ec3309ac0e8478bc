// Package expense holds the view-model over the fetched snapshot: grouping
// receipts by date and formatting currency values for display.
package expense

import (
	"fmt"

	"github.com/shubho/expenseview/internal/api"
)

// DateGroup is one accordion section: every receipt sharing one receipt date,
// in the order the backend returned them.
type DateGroup struct {
	Date     string
	Receipts []api.Receipt
}

// GroupByDate partitions receipts into buckets keyed by exact receipt-date
// equality. Groups are emitted in order of first appearance of each date in
// the input, not chronologically; relative receipt order within a bucket is
// preserved.
func GroupByDate(receipts []api.Receipt) []DateGroup {
	index := make(map[string]int, len(receipts))
	var groups []DateGroup
	for _, r := range receipts {
		i, ok := index[r.ReceiptDate]
		if !ok {
			i = len(groups)
			index[r.ReceiptDate] = i
			groups = append(groups, DateGroup{Date: r.ReceiptDate})
		}
		groups[i].Receipts = append(groups[i].Receipts, r)
	}
	return groups
}

// ItemCount reports the total number of items across the group's receipts.
func (g DateGroup) ItemCount() int {
	n := 0
	for _, r := range g.Receipts {
		n += len(r.Items)
	}
	return n
}

// Money renders a currency value with two decimal places, e.g. "$12.50".
func Money(symbol string, v float64) string {
	return fmt.Sprintf("%s%.2f", symbol, v)
}

// Savings renders a discount as a negative amount, e.g. "-$3.50".
func Savings(symbol string, v float64) string {
	return "-" + Money(symbol, v)
}
