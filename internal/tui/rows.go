package tui

import (
	"github.com/shubho/expenseview/internal/api"
	"github.com/shubho/expenseview/internal/expense"
)

// The accordion is navigated through a flattened list of selectable rows.
// Each row names an affordance target: a date header toggles its section, a
// receipt row accepts "add item", an item row accepts edit and delete. Keys
// dispatch on (row kind, target) — the command table of the dashboard.

type rowKind int

const (
	rowDateHeader rowKind = iota
	rowReceipt
	rowItem
)

type row struct {
	kind    rowKind
	group   int // index into groups
	receipt int // index into groups[group].Receipts, kind != rowDateHeader
	item    int // index into that receipt's Items, kind == rowItem
}

// flattenRows lists the selectable rows in render order. Collapsed sections
// contribute only their header.
func flattenRows(groups []expense.DateGroup, collapsed map[string]bool) []row {
	var rows []row
	for gi, g := range groups {
		rows = append(rows, row{kind: rowDateHeader, group: gi})
		if collapsed[g.Date] {
			continue
		}
		for ri := range g.Receipts {
			rows = append(rows, row{kind: rowReceipt, group: gi, receipt: ri})
			for ii := range g.Receipts[ri].Items {
				rows = append(rows, row{kind: rowItem, group: gi, receipt: ri, item: ii})
			}
		}
	}
	return rows
}

// current returns the row under the cursor, or false when the list is empty.
func (a *App) current() (row, bool) {
	if a.cursor < 0 || a.cursor >= len(a.rows) {
		return row{}, false
	}
	return a.rows[a.cursor], true
}

// receiptAt resolves a row's owning receipt. Valid for receipt and item rows.
func (a *App) receiptAt(r row) *api.Receipt {
	if r.group >= len(a.groups) {
		return nil
	}
	g := a.groups[r.group]
	if r.receipt >= len(g.Receipts) {
		return nil
	}
	return &g.Receipts[r.receipt]
}

// itemAt resolves an item row to its item.
func (a *App) itemAt(r row) *api.Item {
	rec := a.receiptAt(r)
	if rec == nil || r.item >= len(rec.Items) {
		return nil
	}
	return &rec.Items[r.item]
}
