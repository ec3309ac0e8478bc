package tui

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shubho/expenseview/internal/api"
)

// All IO happens inside tea.Cmd closures so the event loop never blocks.
// Mutations do not touch the snapshot themselves; their done-messages trigger
// a refresh, and only the refresh result replaces it.

// refresh fetches the full receipt collection. Bumping the generation first
// makes any fetch already in flight stale; its result will be dropped.
func (a *App) refresh() tea.Cmd {
	a.fetchGen++
	gen := a.fetchGen
	return func() tea.Msg {
		receipts, err := a.client.ListExpenses(a.ctx)
		if err != nil {
			return expensesErrMsg{gen: gen, err: err}
		}
		return expensesMsg{gen: gen, receipts: receipts}
	}
}

func (a *App) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: a.client.Login(a.ctx, username, password)}
	}
}

func (a *App) registerCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		return registerDoneMsg{err: a.client.Register(a.ctx, username, password)}
	}
}

func (a *App) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{err: err}
		}
		defer f.Close()
		return uploadDoneMsg{err: a.client.UploadReceipt(a.ctx, filepath.Base(path), f)}
	}
}

func (a *App) createItemCmd(receiptID int64, input api.ItemInput) tea.Cmd {
	return func() tea.Msg {
		return itemSavedMsg{err: a.client.CreateItem(a.ctx, receiptID, input)}
	}
}

func (a *App) updateItemCmd(itemID int64, input api.ItemInput) tea.Cmd {
	return func() tea.Msg {
		return itemSavedMsg{err: a.client.UpdateItem(a.ctx, itemID, input)}
	}
}

func (a *App) deleteItemCmd(itemID int64) tea.Cmd {
	return func() tea.Msg {
		return itemDeletedMsg{err: a.client.DeleteItem(a.ctx, itemID)}
	}
}

func (a *App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return logoutDoneMsg{err: a.client.Logout(a.ctx)}
	}
}
