package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/shubho/expenseview/internal/api"
	"github.com/shubho/expenseview/internal/config"
)

func keyRune(k string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	client, err := api.New("http://127.0.0.1:1", nil)
	require.NoError(t, err)
	cfg := config.Config{
		Server: config.ServerConfig{BaseURL: "http://127.0.0.1:1"},
		UI:     config.UIConfig{CurrencySymbol: "$"},
	}
	return New(context.Background(), cfg, client, nil)
}

// fixture: two dates, the later one first, one receipt with a discount and
// one item left entirely blank by the pipeline.
func fixtureReceipts() []api.Receipt {
	return api.Normalize([]api.Receipt{
		{ID: 1, StoreName: "Costco", ReceiptDate: "2024-03-02", TotalAmount: 42.8, TotalDiscount: 3.5,
			Items: []api.Item{{ID: 10, ItemName: "Milk", Quantity: 2, Price: 3.5}, {ID: 11}}},
		{ID: 2, ReceiptDate: "2024-03-01", TotalAmount: 10},
	})
}

func dashboardApp(t *testing.T) *App {
	t.Helper()
	a := newTestApp(t)
	a.state = viewDashboard
	a.Update(expensesMsg{gen: a.fetchGen, receipts: fixtureReceipts()})
	return a
}

func TestAccordionRendering(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	view := a.View()

	// one section per distinct date, first-appearance order
	require.Contains(t, view, "2024-03-02")
	require.Contains(t, view, "2024-03-01")
	require.Less(t, strings.Index(view, "2024-03-02"), strings.Index(view, "2024-03-01"))

	require.Contains(t, view, "Costco (Total: $42.80)")
	require.Contains(t, view, "Savings: -$3.50")
	require.Contains(t, view, "2 x Milk ($3.50)")

	// blank item rendered with substituted defaults
	require.Contains(t, view, "1 x Unnamed Item ($0.00)")
	// receipt without a store name
	require.Contains(t, view, "Unknown Store (Total: $10.00)")
}

func TestNoSavingsLineWithoutDiscount(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.state = viewDashboard
	a.Update(expensesMsg{gen: a.fetchGen, receipts: api.Normalize([]api.Receipt{
		{ID: 1, StoreName: "Aldi", ReceiptDate: "2024-03-01", TotalAmount: 5},
	})})
	require.NotContains(t, a.View(), "Savings:")
}

func TestRefreshIdempotent(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	first := a.View()
	a.Update(expensesMsg{gen: a.fetchGen, receipts: fixtureReceipts()})
	require.Equal(t, first, a.View())
}

func TestStaleFetchSuperseded(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.state = viewDashboard
	a.fetchGen = 2
	a.Update(expensesMsg{gen: 1, receipts: fixtureReceipts()})
	require.Empty(t, a.receipts, "a superseded fetch must not touch the snapshot")
}

func TestEmptySnapshotPlaceholder(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.state = viewDashboard
	a.Update(expensesMsg{gen: a.fetchGen, receipts: []api.Receipt{}})
	require.Contains(t, a.View(), msgNoExpenses)
}

func TestFetchFailureRendersNotice(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	a.Update(expensesErrMsg{gen: a.fetchGen, err: errors.New("boom")})
	view := a.View()
	require.Contains(t, view, msgListFailed)
	require.NotContains(t, view, "Costco", "failure message replaces the list")
}

func TestSessionExpiredReturnsToLogin(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	a.Update(expensesErrMsg{gen: a.fetchGen, err: api.ErrSessionExpired})
	require.Equal(t, viewLogin, a.state)
	require.Empty(t, a.receipts)
	require.NotContains(t, a.View(), "Costco", "no partial render of stale data")
}

func TestAccordionToggle(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	before := len(a.rows)

	// cursor starts on the first date header
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, a.collapsed["2024-03-02"])
	require.Less(t, len(a.rows), before)
	require.NotContains(t, a.View(), "Costco", "collapsed section hides its receipts")

	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, a.collapsed["2024-03-02"])
	require.Len(t, a.rows, before)
}

func moveTo(a *App, kind rowKind) bool {
	for i, r := range a.rows {
		if r.kind == kind {
			a.cursor = i
			return true
		}
	}
	return false
}

func TestOpenCreateEditorFromReceiptRow(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	require.True(t, moveTo(a, rowReceipt))
	a.Update(keyRune("a"))
	require.Equal(t, modalItemEditor, a.modal)
	require.Equal(t, editorCreate, a.editor.mode)
	require.Equal(t, int64(1), a.editor.receiptID)
}

func TestOpenEditEditorPrefilledFromSnapshot(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	require.True(t, moveTo(a, rowItem))
	a.Update(keyRune("e"))
	require.Equal(t, modalItemEditor, a.modal)
	require.Equal(t, editorEdit, a.editor.mode)
	require.Equal(t, int64(10), a.editor.itemID)
	require.Equal(t, "Milk", a.editor.inputs[fieldName].Value())
	require.Equal(t, "2", a.editor.inputs[fieldQuantity].Value())
	require.Equal(t, "3.50", a.editor.inputs[fieldPrice].Value())
}

func TestEditorRejectsNonNumericQuantity(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	require.True(t, moveTo(a, rowItem))
	a.Update(keyRune("e"))
	a.editor.inputs[fieldQuantity].SetValue("abc")

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd, "invalid input must not dispatch a request")
	require.Equal(t, modalItemEditor, a.modal)
	require.NotEmpty(t, a.editor.notice)
}

func TestEditorSaveDispatchesAndCloses(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	require.True(t, moveTo(a, rowReceipt))
	a.Update(keyRune("a"))
	a.editor.inputs[fieldName].SetValue("Bread")
	a.editor.inputs[fieldQuantity].SetValue("2")
	a.editor.inputs[fieldPrice].SetValue("4.20")

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, a.editor.busy)

	// while in flight a second submit dispatches nothing
	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)

	gen := a.fetchGen
	_, cmd = a.Update(itemSavedMsg{err: nil})
	require.Equal(t, modalNone, a.modal)
	require.Equal(t, msgItemSaved, a.status)
	require.NotNil(t, cmd, "save success must trigger a refresh")
	require.Equal(t, gen+1, a.fetchGen)
}

func TestEditorSaveFailureKeepsDialogOpen(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	require.True(t, moveTo(a, rowReceipt))
	a.Update(keyRune("a"))
	a.editor.inputs[fieldName].SetValue("Bread")
	a.editor.inputs[fieldQuantity].SetValue("2")
	a.editor.inputs[fieldPrice].SetValue("4.20")
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})

	a.Update(itemSavedMsg{err: errors.New("boom")})
	require.Equal(t, modalItemEditor, a.modal, "dialog stays open on failure")
	require.Equal(t, msgItemSaveFailed, a.editor.notice)
	require.Equal(t, "Bread", a.editor.inputs[fieldName].Value(), "entered values survive")
}

func TestDeleteConfirmFlow(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	require.True(t, moveTo(a, rowItem))

	a.Update(keyRune("x"))
	require.Equal(t, modalConfirmDelete, a.modal)
	require.Equal(t, int64(10), a.deleteID)

	// declining leaves everything untouched
	_, cmd := a.Update(keyRune("n"))
	require.Nil(t, cmd)
	require.Equal(t, modalNone, a.modal)

	a.Update(keyRune("x"))
	_, cmd = a.Update(keyRune("y"))
	require.NotNil(t, cmd, "confirming dispatches the delete")
	require.Equal(t, modalNone, a.modal)
}

func TestDeleteFailureShowsNotice(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	before := a.View()
	a.Update(itemDeletedMsg{err: errors.New("boom")})
	require.Equal(t, msgItemDeleteFailed, a.status)
	require.Contains(t, a.View(), "Costco", "snapshot unchanged on failure")
	require.Contains(t, before, "Costco")
}

func TestUploadFlow(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	a.Update(keyRune("u"))
	require.Equal(t, modalUpload, a.modal)

	a.upload.path.SetValue("receipt.jpg")
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, a.upload.busy)
	require.Contains(t, a.View(), msgProcessing)

	// failure keeps the selected path for a retry
	a.Update(uploadDoneMsg{err: &api.StatusError{Status: 500, Body: "ocr down"}})
	require.Equal(t, modalUpload, a.modal)
	require.Equal(t, msgUploadFailed, a.upload.notice)
	require.Equal(t, "receipt.jpg", a.upload.path.Value())

	// success clears the form and refreshes
	a.upload.busy = true
	gen := a.fetchGen
	_, cmd = a.Update(uploadDoneMsg{err: nil})
	require.Equal(t, modalNone, a.modal)
	require.Empty(t, a.upload.path.Value())
	require.Equal(t, msgUploadOK, a.status)
	require.NotNil(t, cmd)
	require.Equal(t, gen+1, a.fetchGen)
}

func TestLoginNotices(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.login.busy = true
	a.Update(loginDoneMsg{err: api.ErrLoginFailed})
	require.Equal(t, viewLogin, a.state)
	require.Contains(t, a.View(), msgLoginFailed)
	require.False(t, a.login.busy)

	a.login.busy = true
	_, cmd := a.Update(loginDoneMsg{err: nil})
	require.Equal(t, viewDashboard, a.state)
	require.NotNil(t, cmd, "successful login fetches the expenses")
}

func TestRegisterNotices(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.state = viewRegister

	a.Update(registerDoneMsg{err: &api.StatusError{Status: 400, Body: "Username already taken"}})
	require.Contains(t, a.View(), "Registration failed: Username already taken")

	a.Update(registerDoneMsg{err: nil})
	require.Contains(t, a.View(), msgRegisterOK)
}

func TestRegisterViewToggle(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Equal(t, viewRegister, a.state)
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, viewLogin, a.state)
}

func TestLogoutResetsEverything(t *testing.T) {
	t.Parallel()

	a := dashboardApp(t)
	a.status = "Item saved."
	a.Update(logoutDoneMsg{})
	require.Equal(t, viewLogin, a.state)
	require.Empty(t, a.receipts)
	require.Empty(t, a.status)
}
