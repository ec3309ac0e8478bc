package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shubho/expenseview/internal/api"
	"github.com/shubho/expenseview/internal/config"
	"github.com/shubho/expenseview/internal/expense"
	"github.com/shubho/expenseview/internal/log"
)

// App ties together views. It owns the one snapshot of fetched receipts;
// every mutation goes through the backend and is followed by a full refresh,
// never an in-place patch.
type App struct {
	ctx    context.Context
	client *api.Client
	cfg    config.Config
	log    *log.Logger

	state  appState
	status string

	// auth forms
	login    loginForm
	register registerForm

	// dashboard snapshot + derived accordion state
	receipts  []api.Receipt
	groups    []expense.DateGroup
	collapsed map[string]bool
	rows      []row
	cursor    int
	listErr   bool
	fetchGen  int // generation counter; a stale in-flight fetch is dropped

	// modal state (one instance, reused and reset between openings)
	modal     modalState
	editor    itemEditor
	deleteID  int64
	deleteRef string
	upload    uploadForm

	currency string
	width    int
	height   int
	keys     keyMap
}

type appState string

const (
	viewLogin     appState = "login"
	viewRegister  appState = "register"
	viewDashboard appState = "dashboard"
)

type modalState string

const (
	modalNone          modalState = ""
	modalItemEditor    modalState = "itemEditor"
	modalConfirmDelete modalState = "confirmDelete"
	modalUpload        modalState = "upload"
)

// New builds the app in the logged-out state.
func New(ctx context.Context, cfg config.Config, client *api.Client, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Discard()
	}
	return &App{
		ctx:       ctx,
		client:    client,
		cfg:       cfg,
		log:       logger.WithComponent("tui"),
		state:     viewLogin,
		login:     newLoginForm(),
		register:  newRegisterForm(),
		editor:    newItemEditor(),
		upload:    newUploadForm(),
		collapsed: map[string]bool{},
		currency:  cfg.UI.CurrencySymbol,
		keys:      newKeyMap(),
	}
}

func (a *App) Init() tea.Cmd {
	return a.login.focusCmd()
}

// messages
type expensesMsg struct {
	gen      int
	receipts []api.Receipt
}

type expensesErrMsg struct {
	gen int
	err error
}

type loginDoneMsg struct{ err error }

type registerDoneMsg struct{ err error }

type uploadDoneMsg struct{ err error }

type itemSavedMsg struct{ err error }

type itemDeletedMsg struct{ err error }

type logoutDoneMsg struct{ err error }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil

	case tea.KeyMsg:
		switch a.state {
		case viewLogin:
			return a.handleLoginKey(m)
		case viewRegister:
			return a.handleRegisterKey(m)
		default:
			if a.modal != modalNone {
				return a.handleModalKey(m)
			}
			return a.handleDashboardKey(m)
		}

	case expensesMsg:
		if m.gen != a.fetchGen {
			// superseded by a newer fetch; last write wins
			return a, nil
		}
		a.receipts = m.receipts
		a.listErr = false
		a.rebuild()
		return a, nil

	case expensesErrMsg:
		if m.gen != a.fetchGen {
			return a, nil
		}
		if errors.Is(m.err, api.ErrSessionExpired) {
			a.resetToLogin()
			return a, a.login.focusCmd()
		}
		a.log.Debug("list expenses failed", "err", m.err)
		a.listErr = true
		return a, nil

	case loginDoneMsg:
		return a.afterLogin(m.err)

	case registerDoneMsg:
		a.afterRegister(m.err)
		return a, nil

	case uploadDoneMsg:
		return a.afterUpload(m.err)

	case itemSavedMsg:
		return a.afterItemSaved(m.err)

	case itemDeletedMsg:
		return a.afterItemDeleted(m.err)

	case logoutDoneMsg:
		a.resetToLogin()
		return a, a.login.focusCmd()
	}
	return a, nil
}

// rebuild recomputes the date groups and the flattened row list after the
// snapshot or the collapse state changed.
func (a *App) rebuild() {
	a.groups = expense.GroupByDate(a.receipts)
	a.rows = flattenRows(a.groups, a.collapsed)
	if a.cursor >= len(a.rows) {
		a.cursor = len(a.rows) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// resetToLogin drops the snapshot and all dashboard state. Used for logout
// and for the 401/403 redirect analog.
func (a *App) resetToLogin() {
	a.state = viewLogin
	a.modal = modalNone
	a.status = ""
	a.receipts = nil
	a.groups = nil
	a.rows = nil
	a.cursor = 0
	a.listErr = false
	a.collapsed = map[string]bool{}
	a.login = newLoginForm()
	a.register = newRegisterForm()
	a.editor.reset()
	a.upload.reset()
}

func (a *App) afterLogin(err error) (tea.Model, tea.Cmd) {
	switch {
	case err == nil:
		a.state = viewDashboard
		a.status = ""
		return a, a.refresh()
	case errors.Is(err, api.ErrLoginFailed):
		a.login.notice = msgLoginFailed
	default:
		a.log.Debug("login failed", "err", err)
		a.login.notice = msgGenericError
	}
	a.login.busy = false
	return a, nil
}

func (a *App) afterRegister(err error) {
	a.register.busy = false
	var statusErr *api.StatusError
	switch {
	case err == nil:
		a.register.notice = msgRegisterOK
		a.register.noticeOK = true
	case errors.As(err, &statusErr):
		// the one flow that surfaces backend text verbatim
		a.register.notice = "Registration failed: " + statusErr.Body
		a.register.noticeOK = false
	default:
		a.log.Debug("register failed", "err", err)
		a.register.notice = msgGenericError
		a.register.noticeOK = false
	}
}

func (a *App) afterUpload(err error) (tea.Model, tea.Cmd) {
	a.upload.busy = false
	var statusErr *api.StatusError
	switch {
	case err == nil:
		a.modal = modalNone
		a.upload.reset()
		a.status = msgUploadOK
		return a, a.refresh()
	case errors.Is(err, api.ErrSessionExpired):
		a.resetToLogin()
		return a, a.login.focusCmd()
	case errors.As(err, &statusErr):
		a.upload.notice = msgUploadFailed
	default:
		a.log.Debug("upload failed", "err", err)
		a.upload.notice = msgUploadError
	}
	// the selected path stays so the user can retry
	return a, nil
}

func (a *App) afterItemSaved(err error) (tea.Model, tea.Cmd) {
	a.editor.busy = false
	switch {
	case err == nil:
		a.modal = modalNone
		a.editor.reset()
		a.status = msgItemSaved
		return a, a.refresh()
	case errors.Is(err, api.ErrSessionExpired):
		a.resetToLogin()
		return a, a.login.focusCmd()
	default:
		a.log.Debug("save item failed", "err", err)
		// dialog stays open with the entered values
		a.editor.notice = msgItemSaveFailed
		return a, nil
	}
}

func (a *App) afterItemDeleted(err error) (tea.Model, tea.Cmd) {
	switch {
	case err == nil:
		a.status = msgItemDeleted
		return a, a.refresh()
	case errors.Is(err, api.ErrSessionExpired):
		a.resetToLogin()
		return a, a.login.focusCmd()
	default:
		a.log.Debug("delete item failed", "err", err)
		a.status = msgItemDeleteFailed
		return a, nil
	}
}

// User-facing notices. The auth and upload strings match the web client this
// terminal UI replaces.
const (
	msgLoginFailed      = "Login failed. Please check your username and password."
	msgGenericError     = "An error occurred. Please try again."
	msgRegisterOK       = "Registration successful! You can now log in."
	msgNoExpenses       = "No expenses found. Upload a receipt to get started!"
	msgListFailed       = "Could not load expenses. Please try again later."
	msgUploadOK         = "Receipt uploaded successfully!"
	msgUploadFailed     = "Upload failed. Please try again."
	msgUploadError      = "An error occurred during upload."
	msgProcessing       = "Processing..."
	msgItemSaved        = "Item saved."
	msgItemSaveFailed   = "Could not save item. Please try again."
	msgItemDeleted      = "Item deleted."
	msgItemDeleteFailed = "Could not delete item. Please try again."
)
