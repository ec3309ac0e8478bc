package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shubho/expenseview/internal/api"
)

// loginForm is the landing view: username + password.
type loginForm struct {
	inputs [2]textinput.Model
	focus  int
	notice string
	busy   bool
}

func newLoginForm() loginForm {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 64
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	return loginForm{inputs: [2]textinput.Model{user, pass}}
}

func (f *loginForm) focusCmd() tea.Cmd {
	f.focus = 0
	f.inputs[1].Blur()
	return f.inputs[0].Focus()
}

func (f *loginForm) focusNext(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *loginForm) credentials() (username, password string, ok bool) {
	username = strings.TrimSpace(f.inputs[0].Value())
	password = f.inputs[1].Value()
	return username, password, username != "" && password != ""
}

func (a *App) handleLoginKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.login.busy {
		return a, nil
	}
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+r":
		// the "Register here" link of the landing page
		a.state = viewRegister
		a.status = ""
		return a, a.register.focusCmd()
	case "tab", "down":
		return a, a.login.focusNext(1)
	case "shift+tab", "up":
		return a, a.login.focusNext(-1)
	case "enter":
		username, password, ok := a.login.credentials()
		if !ok {
			a.login.notice = "Enter a username and password."
			return a, nil
		}
		a.login.busy = true
		a.login.notice = ""
		return a, a.loginCmd(username, password)
	}
	return a, a.login.update(m)
}

// registerForm mirrors loginForm but keeps its own notice, which can carry
// backend text verbatim.
type registerForm struct {
	inputs   [2]textinput.Model
	focus    int
	notice   string
	noticeOK bool
	busy     bool
}

func newRegisterForm() registerForm {
	l := newLoginForm()
	return registerForm{inputs: l.inputs}
}

func (f *registerForm) focusCmd() tea.Cmd {
	f.focus = 0
	f.inputs[1].Blur()
	return f.inputs[0].Focus()
}

func (f *registerForm) focusNext(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *registerForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (a *App) handleRegisterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.register.busy {
		return a, nil
	}
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		// back to the login view
		a.state = viewLogin
		return a, a.login.focusCmd()
	case "tab", "down":
		return a, a.register.focusNext(1)
	case "shift+tab", "up":
		return a, a.register.focusNext(-1)
	case "enter":
		username := strings.TrimSpace(a.register.inputs[0].Value())
		password := a.register.inputs[1].Value()
		if username == "" || password == "" {
			a.register.notice = "Enter a username and password."
			a.register.noticeOK = false
			return a, nil
		}
		a.register.busy = true
		a.register.notice = ""
		return a, a.registerCmd(username, password)
	}
	return a, a.register.update(m)
}

// editorMode tags which endpoint the save action uses. It is set exactly
// once per opening, so the POST/PUT choice is never ambiguous.
type editorMode string

const (
	editorCreate editorMode = "create"
	editorEdit   editorMode = "edit"
)

const (
	fieldName = iota
	fieldQuantity
	fieldPrice
	fieldCount
)

// itemEditor is the shared item dialog. One instance exists; openCreateEditor
// and openEditEditor reset it on every opening.
type itemEditor struct {
	mode      editorMode
	receiptID int64 // create target
	itemID    int64 // edit target
	title     string
	inputs    [fieldCount]textinput.Model
	focus     int
	notice    string
	busy      bool
}

func newItemEditor() itemEditor {
	name := textinput.New()
	name.Placeholder = "item name"
	name.CharLimit = 128
	qty := textinput.New()
	qty.Placeholder = "quantity"
	qty.CharLimit = 6
	price := textinput.New()
	price.Placeholder = "price"
	price.CharLimit = 12
	return itemEditor{inputs: [fieldCount]textinput.Model{name, qty, price}}
}

func (e *itemEditor) reset() {
	for i := range e.inputs {
		e.inputs[i].Reset()
		e.inputs[i].Blur()
	}
	e.mode = ""
	e.receiptID = 0
	e.itemID = 0
	e.title = ""
	e.focus = 0
	e.notice = ""
	e.busy = false
}

func (e *itemEditor) focusCmd() tea.Cmd {
	e.focus = 0
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
	return e.inputs[0].Focus()
}

func (e *itemEditor) focusNext(delta int) tea.Cmd {
	e.inputs[e.focus].Blur()
	e.focus = (e.focus + delta + fieldCount) % fieldCount
	return e.inputs[e.focus].Focus()
}

func (e *itemEditor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return cmd
}

// payload parses and validates the entered fields. Invalid input never
// reaches the network; the notice explains what to fix.
func (e *itemEditor) payload() (api.ItemInput, bool) {
	name := strings.TrimSpace(e.inputs[fieldName].Value())
	if name == "" {
		e.notice = "Item name is required."
		return api.ItemInput{}, false
	}
	qty, err := strconv.Atoi(strings.TrimSpace(e.inputs[fieldQuantity].Value()))
	if err != nil || qty <= 0 {
		e.notice = "Quantity must be a positive whole number."
		return api.ItemInput{}, false
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(e.inputs[fieldPrice].Value()), 64)
	if err != nil || price < 0 {
		e.notice = "Price must be a non-negative number."
		return api.ItemInput{}, false
	}
	return api.ItemInput{ItemName: name, Quantity: qty, Price: price}, true
}

func (a *App) openCreateEditor(receiptID int64, storeName string) {
	a.editor.reset()
	a.editor.mode = editorCreate
	a.editor.receiptID = receiptID
	a.editor.title = "Add item: " + storeName
	a.modal = modalItemEditor
}

func (a *App) openEditEditor(it api.Item) {
	a.editor.reset()
	a.editor.mode = editorEdit
	a.editor.itemID = it.ID
	a.editor.title = "Edit item"
	a.editor.inputs[fieldName].SetValue(it.ItemName)
	a.editor.inputs[fieldQuantity].SetValue(strconv.Itoa(it.Quantity))
	a.editor.inputs[fieldPrice].SetValue(strconv.FormatFloat(it.Price, 'f', 2, 64))
	a.modal = modalItemEditor
}

// uploadForm holds the receipt image path. The path survives a failed upload
// so the user can retry.
type uploadForm struct {
	path   textinput.Model
	notice string
	busy   bool
}

func newUploadForm() uploadForm {
	path := textinput.New()
	path.Placeholder = "path to receipt image"
	path.CharLimit = 256
	return uploadForm{path: path}
}

func (f *uploadForm) reset() {
	f.path.Reset()
	f.path.Blur()
	f.notice = ""
	f.busy = false
}

func (f *uploadForm) focusCmd() tea.Cmd {
	return f.path.Focus()
}

func (f *uploadForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.path, cmd = f.path.Update(msg)
	return cmd
}

func (f *uploadForm) selected() (string, bool) {
	path := strings.TrimSpace(f.path.Value())
	if path == "" {
		f.notice = "Choose an image file first."
		return "", false
	}
	return path, true
}
