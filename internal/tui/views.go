package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/shubho/expenseview/internal/expense"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	dateStyle      = lipgloss.NewStyle().Bold(true)
	savingsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 2)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 2)
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Upload  key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "move")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("", "")),
		Toggle:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/collapse")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit item")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete item")),
		Upload:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload receipt")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Logout:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logout")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) dashboardHelp() []key.Binding {
	return []key.Binding{k.Up, k.Toggle, k.Add, k.Edit, k.Delete, k.Upload, k.Refresh, k.Logout, k.Quit}
}

func (a *App) View() string {
	switch a.state {
	case viewLogin:
		return a.renderLogin()
	case viewRegister:
		return a.renderRegister()
	default:
		return a.renderDashboard()
	}
}

func (a *App) renderLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Expense Tracker - Sign In"))
	b.WriteString("\n\n")
	b.WriteString("Username: " + a.login.inputs[0].View() + "\n")
	b.WriteString("Password: " + a.login.inputs[1].View() + "\n")
	if a.login.busy {
		b.WriteString("\n" + statusStyle.Render("Signing in..."))
	}
	if a.login.notice != "" {
		b.WriteString("\n" + errorStyle.Render(a.login.notice))
	}
	b.WriteString("\n\n" + mutedStyle.Render("No account? Press ctrl+r to register."))
	b.WriteString("\n" + renderHelp([]key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
		key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}))
	return b.String()
}

func (a *App) renderRegister() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Expense Tracker - Register"))
	b.WriteString("\n\n")
	b.WriteString("Username: " + a.register.inputs[0].View() + "\n")
	b.WriteString("Password: " + a.register.inputs[1].View() + "\n")
	if a.register.busy {
		b.WriteString("\n" + statusStyle.Render("Registering..."))
	}
	if a.register.notice != "" {
		style := errorStyle
		if a.register.noticeOK {
			style = successStyle
		}
		b.WriteString("\n" + style.Render(a.register.notice))
	}
	b.WriteString("\n\n" + renderHelp([]key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "register")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to sign in")),
	}))
	return b.String()
}

func (a *App) renderDashboard() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("My Expenses"))
	b.WriteString("\n\n")

	switch {
	case a.listErr:
		b.WriteString(errorStyle.Render(msgListFailed))
	case len(a.receipts) == 0:
		b.WriteString(mutedStyle.Render(msgNoExpenses))
	default:
		b.WriteString(a.renderAccordion())
	}

	if a.status != "" {
		b.WriteString("\n\n" + statusBarStyle.Render(a.status))
	}
	b.WriteString("\n" + footerStyle.Render(renderHelp(a.keys.dashboardHelp())))

	if a.modal != modalNone {
		b.WriteString("\n\n" + a.renderModal())
	}
	return b.String()
}

// renderAccordion walks the groups in first-appearance order, mirroring the
// flattened row list so the cursor marker lands on the right line.
func (a *App) renderAccordion() string {
	var b strings.Builder
	idx := 0
	marker := func(i int) string {
		if i == a.cursor {
			return "▶ "
		}
		return "  "
	}
	for gi, g := range a.groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		chevron := "▾"
		if a.collapsed[g.Date] {
			chevron = "▸"
		}
		header := fmt.Sprintf("%s %s  %s", chevron, g.Date,
			mutedStyle.Render(fmt.Sprintf("(%d receipts, %d items)", len(g.Receipts), g.ItemCount())))
		b.WriteString(marker(idx) + dateStyle.Render(header) + "\n")
		idx++
		if a.collapsed[g.Date] {
			continue
		}
		for _, rec := range g.Receipts {
			line := fmt.Sprintf("%s (Total: %s)", rec.StoreName, expense.Money(a.currency, rec.TotalAmount))
			b.WriteString(marker(idx) + "  " + line + "\n")
			idx++
			if rec.TotalDiscount > 0 {
				b.WriteString("      " + savingsStyle.Render("Savings: "+expense.Savings(a.currency, rec.TotalDiscount)) + "\n")
			}
			for _, it := range rec.Items {
				itemLine := fmt.Sprintf("- %d x %s (%s)", it.Quantity, it.ItemName, expense.Money(a.currency, it.Price))
				b.WriteString(marker(idx) + "    " + itemLine + "\n")
				idx++
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalItemEditor:
		var b strings.Builder
		b.WriteString(titleStyle.Render(a.editor.title) + "\n")
		b.WriteString("Name:     " + a.editor.inputs[fieldName].View() + "\n")
		b.WriteString("Quantity: " + a.editor.inputs[fieldQuantity].View() + "\n")
		b.WriteString("Price:    " + a.editor.inputs[fieldPrice].View() + "\n")
		if a.editor.busy {
			b.WriteString(statusStyle.Render("Saving...") + "\n")
		}
		if a.editor.notice != "" {
			b.WriteString(errorStyle.Render(a.editor.notice) + "\n")
		}
		b.WriteString(mutedStyle.Render("[enter] Save  [tab] Next field  [esc] Cancel"))
		return modalStyle.Render(b.String())

	case modalConfirmDelete:
		body := titleStyle.Render("Delete item?") + "\n" +
			a.deleteRef + "\n" +
			mutedStyle.Render("[y] Yes  [n] No")
		return modalStyle.Render(body)

	case modalUpload:
		var b strings.Builder
		b.WriteString(titleStyle.Render("Upload Receipt") + "\n")
		b.WriteString("Image: " + a.upload.path.View() + "\n")
		if a.upload.busy {
			b.WriteString(statusStyle.Render(msgProcessing) + "\n")
		}
		if a.upload.notice != "" {
			b.WriteString(errorStyle.Render(a.upload.notice) + "\n")
		}
		b.WriteString(mutedStyle.Render("[enter] Upload  [esc] Cancel"))
		return modalStyle.Render(b.String())
	}
	return ""
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, boldKey(help.Key)+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}

func boldKey(text string) string {
	if text == "" {
		return ""
	}
	return "\x1b[1m" + text + "\x1b[22m"
}
