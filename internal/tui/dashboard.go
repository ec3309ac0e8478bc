package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) handleDashboardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "r":
		a.status = ""
		return a, a.refresh()
	case "u":
		a.modal = modalUpload
		a.upload.notice = ""
		a.status = ""
		return a, a.upload.focusCmd()
	case "l":
		return a, a.logoutCmd()
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.rows)-1 {
			a.cursor++
		}
	case "enter", " ":
		if r, ok := a.current(); ok && r.kind == rowDateHeader {
			date := a.groups[r.group].Date
			a.collapsed[date] = !a.collapsed[date]
			a.rebuild()
		}
	case "a":
		if r, ok := a.current(); ok && r.kind != rowDateHeader {
			if rec := a.receiptAt(r); rec != nil {
				a.openCreateEditor(rec.ID, rec.StoreName)
				return a, a.editor.focusCmd()
			}
		}
	case "e":
		if r, ok := a.current(); ok && r.kind == rowItem {
			if it := a.itemAt(r); it != nil {
				// prefill from the snapshot, not a re-fetch
				a.openEditEditor(*it)
				return a, a.editor.focusCmd()
			}
		}
	case "x", "backspace", "delete":
		if r, ok := a.current(); ok && r.kind == rowItem {
			if it := a.itemAt(r); it != nil {
				a.modal = modalConfirmDelete
				a.deleteID = it.ID
				a.deleteRef = fmt.Sprintf("%d x %s", it.Quantity, it.ItemName)
			}
		}
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y", "enter":
			id := a.deleteID
			a.modal = modalNone
			a.deleteID = 0
			a.deleteRef = ""
			return a, a.deleteItemCmd(id)
		case "n", "N", "esc":
			a.modal = modalNone
			a.deleteID = 0
			a.deleteRef = ""
		}
		return a, nil

	case modalItemEditor:
		if a.editor.busy {
			return a, nil
		}
		switch m.String() {
		case "esc":
			a.modal = modalNone
			a.editor.reset()
			return a, nil
		case "tab", "down":
			return a, a.editor.focusNext(1)
		case "shift+tab", "up":
			return a, a.editor.focusNext(-1)
		case "enter":
			input, ok := a.editor.payload()
			if !ok {
				return a, nil
			}
			a.editor.busy = true
			a.editor.notice = ""
			if a.editor.mode == editorCreate {
				return a, a.createItemCmd(a.editor.receiptID, input)
			}
			return a, a.updateItemCmd(a.editor.itemID, input)
		}
		return a, a.editor.update(m)

	case modalUpload:
		if a.upload.busy {
			return a, nil
		}
		switch m.String() {
		case "esc":
			a.modal = modalNone
			return a, nil
		case "enter":
			path, ok := a.upload.selected()
			if !ok {
				return a, nil
			}
			a.upload.busy = true
			a.upload.notice = ""
			return a, a.uploadCmd(path)
		}
		return a, a.upload.update(m)
	}
	return a, nil
}
