package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/svyazukha/internal/roster"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"github.com/rivo/tview"
)

// ContactsView is the contacts tab.
type ContactsView struct {
	*tview.Table
	theme    *ui.Theme
	contacts []roster.Contact
	filter   string
}

// NewContactsView creates the contacts table.
func NewContactsView(theme *ui.Theme) *ContactsView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Contacts ")
	table.SetTitleColor(theme.TitleColor)

	return &ContactsView{Table: table, theme: theme}
}

// Name implements Component.
func (cv *ContactsView) Name() string { return "Contacts" }

// Hints implements Component.
func (cv *ContactsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Message"},
		{Key: "/", Description: "Filter"},
	}
}

// Update replaces the listed contacts. filter is only shown in the title;
// the caller has already applied it.
func (cv *ContactsView) Update(contacts []roster.Contact, filter string) {
	cv.contacts = contacts
	cv.filter = filter
	cv.Clear()

	for col, h := range []string{" ", " NAME", " STATUS"} {
		cv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(cv.theme.TableHeaderFg).
			SetBackgroundColor(cv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(col))
	}

	online := 0
	for i, c := range contacts {
		row := i + 1
		dot := tview.NewTableCell(" ").SetTextColor(cv.theme.OnlineColor)
		if c.IsOnline {
			dot.SetText(" ●")
			online++
		}
		cv.SetCell(row, 0, dot)
		cv.SetCell(row, 1, tview.NewTableCell(" "+avatar(c.AvatarGlyph)+" "+tview.Escape(sanitizeForTerminal(c.DisplayName))).
			SetExpansion(1).SetTextColor(cv.theme.FgColor))
		cv.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(c.StatusLine)).
			SetExpansion(1).SetTextColor(cv.theme.FgColor))
	}

	if filter != "" {
		cv.SetTitle(fmt.Sprintf(" Contacts (%d) filter: %s ", len(contacts), tview.Escape(filter)))
	} else {
		cv.SetTitle(fmt.Sprintf(" Contacts (%d, %d online) ", len(contacts), online))
	}
}

// Filter returns the filter the list was rendered with.
func (cv *ContactsView) Filter() string {
	return cv.filter
}

// SelectedID returns the contact under the cursor.
func (cv *ContactsView) SelectedID() string {
	row, _ := cv.GetSelection()
	if row < 1 || row > len(cv.contacts) {
		return ""
	}
	return cv.contacts[row-1].ID
}
