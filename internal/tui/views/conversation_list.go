package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/svyazukha/internal/conversation"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationList is the chats tab.
type ConversationList struct {
	*tview.Table
	theme   *ui.Theme
	chats   []conversation.Conversation
	visible []conversation.ID
	filter  string
	search  string
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Chats ")
	table.SetTitleColor(theme.TitleColor)

	return &ConversationList{
		Table: table,
		theme: theme,
	}
}

// Name implements Component.
func (cl *ConversationList) Name() string { return "Chats" }

// Hints implements Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: "0", Description: "Reset", Numeric: true},
	}
}

// Update refreshes the list. search is the active :search query, shown in
// the title.
func (cl *ConversationList) Update(chats []conversation.Conversation, search string) {
	selected := cl.SelectedID()
	cl.chats = chats
	cl.search = search
	cl.render()
	cl.Highlight(selected)
}

// SetFilter sets the active filter text and re-renders.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
	cl.Select(1, 0)
}

// ClearFilter clears the active filter.
func (cl *ConversationList) ClearFilter() {
	cl.SetFilter("")
}

// Filter returns the active filter.
func (cl *ConversationList) Filter() string {
	return cl.filter
}

func (cl *ConversationList) render() {
	cl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" ", 0},
		{" NAME", 1},
		{" LAST MESSAGE", 2},
		{" TIME", 0},
		{" NEW", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		cl.SetCell(0, col, cell)
	}

	cl.visible = cl.visible[:0]
	row := 1
	for _, c := range cl.chats {
		if !c.Matches(cl.filter) {
			continue
		}
		cl.visible = append(cl.visible, c.ID)

		dot := tview.NewTableCell(" ").SetTextColor(cl.theme.OnlineColor)
		if c.IsOnline {
			dot.SetText(" ●")
		}
		unread := tview.NewTableCell("").SetTextColor(cl.theme.UnreadColor).SetAlign(tview.AlignRight)
		if c.UnreadCount > 0 {
			unread.SetText(fmt.Sprintf("%d ", c.UnreadCount))
		}
		name := avatar(c.AvatarGlyph) + " " + tview.Escape(sanitizeForTerminal(c.DisplayName))

		cl.SetCell(row, 0, dot)
		cl.SetCell(row, 1, tview.NewTableCell(" "+name).SetExpansion(1).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(firstLine(c.LastMessagePreview)))).SetExpansion(2).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 3, tview.NewTableCell(c.LastActivityTime+" ").SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
		cl.SetCell(row, 4, unread)
		row++
	}

	title := fmt.Sprintf(" Chats (%d) ", len(cl.chats))
	switch {
	case cl.filter != "":
		title = fmt.Sprintf(" Chats (%d/%d) filter: %s ", len(cl.visible), len(cl.chats), tview.Escape(cl.filter))
	case cl.search != "":
		title = fmt.Sprintf(" Chats (%d) search: %s ", len(cl.chats), tview.Escape(cl.search))
	}
	cl.SetTitle(title)
}

// SelectedID returns the conversation under the cursor.
func (cl *ConversationList) SelectedID() conversation.ID {
	row, _ := cl.GetSelection()
	return cl.IDByIndex(row)
}

// IDByIndex returns the Nth visible conversation (1-based).
func (cl *ConversationList) IDByIndex(n int) conversation.ID {
	if n < 1 || n > len(cl.visible) {
		return ""
	}
	return cl.visible[n-1]
}

// Highlight moves the cursor to id if it is visible.
func (cl *ConversationList) Highlight(id conversation.ID) {
	for i, v := range cl.visible {
		if v == id {
			cl.Select(i+1, 0)
			return
		}
	}
}
