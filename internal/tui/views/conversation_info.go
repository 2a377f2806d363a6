package views

import (
	"fmt"

	"github.com/matheus3301/svyazukha/internal/conversation"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationInfo displays detailed information about a conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// Hints implements Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// Update renders conversation details.
func (ci *ConversationInfo) Update(c conversation.Conversation) {
	ci.Clear()

	fg := colorTag(ci.theme.FgColor)
	ct := colorTag(ci.theme.CounterColor)

	status := "Offline"
	if c.IsOnline {
		status = "Online"
	}
	lastActive := c.LastActivityTime
	if lastActive == "" {
		lastActive = "-"
	}
	var mine, voice int
	for _, m := range c.Messages {
		if m.Sender == conversation.SenderSelf {
			mine++
		}
		if m.Kind == conversation.KindVoice {
			voice++
		}
	}

	name := tview.Escape(sanitizeForTerminal(c.DisplayName))
	text := fmt.Sprintf(
		"\n [%s::b]Name:[-:-:-]         [%s]%s %s[-]\n"+
			" [%s::b]ID:[-:-:-]           [%s]%s[-]\n"+
			" [%s::b]Status:[-:-:-]       [%s]%s[-]\n"+
			" [%s::b]Unread:[-:-:-]       [%s]%d[-]\n"+
			" [%s::b]Last Active:[-:-:-]  [%s]%s[-]\n"+
			" [%s::b]Last Message:[-:-:-] [%s]%s[-]\n"+
			" [%s::b]Messages:[-:-:-]     [%s]%d (%d sent, %d voice)[-]",
		fg, ct, avatar(c.AvatarGlyph), name,
		fg, ct, tview.Escape(string(c.ID)),
		fg, ct, status,
		fg, ct, c.UnreadCount,
		fg, ct, lastActive,
		fg, ct, tview.Escape(sanitizeForTerminal(c.LastMessagePreview)),
		fg, ct, len(c.Messages), mine, voice,
	)

	_, _ = fmt.Fprint(ci, text)
	ci.SetTitle(fmt.Sprintf(" %s Details ", name))
}
