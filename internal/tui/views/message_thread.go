package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/svyazukha/internal/conversation"
	"github.com/matheus3301/svyazukha/internal/tui/keys"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread displays the open conversation, a recording indicator and a
// multi-line composer.
type MessageThread struct {
	*tview.Flex
	theme     *ui.Theme
	messages  *tview.TextView
	indicator *tview.TextView
	composer  *tview.TextArea
	chatName  string
	chatID    conversation.ID
	onSend    func(text string)
	onDraft   func(text string)
	syncing   bool
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	indicator := tview.NewTextView().
		SetDynamicColors(true)
	indicator.SetBackgroundColor(theme.BgColor)

	composer := tview.NewTextArea().
		SetPlaceholder("Write a message… (Enter to send, Shift+Enter for a new line)")
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetTextStyle(tcell.StyleDefault.Foreground(theme.FgColor).Background(theme.BgColor))
	composer.SetPlaceholderStyle(tcell.StyleDefault.Foreground(tcell.ColorGray).Background(theme.BgColor))
	composer.SetTitle(" Compose (i to focus) ")
	composer.SetTitleColor(theme.TitleColor)
	composer.SetTitleAlign(tview.AlignLeft)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(indicator, 1, 0, false).
		AddItem(composer, 5, 0, false)

	mt := &MessageThread{
		Flex:      flex,
		theme:     theme,
		messages:  messages,
		indicator: indicator,
		composer:  composer,
	}

	composer.SetChangedFunc(func() {
		if !mt.syncing && mt.onDraft != nil {
			mt.onDraft(composer.GetText())
		}
	})
	composer.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case keys.IsSubmit(event):
			if mt.onSend != nil {
				mt.onSend(composer.GetText())
			}
			return nil
		case keys.IsNewline(event):
			return tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)
		}
		return event
	})

	mt.renderIndicator(conversation.RecordingStatus{State: conversation.Idle})
	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.chatName != "" {
		return mt.chatName
	}
	return "Messages"
}

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "Ctrl-R", Description: "Voice"},
		{Key: "d", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnSend sets the callback for Enter in the composer.
func (mt *MessageThread) SetOnSend(fn func(text string)) {
	mt.onSend = fn
}

// SetOnDraft sets the callback fired when the user edits the composer.
func (mt *MessageThread) SetOnDraft(fn func(text string)) {
	mt.onDraft = fn
}

// ChatID returns the conversation on screen.
func (mt *MessageThread) ChatID() conversation.ID {
	return mt.chatID
}

// Update renders c. The composer is overwritten only when the store's draft
// differs from it, so typing is never disturbed by a redraw.
func (mt *MessageThread) Update(c conversation.Conversation, draft string, rec conversation.RecordingStatus) {
	mt.chatID = c.ID
	mt.chatName = sanitizeForTerminal(c.DisplayName)

	status := "[gray]offline[-]"
	if c.IsOnline {
		status = fmt.Sprintf("[%s]online[-]", colorTag(mt.theme.OnlineColor))
	}
	mt.messages.SetTitle(fmt.Sprintf(" %s %s · %s ", avatar(c.AvatarGlyph), tview.Escape(mt.chatName), status))

	mt.messages.Clear()
	if len(c.Messages) == 0 {
		_, _ = fmt.Fprint(mt.messages, "\n  [gray]No messages yet. Say hello![-]")
	}
	for _, m := range c.Messages {
		_, _ = fmt.Fprint(mt.messages, mt.formatMessage(c, m))
	}
	mt.messages.ScrollToEnd()

	if mt.composer.GetText() != draft {
		mt.syncing = true
		mt.composer.SetText(draft, true)
		mt.syncing = false
	}
	mt.renderIndicator(rec)
}

func (mt *MessageThread) formatMessage(c conversation.Conversation, m conversation.Message) string {
	sender := sanitizeForTerminal(c.DisplayName)
	color := mt.theme.PeerColor
	align := ""
	if m.Sender == conversation.SenderSelf {
		sender = "You"
		color = mt.theme.SelfColor
		align = "  "
	}
	body := tview.Escape(sanitizeForTerminal(m.Text))
	if m.Kind == conversation.KindVoice {
		body = fmt.Sprintf("[::i]%s[::-]", body)
	}
	body = strings.ReplaceAll(body, "\n", "\n"+align)
	return fmt.Sprintf("%s[%s::b]%s[-:-:-] [::d]%s[-:-:-]\n%s%s\n\n",
		align, colorTag(color), tview.Escape(sender), m.TimeLabel, align, body)
}

func (mt *MessageThread) renderIndicator(rec conversation.RecordingStatus) {
	mt.indicator.Clear()
	if rec.State == conversation.Recording {
		_, _ = fmt.Fprintf(mt.indicator, " [%s::b]● REC %s[-:-:-]  Ctrl-R to send · Esc to cancel",
			colorTag(mt.theme.RecordingColor), ui.FormatElapsed(rec.ElapsedSeconds))
		return
	}
	_, _ = fmt.Fprintf(mt.indicator, " [%s]Ctrl-R[-] record a voice message", colorTag(mt.theme.MenuKeyColor))
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer (for focus management).
func (mt *MessageThread) Composer() *tview.TextArea {
	return mt.composer
}
