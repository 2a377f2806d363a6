package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// SessionData holds what the header shows about the running session.
type SessionData struct {
	Session       string
	Profile       string
	Online        bool
	Conversations int
	Unread        int
	// Recording is the elapsed label of the current take, or "" while idle.
	Recording string
}

// SessionInfo displays session metadata in the header.
type SessionInfo struct {
	*tview.TextView
	theme *Theme
}

// NewSessionInfo creates a new session info panel.
func NewSessionInfo(theme *Theme) *SessionInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &SessionInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the session info.
func (si *SessionInfo) Update(data *SessionData) {
	si.Clear()
	if data == nil {
		return
	}

	fgColor := colorName(si.theme.FgColor)
	counterColor := colorName(si.theme.CounterColor)

	status := fmt.Sprintf("[%s]● online[-]", colorName(si.theme.OnlineColor))
	if !data.Online {
		status = "[gray]○ hidden[-]"
	}
	rec := "-"
	if data.Recording != "" {
		rec = fmt.Sprintf("[%s::b]● REC %s[-:-:-]", colorName(si.theme.RecordingColor), data.Recording)
	}

	text := fmt.Sprintf(
		"[%s::b]Session:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Profile:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Status:[-:-:-]  %s\n"+
			"[%s::b]Chats:[-:-:-]   [%s]%d[-]\n"+
			"[%s::b]Unread:[-:-:-]  [%s]%d[-]\n"+
			"[%s::b]Voice:[-:-:-]   %s",
		fgColor, counterColor, tview.Escape(data.Session),
		fgColor, counterColor, tview.Escape(data.Profile),
		fgColor, status,
		fgColor, counterColor, data.Conversations,
		fgColor, counterColor, data.Unread,
		fgColor, rec,
	)

	_, _ = fmt.Fprint(si, text)
}

// FormatElapsed renders seconds as M:SS.
func FormatElapsed(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
