package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

type helpSection struct {
	title string
	keys  [][2]string
}

var helpSections = []helpSection{
	{"Global", [][2]string{
		{"1-4", "Chats, contacts, profile, settings"},
		{":", "Command mode"},
		{"/", "Filter the current list"},
		{"Esc", "Cancel / go back"},
		{"?", "This help"},
		{"q", "Quit"},
	}},
	{"Chats & Contacts", [][2]string{
		{"Enter", "Open conversation"},
		{"0", "Clear filter and search"},
		{"j/k", "Move down / up"},
	}},
	{"Conversation", [][2]string{
		{"i", "Focus the composer"},
		{"Enter", "Send (in composer)"},
		{"Shift+Enter", "New line (in composer)"},
		{"Ctrl-R", "Start recording, press again to send"},
		{"Esc", "Leave composer, then close (cancels recording)"},
		{"d", "Conversation details"},
	}},
	{"Settings", [][2]string{
		{"Space", "Toggle the selected setting"},
	}},
	{"Commands", [][2]string{
		{":chat <name>", "Open a conversation by name"},
		{":search <text>", "Show chats matching text"},
		{":help", "This help"},
		{":quit", "Quit"},
	}},
}

func (hv *HelpView) render() {
	kc := colorTag(hv.theme.MenuKeyColor)

	var b strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, k := range s.keys {
			fmt.Fprintf(&b, "  [%s]%-16s[-:-:-] %s\n", kc, tview.Escape(k[0]), k[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
