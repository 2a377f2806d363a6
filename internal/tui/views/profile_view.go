package views

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/matheus3301/svyazukha/internal/config"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"github.com/rivo/tview"
)

// ProfileView is the profile tab: the user's card and a share code.
type ProfileView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewProfileView creates a new profile view.
func NewProfileView(theme *ui.Theme) *ProfileView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Profile ")
	tv.SetTitleColor(theme.TitleColor)

	return &ProfileView{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (pv *ProfileView) Name() string { return "Profile" }

// Hints implements Component.
func (pv *ProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "j/k", Description: "Scroll"},
	}
}

// ShareLink is what the profile QR code encodes.
func ShareLink(handle string) string {
	return "svyazukha://u/" + handle
}

// Update renders the card. online comes from the online-status setting.
func (pv *ProfileView) Update(p config.Profile, online bool) {
	pv.Clear()

	fg := colorTag(pv.theme.FgColor)
	ct := colorTag(pv.theme.CounterColor)
	status := fmt.Sprintf("[%s]● online[-]", colorTag(pv.theme.OnlineColor))
	if !online {
		status = "[gray]○ online status hidden[-]"
	}

	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return fmt.Sprintf("  [%s::b]%-8s[-:-:-] [%s]%s[-]\n", fg, label, ct, tview.Escape(value))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  [%s::b]%s[-:-:-]  %s\n", ct, tview.Escape(p.Name), status)
	fmt.Fprintf(&b, "  [gray]@%s[-]\n\n", tview.Escape(p.Handle))
	if p.About != "" {
		fmt.Fprintf(&b, "  %s\n\n", tview.Escape(sanitizeForTerminal(p.About)))
	}
	b.WriteString(field("Email", p.Email))
	b.WriteString(field("Phone", p.Phone))
	b.WriteString(field("Joined", p.Joined))

	if p.Handle != "" {
		link := ShareLink(p.Handle)
		fmt.Fprintf(&b, "\n  Scan to start a chat with me:\n\n%s\n  [gray]%s[-]\n", renderQR(link), tview.Escape(link))
	}

	_, _ = fmt.Fprint(pv, b.String())
	pv.ScrollToBeginning()
}

// renderQR converts a string to a compact QR code using Unicode half-block
// characters, two modules per character cell.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
