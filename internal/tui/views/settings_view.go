package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/svyazukha/internal/settings"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"github.com/rivo/tview"
)

// SettingsView is the settings tab: toggles grouped by section.
type SettingsView struct {
	*tview.Table
	theme *ui.Theme
	rows  map[int]settings.Key
}

// NewSettingsView creates the settings table.
func NewSettingsView(theme *ui.Theme) *SettingsView {
	table := tview.NewTable().
		SetSelectable(true, false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Settings ")
	table.SetTitleColor(theme.TitleColor)

	return &SettingsView{Table: table, theme: theme}
}

// Name implements Component.
func (sv *SettingsView) Name() string { return "Settings" }

// Hints implements Component.
func (sv *SettingsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Space", Description: "Toggle"},
	}
}

// Update renders items, starting a new section header whenever the section
// changes.
func (sv *SettingsView) Update(items []settings.Item) {
	selected := sv.SelectedKey()
	sv.Clear()
	sv.rows = make(map[int]settings.Key, len(items))

	row, section, first := 0, "", -1
	for _, item := range items {
		if item.Section != section {
			if section != "" {
				sv.SetCell(row, 0, tview.NewTableCell("").SetSelectable(false))
				row++
			}
			section = item.Section
			sv.SetCell(row, 0, tview.NewTableCell(" "+section).
				SetSelectable(false).
				SetTextColor(sv.theme.SectionColor).
				SetAttributes(tcell.AttrBold))
			sv.SetCell(row, 1, tview.NewTableCell("").SetSelectable(false))
			sv.SetCell(row, 2, tview.NewTableCell("").SetSelectable(false))
			row++
		}

		color := sv.theme.FgColor
		if item.Enabled {
			color = sv.theme.OnlineColor
		}
		sv.SetCell(row, 0, tview.NewTableCell("   "+checkbox(item.Enabled)).SetTextColor(color))
		sv.SetCell(row, 1, tview.NewTableCell(" "+item.Label).SetTextColor(sv.theme.FgColor))
		sv.SetCell(row, 2, tview.NewTableCell(" "+item.Description).SetExpansion(1).SetTextColor(tcell.ColorGray))
		sv.rows[row] = item.Key
		if first < 0 || item.Key == selected {
			first = row
		}
		row++
	}
	if first >= 0 {
		sv.Select(first, 0)
	}
}

// SelectedKey returns the toggle under the cursor.
func (sv *SettingsView) SelectedKey() settings.Key {
	row, _ := sv.GetSelection()
	return sv.rows[row]
}
