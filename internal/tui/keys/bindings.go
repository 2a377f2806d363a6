package keys

import (
	"slices"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
)

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Mod         tcell.ModMask
	Label       string
	Description string
	Handler     func()
	Visible     bool
}

// Matches returns true if the event matches this action. A control key with
// Mod set also matches when the terminal reports it as its letter plus the
// modifier.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		if ev.Key() == a.Key {
			return true
		}
		return a.Mod != 0 && ev.Key() == tcell.KeyRune &&
			unicode.ToLower(ev.Rune()) == a.Rune && ev.Modifiers()&a.Mod != 0
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune &&
		ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0
}

// Registry holds keybindings organized by scope. Bindings keep their
// registration order so hints render predictably.
type Registry struct {
	global []*Action
	views  map[string][]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[string][]*Action),
	}
}

// AddGlobal registers a global keybinding.
func (r *Registry) AddGlobal(action *Action) {
	r.global = append(r.global, action)
}

// AddView registers a view-specific keybinding.
func (r *Registry) AddView(view string, action *Action) {
	r.views[view] = append(r.views[view], action)
}

// Hints returns the visible bindings for a view, view bindings first.
func (r *Registry) Hints(view string) []ui.MenuHint {
	var hints []ui.MenuHint
	for _, a := range slices.Concat(r.views[view], r.global) {
		if a.Visible {
			hints = append(hints, ui.MenuHint{Key: a.Label, Description: a.Description, Numeric: isDigit(a)})
		}
	}
	return hints
}

// HandleEvent dispatches a key event to the matching action in the given
// view, falling back to global bindings. Returns true if a handler matched.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	for _, a := range r.views[view] {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	for _, a := range r.global {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	return false
}

// IsSubmit reports whether ev sends the composer contents: a bare Enter.
func IsSubmit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEnter && ev.Modifiers()&(tcell.ModShift|tcell.ModAlt) == 0
}

// IsNewline reports whether ev inserts a line break in the composer.
func IsNewline(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEnter && ev.Modifiers()&(tcell.ModShift|tcell.ModAlt) != 0
}

func isDigit(a *Action) bool {
	return a.Key == tcell.KeyRune && a.Rune >= '0' && a.Rune <= '9'
}
