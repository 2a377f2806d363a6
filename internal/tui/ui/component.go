package ui

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // true for 0-9 shortcuts (displayed in a different color)
}

// Component is implemented by every page the app can show.
type Component interface {
	// Name is the breadcrumb label.
	Name() string
	// Hints are the page's own shortcuts; global ones are appended by the app.
	Hints() []MenuHint
}
