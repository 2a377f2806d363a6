package roster

import "strings"

// Contact is an entry in the address book.
type Contact struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	AvatarGlyph string `json:"avatar"`
	StatusLine  string `json:"status"`
	IsOnline    bool   `json:"online"`
}

// Roster is a read-only contact list.
type Roster struct {
	contacts []Contact
}

// New creates a roster over contacts, keeping their order.
func New(contacts []Contact) *Roster {
	c := make([]Contact, len(contacts))
	copy(c, contacts)
	return &Roster{contacts: c}
}

// Seed returns the built-in contact list.
func Seed() []Contact {
	return []Contact{
		{ID: "anna", DisplayName: "Анна Смирнова", AvatarGlyph: "👩", StatusLine: "В сети", IsOnline: true},
		{ID: "maxim", DisplayName: "Максим Иванов", AvatarGlyph: "👨", StatusLine: "Был недавно", IsOnline: true},
		{ID: "olga", DisplayName: "Ольга Петрова", AvatarGlyph: "👩‍💼", StatusLine: "В сети", IsOnline: true},
		{ID: "dmitry", DisplayName: "Дмитрий Козлов", AvatarGlyph: "👨‍💻", StatusLine: "Не в сети"},
		{ID: "elena", DisplayName: "Елена Волкова", AvatarGlyph: "👩‍🎓", StatusLine: "Не в сети"},
	}
}

// List returns all contacts.
func (r *Roster) List() []Contact {
	out := make([]Contact, len(r.contacts))
	copy(out, r.contacts)
	return out
}

// Get returns the contact with the given id.
func (r *Roster) Get(id string) (Contact, bool) {
	for _, c := range r.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}

// Search returns contacts whose name or status line contains query, ignoring case.
func (r *Roster) Search(query string) []Contact {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []Contact
	for _, c := range r.contacts {
		if query == "" ||
			strings.Contains(strings.ToLower(c.DisplayName), query) ||
			strings.Contains(strings.ToLower(c.StatusLine), query) {
			out = append(out, c)
		}
	}
	return out
}

// Online counts contacts that are currently online.
func (r *Roster) Online() int {
	n := 0
	for _, c := range r.contacts {
		if c.IsOnline {
			n++
		}
	}
	return n
}
