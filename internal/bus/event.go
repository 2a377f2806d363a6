package bus

import "time"

// Event is a domain event published on the bus. Kind is namespaced with a
// dot, e.g. "conversation.selected" or "recording.tick".
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Namespace returns the part of Kind before the first dot.
func (e Event) Namespace() string {
	for i := 0; i < len(e.Kind); i++ {
		if e.Kind[i] == '.' {
			return e.Kind[:i]
		}
	}
	return e.Kind
}
