package settings

import (
	"fmt"
	"sync"
	"time"

	"github.com/matheus3301/svyazukha/internal/bus"
)

// EventChanged is published on the bus whenever a toggle changes.
const EventChanged = "settings.changed"

// Key names a toggle.
type Key string

const (
	MessageSound  Key = "message_sound"
	CallSound     Key = "call_sound"
	Vibration     Key = "vibration"
	OnlineStatus  Key = "online_status"
	LastSeen      Key = "last_seen"
	ReadReceipts  Key = "read_receipts"
	VoiceMessages Key = "voice_messages"
	VideoCalls    Key = "video_calls"
	HDQuality     Key = "hd_quality"
)

// Item describes one toggle for display.
type Item struct {
	Key         Key
	Section     string
	Label       string
	Description string
	Enabled     bool
}

type definition struct {
	key         Key
	section     string
	label       string
	description string
	def         bool
}

var definitions = []definition{
	{MessageSound, "Notifications", "Message sound", "Play a sound when a message arrives", true},
	{CallSound, "Notifications", "Call sound", "Play a ringtone on incoming calls", true},
	{Vibration, "Notifications", "Vibration", "Vibrate on mobile devices", true},
	{OnlineStatus, "Privacy", "Online status", "Show when you are online", true},
	{LastSeen, "Privacy", "Last seen", "Show the time of your last activity", true},
	{ReadReceipts, "Privacy", "Read receipts", "Send read notifications", true},
	{VoiceMessages, "Media & calls", "Voice messages", "Allow recording voice messages", true},
	{VideoCalls, "Media & calls", "Video calls", "Allow video calls", true},
	{HDQuality, "Media & calls", "HD quality", "Use high quality for video", false},
}

// Defaults returns the initial value of every toggle.
func Defaults() map[Key]bool {
	m := make(map[Key]bool, len(definitions))
	for _, d := range definitions {
		m[d.key] = d.def
	}
	return m
}

// Change is the payload of EventChanged.
type Change struct {
	Key     Key
	Enabled bool
}

// Settings holds the toggle values. It is safe for concurrent use.
type Settings struct {
	mu     sync.RWMutex
	values map[Key]bool
	bus    *bus.Bus
}

// New creates settings from defaults overlaid with overrides. Unknown keys in
// overrides are rejected.
func New(overrides map[string]bool, b *bus.Bus) (*Settings, error) {
	values := Defaults()
	for k, v := range overrides {
		if _, ok := values[Key(k)]; !ok {
			return nil, fmt.Errorf("unknown setting %q", k)
		}
		values[Key(k)] = v
	}
	return &Settings{values: values, bus: b}, nil
}

// Enabled reports the current value of k. Unknown keys are off.
func (s *Settings) Enabled(k Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[k]
}

// Set changes the value of k.
func (s *Settings) Set(k Key, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.values[k]
	if !ok {
		return fmt.Errorf("unknown setting %q", k)
	}
	if cur == enabled {
		return nil
	}
	s.values[k] = enabled
	s.publish(k, enabled)
	return nil
}

// Toggle flips k and returns the new value.
func (s *Settings) Toggle(k Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.values[k]
	if !ok {
		return false, fmt.Errorf("unknown setting %q", k)
	}
	s.values[k] = !cur
	s.publish(k, !cur)
	return !cur, nil
}

// Items returns every toggle in display order.
func (s *Settings) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Item, len(definitions))
	for i, d := range definitions {
		items[i] = Item{
			Key:         d.key,
			Section:     d.section,
			Label:       d.label,
			Description: d.description,
			Enabled:     s.values[d.key],
		}
	}
	return items
}

// VoiceMessagesEnabled implements conversation.VoicePolicy.
func (s *Settings) VoiceMessagesEnabled() bool {
	return s.Enabled(VoiceMessages)
}

func (s *Settings) publish(k Key, enabled bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{
		Kind:      EventChanged,
		Timestamp: time.Now(),
		Payload:   Change{Key: k, Enabled: enabled},
	})
}
