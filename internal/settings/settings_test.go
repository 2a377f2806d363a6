package settings

import (
	"testing"
	"time"

	"github.com/matheus3301/svyazukha/internal/bus"
)

func TestDefaults(t *testing.T) {
	s, err := New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range s.Items() {
		want := item.Key != HDQuality
		if item.Enabled != want {
			t.Errorf("%s enabled = %v, want %v", item.Key, item.Enabled, want)
		}
	}
	if len(s.Items()) != 9 {
		t.Errorf("got %d items, want 9", len(s.Items()))
	}
}

func TestOverrides(t *testing.T) {
	s, err := New(map[string]bool{"voice_messages": false, "hd_quality": true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.VoiceMessagesEnabled() {
		t.Error("voice messages should be disabled by override")
	}
	if !s.Enabled(HDQuality) {
		t.Error("hd quality should be enabled by override")
	}
}

func TestUnknownOverride(t *testing.T) {
	if _, err := New(map[string]bool{"dark_mode": true}, nil); err == nil {
		t.Error("New() expected error for unknown key")
	}
}

func TestToggleAndSet(t *testing.T) {
	s, _ := New(nil, nil)

	got, err := s.Toggle(Vibration)
	if err != nil {
		t.Fatal(err)
	}
	if got || s.Enabled(Vibration) {
		t.Error("Toggle(vibration) should turn it off")
	}

	if err := s.Set(Vibration, true); err != nil {
		t.Fatal(err)
	}
	if !s.Enabled(Vibration) {
		t.Error("Set(vibration, true) did not stick")
	}

	if _, err := s.Toggle("nope"); err == nil {
		t.Error("Toggle(unknown) expected error")
	}
	if err := s.Set("nope", true); err == nil {
		t.Error("Set(unknown) expected error")
	}
}

func TestChangePublishesEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe(4, "settings.")
	defer unsub()

	s, _ := New(nil, b)
	// Setting the current value is not a change.
	if err := s.Set(OnlineStatus, true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Toggle(OnlineStatus); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		change, ok := evt.Payload.(Change)
		if !ok {
			t.Fatalf("payload type = %T, want Change", evt.Payload)
		}
		if change.Key != OnlineStatus || change.Enabled {
			t.Errorf("change = %+v, want online_status off", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for settings.changed")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected extra event %+v", evt)
	default:
	}
}
