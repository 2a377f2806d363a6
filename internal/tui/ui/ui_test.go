package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestPagesStack(t *testing.T) {
	p := NewPages()
	var last []string
	p.SetOnChange(func(stack []string) { last = stack })

	p.Reset("chats")
	p.Push("thread")
	p.Push("thread")
	p.Push("details")

	if got := strings.Join(p.Stack(), ">"); got != "chats>thread>details" {
		t.Fatalf("stack = %s", got)
	}
	if !p.Contains("thread") || p.Contains("help") {
		t.Error("Contains() mismatch")
	}
	if top := p.Pop(); top != "details" {
		t.Errorf("Pop() = %q, want details", top)
	}
	p.Pop()
	if top := p.Pop(); top != "" {
		t.Errorf("Pop() on the last page = %q, want empty", top)
	}
	if p.Current() != "chats" || p.Depth() != 1 {
		t.Errorf("current = %q depth = %d", p.Current(), p.Depth())
	}
	if strings.Join(last, ">") != "chats" {
		t.Errorf("onChange saw %v", last)
	}

	p.Push("thread")
	p.Reset("settings")
	if got := p.Stack(); len(got) != 1 || got[0] != "settings" {
		t.Errorf("Reset() stack = %v", got)
	}
}

func TestFlashExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := NewFlashModel(clock)

	if f.GetMessage() != nil {
		t.Fatal("new flash model should be empty")
	}

	f.Info("Message sent")
	if got := f.Get(); got != "Message sent" {
		t.Errorf("Get() = %q", got)
	}
	select {
	case m := <-f.Watch():
		if m.Level != FlashInfo {
			t.Errorf("level = %v, want info", m.Level)
		}
	default:
		t.Error("Watch() did not receive the message")
	}

	clock.Advance(3 * time.Second)
	if got := f.Get(); got != "" {
		t.Errorf("Get() after expiry = %q, want empty", got)
	}

	f.Err(errors.New("boom"))
	clock.Advance(7 * time.Second)
	if m := f.GetMessage(); m == nil || m.Level != FlashErr {
		t.Errorf("error flash = %+v, want level err still shown", m)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{7, "0:07"},
		{65, "1:05"},
		{600, "10:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.seconds); got != tt.want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
