package model

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matheus3301/svyazukha/internal/bus"
	"github.com/matheus3301/svyazukha/internal/config"
	"github.com/matheus3301/svyazukha/internal/conversation"
	"github.com/matheus3301/svyazukha/internal/roster"
	"github.com/matheus3301/svyazukha/internal/settings"
	"github.com/matheus3301/svyazukha/internal/tui/ui"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	vm    *ViewModel
	store *conversation.Store
	clock *clockwork.FakeClock
	bus   *bus.Bus
	ticks <-chan bus.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 21, 30, 0, 0, time.UTC))
	b := bus.New()
	st, err := settings.New(nil, b)
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)
	store := conversation.NewStore(conversation.Seed(), clock, st, b, logger)
	t.Cleanup(store.Close)

	ticks, unsub := b.Subscribe(16, conversation.EventRecordingTick)
	t.Cleanup(unsub)

	vm := NewViewModel(Deps{
		Store:    store,
		Settings: st,
		Roster:   roster.New(roster.Seed()),
		Profile:  config.Default().Profile,
		Bus:      b,
		Flash:    ui.NewFlashModel(clock),
		Logger:   logger,
	})
	return &fixture{vm: vm, store: store, clock: clock, bus: b, ticks: ticks}
}

func (f *fixture) tick(t *testing.T) {
	t.Helper()
	f.clock.Advance(conversation.TickInterval)
	select {
	case <-f.ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for recording tick")
	}
}

func TestOpenAndSend(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.vm.Open("anna"))
	require.True(t, f.vm.Send("Как дела?"))

	c, ok := f.vm.Selected()
	require.True(t, ok)
	require.Equal(t, "Как дела?", c.Messages[len(c.Messages)-1].Text)
	require.Equal(t, "21:30", c.LastActivityTime)
	require.Empty(t, f.vm.Draft())

	require.False(t, f.vm.Send("   "))
	require.Empty(t, f.vm.Flash.Get(), "empty sends stay quiet")
}

func TestSendWithoutSelectionFlashes(t *testing.T) {
	f := newFixture(t)
	require.False(t, f.vm.Send("hi"))
	require.Contains(t, f.vm.Flash.Get(), "no conversation selected")
}

func TestToggleRecording(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.vm.Open("olga"))

	require.True(t, f.vm.ToggleRecording())
	f.tick(t)
	f.tick(t)
	require.Equal(t, "0:02", f.vm.SessionData("main").Recording)

	require.True(t, f.vm.ToggleRecording())
	require.Contains(t, f.vm.Flash.Get(), "(2s)")

	c, _ := f.vm.Conversation("olga")
	require.Equal(t, conversation.VoicePreview, c.LastMessagePreview)
	require.Empty(t, f.vm.SessionData("main").Recording)
}

func TestToggleRecordingTooShort(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.vm.Open("olga"))
	require.True(t, f.vm.ToggleRecording())
	require.False(t, f.vm.ToggleRecording())
	require.Contains(t, f.vm.Flash.Get(), "too short")
}

func TestVoiceSettingGatesRecording(t *testing.T) {
	f := newFixture(t)
	f.vm.ToggleSetting(settings.VoiceMessages)
	require.True(t, f.vm.Open("anna"))
	require.False(t, f.vm.ToggleRecording())
	require.Contains(t, f.vm.Flash.Get(), "disabled")
}

func TestBackCancelsRecording(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.vm.Open("anna"))
	require.True(t, f.vm.ToggleRecording())
	f.tick(t)

	f.vm.Back()
	_, ok := f.vm.Selected()
	require.False(t, ok)
	require.Equal(t, conversation.Idle, f.vm.Recording().State)
	require.Equal(t, "Recording cancelled", f.vm.Flash.Get())

	c, _ := f.vm.Conversation("anna")
	require.Len(t, c.Messages, 3)
}

func TestOpenContact(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.vm.OpenContact("maxim"))
	require.Equal(t, conversation.ID("maxim"), f.store.SelectedID())

	require.False(t, f.vm.OpenContact("dmitry"))
	require.Contains(t, f.vm.Flash.Get(), "Дмитрий")

	require.False(t, f.vm.OpenContact("nobody"))
}

func TestOpenByName(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.vm.OpenByName("семья"))
	require.Equal(t, conversation.ID("family"), f.store.SelectedID())
	require.False(t, f.vm.OpenByName("Борис"))
}

func TestSearchNarrowsConversations(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, 1, f.vm.SetSearch("анна"))
	require.Len(t, f.vm.Conversations(), 1)
	require.Equal(t, 5, f.vm.SetSearch(""))
}

func TestSessionData(t *testing.T) {
	f := newFixture(t)
	d := f.vm.SessionData("main")
	require.Equal(t, "main", d.Session)
	require.Equal(t, "Иван Петров", d.Profile)
	require.True(t, d.Online)
	require.Equal(t, 5, d.Conversations)

	f.vm.ToggleSetting(settings.OnlineStatus)
	require.False(t, f.vm.SessionData("main").Online)
}

func TestRunSignalsRefresh(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.vm.Run(ctx)
		close(done)
	}()

	// Run subscribes asynchronously; keep publishing until a refresh arrives.
	deadline := time.After(2 * time.Second)
	for refreshed := false; !refreshed; {
		select {
		case <-f.vm.RefreshCh():
			refreshed = true
		case <-deadline:
			t.Fatal("timeout waiting for refresh")
		case <-time.After(10 * time.Millisecond):
			f.bus.Publish(bus.Event{Kind: settings.EventChanged})
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
