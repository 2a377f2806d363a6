package conversation

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/matheus3301/svyazukha/internal/bus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

type fixture struct {
	store  *Store
	clock  fakeClock
	bus    *bus.Bus
	ticks  <-chan bus.Event
	policy *togglePolicy
}

type togglePolicy struct {
	mu      sync.Mutex
	enabled bool
}

func (p *togglePolicy) VoiceMessagesEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func newFixture(t *testing.T, seed []Conversation) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC))
	b := bus.New()
	ticks, unsub := b.Subscribe(64, EventRecordingTick)
	t.Cleanup(unsub)

	policy := &togglePolicy{enabled: true}
	s := NewStore(seed, clock, policy, b, zaptest.NewLogger(t))
	t.Cleanup(s.Close)

	return &fixture{store: s, clock: clock, bus: b, ticks: ticks, policy: policy}
}

// tick advances the clock one interval at a time and waits for each tick to land.
func (f *fixture) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		f.clock.Advance(TickInterval)
		select {
		case <-f.ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d did not land", i+1)
		}
	}
}

func annaOnly(messages int) []Conversation {
	c := Conversation{
		ID:                 "anna",
		DisplayName:        "Анна Смирнова",
		LastMessagePreview: "seed preview",
		LastActivityTime:   "14:32",
	}
	for i := 1; i <= messages; i++ {
		c.Messages = append(c.Messages, Message{ID: i, Text: "m", TimeLabel: "14:3" + string(rune('0'+i)), Sender: SenderPeer, Kind: KindText})
	}
	return []Conversation{c, {ID: "maxim", DisplayName: "Максим Иванов"}}
}

func messageCount(t *testing.T, s *Store, id ID) int {
	t.Helper()
	c, ok := s.Conversation(id)
	require.True(t, ok, "conversation %q missing", id)
	return len(c.Messages)
}

func TestNewStoreCopiesSeed(t *testing.T) {
	seed := Seed()
	s := NewStore(seed, nil, nil, nil, nil)

	if diff := cmp.Diff(Seed(), s.Conversations()); diff != "" {
		t.Errorf("Conversations() mismatch (-want +got):\n%s", diff)
	}

	// Mutating the caller's seed must not leak into the store.
	seed[0].Messages[0].Text = "changed"
	c, _ := s.Conversation("anna")
	require.Equal(t, "Привет!", c.Messages[0].Text)
}

func TestNewStoreSkipsDuplicateIDs(t *testing.T) {
	s := NewStore([]Conversation{{ID: "a", DisplayName: "first"}, {ID: "a", DisplayName: "second"}}, nil, nil, nil, nil)
	convs := s.Conversations()
	require.Len(t, convs, 1)
	require.Equal(t, "first", convs[0].DisplayName)
}

func TestAppendTextScenario(t *testing.T) {
	f := newFixture(t, annaOnly(3))
	require.True(t, f.store.Select("anna").Applied())

	res := f.store.AppendText("anna", "hello")
	require.Equal(t, Applied, res.Outcome)
	require.NotNil(t, res.Message)

	c, _ := f.store.Conversation("anna")
	require.Len(t, c.Messages, 4)
	last := c.Messages[3]
	require.Equal(t, Message{ID: 4, Text: "hello", TimeLabel: "9:05", Sender: SenderSelf, Kind: KindText}, last)
	require.Equal(t, "hello", c.LastMessagePreview)
	require.Equal(t, "9:05", c.LastActivityTime)
}

func TestAppendTextAssignsSequentialIDs(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")

	for want := 1; want <= 5; want++ {
		before := messageCount(t, f.store, "anna")
		res := f.store.AppendText("anna", "msg")
		require.True(t, res.Applied())
		require.Equal(t, before+1, messageCount(t, f.store, "anna"))
		require.Equal(t, want, res.Message.ID)
	}
}

func TestAppendTextBlankIsIgnored(t *testing.T) {
	for _, text := range []string{"", " ", "\t", "\n  \n"} {
		t.Run(strings.ReplaceAll(text, "\n", `\n`), func(t *testing.T) {
			f := newFixture(t, annaOnly(3))
			f.store.Select("anna")
			f.store.SetDraft(text)

			res := f.store.AppendText("anna", text)
			require.Equal(t, IgnoredEmptyText, res.Outcome)
			require.Nil(t, res.Message)
			for _, c := range f.store.Conversations() {
				want := 0
				if c.ID == "anna" {
					want = 3
				}
				require.Len(t, c.Messages, want)
			}
			c, _ := f.store.Conversation("anna")
			require.Equal(t, "seed preview", c.LastMessagePreview)
		})
	}
}

func TestAppendTextWithoutSelection(t *testing.T) {
	f := newFixture(t, annaOnly(3))
	before := f.store.Conversations()

	res := f.store.AppendText("", "hi")
	require.Equal(t, IgnoredNoSelection, res.Outcome)

	res = f.store.AppendText("anna", "hi")
	require.Equal(t, IgnoredNoSelection, res.Outcome)

	if diff := cmp.Diff(before, f.store.Conversations()); diff != "" {
		t.Errorf("store mutated without selection (-before +after):\n%s", diff)
	}
}

func TestAppendTextToOtherConversationIsIgnored(t *testing.T) {
	f := newFixture(t, annaOnly(3))
	f.store.Select("maxim")

	res := f.store.AppendText("anna", "hi")
	require.Equal(t, IgnoredNoSelection, res.Outcome)
	require.Equal(t, 3, messageCount(t, f.store, "anna"))
}

func TestSendDraftClearsDraft(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")
	f.store.SetDraft("line one\nline two")

	res := f.store.SendDraft()
	require.True(t, res.Applied())
	require.Equal(t, "line one\nline two", res.Message.Text)
	require.Empty(t, f.store.Draft())

	// Nothing left to send.
	require.Equal(t, IgnoredEmptyText, f.store.SendDraft().Outcome)
}

func TestSelectedReflectsAppend(t *testing.T) {
	f := newFixture(t, annaOnly(3))
	f.store.Select("anna")
	f.store.AppendText("anna", "hello")

	selected, ok := f.store.Selected()
	require.True(t, ok)
	canonical, _ := f.store.Conversation("anna")
	if diff := cmp.Diff(canonical, selected); diff != "" {
		t.Errorf("selected view diverged from canonical list (-canonical +selected):\n%s", diff)
	}
}

func TestSelectUnknownClearsSelection(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")

	res := f.store.Select("nobody")
	require.Equal(t, IgnoredUnknownConversation, res.Outcome)
	require.Equal(t, ID(""), f.store.SelectedID())
	_, ok := f.store.Selected()
	require.False(t, ok)
}

func TestSelectionChangeClearsDraft(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")
	f.store.SetDraft("half-written")

	f.store.Select("anna")
	require.Equal(t, "half-written", f.store.Draft(), "reselecting keeps the draft")

	f.store.Select("maxim")
	require.Empty(t, f.store.Draft())
}

func TestClearSelection(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")
	require.True(t, f.store.ClearSelection().Applied())
	require.Equal(t, ID(""), f.store.SelectedID())
}

func TestRecordingTapIsDiscarded(t *testing.T) {
	f := newFixture(t, annaOnly(3))
	f.store.Select("anna")

	require.True(t, f.store.StartRecording().Applied())
	res := f.store.StopRecording()

	require.Equal(t, IgnoredTooShort, res.Outcome)
	require.Equal(t, 3, messageCount(t, f.store, "anna"))
	require.Equal(t, RecordingStatus{State: Idle, Conversation: "anna"}, f.store.Recording())
}

func TestRecordingScenario(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")

	require.True(t, f.store.StartRecording().Applied())
	f.tick(t, 3)
	require.Equal(t, 3, f.store.Recording().ElapsedSeconds)

	res := f.store.StopRecording()
	require.Equal(t, Applied, res.Outcome)

	c, _ := f.store.Conversation("anna")
	require.Len(t, c.Messages, 1)
	m := c.Messages[0]
	require.Equal(t, KindVoice, m.Kind)
	require.Equal(t, SenderSelf, m.Sender)
	require.Equal(t, 1, m.ID)
	require.Contains(t, m.Text, "3")
	require.Equal(t, VoicePreview, c.LastMessagePreview)
	require.NotEqual(t, m.Text, c.LastMessagePreview)
	require.Equal(t, m.TimeLabel, c.LastActivityTime)

	status := f.store.Recording()
	require.Equal(t, Idle, status.State)
	require.Zero(t, status.ElapsedSeconds)
}

func TestStopRecordingWhileIdle(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	require.Equal(t, IgnoredNotRecording, f.store.StopRecording().Outcome)

	f.store.Select("anna")
	require.Equal(t, IgnoredNotRecording, f.store.StopRecording().Outcome)
	require.Equal(t, IgnoredNotRecording, f.store.StopRecording().Outcome)
	require.Equal(t, Idle, f.store.Recording().State)
}

func TestStartRecordingRequiresSelection(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	require.Equal(t, IgnoredNoSelection, f.store.StartRecording().Outcome)
	require.Equal(t, Idle, f.store.Recording().State)
}

func TestStartRecordingTwiceKeepsTake(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")
	f.store.StartRecording()
	token := f.store.Recording().Token
	f.tick(t, 2)

	require.Equal(t, IgnoredAlreadyRecording, f.store.StartRecording().Outcome)
	status := f.store.Recording()
	require.Equal(t, token, status.Token)
	require.Equal(t, 2, status.ElapsedSeconds)
}

func TestStartRecordingRespectsVoicePolicy(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")
	f.policy.enabled = false

	require.Equal(t, IgnoredVoiceDisabled, f.store.StartRecording().Outcome)
	require.Equal(t, Idle, f.store.Recording().State)
}

func TestNoTickAfterStop(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")
	f.store.StartRecording()
	f.tick(t, 1)
	require.True(t, f.store.StopRecording().Applied())

	f.clock.Advance(5 * TickInterval)
	select {
	case evt := <-f.ticks:
		t.Fatalf("tick landed after stop: %+v", evt.Payload)
	case <-time.After(50 * time.Millisecond):
	}
	require.Zero(t, f.store.Recording().ElapsedSeconds)
	require.Equal(t, 1, messageCount(t, f.store, "anna"))
}

func TestSelectCancelsRecording(t *testing.T) {
	f := newFixture(t, annaOnly(3))
	cancelled, unsub := f.bus.Subscribe(4, EventRecordingCancelled)
	defer unsub()

	f.store.Select("anna")
	f.store.StartRecording()
	f.tick(t, 2)

	f.store.Select("maxim")

	require.Equal(t, Idle, f.store.Recording().State)
	require.Equal(t, 3, messageCount(t, f.store, "anna"))
	require.Equal(t, 0, messageCount(t, f.store, "maxim"))
	require.Equal(t, IgnoredNotRecording, f.store.StopRecording().Outcome)

	select {
	case evt := <-cancelled:
		status := evt.Payload.(RecordingStatus)
		require.Equal(t, 2, status.ElapsedSeconds)
	case <-time.After(time.Second):
		t.Fatal("no recording.cancelled event")
	}
}

func TestRecordingKeepsDraft(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	f.store.Select("anna")
	f.store.SetDraft("typing")
	f.store.StartRecording()
	f.tick(t, 1)
	f.store.StopRecording()
	require.Equal(t, "typing", f.store.Draft())
}

func TestMessageAppendedEvent(t *testing.T) {
	f := newFixture(t, annaOnly(0))
	ch, unsub := f.bus.Subscribe(4, EventMessageAppended)
	defer unsub()

	f.store.Select("anna")
	f.store.AppendText("anna", "hey")

	select {
	case evt := <-ch:
		payload, ok := evt.Payload.(MessageAppended)
		require.True(t, ok, "payload type %T", evt.Payload)
		require.Equal(t, ID("anna"), payload.Conversation)
		require.Equal(t, "hey", payload.Preview)
		require.Equal(t, 1, payload.Message.ID)
	case <-time.After(time.Second):
		t.Fatal("no message_appended event")
	}
}

func TestConcurrentAppendsKeepIDsDense(t *testing.T) {
	s := NewStore(annaOnly(0), nil, nil, nil, nil)
	s.Select("anna")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AppendText("anna", "x")
		}()
	}
	wg.Wait()

	c, _ := s.Conversation("anna")
	require.Len(t, c.Messages, 50)
	for i, m := range c.Messages {
		require.Equal(t, i+1, m.ID)
	}
}

func TestSearch(t *testing.T) {
	s := NewStore(Seed(), nil, nil, nil, nil)

	tests := []struct {
		query string
		want  []ID
	}{
		{"", []ID{"anna", "dev-team", "maxim", "family", "olga"}},
		{"анна", []ID{"anna"}},
		{"ПЕТРОВА", []ID{"olga"}},
		{"релиз", []ID{"dev-team"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []ID
			for _, c := range s.Search(tt.query) {
				got = append(got, c.ID)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFindByName(t *testing.T) {
	s := NewStore(Seed(), nil, nil, nil, nil)

	c, ok := s.FindByName("  семья ")
	require.True(t, ok)
	require.Equal(t, ID("family"), c.ID)

	_, ok = s.FindByName("Дмитрий Козлов")
	require.False(t, ok)
}

func TestTimeLabel(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "0:00"},
		{time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC), "9:05"},
		{time.Date(2024, 1, 1, 14, 32, 59, 0, time.UTC), "14:32"},
	}
	for _, tt := range tests {
		if got := timeLabel(tt.at); got != tt.want {
			t.Errorf("timeLabel(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestRecorderTransitions(t *testing.T) {
	r := recorder{state: Idle}
	require.Error(t, r.transition(Idle))
	require.NoError(t, r.transition(Recording))
	require.Error(t, r.transition(Recording))
	require.NoError(t, r.transition(Idle))
}
