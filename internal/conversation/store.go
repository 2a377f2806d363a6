package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matheus3301/svyazukha/internal/bus"
	"go.uber.org/zap"
)

// Bus event kinds published by the store.
const (
	EventSelected        = "conversation.selected"
	EventMessageAppended = "conversation.message_appended"
	EventDraftChanged    = "conversation.draft_changed"
)

// VoicePolicy reports whether voice capture is currently allowed.
type VoicePolicy interface {
	VoiceMessagesEnabled() bool
}

// Selection is the payload of EventSelected. ID is empty when nothing is selected.
type Selection struct {
	ID       ID
	Previous ID
}

// MessageAppended is the payload of EventMessageAppended.
type MessageAppended struct {
	Conversation ID
	Message      Message
	Preview      string
}

// Store owns the seeded conversations, the selection, the draft and the
// recording state. All commands and timer ticks are serialized on one mutex.
type Store struct {
	mu            sync.Mutex
	conversations []Conversation
	index         map[ID]int
	selected      ID
	draft         string
	rec           recorder

	clock  clockwork.Clock
	policy VoicePolicy
	bus    *bus.Bus
	logger *zap.Logger
}

// NewStore creates a store seeded with conversations. clock, policy, b and
// logger may be nil.
func NewStore(seed []Conversation, clock clockwork.Clock, policy VoicePolicy, b *bus.Bus, logger *zap.Logger) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		index:  make(map[ID]int, len(seed)),
		rec:    recorder{state: Idle},
		clock:  clock,
		policy: policy,
		bus:    b,
		logger: logger,
	}
	for _, c := range seed {
		if _, dup := s.index[c.ID]; dup {
			logger.Warn("duplicate conversation id in seed, skipping", zap.String("conversation", string(c.ID)))
			continue
		}
		s.index[c.ID] = len(s.conversations)
		s.conversations = append(s.conversations, c.clone())
	}
	return s
}

// Conversations returns a snapshot of all conversations in seed order.
func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = c.clone()
	}
	return out
}

// Conversation returns a snapshot of one conversation.
func (s *Store) Conversation(id ID) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index[id]
	if !ok {
		return Conversation{}, false
	}
	return s.conversations[idx].clone(), true
}

// Search returns conversations whose name or preview contains query.
func (s *Store) Search(query string) []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Conversation
	for _, c := range s.conversations {
		if c.Matches(query) {
			out = append(out, c.clone())
		}
	}
	return out
}

// FindByName returns the conversation whose display name equals name, ignoring case.
func (s *Store) FindByName(name string) (Conversation, bool) {
	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conversations {
		if strings.EqualFold(c.DisplayName, name) {
			return c.clone(), true
		}
	}
	return Conversation{}, false
}

// SelectedID returns the selected conversation id, or "" when none is selected.
func (s *Store) SelectedID() ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Selected returns a snapshot of the selected conversation. The snapshot is
// read from the canonical list, so it always reflects the latest append.
func (s *Store) Selected() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return Conversation{}, false
	}
	return s.conversations[s.index[s.selected]].clone(), true
}

// Select opens a conversation. An empty id clears the selection; an unknown id
// also clears it and reports IgnoredUnknownConversation. Any recording in
// progress is cancelled without appending a message.
func (s *Store) Select(id ID) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelRecordingLocked("selection changed")

	if id == "" {
		s.setSelectionLocked("")
		return Result{Outcome: Applied}
	}
	if _, ok := s.index[id]; !ok {
		s.setSelectionLocked("")
		s.logger.Debug("select unknown conversation", zap.String("conversation", string(id)))
		return Result{Outcome: IgnoredUnknownConversation, Conversation: id}
	}
	s.setSelectionLocked(id)
	return Result{Outcome: Applied, Conversation: id}
}

// ClearSelection is Select("").
func (s *Store) ClearSelection() Result {
	return s.Select("")
}

func (s *Store) setSelectionLocked(id ID) {
	prev := s.selected
	s.selected = id
	if prev != id {
		s.draft = ""
	}
	s.publish(EventSelected, Selection{ID: id, Previous: prev})
}

// Draft returns the text being composed.
func (s *Store) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the text being composed.
func (s *Store) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == text {
		return
	}
	s.draft = text
	s.publish(EventDraftChanged, text)
}

// SendDraft appends the draft to the selected conversation.
func (s *Store) SendDraft() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendTextLocked(s.selected, s.draft)
}

// AppendText appends a text message from self to conversation id. It is a
// no-op unless id is the selected conversation and text is not blank.
func (s *Store) AppendText(id ID, text string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendTextLocked(id, text)
}

func (s *Store) appendTextLocked(id ID, text string) Result {
	if s.selected == "" || id != s.selected {
		return Result{Outcome: IgnoredNoSelection, Conversation: id}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Outcome: IgnoredEmptyText, Conversation: id}
	}
	m := s.appendLocked(id, text, text, KindText)
	s.draft = ""
	return Result{Outcome: Applied, Conversation: id, Message: &m}
}

// appendLocked adds a message from self and refreshes the conversation summary.
func (s *Store) appendLocked(id ID, text, preview string, kind Kind) Message {
	c := &s.conversations[s.index[id]]
	m := Message{
		ID:        len(c.Messages) + 1,
		Text:      text,
		TimeLabel: timeLabel(s.clock.Now()),
		Sender:    SenderSelf,
		Kind:      kind,
	}
	c.Messages = append(c.Messages, m)
	c.LastMessagePreview = preview
	c.LastActivityTime = m.TimeLabel

	s.logger.Debug("message appended",
		zap.String("conversation", string(id)),
		zap.Int("message_id", m.ID),
		zap.String("kind", string(kind)),
	)
	s.publish(EventMessageAppended, MessageAppended{Conversation: id, Message: m, Preview: preview})
	return m
}

// Close cancels any recording in progress.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelRecordingLocked("store closed")
}

func (s *Store) publish(kind string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{
		Kind:      kind,
		Timestamp: s.clock.Now(),
		Payload:   payload,
	})
}

// timeLabel formats t as H:MM with the minutes zero-padded.
func timeLabel(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}
