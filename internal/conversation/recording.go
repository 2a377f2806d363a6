package conversation

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Bus event kinds for the recording sub-state.
const (
	EventRecordingStarted   = "recording.started"
	EventRecordingTick      = "recording.tick"
	EventRecordingStopped   = "recording.stopped"
	EventRecordingCancelled = "recording.cancelled"
)

const (
	// TickInterval is how often the elapsed counter advances while recording.
	TickInterval = time.Second
	// MinVoiceSeconds guards against accidental taps: shorter recordings are dropped.
	MinVoiceSeconds = 1
	// VoicePreview is the conversation preview shown after a voice message.
	VoicePreview = "🎤 Voice message"
)

// RecordingState is the state of the voice recorder.
type RecordingState string

const (
	Idle      RecordingState = "IDLE"
	Recording RecordingState = "RECORDING"
)

var recordingTransitions = map[RecordingState][]RecordingState{
	Idle:      {Recording},
	Recording: {Idle},
}

// RecordingStatus is a snapshot of the recorder. Token identifies the current
// take and is uuid.Nil while idle.
type RecordingStatus struct {
	State          RecordingState
	ElapsedSeconds int
	Token          uuid.UUID
	Conversation   ID
}

type recorder struct {
	state   RecordingState
	elapsed int
	token   uuid.UUID
	ticker  clockwork.Ticker
	stop    chan struct{}
}

func (r *recorder) transition(to RecordingState) error {
	if !slices.Contains(recordingTransitions[r.state], to) {
		return fmt.Errorf("invalid recording transition from %s to %s", r.state, to)
	}
	r.state = to
	return nil
}

// halt stops the ticker and returns the recorder to Idle. It returns the
// elapsed seconds and token of the take that was running.
func (r *recorder) halt() (int, uuid.UUID) {
	elapsed, token := r.elapsed, r.token
	close(r.stop)
	r.ticker.Stop()
	r.ticker = nil
	r.stop = nil
	r.elapsed = 0
	r.token = uuid.Nil
	_ = r.transition(Idle)
	return elapsed, token
}

// Recording returns a snapshot of the recorder.
func (s *Store) Recording() RecordingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordingStatusLocked()
}

func (s *Store) recordingStatusLocked() RecordingStatus {
	return RecordingStatus{
		State:          s.rec.state,
		ElapsedSeconds: s.rec.elapsed,
		Token:          s.rec.token,
		Conversation:   s.selected,
	}
}

// StartRecording begins a voice take on the selected conversation and starts
// a ticker that advances the elapsed counter once per TickInterval.
func (s *Store) StartRecording() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == "" {
		return Result{Outcome: IgnoredNoSelection}
	}
	if s.rec.state == Recording {
		return Result{Outcome: IgnoredAlreadyRecording, Conversation: s.selected}
	}
	if s.policy != nil && !s.policy.VoiceMessagesEnabled() {
		return Result{Outcome: IgnoredVoiceDisabled, Conversation: s.selected}
	}

	if err := s.rec.transition(Recording); err != nil {
		s.logger.Error("start recording", zap.Error(err))
		return Result{Outcome: IgnoredAlreadyRecording, Conversation: s.selected}
	}
	s.rec.elapsed = 0
	s.rec.token = uuid.New()
	s.rec.ticker = s.clock.NewTicker(TickInterval)
	s.rec.stop = make(chan struct{})

	go s.runTicker(s.rec.token, s.rec.ticker.Chan(), s.rec.stop)

	s.logger.Info("recording started",
		zap.String("conversation", string(s.selected)),
		zap.String("recording_id", s.rec.token.String()),
	)
	s.publish(EventRecordingStarted, s.recordingStatusLocked())
	return Result{Outcome: Applied, Conversation: s.selected}
}

// StopRecording ends the current take. Takes of at least MinVoiceSeconds are
// appended to the selected conversation as a voice message. Calling it while
// idle does nothing.
func (s *Store) StopRecording() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec.state != Recording {
		return Result{Outcome: IgnoredNotRecording}
	}
	elapsed, token := s.rec.halt()

	logger := s.logger.With(
		zap.String("recording_id", token.String()),
		zap.Int("elapsed_seconds", elapsed),
	)
	s.publish(EventRecordingStopped, RecordingStatus{State: Idle, ElapsedSeconds: elapsed, Token: token, Conversation: s.selected})

	if elapsed < MinVoiceSeconds {
		logger.Info("recording discarded, too short")
		return Result{Outcome: IgnoredTooShort, Conversation: s.selected}
	}
	if s.selected == "" {
		return Result{Outcome: IgnoredNoSelection}
	}

	m := s.appendLocked(s.selected, voiceCaption(elapsed), VoicePreview, KindVoice)
	logger.Info("voice message appended", zap.String("conversation", string(s.selected)))
	return Result{Outcome: Applied, Conversation: s.selected, Message: &m}
}

// cancelRecordingLocked drops the current take without appending anything.
func (s *Store) cancelRecordingLocked(reason string) {
	if s.rec.state != Recording {
		return
	}
	elapsed, token := s.rec.halt()
	s.logger.Info("recording cancelled",
		zap.String("reason", reason),
		zap.String("recording_id", token.String()),
		zap.Int("elapsed_seconds", elapsed),
	)
	s.publish(EventRecordingCancelled, RecordingStatus{State: Idle, ElapsedSeconds: elapsed, Token: token, Conversation: s.selected})
}

func (s *Store) runTicker(token uuid.UUID, ticks <-chan time.Time, stop <-chan struct{}) {
	for {
		select {
		case <-ticks:
			s.tick(token)
		case <-stop:
			return
		}
	}
}

// tick advances the elapsed counter. Ticks from a take that has already been
// stopped or cancelled are discarded.
func (s *Store) tick(token uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec.state != Recording || s.rec.token != token {
		return
	}
	s.rec.elapsed++
	s.publish(EventRecordingTick, s.recordingStatusLocked())
}

func voiceCaption(seconds int) string {
	return fmt.Sprintf("%s (%ds)", VoicePreview, seconds)
}
