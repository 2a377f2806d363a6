package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matheus3301/svyazukha/internal/bus"
	"github.com/matheus3301/svyazukha/internal/conversation"
	"go.uber.org/zap"
)

// Clock is a clock the runner can move forward.
type Clock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

// StepResult records what a step did.
type StepResult struct {
	Line    int                  `json:"line"`
	Op      Op                   `json:"op"`
	Outcome conversation.Outcome `json:"outcome,omitempty"`
	// Elapsed is the recorder's counter after a tick step.
	Elapsed int `json:"elapsed,omitempty"`
}

// Runner executes scripts against a store whose clock it controls.
type Runner struct {
	store  *conversation.Store
	clock  Clock
	ticks  <-chan bus.Event
	unsub  func()
	logger *zap.Logger
}

// NewRunner creates a runner. The store must have been built with clock and b.
func NewRunner(store *conversation.Store, clock Clock, b *bus.Bus, logger *zap.Logger) *Runner {
	ticks, unsub := b.Subscribe(64, conversation.EventRecordingTick)
	return &Runner{
		store:  store,
		clock:  clock,
		ticks:  ticks,
		unsub:  unsub,
		logger: logger,
	}
}

// Close releases the runner's bus subscription.
func (r *Runner) Close() {
	r.unsub()
}

// Run executes steps in order.
func (r *Runner) Run(ctx context.Context, steps []Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		res, err := r.exec(ctx, step)
		if err != nil {
			return results, fmt.Errorf("line %d: %w", step.Line, err)
		}
		r.logger.Debug("step", zap.Int("line", step.Line), zap.String("op", string(step.Op)), zap.String("outcome", string(res.Outcome)))
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) exec(ctx context.Context, step Step) (StepResult, error) {
	res := StepResult{Line: step.Line, Op: step.Op}
	switch step.Op {
	case OpSelect:
		res.Outcome = r.store.Select(step.ID).Outcome
	case OpClear:
		res.Outcome = r.store.ClearSelection().Outcome
	case OpDraft:
		r.store.SetDraft(step.Text)
	case OpSend:
		res.Outcome = r.store.SendDraft().Outcome
	case OpSay:
		res.Outcome = r.store.AppendText(step.ID, step.Text).Outcome
	case OpRecordStart:
		res.Outcome = r.store.StartRecording().Outcome
	case OpRecordStop:
		res.Outcome = r.store.StopRecording().Outcome
	case OpTick:
		for i := 0; i < step.N; i++ {
			if err := r.tick(ctx); err != nil {
				return res, err
			}
		}
		res.Elapsed = r.store.Recording().ElapsedSeconds
	default:
		return res, fmt.Errorf("unsupported op %q", step.Op)
	}
	return res, nil
}

// tick advances the clock one interval. While a take is running it waits for
// the store to observe the tick so the next step sees the new counter.
func (r *Runner) tick(ctx context.Context) error {
	recording := r.store.Recording().State == conversation.Recording
	r.clock.Advance(conversation.TickInterval)
	if !recording {
		return nil
	}
	select {
	case <-r.ticks:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
