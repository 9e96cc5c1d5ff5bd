package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	StatusSent   = "Message sent successfully!"
	StatusFailed = "Error sending message. Please try again."
)

// DefaultTimeout bounds a single submission attempt.
const DefaultTimeout = 15 * time.Second

// ErrSubmissionInProgress is returned by Submit while an earlier attempt on
// the same Flow has not finished. No request is issued in that case.
var ErrSubmissionInProgress = errors.New("contact: submission already in progress")

// State is the display state of a Flow.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Submitter delivers one message to the contact backend.
type Submitter interface {
	Submit(ctx context.Context, msg Message) error
}

// SubmitterFunc adapts a plain function to Submitter.
type SubmitterFunc func(ctx context.Context, msg Message) error

func (f SubmitterFunc) Submit(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// View is a consistent copy of a Flow's observable state.
type View struct {
	Draft  Message
	State  State
	Status string
}

// SubmitEnabled reports whether the submit control accepts a new attempt.
func (v View) SubmitEnabled() bool {
	return v.State != StateSubmitting
}

// Flow owns the contact form draft and drives submission attempts.
// It is safe for concurrent use; at most one attempt is in flight at a time.
type Flow struct {
	submitter Submitter
	timeout   time.Duration
	log       *slog.Logger

	mu     sync.Mutex
	draft  Message
	state  State
	status string
}

// Option configures a Flow.
type Option func(*Flow)

// WithTimeout bounds each submission attempt. A timed-out attempt ends in
// StateFailed. Zero disables the bound, leaving a hung request in
// StateSubmitting until the caller's context ends.
func WithTimeout(d time.Duration) Option {
	return func(f *Flow) { f.timeout = d }
}

// WithLogger sets the logger used for attempt outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) { f.log = l }
}

// NewFlow returns an idle Flow with an empty draft.
func NewFlow(s Submitter, opts ...Option) *Flow {
	f := &Flow{
		submitter: s,
		timeout:   DefaultTimeout,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// UpdateField replaces the value of a single draft field. Editing after an
// attempt has finished clears the outcome and returns the flow to idle.
func (f *Flow) UpdateField(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldName:
		f.draft.Name = value
	case FieldEmail:
		f.draft.Email = value
	case FieldMessage:
		f.draft.Message = value
	default:
		return
	}

	if f.state == StateSucceeded || f.state == StateFailed {
		f.state = StateIdle
		f.status = ""
	}
}

// Submit sends the current draft and blocks until the backend answers, the
// attempt times out or ctx ends. On success the draft is cleared; on failure
// it is kept so the user can resubmit. The returned error is the cause of a
// failed attempt, or ErrSubmissionInProgress when another attempt is running.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrSubmissionInProgress
	}
	snapshot := f.draft
	f.state = StateSubmitting
	f.status = ""
	f.mu.Unlock()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	err := f.submitter.Submit(ctx, snapshot)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		f.status = StatusFailed
		f.log.Warn("contact submission failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}

	f.state = StateSucceeded
	f.status = StatusSent
	f.draft = Message{}
	f.log.Info("contact submission sent",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// View returns the current draft, state and status text.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{Draft: f.draft, State: f.state, Status: f.status}
}
