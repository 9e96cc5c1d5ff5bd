package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jane = Message{Name: "Jane Doe", Email: "jane@example.com", Message: "Hello"}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fill(f *Flow, m Message) {
	f.UpdateField(FieldName, m.Name)
	f.UpdateField(FieldEmail, m.Email)
	f.UpdateField(FieldMessage, m.Message)
}

func TestFlow_InitialState(t *testing.T) {
	f := NewFlow(SubmitterFunc(func(context.Context, Message) error { return nil }))

	v := f.View()
	assert.Equal(t, StateIdle, v.State)
	assert.True(t, v.Draft.IsEmpty())
	assert.Empty(t, v.Status)
	assert.True(t, v.SubmitEnabled())
}

func TestFlow_UpdateField_TouchesOnlyNamedField(t *testing.T) {
	f := NewFlow(nil)
	fill(f, jane)

	f.UpdateField(FieldEmail, "jd@example.org")

	want := Message{Name: "Jane Doe", Email: "jd@example.org", Message: "Hello"}
	if diff := cmp.Diff(want, f.View().Draft); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, StateIdle, f.View().State)
}

func TestFlow_UpdateField_Idempotent(t *testing.T) {
	once := NewFlow(nil)
	once.UpdateField(FieldName, "Alice")

	twice := NewFlow(nil)
	twice.UpdateField(FieldName, "Alice")
	twice.UpdateField(FieldName, "Alice")

	assert.Equal(t, once.View(), twice.View())
}

func TestFlow_UpdateField_UnknownFieldIgnored(t *testing.T) {
	f := NewFlow(nil)
	fill(f, jane)

	f.UpdateField(Field("phone"), "555-0100")

	assert.Equal(t, jane, f.View().Draft)
}

func TestFlow_Submit_Success(t *testing.T) {
	var got Message
	f := NewFlow(SubmitterFunc(func(_ context.Context, m Message) error {
		got = m
		return nil
	}), WithLogger(quietLogger()))
	fill(f, jane)

	require.NoError(t, f.Submit(context.Background()))

	v := f.View()
	assert.Equal(t, jane, got, "backend must receive the pre-submit draft")
	assert.Equal(t, StateSucceeded, v.State)
	assert.Equal(t, StatusSent, v.Status)
	assert.Equal(t, Message{Name: "", Email: "", Message: ""}, v.Draft)
	assert.True(t, v.SubmitEnabled())
}

func TestFlow_Submit_ServerErrorKeepsDraft(t *testing.T) {
	f := NewFlow(SubmitterFunc(func(context.Context, Message) error {
		return &StatusError{Code: 500}
	}), WithLogger(quietLogger()))
	fill(f, jane)

	err := f.Submit(context.Background())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, se.Code)

	v := f.View()
	assert.Equal(t, StateFailed, v.State)
	assert.Equal(t, StatusFailed, v.Status)
	if diff := cmp.Diff(jane, v.Draft); diff != "" {
		t.Errorf("draft changed on failure (-want +got):\n%s", diff)
	}
	assert.True(t, v.SubmitEnabled())
}

func TestFlow_Submit_RetryIsFreshAttempt(t *testing.T) {
	var calls int
	f := NewFlow(SubmitterFunc(func(context.Context, Message) error {
		calls++
		if calls == 1 {
			return errors.New("connection refused")
		}
		return nil
	}), WithLogger(quietLogger()))
	fill(f, jane)

	require.Error(t, f.Submit(context.Background()))
	assert.Equal(t, 1, calls, "no automatic retry")

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, 2, calls)
	assert.Equal(t, StateSucceeded, f.View().State)
}

func TestFlow_EditAfterOutcomeReturnsToIdle(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"after success", nil},
		{"after failure", errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFlow(SubmitterFunc(func(context.Context, Message) error { return tt.err }),
				WithLogger(quietLogger()))
			fill(f, jane)
			_ = f.Submit(context.Background())
			require.NotEmpty(t, f.View().Status)

			f.UpdateField(FieldMessage, "Hello again")

			v := f.View()
			assert.Equal(t, StateIdle, v.State)
			assert.Empty(t, v.Status)
			assert.Equal(t, "Hello again", v.Draft.Message)
		})
	}
}

// blockingSubmitter never answers; it only returns once ctx is done.
type blockingSubmitter struct {
	calls atomic.Int32
}

func (b *blockingSubmitter) Submit(ctx context.Context, _ Message) error {
	b.calls.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func TestFlow_Submit_NoResponseWithoutTimeoutStaysSubmitting(t *testing.T) {
	backend := &blockingSubmitter{}
	f := NewFlow(backend, WithTimeout(0), WithLogger(quietLogger()))
	fill(f, jane)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Submit(ctx) }()

	require.Eventually(t, func() bool {
		return f.View().State == StateSubmitting
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	v := f.View()
	assert.Equal(t, StateSubmitting, v.State)
	assert.False(t, v.SubmitEnabled())
	assert.Equal(t, "Sending...", Display(v).ButtonLabel)

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmissionInProgress)
	assert.Equal(t, int32(1), backend.calls.Load(), "second submit must not reach the backend")

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, StateFailed, f.View().State)
}

func TestFlow_Submit_TimeoutForcesFailed(t *testing.T) {
	backend := &blockingSubmitter{}
	f := NewFlow(backend, WithTimeout(20*time.Millisecond), WithLogger(quietLogger()))
	fill(f, jane)

	err := f.Submit(context.Background())

	require.ErrorIs(t, err, context.DeadlineExceeded)
	v := f.View()
	assert.Equal(t, StateFailed, v.State)
	assert.Equal(t, StatusFailed, v.Status)
	assert.Equal(t, jane, v.Draft)
	assert.True(t, v.SubmitEnabled())
}

func TestFlow_Submit_ConcurrentCallersIssueOneRequest(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	f := NewFlow(SubmitterFunc(func(context.Context, Message) error {
		calls.Add(1)
		<-release
		return nil
	}), WithLogger(quietLogger()))
	fill(f, jane)

	first := make(chan error, 1)
	go func() { first <- f.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmissionInProgress)
	}

	close(release)
	require.NoError(t, <-first)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFlow_EditDuringSubmitDoesNotChangeSnapshot(t *testing.T) {
	release := make(chan struct{})
	var sent Message
	f := NewFlow(SubmitterFunc(func(_ context.Context, m Message) error {
		<-release
		sent = m
		return errors.New("rejected")
	}), WithLogger(quietLogger()))
	fill(f, jane)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return f.View().State == StateSubmitting }, time.Second, time.Millisecond)

	f.UpdateField(FieldName, "J. Doe")
	assert.Equal(t, StateSubmitting, f.View().State)

	close(release)
	require.Error(t, <-done)
	assert.Equal(t, jane, sent)
	assert.Equal(t, "J. Doe", f.View().Draft.Name)
}
