package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testSpinner(ctx context.Context, message string) (*Spinner, *syncBuffer) {
	var out syncBuffer
	s := newSpinnerWithContext(ctx, message)
	s.w = &out
	return s, &out
}

func TestSpinnerDrawsMessage(t *testing.T) {
	s, out := testSpinner(context.Background(), "Running 3 commands...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.SetMessage("1/3 done")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Running 3 commands...") {
		t.Errorf("output lacks first message: %q", got)
	}
	if !strings.Contains(got, "1/3 done") {
		t.Errorf("output lacks updated message: %q", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s, _ := testSpinner(ctx, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
	if !s.Cancelled() {
		t.Error("Stop after cancellation should keep Cancelled true")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()
	time.Sleep(50 * time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s, out := testSpinner(context.Background(), "never started")
	s.Stop()
	if out.String() != "" {
		t.Errorf("unstarted spinner wrote %q", out.String())
	}
}

func TestNewSpinnerWithContextNilParent(t *testing.T) {
	var parent context.Context
	s, _ := testSpinner(parent, "nil parent")
	s.Start()
	s.Stop()
}
