package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer is written by the spinner goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testSpinner(ctx context.Context, message string) (*Spinner, *lockedBuffer) {
	out := &lockedBuffer{}
	s := newSpinner(ctx, message)
	s.out = out
	return s, out
}

func TestSpinnerLine(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Downloading scans")
	if got := s.line(); got != "Downloading scans" {
		t.Errorf("line() = %q before progress", got)
	}
	s.Progress(12, 40)
	if got := s.line(); got != "Downloading scans 12/40" {
		t.Errorf("line() = %q, want count", got)
	}
}

func TestSpinnerDrawsProgress(t *testing.T) {
	s, out := testSpinner(context.Background(), "Downloading scans")
	s.Progress(3, 7)
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Downloading scans 3/7") {
		t.Errorf("output %q does not show the count", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Error("Stop should clear the line")
	}
}

func TestSpinnerProgressConcurrent(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Cutting")
	s.Start()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Progress(i+1, 8)
		}()
	}
	wg.Wait()
	s.Stop()
	if s.total.Load() != 8 {
		t.Errorf("total = %d, want 8", s.total.Load())
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := testSpinner(ctx, "Fetching link list")
	s.Start()
	cancel()
	s.Stop()
	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its context")
	}

	s, _ = testSpinner(context.Background(), "Loading strips")
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("Stop alone is not a cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Loading strips")
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithError("failed")
}

func TestSpinnerStopsOnTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s, _ := testSpinner(ctx, "Fetching link list")
	s.Start()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after its context expired")
	}
	s.Stop()
}
