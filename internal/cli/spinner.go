package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on stderr while a stage runs. Once
// Progress has been called the line also shows a count, as in
// "Downloading scans 12/40".
type Spinner struct {
	out     io.Writer
	message string

	done  atomic.Int64
	total atomic.Int64

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int // of the last line drawn
}

// newSpinner creates a spinner that stops drawing when ctx is cancelled.
func newSpinner(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		message: message,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Progress records done of total units. It is safe to call from worker
// goroutines.
func (s *Spinner) Progress(done, total int) {
	s.total.Store(int64(total))
	s.done.Store(int64(done))
}

// line renders the status text without the frame.
func (s *Spinner) line() string {
	if total := s.total.Load(); total > 0 {
		return fmt.Sprintf("%s %d/%d", s.message, s.done.Load(), total)
	}
	return s.message
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	text := s.line()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
	s.width = max(s.width, len(text)+2)
}

// Stop ends the animation and clears the line. Repeated calls are no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.stopped
		s.cancel()

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(format string, args ...any) {
	s.Stop()
	printError(format, args...)
}

// Cancelled reports whether the context the spinner was created with ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
