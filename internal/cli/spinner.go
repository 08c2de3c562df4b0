package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerInterval paces the animation.
const spinnerInterval = 90 * time.Millisecond

// spinnerElapsedAfter is how long a build runs before the spinner starts
// appending the elapsed seconds to the line.
const spinnerElapsedAfter = 2 * time.Second

// spinnerFrames cycle while a command is in flight.
var spinnerFrames = []string{"⠷", "⠯", "⠟", "⠻", "⠽", "⠾"}

// Spinner is a single-line progress indicator for long-running commands.
// It is bound to a context at construction, so a Ctrl-C that cancels the
// command also clears the animation line.
type Spinner struct {
	message string
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	mu      sync.Mutex
}

// newSpinner creates a spinner bound to ctx. Call Start to begin animating
// and one of the Stop variants when the operation finishes.
func newSpinner(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the spinner animation on stderr.
func (s *Spinner) Start() {
	s.started = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.render(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// render draws one animation frame. Long-running operations get the elapsed
// seconds appended so a stalled build is visible as such.
func (s *Spinner) render(frame string) {
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	if elapsed := time.Since(s.started); elapsed >= spinnerElapsedAfter {
		line += StyleDim.Render(fmt.Sprintf(" (%ds)", int(elapsed.Seconds())))
	}
	s.mu.Lock()
	fmt.Fprint(os.Stderr, "\r"+line)
	s.mu.Unlock()
}

// Stop halts the animation and clears the line. Safe to call repeatedly.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+12))
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context was cancelled. Check it
// before calling an explicit Stop, which cancels the context itself.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
