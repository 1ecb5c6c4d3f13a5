package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner redraws "frame message" in place on w until stopped. It is shown
// while the model drafts a plan.
type Spinner struct {
	w       io.Writer
	message string

	startOnce sync.Once
	stopOnce  sync.Once
	quit      chan struct{}
	exited    chan struct{}
}

func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{w: w, message: message, quit: make(chan struct{}), exited: make(chan struct{})}
}

func (s *Spinner) Start() {
	s.startOnce.Do(func() { go s.loop() })
}

func (s *Spinner) loop() {
	defer close(s.exited)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
			glyph := spinnerFrames[frame%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r  %s %s", StylePurple.Render(glyph), Dim(s.message))
		}
	}
}

// Stop clears the line and waits for the redraw loop to exit. A spinner that
// never started stops immediately; repeated calls are no-ops.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		// Claim startOnce so a later Start cannot launch the loop.
		started := true
		s.startOnce.Do(func() { started = false })
		close(s.quit)
		if started {
			<-s.exited
		}
	})
}

// StartSpinner starts a spinner and returns its Stop.
func StartSpinner(w io.Writer, message string) func() {
	s := NewSpinner(w, message)
	s.Start()
	return s.Stop
}
