package style

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var frames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧"}

// Spinner animates a progress line while an Auth Service call is in flight.
// Writers that are not terminals get the message once, without animation.
type Spinner struct {
	w     io.Writer
	msg   string
	stop  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
	isTTY bool
}

// StartSpinner starts a spinner showing msg on w.
func StartSpinner(w io.Writer, msg string) *Spinner {
	s := &Spinner{w: w, msg: msg, stop: make(chan struct{})}
	if f, ok := w.(*os.File); ok {
		s.isTTY = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !s.isTTY {
		fmt.Fprintln(w, Dim.Render(msg))
		return s
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", Dim.Render(frames[i%len(frames)]), s.msg)
			select {
			case <-s.stop:
				fmt.Fprint(s.w, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
	return s
}

// Stop ends the animation and clears the line. Safe to call twice.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.isTTY {
			close(s.stop)
			s.wg.Wait()
		}
	})
}

// WithSpinner runs fn while a spinner shows msg on w.
func WithSpinner[T any](w io.Writer, msg string, fn func() (T, error)) (T, error) {
	s := StartSpinner(w, msg)
	defer s.Stop()
	return fn()
}
