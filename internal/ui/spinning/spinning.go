// Package spinning provides a friendly spinning clock (or some other spinning symbols)
// to use while a searcher is thinking about its next move.
package spinning

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"k8s.io/klog/v2"
)

// Spinning displays a rotating symbol until Done is called.
type Spinning struct {
	out    io.Writer
	wg     sync.WaitGroup
	cancel func()

	// frames counts how many symbols were displayed so far.
	frames int
}

var (
	ThemeAscii = []rune("|/-\\")
	ThemeMoon  = []rune("🌑🌒🌓🌔🌕🌖🌗🌘")
	ThemeClock = []rune("🕐🕑🕒🕓🕔🕕🕖🕗🕘🕙🕚🕛")

	// Theme defaults to ThemeClock, but it can be set to anything else before calling New.
	Theme = ThemeClock

	// Interval between symbols.
	Interval = 250 * time.Millisecond
)

// SafeInterrupt will capture SigInt (Ctrl+C) and SigTerm and call the provided onInterrupt.
// If the program hasn't exited after gracePeriod, it will call Reset to reset the terminal
// and exit.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		fmt.Println()
		klog.Errorf("Got interrupted (signal %q), shutting down... (%s)", s, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}

		// Wait for gracePeriod before exiting.
		time.Sleep(gracePeriod)
		Reset(os.Stdout)
		klog.Fatalf("Graceful shutting down %s period expired, exiting.", gracePeriod)
	}()
}

// Reset terminal: make cursor visible, restore default terminal colors.
func Reset(out io.Writer) {
	_, _ = fmt.Fprint(out, "\033[?25h\033[39;49;0m\n")
}

// New starts a spinning display on os.Stdout. See NewWithWriter.
func New(ctx context.Context) *Spinning {
	return NewWithWriter(ctx, os.Stdout)
}

// NewWithWriter starts a spinning display that runs on a separate goroutine, writing to out.
// It stops when Spinning.Done is called or ctx is cancelled.
func NewWithWriter(ctx context.Context, out io.Writer) *Spinning {
	s := &Spinning{out: out}
	theme := Theme
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(Interval)
		defer ticker.Stop()
		s.print("\033[?25l")       // Hide cursor.
		defer s.print("\033[?25h") // Restore cursor.

		s.print("  ")
		for {
			// Emojis take 2 columns, hence the 2 backspaces.
			s.print(fmt.Sprintf("\b\b%c", theme[s.frames%len(theme)]))
			s.frames++
			select {
			case <-ctx.Done():
				s.print("\b\b")
				return
			case <-ticker.C:
				// continue
			}
		}
	}()
	return s
}

func (s *Spinning) print(text string) {
	_, _ = fmt.Fprint(s.out, text)
}

// Done stops the spinning and waits for the display goroutine to exit. It is safe to call it more than once.
// It returns the number of symbols displayed.
func (s *Spinning) Done() int {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.wg.Wait()
	return s.frames
}
