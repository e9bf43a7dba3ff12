// Package notify implements ephemeral user-visible notifications (toasts).
package notify

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Notifier displays a short-lived message to the user
type Notifier interface {
	Notify(message string)
}

// Func adapts a function to Notifier
type Func func(message string)

// Notify calls f
func (f Func) Notify(message string) {
	f(message)
}

var toastColor = color.New(color.FgHiWhite, color.BgHiBlack)

// Toast prints notifications as a highlighted terminal line
type Toast struct {
	mu  sync.Mutex
	out io.Writer
}

// NewToast creates a toast writing to out; nil means stdout
func NewToast(out io.Writer) *Toast {
	if out == nil {
		out = os.Stdout
	}
	return &Toast{out: out}
}

// Notify prints the message
func (t *Toast) Notify(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	toastColor.Fprintf(t.out, " %s ", message)
	io.WriteString(t.out, "\n")
}

// Switch forwards to a replaceable target. The interactive login modal
// swaps itself in while it owns the terminal.
type Switch struct {
	mu     sync.RWMutex
	target Notifier
}

// NewSwitch creates a switch forwarding to target
func NewSwitch(target Notifier) *Switch {
	return &Switch{target: target}
}

// Notify forwards to the current target
func (s *Switch) Notify(message string) {
	s.mu.RLock()
	target := s.target
	s.mu.RUnlock()
	if target != nil {
		target.Notify(message)
	}
}

// Swap replaces the target and returns a function restoring the previous one
func (s *Switch) Swap(target Notifier) (restore func()) {
	s.mu.Lock()
	prev := s.target
	s.target = target
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.target = prev
		s.mu.Unlock()
	}
}

// Recorder keeps every notification, for tests and non-interactive runs
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Notify records the message
func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	r.messages = append(r.messages, message)
	r.mu.Unlock()
}

// Messages returns a copy of the recorded messages
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Last returns the most recent message, or "" if none
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}
