package login

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// repeatTask calls fn every period until cancelled
type repeatTask struct {
	ticker clockwork.Ticker
	done   chan struct{}
	once   sync.Once
}

func startRepeat(clock clockwork.Clock, period time.Duration, fn func()) *repeatTask {
	t := &repeatTask{
		ticker: clock.NewTicker(period),
		done:   make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.Chan():
				fn()
			}
		}
	}()

	return t
}

// Cancel stops the task. Safe to call more than once and from fn itself.
func (t *repeatTask) Cancel() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

func retryLabel(remaining int) string {
	return fmt.Sprintf("retry in %ds", remaining)
}
