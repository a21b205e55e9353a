package simulation

import (
	"sync"
	"time"

	"lifebits/src/universe"
)

//Timer observes ticks, Begin is called before the tick and End after it
//implementations must not touch the universe
type Timer interface {
	Begin(label string)
	End(label string)
}

//timed runs fn between Begin and End, End is called even if fn panics
func timed(t Timer, label string, fn func()) {
	if t == nil {
		fn()
		return
	}
	t.Begin(label)
	defer t.End(label)
	fn()
}

//LogTimer logs the duration of every labelled section through the shared logger
type LogTimer struct {
	mu     sync.Mutex
	starts map[string]time.Time
}

//NewLogTimer creates the timer with no open sections
func NewLogTimer() *LogTimer {
	return &LogTimer{starts: map[string]time.Time{}}
}

//Begin opens the section label, a second Begin restarts it
func (t *LogTimer) Begin(label string) {
	t.mu.Lock()
	t.starts[label] = time.Now()
	t.mu.Unlock()
}

//End logs the time since Begin at debug level and closes the section
//End without Begin is ignored
func (t *LogTimer) End(label string) {
	t.mu.Lock()
	start, ok := t.starts[label]
	delete(t.starts, label)
	t.mu.Unlock()
	if !ok {
		return
	}
	universe.Logger().Debug("timer", "label", label, "elapsed", time.Since(start))
}
