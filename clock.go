package pagecanvas

import "time"

// Clock reports the current time. The Orchestrator samples it to measure
// the paint-cycle budget.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// budget is the wall-clock allowance of one paint cycle.
//
// The start timestamp moves only on reset, so every pause check within a
// cycle measures against the same deadline.
type budget struct {
	clock       Clock
	defaultWait time.Duration
	wait        time.Duration
	start       time.Time
}

func (b *budget) reset() {
	b.wait = b.defaultWait
	b.start = b.clock.Now()
}

func (b *budget) elapsed() time.Duration {
	return b.clock.Now().Sub(b.start)
}

func (b *budget) exceeded() bool {
	return b.elapsed() > b.wait
}
