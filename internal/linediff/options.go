package linediff

import (
	"time"

	"go.uber.org/zap"
)

// maxCharComputationTime caps the character pass budget, so that a generous line budget still leaves the character pass bounded.
const maxCharComputationTime = 5 * time.Second

// Options controls Compute.
type Options struct {
	ShouldComputeCharChanges     bool // Compute CharChanges for changed chunks shorter than 20 lines on both sides.
	ShouldPostProcessCharChanges bool // Merge char changes separated by fewer than 3 matching characters.
	ShouldIgnoreTrimWhitespace   bool // Don't report lines that differ only in leading/trailing whitespace.
	ShouldMakePrettyDiff         bool // Shift line changes to intuitive boundaries.

	// MaxComputationTime bounds the line pass. 0 means unlimited.
	MaxComputationTime time.Duration

	// Clock supplies the time for budget checks. nil means the wall clock.
	Clock Clock

	// Logger receives debug logs. nil means no logging.
	Logger *zap.Logger
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (o Options) clock() Clock {
	if o.Clock == nil {
		return wallClock{}
	}
	return o.Clock
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// budget reports whether there is time left.
type budget func() bool

// newBudget starts a budget of limit on clock. A limit of 0 never runs out.
func newBudget(clock Clock, limit time.Duration) budget {
	if limit == 0 {
		return func() bool { return true }
	}
	start := clock.Now()
	return func() bool {
		return clock.Now().Sub(start) < limit
	}
}

// charBudget is the budget for the character pass: the line budget, capped at maxCharComputationTime.
func charBudget(clock Clock, lineMax time.Duration) budget {
	if lineMax == 0 {
		return newBudget(clock, 0)
	}
	return newBudget(clock, min(lineMax, maxCharComputationTime))
}

func (b budget) continueFunc() func(int, int) bool {
	return func(int, int) bool { return b() }
}
