package testutil

import (
	"time"

	"igpages/internal/archive"
)

// FixedClock always returns the same instant, so feed windows are
// deterministic in tests.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Compile-time check that FixedClock implements archive.Clock
var _ archive.Clock = FixedClock{}
