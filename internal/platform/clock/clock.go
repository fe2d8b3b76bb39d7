// Package clock injects time into the application layer. Domain code never
// reads a clock; each operation samples Now once and passes the instant down.
package clock

import "time"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System is the production clock. It always reports UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed is a test clock pinned to a settable instant.
type Fixed struct {
	Instant time.Time
}

func (f *Fixed) Now() time.Time { return f.Instant }

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) { f.Instant = f.Instant.Add(d) }
