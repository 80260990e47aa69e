package clocks

import (
	"sync"
	"time"
)

// Wall reports the current calendar time.
type Wall interface {
	Now() time.Time
	Resolution() time.Duration
}

// Monotonic reports time elapsed since an arbitrary fixed origin.
type Monotonic interface {
	Now() time.Duration
	Resolution() time.Duration
}

// Clock bundles the two clock sources a guest can observe.
type Clock struct {
	Wall      Wall
	Monotonic Monotonic
}

// New returns the host clocks. The monotonic origin is the call time.
func New() Clock {
	return Clock{
		Wall:      SystemWall{},
		Monotonic: NewSystemMonotonic(),
	}
}

// SystemWall reads time.Now.
type SystemWall struct{}

func (SystemWall) Now() time.Time { return time.Now() }

func (SystemWall) Resolution() time.Duration { return time.Microsecond }

// SystemMonotonic reads the runtime's monotonic clock.
type SystemMonotonic struct {
	start time.Time
}

func NewSystemMonotonic() *SystemMonotonic {
	return &SystemMonotonic{start: time.Now()}
}

func (m *SystemMonotonic) Now() time.Duration { return time.Since(m.start) }

func (m *SystemMonotonic) Resolution() time.Duration { return time.Nanosecond }

// Manual is a clock moved only by Advance. The zero value starts at the Unix
// epoch.
type Manual struct {
	mu      sync.Mutex
	epoch   time.Time
	elapsed time.Duration
}

// NewManual returns a manual clock whose wall time starts at epoch.
func NewManual(epoch time.Time) *Manual {
	return &Manual{epoch: epoch}
}

// Advance moves both readings forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.elapsed += d
	m.mu.Unlock()
}

// Clock returns a Clock reading from m.
func (m *Manual) Clock() Clock {
	return Clock{Wall: manualWall{m}, Monotonic: manualMonotonic{m}}
}

func (m *Manual) read() (time.Time, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	epoch := m.epoch
	if epoch.IsZero() {
		epoch = time.Unix(0, 0)
	}
	return epoch.Add(m.elapsed), m.elapsed
}

type manualWall struct{ m *Manual }

func (w manualWall) Now() time.Time            { t, _ := w.m.read(); return t }
func (w manualWall) Resolution() time.Duration { return time.Nanosecond }

type manualMonotonic struct{ m *Manual }

func (c manualMonotonic) Now() time.Duration        { _, d := c.m.read(); return d }
func (c manualMonotonic) Resolution() time.Duration { return time.Nanosecond }
