package clock

import "time"

const (
	DefaultMaxDelta = 0.1
	minMaxDelta     = 0.001
	fpsSmoothing    = 0.10
)

// Metrics describes one frame. It is a value; nothing keeps it.
type Metrics struct {
	DeltaSeconds float64
	TotalSeconds float64
	FrameMS      float64
	FPS          float64
}

// Clock converts wall time into clamped frame deltas.
type Clock struct {
	now func() time.Time

	start    time.Time
	previous time.Time
	ticked   bool

	maxDelta    float64
	smoothedFPS float64
}

type Option func(*Clock)

// WithNow replaces the wall clock, for deterministic tests.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

func WithMaxDelta(seconds float64) Option {
	return func(c *Clock) {
		c.SetMaxDelta(seconds)
	}
}

func New(opts ...Option) *Clock {
	c := &Clock{now: time.Now, maxDelta: DefaultMaxDelta}
	for _, opt := range opts {
		opt(c)
	}
	c.start = c.now()
	c.previous = c.start
	return c
}

// SetMaxDelta sets the delta clamp. Values below one millisecond are raised
// to one millisecond.
func (c *Clock) SetMaxDelta(seconds float64) {
	c.maxDelta = max(minMaxDelta, seconds)
}

func (c *Clock) MaxDelta() float64 {
	return c.maxDelta
}

// Tick measures the time since the previous tick. The first tick only
// records a timestamp and returns zero metrics.
func (c *Clock) Tick() Metrics {
	now := c.now()
	if !c.ticked {
		c.ticked = true
		c.previous = now
		return Metrics{}
	}

	delta := now.Sub(c.previous).Seconds()
	c.previous = now

	m := Metrics{
		DeltaSeconds: min(max(delta, 0), c.maxDelta),
		TotalSeconds: now.Sub(c.start).Seconds(),
	}
	m.FrameMS = m.DeltaSeconds * 1000

	instant := 0.0
	if m.DeltaSeconds > 0 {
		instant = 1 / m.DeltaSeconds
	}
	if c.smoothedFPS == 0 {
		c.smoothedFPS = instant
	} else {
		c.smoothedFPS = fpsSmoothing*instant + (1-fpsSmoothing)*c.smoothedFPS
	}
	m.FPS = c.smoothedFPS
	return m
}
