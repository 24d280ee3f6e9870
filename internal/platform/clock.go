package platform

// Clock turns a monotonic seconds source into scaled frame deltas.
type Clock struct {
	now       func() float64
	last      float64
	started   bool
	delta     float32
	raw       float32
	elapsed   float64
	timeScale float32
	frames    uint64
	// MaxDelta caps a single step so a stall (debugger, window drag) does not teleport things.
	MaxDelta float32
}

// NewClock reads time from now, in seconds.
func NewClock(now func() float64) *Clock {
	return &Clock{now: now, timeScale: 1, MaxDelta: 0.25}
}

// Tick advances one frame. The first tick yields a zero delta.
func (c *Clock) Tick() {
	t := c.now()
	if !c.started {
		c.started = true
		c.last = t
	}
	raw := float32(t - c.last)
	if raw < 0 {
		raw = 0
	}
	if c.MaxDelta > 0 && raw > c.MaxDelta {
		raw = c.MaxDelta
	}
	c.last = t
	c.raw = raw
	c.delta = raw * c.timeScale
	c.elapsed += float64(c.delta)
	c.frames++
}

// Delta is the scaled seconds of the last frame.
func (c *Clock) Delta() float32 { return c.delta }

// Elapsed is scaled seconds since the first tick.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Frames counts ticks.
func (c *Clock) Frames() uint64 { return c.frames }

// FPS is derived from the unscaled last delta; zero before the second tick.
func (c *Clock) FPS() float32 {
	if c.raw <= 0 {
		return 0
	}
	return 1 / c.raw
}

func (c *Clock) TimeScale() float32 { return c.timeScale }

// SetTimeScale slows or speeds simulation; negative values are treated as 0.
func (c *Clock) SetTimeScale(s float32) {
	if s < 0 {
		s = 0
	}
	c.timeScale = s
}
