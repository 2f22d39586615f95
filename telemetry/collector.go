package telemetry

import "github.com/pthm-cable/collide/systems"

// Collector accumulates per-frame counters within windows and produces WindowStats.
type Collector struct {
	windowFrames uint64

	// Current window tracking
	windowStart uint64
	frames      int

	// Event counters for current window
	spawned     int
	overridden  int
	rejected    int
	inserted    int64
	rebuckets   int64
	reflections int64
	collisions  int64
	degenerate  int64
}

// NewCollector creates a new stats collector flushing every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: uint64(windowFrames)}
}

// RecordFrame adds one completed frame's counters to the window.
func (c *Collector) RecordFrame(fs systems.FrameStats) {
	c.frames++
	c.spawned += fs.Spawned
	c.overridden += fs.Overridden
	c.rejected += fs.Rejected
	c.inserted += fs.Inserted
	c.rebuckets += fs.Rebuckets
	c.reflections += fs.Reflections
	c.collisions += fs.Collisions
	c.degenerate += fs.Degenerate
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame uint64) bool {
	return frame-c.windowStart >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// particles must be the arena contents between frames.
func (c *Collector) Flush(frame uint64, particles []systems.Particle) WindowStats {
	speeds := make([]float64, len(particles))
	for i := range particles {
		speeds[i] = float64(particles[i].Vel.Len())
	}
	ks := ComputeKinematicStats(speeds)

	var perFrame float64
	if c.frames > 0 {
		perFrame = float64(c.collisions) / float64(c.frames)
	}

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   frame,
		Frames:      c.frames,
		Particles:   len(particles),

		Spawned:    c.spawned,
		Overridden: c.overridden,
		Rejected:   c.rejected,

		Inserted:           c.inserted,
		Rebuckets:          c.rebuckets,
		Reflections:        c.reflections,
		Collisions:         c.collisions,
		DegenerateContacts: c.degenerate,
		CollisionsPerFrame: perFrame,

		SpeedMean:      ks.Mean,
		SpeedStd:       ks.Std,
		SpeedP50:       ks.P50,
		SpeedP90:       ks.P90,
		KineticEnergy:  ks.Kinetic,
		MovingFraction: ks.MovingFraction,
	}

	// Reset for next window
	*c = Collector{windowFrames: c.windowFrames, windowStart: frame}

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() uint64 {
	return c.windowFrames
}
