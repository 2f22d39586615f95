// Package systems implements the concurrent collision core: the particle
// arena, the locked spatial grid, the ingest handoff and the frame scheduler.
package systems

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/collide/components"
)

// Configuration errors. NewWorld wraps one of these; callers match with errors.Is.
var (
	ErrInvalidDomain    = errors.New("domain width and height must be positive")
	ErrNoParticles      = errors.New("particle count must be positive")
	ErrInvalidRadius    = errors.New("particle radius must be positive")
	ErrTooManyParticles = errors.New("particle count exceeds max particles")
	ErrSeedOutOfBounds  = errors.New("seed layout does not fit in the domain")
)

// DefaultSpacingFactor is the seed raster pitch as a multiple of the radius.
const DefaultSpacingFactor = 1.2

// DefaultIngestCapacity bounds the ingest queue when no capacity is configured.
const DefaultIngestCapacity = 4096

// SeedConfig controls the deterministic initial placement.
type SeedConfig struct {
	Top           float32 // y of the first raster row
	SpacingFactor float32 // raster pitch = radius * SpacingFactor (0 = DefaultSpacingFactor)
	Velocity      components.Vec2
	Color         components.Color
}

// WorldConfig is the initial configuration supplied by the renderer side.
type WorldConfig struct {
	Width, Height  float32
	Radius         float32
	Count          int
	MaxParticles   int // 0 = Count (no room for spawns)
	IngestCapacity int // 0 = DefaultIngestCapacity
	Seed           SeedConfig
}

// withDefaults fills zero-valued optional fields.
func (c WorldConfig) withDefaults() WorldConfig {
	if c.MaxParticles == 0 {
		c.MaxParticles = c.Count
	}
	if c.IngestCapacity <= 0 {
		c.IngestCapacity = DefaultIngestCapacity
	}
	if c.Seed.SpacingFactor <= 0 {
		c.Seed.SpacingFactor = DefaultSpacingFactor
	}
	return c
}

// Validate reports the first setup error in the configuration.
func (c WorldConfig) Validate() error {
	c = c.withDefaults()
	if !(c.Width > 0) || !(c.Height > 0) {
		return fmt.Errorf("world %gx%g: %w", c.Width, c.Height, ErrInvalidDomain)
	}
	if c.Count <= 0 {
		return fmt.Errorf("count %d: %w", c.Count, ErrNoParticles)
	}
	if !(c.Radius > 0) {
		return fmt.Errorf("radius %g: %w", c.Radius, ErrInvalidRadius)
	}
	if c.Count > c.MaxParticles {
		return fmt.Errorf("count %d > max %d: %w", c.Count, c.MaxParticles, ErrTooManyParticles)
	}
	for i, p := range SeedPositions(c) {
		if p.X < 0 || p.X > c.Width || p.Y < 0 || p.Y > c.Height {
			return fmt.Errorf("particle %d at (%g, %g): %w", i, p.X, p.Y, ErrSeedOutOfBounds)
		}
	}
	return nil
}

// SeedPositions lays particles on a raster that starts at (3W/8, Top) and
// advances by radius*SpacingFactor, wrapping to a new row once x passes 5W/8.
func SeedPositions(c WorldConfig) []components.Vec2 {
	c = c.withDefaults()
	step := c.Radius * c.Seed.SpacingFactor
	left := 3 * c.Width / 8
	right := 5 * c.Width / 8

	out := make([]components.Vec2, c.Count)
	acc := components.Vec2{X: left, Y: c.Seed.Top}
	for i := range out {
		out[i] = acc
		acc.X += step
		if acc.X > right {
			acc.Y += step
			acc.X = left
		}
	}
	return out
}

// World owns everything a frame mutates. It is created once at startup and
// handed to a Scheduler; nothing else should touch it while frames run.
type World struct {
	Config   WorldConfig
	State    *State
	Grid     *SpatialGrid
	Locks    *CellLockTable
	Ingest   *IngestBuffer
	Resolver *CollisionResolver
}

// NewWorld validates the configuration, seeds the particles and buckets them.
func NewWorld(cfg WorldConfig) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid world config: %w", err)
	}
	cfg = cfg.withDefaults()

	state := NewState(cfg.MaxParticles)
	for _, pos := range SeedPositions(cfg) {
		state.spawn(pos, cfg.Seed.Velocity, cfg.Seed.Color)
	}

	grid := NewSpatialGrid(cfg.Width, cfg.Height, 2*cfg.Radius)
	grid.Rebuild(state.Particles)

	return &World{
		Config:   cfg,
		State:    state,
		Grid:     grid,
		Locks:    NewCellLockTable(grid.NumCells()),
		Ingest:   NewIngestBuffer(cfg.IngestCapacity),
		Resolver: NewCollisionResolver(cfg.Radius, cfg.Width, cfg.Height),
	}, nil
}
