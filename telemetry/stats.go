package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStart uint64 `csv:"-"`
	WindowEnd   uint64 `csv:"window_end"`
	Frames      int    `csv:"frames"`
	Particles   int    `csv:"particles"`

	// Ingest during window
	Spawned    int `csv:"spawned"`
	Overridden int `csv:"overridden"`
	Rejected   int `csv:"rejected"`

	// Grid and contacts during window
	Inserted           int64   `csv:"inserted"`
	Rebuckets          int64   `csv:"rebuckets"`
	Reflections        int64   `csv:"reflections"`
	Collisions         int64   `csv:"collisions"`
	DegenerateContacts int64   `csv:"degenerate_contacts"`
	CollisionsPerFrame float64 `csv:"collisions_per_frame"`

	// Speed distribution (sampled at window end)
	SpeedMean      float64 `csv:"speed_mean"`
	SpeedStd       float64 `csv:"speed_std"`
	SpeedP50       float64 `csv:"speed_p50"`
	SpeedP90       float64 `csv:"speed_p90"`
	KineticEnergy  float64 `csv:"kinetic_energy"`
	MovingFraction float64 `csv:"moving_fraction"`
}

// KinematicStats summarizes particle speeds.
type KinematicStats struct {
	Mean, Std, P50, P90 float64
	Kinetic             float64 // sum of v^2/2 with unit mass
	MovingFraction      float64 // share of particles with nonzero speed
}

// ComputeKinematicStats calculates speed statistics. speeds is not modified.
func ComputeKinematicStats(speeds []float64) KinematicStats {
	n := len(speeds)
	if n == 0 {
		return KinematicStats{}
	}

	var ks KinematicStats
	ks.Mean, ks.Std = stat.PopMeanStdDev(speeds, nil)
	ks.Kinetic = floats.Dot(speeds, speeds) / 2

	moving := 0
	for _, v := range speeds {
		if v > 0 {
			moving++
		}
	}
	ks.MovingFraction = float64(moving) / float64(n)

	// Quantile needs sorted input
	sorted := make([]float64, n)
	copy(sorted, speeds)
	sort.Float64s(sorted)
	ks.P50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	ks.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)

	return ks
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStart),
		slog.Uint64("window_end", s.WindowEnd),
		slog.Int("frames", s.Frames),
		slog.Int("particles", s.Particles),
		slog.Int("spawned", s.Spawned),
		slog.Int("overridden", s.Overridden),
		slog.Int("rejected", s.Rejected),
		slog.Int64("inserted", s.Inserted),
		slog.Int64("rebuckets", s.Rebuckets),
		slog.Int64("reflections", s.Reflections),
		slog.Int64("collisions", s.Collisions),
		slog.Int64("degenerate_contacts", s.DegenerateContacts),
		slog.Float64("collisions_per_frame", s.CollisionsPerFrame),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("moving_fraction", s.MovingFraction),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
