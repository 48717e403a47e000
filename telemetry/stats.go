package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/amoeba/systems"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Bodies      int     `csv:"bodies"`
	Foods       int     `csv:"foods"`
	Temperature float64 `csv:"temperature"`

	// Events during window
	FoodEaten   int     `csv:"food_eaten"`
	FoodSpawned int     `csv:"food_spawned"`
	Nutrition   float64 `csv:"nutrition"`

	// Body size distribution (sampled at window end)
	RadiusMean float64 `csv:"radius_mean"`
	RadiusStd  float64 `csv:"radius_std"`
	RadiusP50  float64 `csv:"radius_p50"`
	RadiusMax  float64 `csv:"radius_max"`

	// Mesh health
	MeanSpeed     float64 `csv:"mean_speed"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	VolumeError   float64 `csv:"volume_error"` // mean |V - V_target| / V_target
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSizeStats returns mean, sample standard deviation, median and max.
func ComputeSizeStats(values []float64) (mean, std, p50, maxV float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}
	if n == 1 {
		return values[0], 0, values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, Percentile(sorted, 0.5), sorted[n-1]
}

// MeshStats samples speed, energy and volume error across bodies.
func MeshStats(bodies []*systems.Body) (meanSpeed, kinetic, volumeError float64) {
	if len(bodies) == 0 {
		return 0, 0, 0
	}
	speeds := make([]float64, len(bodies))
	errs := make([]float64, len(bodies))
	for i, b := range bodies {
		speeds[i] = b.MeanSpeed()
		kinetic += b.KineticEnergy()
		if target := b.TargetVolume(); target > 0 {
			errs[i] = math.Abs(b.Volume()-target) / target
		}
	}
	return stat.Mean(speeds, nil), kinetic, stat.Mean(errs, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("bodies", s.Bodies),
		slog.Int("foods", s.Foods),
		slog.Float64("temperature", s.Temperature),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("food_spawned", s.FoodSpawned),
		slog.Float64("nutrition", s.Nutrition),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_std", s.RadiusStd),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("radius_max", s.RadiusMax),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("volume_error", s.VolumeError),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
