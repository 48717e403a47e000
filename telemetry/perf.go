package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/amoeba/systems"
)

// Phase names for the frame step. The world reports its own phases
// (systems.PhaseSteer, PhaseFeed, PhaseSpawn) through Record.
const (
	PhaseEffects   = "effects"
	PhaseTelemetry = "telemetry"
)

// phases lists every phase in tick order. Timings for any other name are
// dropped.
var phases = [...]string{
	systems.PhaseSteer, systems.PhaseFeed, systems.PhaseSpawn,
	PhaseEffects, PhaseTelemetry,
}

// Phases returns the phase names in tick order.
func Phases() []string {
	return slices.Clone(phases[:])
}

func phaseIndex(name string) int {
	return slices.Index(phases[:], name)
}

type tickSample struct {
	total  time.Duration
	phases [len(phases)]time.Duration
}

// PerfCollector keeps the last N tick timings, split by phase.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	cur        tickSample
	tickStart  time.Time
	open       int // phase being timed by StartPhase, -1 for none
	phaseStart time.Time

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks
// (60 when window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickSample, window), open: -1}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickSample{}
	p.open = -1
	p.tickStart = time.Now()
}

// StartPhase closes the running phase, if any, and starts timing name.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.open = phaseIndex(name)
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open >= 0 {
		p.cur.phases[p.open] += now.Sub(p.phaseStart)
	}
	p.open = -1
}

// Record adds an externally timed phase to the current tick. It implements
// systems.PhaseTimer.
func (p *PerfCollector) Record(name string, d time.Duration) {
	if i := phaseIndex(name); i >= 0 {
		p.cur.phases[i] += d
	}
}

// EndTick closes the tick and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the tick window.
type PerfStats struct {
	Samples        int
	MeanTick       time.Duration
	P95Tick        time.Duration
	TicksPerSecond float64

	PhaseMean map[string]time.Duration
	PhasePct  map[string]float64 // share of the mean tick

	FPS float64 // 0 until two frames are recorded
}

// Stats computes the window summary.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Samples:   p.filled,
		PhaseMean: make(map[string]time.Duration, len(phases)),
		PhasePct:  make(map[string]float64, len(phases)),
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	ticks := make([]float64, p.filled)
	var sums [len(phases)]float64
	for i, sample := range p.ring[:p.filled] {
		ticks[i] = float64(sample.total)
		for j, d := range sample.phases {
			sums[j] += float64(d)
		}
	}

	mean := stat.Mean(ticks, nil)
	slices.Sort(ticks)
	s.MeanTick = time.Duration(mean)
	s.P95Tick = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))
	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
	}

	n := float64(p.filled)
	for j, name := range phases {
		s.PhaseMean[name] = time.Duration(sums[j] / n)
		if mean > 0 {
			s.PhasePct[name] = sums[j] / n / mean * 100
		}
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("mean_tick_us", s.MeanTick.Microseconds()),
		slog.Int64("p95_tick_us", s.P95Tick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, name := range phases {
		if pct, ok := s.PhasePct[name]; ok {
			attrs = append(attrs, slog.Float64(name+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    uint64  `csv:"window_end"`
	MeanTickUS   int64   `csv:"mean_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SteerPct     float64 `csv:"steer_physics_pct"`
	FeedPct      float64 `csv:"feed_pct"`
	SpawnPct     float64 `csv:"spawn_pct"`
	EffectsPct   float64 `csv:"effects_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		MeanTickUS:   s.MeanTick.Microseconds(),
		P95TickUS:    s.P95Tick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SteerPct:     s.PhasePct[systems.PhaseSteer],
		FeedPct:      s.PhasePct[systems.PhaseFeed],
		SpawnPct:     s.PhasePct[systems.PhaseSpawn],
		EffectsPct:   s.PhasePct[PhaseEffects],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
