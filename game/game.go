// Package game drives a simulation run: it owns the world, the temperature
// feed and the telemetry around them, and advances them frame by frame.
// Rendering lives in the frontends (desktop, termview).
package game

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pthm-cable/amoeba/config"
	"github.com/pthm-cable/amoeba/systems"
	"github.com/pthm-cable/amoeba/telemetry"
	"github.com/pthm-cable/amoeba/weather"
)

// perfWindow is the number of ticks the perf collector averages over.
const perfWindow = 120

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *systems.World
	rng   *rand.Rand

	weather *weather.Service
	effects *systems.EffectSystem // nil when headless

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	metrics       *telemetry.Metrics
	metricsServer *http.Server
	statsCallback func(telemetry.WindowStats)
	logStats      bool

	// Background weather polling
	cancel      context.CancelFunc
	weatherDone chan struct{}

	stepsPerUpdate int
	speed          int
	paused         bool
	nextColor      int
}

// NewGame creates a game with default options.
func NewGame() (*Game, error) {
	return NewGameWithOptions(DefaultOptions())
}

// NewGameWithOptions creates a game, starts the weather poller unless
// offline, and serves metrics when an address is given. The config's
// derived values are refreshed first, so callers may edit it after Load.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	cfg.ComputeDerived()

	rng := rand.New(rand.NewSource(opts.Seed))
	svc := weather.NewService(weatherOptions(cfg.Weather))

	world, err := systems.NewWorld(cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.WorldParams(), rng, svc)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	metrics, err := telemetry.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		cfg:            cfg,
		world:          world,
		rng:            rng,
		weather:        svc,
		collector:      telemetry.NewCollector(statsWindow, cfg.Loop.DT),
		perfCollector:  telemetry.NewPerfCollector(perfWindow),
		outputManager:  outputManager,
		metrics:        metrics,
		logStats:       opts.LogStats,
		stepsPerUpdate: stepsPerUpdate,
		speed:          1,
	}

	observers := systems.Observers{g.collector, metrics}
	if !opts.Headless {
		// Splash particles draw from their own stream so that turning the
		// window on or off does not change the simulation.
		g.effects = systems.NewEffectSystem(rand.New(rand.NewSource(opts.Seed+1)), cfg.EffectParams())
		observers = append(observers, g.effects)
	}
	world.SetObserver(observers)
	world.SetPhaseTimer(g.perfCollector)
	svc.SetObserver(metrics)

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	if !opts.Offline && cfg.Weather.Enabled {
		g.startWeather(ctx)
	}

	if opts.MetricsAddr != "" {
		g.metricsServer = serveMetrics(opts.MetricsAddr, metrics)
	}

	return g, nil
}

// Step advances the simulation by one tick of dt seconds.
func (g *Game) Step(dt float64) {
	g.perfCollector.StartTick()
	start := time.Now()

	g.world.Tick(dt)

	if g.effects != nil {
		g.perfCollector.StartPhase(telemetry.PhaseEffects)
		g.effects.Update(dt)
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.metrics.ObserveTick(time.Since(start))
	g.metrics.SetWorld(g.world)
	g.flushTelemetry()

	g.perfCollector.EndTick()
	g.logPerfStats()
}

// Advance runs the ticks for one rendered frame that took frameDT seconds.
// It returns the number of ticks run, zero while paused.
func (g *Game) Advance(frameDT float64) int {
	if g.paused {
		return 0
	}
	dt, n := FrameSteps(frameDT, g.cfg.Loop.MaxDT, g.cfg.Loop.Substeps, g.speed)
	for i := 0; i < n; i++ {
		g.Step(dt)
	}
	return n
}

// UpdateHeadless runs StepsPerUpdate ticks at the fixed loop.dt.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Loop.DT)
	}
}

// RunHeadless calls UpdateHeadless until ctx is done or maxTicks is reached
// (0 = unlimited).
func (g *Game) RunHeadless(ctx context.Context, maxTicks uint64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.UpdateHeadless()
		if maxTicks > 0 && g.Tick() >= maxTicks {
			return nil
		}
	}
}

// FrameSteps caps a frame's elapsed time at maxDT and returns the per-tick
// dt together with the number of ticks to run: substeps times speed. Each
// tick uses the full capped dt, so speed and substeps both fast-forward.
func FrameSteps(frameDT, maxDT float64, substeps, speed int) (float64, int) {
	if frameDT <= 0 {
		return 0, 0
	}
	if maxDT > 0 && frameDT > maxDT {
		frameDT = maxDT
	}
	if substeps < 1 {
		substeps = 1
	}
	if speed < 1 {
		speed = 1
	}
	return frameDT, substeps * speed
}

// RecordFrame marks the end of a rendered frame for FPS tracking.
func (g *Game) RecordFrame() { g.perfCollector.RecordFrame() }

// Snapshot returns the current render state.
func (g *Game) Snapshot() systems.Snapshot {
	return g.world.Snapshot()
}

// World returns the simulation world.
func (g *Game) World() *systems.World { return g.world }

// Effects returns the splash particle system, nil when headless.
func (g *Game) Effects() *systems.EffectSystem { return g.effects }

// Weather returns the temperature service.
func (g *Game) Weather() *weather.Service { return g.weather }

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config { return g.cfg }

// Perf returns the rolling tick timing.
func (g *Game) Perf() telemetry.PerfStats { return g.perfCollector.Stats() }

// Metrics returns the Prometheus instruments.
func (g *Game) Metrics() *telemetry.Metrics { return g.metrics }

// Tick returns the number of completed ticks.
func (g *Game) Tick() uint64 { return g.world.TickCount() }

// SetStatsCallback sets a function called with every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}
