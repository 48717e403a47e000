package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/amoeba/config"
	"github.com/pthm-cable/amoeba/desktop"
	"github.com/pthm-cable/amoeba/game"
	"github.com/pthm-cable/amoeba/systems"
	"github.com/pthm-cable/amoeba/termview"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	term := flag.Bool("term", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	offline := flag.Bool("offline", false, "Do not poll the weather API; use the default temperature")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call in headless mode")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging). The terminal
	// view owns stdout, so its logs go to stderr.
	logOut := os.Stdout
	if *term {
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		MetricsAddr:    *metricsAddr,
		Offline:        *offline,
		Headless:       *headless || *term,
		StepsPerUpdate: *stepsPerUpdate,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case *headless:
		err = runHeadless(ctx, opts, *maxTicks)
	case *term:
		err = runTerminal(ctx, opts, cfg, *maxTicks)
	default:
		err = runWindow(opts, cfg, *maxTicks)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func runHeadless(ctx context.Context, opts game.Options, maxTicks uint64) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
		"offline", opts.Offline,
	)

	err = g.RunHeadless(ctx, maxTicks)
	slog.Info("headless simulation stopped", "tick", g.Tick())
	return err
}

func runTerminal(ctx context.Context, opts game.Options, cfg *config.Config, maxTicks uint64) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 30
	}
	frameDT := 1 / float64(fps)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := termview.New(screen, cfg.Derived.WorldW, cfg.Derived.WorldH)
	return view.Run(ctx, fps, func() systems.Snapshot {
		g.Advance(frameDT)
		if maxTicks > 0 && g.Tick() >= maxTicks {
			cancel()
		}
		return g.Snapshot()
	})
}

func runWindow(opts game.Options, cfg *config.Config, maxTicks uint64) error {
	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Amoeba")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	app := desktop.New(g)
	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			break
		}
	}
	return nil
}
