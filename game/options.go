package game

import "github.com/pthm-cable/amoeba/config"

// Options configures a Game beyond what the config file holds.
type Options struct {
	// Config overrides the global configuration (nil = config.Cfg()).
	Config *config.Config

	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = telemetry.stats_window
	OutputDir      string
	MetricsAddr    string // serve /metrics on this address when set

	// Offline keeps the temperature at its default and never polls the
	// weather API.
	Offline bool

	Headless       bool
	StepsPerUpdate int // ticks per UpdateHeadless call
}

// DefaultOptions returns options for an interactive run with the weather
// feed enabled.
func DefaultOptions() Options {
	return Options{
		Seed:           1,
		StepsPerUpdate: 1,
	}
}
