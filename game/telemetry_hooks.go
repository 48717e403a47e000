package game

import "log/slog"

// flushTelemetry closes the stats window when it is due and hands the
// result to the callback, the log and the CSV output.
func (g *Game) flushTelemetry() {
	tick := g.world.TickCount()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(g.world)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		slog.Info("perf", "stats", perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// logPerfStats logs tick timing every telemetry.perf_log_interval ticks.
func (g *Game) logPerfStats() {
	interval := g.cfg.Telemetry.PerfLogInterval
	if interval <= 0 {
		return
	}
	tick := g.world.TickCount()
	if tick%uint64(interval) != 0 {
		return
	}
	slog.Info("perf window",
		"tick", tick,
		"speed", g.speed,
		"perf", g.perfCollector.Stats(),
	)
}
