package game

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pthm-cable/amoeba/config"
	"github.com/pthm-cable/amoeba/telemetry"
	"github.com/pthm-cable/amoeba/weather"
)

const shutdownTimeout = 2 * time.Second

func weatherOptions(c config.WeatherConfig) weather.Options {
	opts := weather.DefaultOptions()
	if c.URL != "" {
		opts.URL = c.URL
	}
	opts.Latitude = c.Latitude
	opts.Longitude = c.Longitude
	if c.Interval > 0 {
		opts.Interval = c.Interval
	}
	if c.Timeout > 0 {
		opts.Timeout = c.Timeout
	}
	opts.MaxRetries = c.MaxRetries
	opts.Default = c.DefaultTemperature
	return opts
}

// startWeather polls the weather API in the background until ctx is done.
func (g *Game) startWeather(ctx context.Context) {
	g.weatherDone = make(chan struct{})
	go func() {
		defer close(g.weatherDone)
		g.weather.Run(ctx)
	}()
	slog.Info("weather polling started", "endpoint", g.weather.Endpoint(), "interval", g.cfg.Weather.Interval)
}

func serveMetrics(addr string, m *telemetry.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("metrics server exited", "error", err)
		}
	}()

	slog.Info("serving Prometheus metrics", "addr", addr)
	return srv
}

// Unload stops background work and closes output files.
func (g *Game) Unload() {
	if g.cancel != nil {
		g.cancel()
	}
	if g.weatherDone != nil {
		<-g.weatherDone
	}

	if g.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := g.metricsServer.Shutdown(ctx); err != nil {
			slog.Warn("metrics server shutdown", "error", err)
		}
		cancel()
	}

	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
