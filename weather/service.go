package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultURL is the Open-Meteo forecast endpoint.
const DefaultURL = "https://api.open-meteo.com/v1/forecast"

// Options configures a Service.
type Options struct {
	URL           string
	Latitude      float64
	Longitude     float64
	Interval      time.Duration // time between polls
	Timeout       time.Duration // per-request timeout
	MaxRetries    uint          // attempts per poll, including the first
	RetryInterval time.Duration // initial backoff between attempts
	Default       float64       // temperature before the first fetch
	Client        *http.Client
}

// DefaultOptions returns options polling Tokyo once a minute.
func DefaultOptions() Options {
	return Options{
		URL:           DefaultURL,
		Latitude:      35.6895,
		Longitude:     139.6917,
		Interval:      60 * time.Second,
		Timeout:       10 * time.Second,
		MaxRetries:    3,
		RetryInterval: 500 * time.Millisecond,
		Default:       DefaultTemperature,
	}
}

// ErrMalformed is returned when the API answers with a payload that has no
// current temperature.
var ErrMalformed = errors.New("weather: malformed payload")

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
		Time        string   `json:"time"`
	} `json:"current_weather"`
}

// Service holds the last known temperature and refreshes it from the
// network. It is safe for concurrent use.
type Service struct {
	opts     Options
	client   *http.Client
	endpoint string

	mu          sync.RWMutex
	temp        float64
	override    float64
	overridden  bool
	lastFetched time.Time
	failures    int
	observer    Observer
}

// NewService creates a service that reports opts.Default until its first
// successful fetch.
func NewService(opts Options) *Service {
	def := DefaultOptions()
	if opts.URL == "" {
		opts.URL = def.URL
	}
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 1
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = def.RetryInterval
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &Service{
		opts:     opts,
		client:   client,
		endpoint: buildEndpoint(opts.URL, opts.Latitude, opts.Longitude),
		temp:     opts.Default,
	}
}

func buildEndpoint(base string, lat, lon float64) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current_weather", "true")
	return base + "?" + q.Encode()
}

// Endpoint returns the full request URL.
func (s *Service) Endpoint() string { return s.endpoint }

// SetObserver attaches an observer for fetch outcomes.
func (s *Service) SetObserver(o Observer) {
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

// Temperature implements Source. An override, when set, wins over the
// fetched value.
func (s *Service) Temperature() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.overridden {
		return s.override
	}
	return s.temp
}

// Fetched returns the last fetched (or default) temperature, ignoring any override.
func (s *Service) Fetched() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.temp
}

// Override pins the reported temperature until ClearOverride.
func (s *Service) Override(t float64) {
	s.mu.Lock()
	s.override = t
	s.overridden = true
	s.mu.Unlock()
}

// ClearOverride returns to reporting the fetched temperature.
func (s *Service) ClearOverride() {
	s.mu.Lock()
	s.overridden = false
	s.mu.Unlock()
}

// Overridden reports whether an override is active.
func (s *Service) Overridden() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overridden
}

// LastFetched returns the time of the last successful fetch, zero if none.
func (s *Service) LastFetched() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFetched
}

// Failures returns the number of polls that ended in an error.
func (s *Service) Failures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures
}

// Fetch performs one poll, retrying transient failures with exponential
// backoff. Malformed payloads and client errors are not retried.
func (s *Service) Fetch(ctx context.Context) (float64, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.RetryInterval

	return backoff.Retry(ctx, func() (float64, error) {
		return s.fetchOnce(ctx)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.opts.MaxRetries),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Debug("weather fetch retry", "error", err, "next", next)
		}),
	)
}

func (s *Service) fetchOnce(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("building request: %w", err))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("requesting forecast: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return 0, fmt.Errorf("forecast status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return 0, backoff.Permanent(fmt.Errorf("forecast status %d", resp.StatusCode))
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformed, err))
	}
	if payload.CurrentWeather == nil || payload.CurrentWeather.Temperature == nil {
		return 0, backoff.Permanent(fmt.Errorf("%w: missing current_weather.temperature", ErrMalformed))
	}
	return *payload.CurrentWeather.Temperature, nil
}

// Refresh polls once and stores the result. On failure the previous value
// is kept and the error is returned.
func (s *Service) Refresh(ctx context.Context) error {
	temp, err := s.Fetch(ctx)

	s.mu.Lock()
	if err == nil {
		s.temp = temp
		s.lastFetched = time.Now()
	} else {
		s.failures++
		temp = s.temp
	}
	obs := s.observer
	s.mu.Unlock()

	if obs != nil {
		obs.ObserveFetch(temp, err)
	}
	return err
}

// Run polls immediately and then every Interval until ctx is cancelled.
// Fetch errors are logged, never returned.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		s.poll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) poll(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("weather fetch failed", "error", err, "keeping", s.Fetched())
		return
	}
	slog.Info("weather updated", "temperature", s.Fetched())
}
