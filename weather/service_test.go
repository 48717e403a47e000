package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testService(t *testing.T, h http.HandlerFunc, retries uint) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts := DefaultOptions()
	opts.URL = srv.URL
	opts.MaxRetries = retries
	opts.RetryInterval = time.Millisecond
	opts.Interval = 10 * time.Millisecond
	opts.Client = srv.Client()
	return NewService(opts)
}

type fetchLog struct {
	mu    sync.Mutex
	temps []float64
	errs  []error
}

func (f *fetchLog) ObserveFetch(temp float64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.temps = append(f.temps, temp)
	f.errs = append(f.errs, err)
}

func TestFixed(t *testing.T) {
	var s Source = Fixed(12.5)
	if s.Temperature() != 12.5 {
		t.Errorf("Fixed = %v", s.Temperature())
	}
}

func TestDefaultBeforeFetch(t *testing.T) {
	s := NewService(DefaultOptions())
	if s.Temperature() != DefaultTemperature {
		t.Errorf("temperature = %v, want %v", s.Temperature(), DefaultTemperature)
	}
	if !s.LastFetched().IsZero() {
		t.Error("LastFetched should be zero before any fetch")
	}
}

func TestEndpointQuery(t *testing.T) {
	s := NewService(DefaultOptions())
	want := DefaultURL + "?current_weather=true&latitude=35.6895&longitude=139.6917"
	if s.Endpoint() != want {
		t.Errorf("endpoint = %q, want %q", s.Endpoint(), want)
	}
}

func TestRefreshStoresTemperature(t *testing.T) {
	s := testService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("current_weather") != "true" {
			t.Errorf("query = %v", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"latitude":35.7,"current_weather":{"temperature":27.4,"windspeed":3.1,"time":"2024-07-01T12:00"}}`)
	}, 1)
	log := &fetchLog{}
	s.SetObserver(log)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if s.Temperature() != 27.4 {
		t.Errorf("temperature = %v, want 27.4", s.Temperature())
	}
	if s.LastFetched().IsZero() {
		t.Error("LastFetched not set")
	}
	if len(log.temps) != 1 || log.temps[0] != 27.4 || log.errs[0] != nil {
		t.Errorf("observer saw %v %v", log.temps, log.errs)
	}
}

func TestMalformedPayloadKeepsPreviousValue(t *testing.T) {
	payloads := []string{
		`not json`,
		`{"current_weather":{}}`,
		`{"hourly":{}}`,
	}

	for _, body := range payloads {
		var calls atomic.Int32
		s := testService(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprint(w, body)
		}, 3)

		err := s.Refresh(context.Background())
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%q: error = %v, want ErrMalformed", body, err)
		}
		if calls.Load() != 1 {
			t.Errorf("%q: malformed payload retried %d times", body, calls.Load())
		}
		if s.Temperature() != DefaultTemperature {
			t.Errorf("%q: temperature changed to %v", body, s.Temperature())
		}
		if s.Failures() != 1 {
			t.Errorf("%q: failures = %d", body, s.Failures())
		}
	}
}

func TestTransientErrorsAreRetried(t *testing.T) {
	var calls atomic.Int32
	s := testService(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"current_weather":{"temperature":-4.5}}`)
	}, 3)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if s.Temperature() != -4.5 {
		t.Errorf("temperature = %v", s.Temperature())
	}
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	s := testService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, 2)
	log := &fetchLog{}
	s.SetObserver(log)

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if len(log.errs) != 1 || log.errs[0] == nil || log.temps[0] != DefaultTemperature {
		t.Errorf("observer saw %v %v", log.temps, log.errs)
	}
}

func TestClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	s := testService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}, 5)

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestOverride(t *testing.T) {
	s := NewService(DefaultOptions())
	s.Override(35)
	if s.Temperature() != 35 || !s.Overridden() {
		t.Errorf("override: temperature %v overridden %v", s.Temperature(), s.Overridden())
	}
	if s.Fetched() != DefaultTemperature {
		t.Errorf("Fetched = %v, override should not touch it", s.Fetched())
	}
	s.ClearOverride()
	if s.Temperature() != DefaultTemperature || s.Overridden() {
		t.Errorf("after clear: temperature %v overridden %v", s.Temperature(), s.Overridden())
	}
}

func TestRunPollsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	s := testService(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		fmt.Fprintf(w, `{"current_weather":{"temperature":%d}}`, n)
	}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if calls.Load() < 3 {
		t.Fatalf("only %d polls", calls.Load())
	}
	if s.Temperature() < 1 {
		t.Errorf("temperature = %v, want a fetched value", s.Temperature())
	}
}
