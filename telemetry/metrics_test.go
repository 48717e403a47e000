package telemetry

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/components"
)

func TestMetricsObserveWorld(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	w := newWorld(t)
	w.SetObserver(m)
	w.AddFood(r2.Vec{X: 400, Y: 300})
	w.AddFood(r2.Vec{X: 10, Y: 10})
	w.Tick(1.0 / 60)
	m.FoodSpawned(components.NewFood(5, 5))
	m.SetWorld(w)
	m.ObserveTick(200 * time.Microsecond)

	if got := testutil.ToFloat64(m.FoodEatenN); got != 1 {
		t.Errorf("food eaten = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FoodSpawnedN); got != 1 {
		t.Errorf("food spawned = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Bodies); got != 1 {
		t.Errorf("bodies = %v", got)
	}
	if got := testutil.ToFloat64(m.Foods); got != 1 {
		t.Errorf("foods = %v", got)
	}
	if got := testutil.ToFloat64(m.Temperature); got != 20 {
		t.Errorf("temperature = %v", got)
	}
	if got := testutil.ToFloat64(m.MeanRadius); got != 31 {
		t.Errorf("mean radius = %v", got)
	}
	if got := testutil.CollectAndCount(m.TickDuration); got != 1 {
		t.Errorf("tick histogram series = %d", got)
	}
}

func TestMetricsWeatherFetches(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	m.ObserveFetch(21, nil)
	m.ObserveFetch(21, nil)
	m.ObserveFetch(20, errors.New("timeout"))

	if got := testutil.ToFloat64(m.Fetches.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok fetches = %v", got)
	}
	if got := testutil.ToFloat64(m.Fetches.WithLabelValues("error")); got != 1 {
		t.Errorf("error fetches = %v", got)
	}
}

func TestMetricsReRegisterReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("second NewMetrics: %v", err)
	}
	a.FoodEaten(0, components.Food{})
	if got := testutil.ToFloat64(b.FoodEatenN); got != 1 {
		t.Errorf("shared counter = %v, want 1", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	m.Temperature.Set(18.5)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "amoeba_temperature_celsius 18.5") {
		t.Errorf("metrics output missing temperature:\n%s", body)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.FoodEaten(0, components.Food{})
	m.FoodSpawned(components.Food{})
	m.ObserveFetch(0, nil)
	m.ObserveTick(time.Millisecond)
}
