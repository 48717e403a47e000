package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm-cable/amoeba/components"
	"github.com/pthm-cable/amoeba/systems"
	"github.com/pthm-cable/amoeba/weather"
)

// Metrics bundles the Prometheus instruments for a running simulation. It
// observes world events and weather fetches directly.
type Metrics struct {
	gatherer prometheus.Gatherer

	Bodies       prometheus.Gauge
	Foods        prometheus.Gauge
	Temperature  prometheus.Gauge
	MeanRadius   prometheus.Gauge
	FoodEatenN   prometheus.Counter
	FoodSpawnedN prometheus.Counter
	TickDuration prometheus.Histogram
	Fetches      *prometheus.CounterVec
}

var (
	_ systems.Observer = (*Metrics)(nil)
	_ weather.Observer = (*Metrics)(nil)
)

// NewMetrics registers simulation metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{gatherer: gatherer}
	var err error

	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&m.Bodies, "amoeba_bodies", "Current number of soft bodies."},
		{&m.Foods, "amoeba_foods", "Current number of food items."},
		{&m.Temperature, "amoeba_temperature_celsius", "Ambient temperature driving food spawns."},
		{&m.MeanRadius, "amoeba_body_radius_mean", "Mean base radius across bodies."},
	}
	for _, g := range gauges {
		*g.dst, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help}), g.name)
		if err != nil {
			return nil, err
		}
	}

	m.FoodEatenN, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amoeba_food_eaten_total",
		Help: "Total number of food items eaten.",
	}), "amoeba_food_eaten_total")
	if err != nil {
		return nil, err
	}
	m.FoodSpawnedN, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amoeba_food_spawned_total",
		Help: "Total number of food items spawned.",
	}), "amoeba_food_spawned_total")
	if err != nil {
		return nil, err
	}

	hist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "amoeba_tick_duration_seconds",
		Help:    "Wall time of one simulation tick.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	})
	if err := reg.Register(hist); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Histogram)
		if !ok {
			return nil, fmt.Errorf("collector amoeba_tick_duration_seconds already registered with incompatible type")
		}
		hist = existing
	}
	m.TickDuration = hist

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amoeba_weather_fetches_total",
		Help: "Weather polls, labeled by result (ok or error).",
	}, []string{"result"})
	if err := reg.Register(fetches); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector amoeba_weather_fetches_total already registered with incompatible type")
		}
		fetches = existing
	}
	m.Fetches = fetches

	return m, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := m.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// FoodEaten implements systems.Observer.
func (m *Metrics) FoodEaten(int, components.Food) {
	if m == nil {
		return
	}
	m.FoodEatenN.Inc()
}

// FoodSpawned implements systems.Observer.
func (m *Metrics) FoodSpawned(components.Food) {
	if m == nil {
		return
	}
	m.FoodSpawnedN.Inc()
}

// ObserveFetch implements weather.Observer.
func (m *Metrics) ObserveFetch(_ float64, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Fetches.WithLabelValues(result).Inc()
}

// ObserveTick records one tick's wall time.
func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.TickDuration.Observe(d.Seconds())
}

// SetWorld refreshes the state gauges from the world.
func (m *Metrics) SetWorld(w *systems.World) {
	if m == nil {
		return
	}
	bodies := w.Bodies()
	m.Bodies.Set(float64(len(bodies)))
	m.Foods.Set(float64(len(w.Foods())))
	m.Temperature.Set(w.Temperature)

	var sum float64
	for _, b := range bodies {
		sum += b.Radius()
	}
	if len(bodies) > 0 {
		m.MeanRadius.Set(sum / float64(len(bodies)))
	}
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}
