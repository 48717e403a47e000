// Package weather supplies the ambient temperature that drives food spawning.
//
// The simulation only ever reads the last known value. A Service refreshes that
// value from the Open-Meteo forecast API in the background; Fixed serves a
// constant for tests and offline runs.
package weather

// DefaultTemperature is used until the first successful fetch.
const DefaultTemperature = 20.0

// Source reports the current temperature in degrees Celsius. Implementations
// must not block.
type Source interface {
	Temperature() float64
}

// Fixed is a constant temperature source.
type Fixed float64

// Temperature implements Source.
func (f Fixed) Temperature() float64 { return float64(f) }

// Observer is notified after every poll, successful or not.
type Observer interface {
	ObserveFetch(temp float64, err error)
}
