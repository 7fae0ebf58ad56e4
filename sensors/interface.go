package sensors

import (
	"errors"
	"time"
)

// ErrUnknownKind is returned by Open for a sensor kind it has no driver for.
var ErrUnknownKind = errors.New("unknown sensor kind")

// Reading is one sample pair captured at a single instant. It is what gets
// POSTed to the collector.
type Reading struct {
	Light       int       `json:"light"`
	Temperature *float64  `json:"temperature,omitempty"`
	Time        time.Time `json:"-"`
}

// LightSensor reports ambient light as a raw integer count.
type LightSensor interface {
	Name() string
	ReadLight() (int, error)
	Close() error
}

// TemperatureSensor reports temperature in degrees Celsius.
type TemperatureSensor interface {
	Name() string
	ReadTemperature() (float64, error)
	Close() error
}
