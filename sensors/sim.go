package sensors

import "math/rand/v2"

// SimLight stands in for a light sensor on hosts without one wired up.
type SimLight struct{}

func (SimLight) Name() string { return "SimLight" }

func (SimLight) ReadLight() (int, error) {
	return 1000 + rand.IntN(40000), nil
}

func (SimLight) Close() error { return nil }

// SimTemperature stands in for a temperature sensor.
type SimTemperature struct{}

func (SimTemperature) Name() string { return "SimTemperature" }

func (SimTemperature) ReadTemperature() (float64, error) {
	return 20.0 + rand.Float64()*10.0, nil
}

func (SimTemperature) Close() error { return nil }
