package sensors

import (
	"errors"
	"fmt"
	"log"

	"github.com/Uranury/IotLogger/config"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Set is the pair of sensors the poll loop samples. Temperature is nil in
// light-only mode.
type Set struct {
	Light       LightSensor
	Temperature TemperatureSensor

	bus i2c.BusCloser
}

// Open initializes the host drivers and the sensors selected in c.
func Open(c *config.Config) (*Set, error) {
	s := &Set{}

	needsBus := c.LightSensor == "ads1115" || c.LightSensor == "gy32" ||
		c.TempSensor == "adt7410" || c.TempSensor == "bmp280"
	if needsBus {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host init: %w", err)
		}
		bus, err := i2creg.Open(c.I2CBus)
		if err != nil {
			return nil, fmt.Errorf("open i2c bus %q: %w", c.I2CBus, err)
		}
		s.bus = bus
	}

	light, err := openLight(c, s.bus)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Light = light

	temp, err := openTemperature(c, s.bus)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Temperature = temp

	log.Printf("Light sensor: %s", s.Light.Name())
	if s.Temperature != nil {
		log.Printf("Temperature sensor: %s", s.Temperature.Name())
	} else {
		log.Println("Temperature sensor: disabled")
	}
	return s, nil
}

// lightAddr returns the configured address, or the chip default when unset.
func lightAddr(c *config.Config) uint16 {
	if c.LightAddr != 0 {
		return c.LightAddr
	}
	switch c.LightSensor {
	case "ads1115":
		return ADS1115Address
	case "gy32":
		return GY32Address
	}
	return 0
}

func tempAddr(c *config.Config) uint16 {
	if c.TempAddr != 0 {
		return c.TempAddr
	}
	switch c.TempSensor {
	case "adt7410":
		return ADT7410Address
	case "bmp280":
		return BMP280Address
	}
	return 0
}

func openLight(c *config.Config, bus i2c.Bus) (LightSensor, error) {
	switch c.LightSensor {
	case "ads1115":
		d, err := NewADS1115(bus, lightAddr(c), c.LightChannel)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "gy32":
		d, err := NewGY32(bus, lightAddr(c))
		if err != nil {
			return nil, err
		}
		return d, nil
	case "sim":
		return SimLight{}, nil
	}
	return nil, fmt.Errorf("light sensor %q: %w", c.LightSensor, ErrUnknownKind)
}

func openTemperature(c *config.Config, bus i2c.Bus) (TemperatureSensor, error) {
	switch c.TempSensor {
	case "adt7410":
		d, err := NewADT7410(bus, tempAddr(c), c.TempHighRes)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "bmp280":
		d, err := NewBMP280(bus, tempAddr(c))
		if err != nil {
			return nil, err
		}
		return d, nil
	case "dht22":
		d, err := NewDHT22(c.DHTPin)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "sim":
		return SimTemperature{}, nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("temperature sensor %q: %w", c.TempSensor, ErrUnknownKind)
}

// Close releases the sensors and the bus.
func (s *Set) Close() error {
	var errs []error
	if s.Light != nil {
		errs = append(errs, s.Light.Close())
	}
	if s.Temperature != nil {
		errs = append(errs, s.Temperature.Close())
	}
	if s.bus != nil {
		errs = append(errs, s.bus.Close())
	}
	return errors.Join(errs...)
}
