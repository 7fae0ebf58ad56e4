package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

const BMP280Address = 0x76

// BMP280 uses only the temperature channel of the Bosch sensor.
type BMP280 struct {
	dev *bmxx80.Dev
}

func NewBMP280(bus i2c.Bus, addr uint16) (*BMP280, error) {
	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("bmp280: %w", err)
	}
	return &BMP280{dev: dev}, nil
}

func (b *BMP280) Name() string {
	return "BMP280"
}

func (b *BMP280) ReadTemperature() (float64, error) {
	var env physic.Env
	if err := b.dev.Sense(&env); err != nil {
		return 0, fmt.Errorf("bmp280: sense: %w", err)
	}
	return env.Temperature.Celsius(), nil
}

func (b *BMP280) Close() error {
	return b.dev.Halt()
}
