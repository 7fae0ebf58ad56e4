package sensors

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

const (
	adt7410RegTemp   = 0x00
	adt7410RegConfig = 0x03
	adt7410RegID     = 0x0B

	adt7410IDMask  = 0xF8
	adt7410ID      = 0xC8
	adt7410Res16   = 0x80
	ADT7410Address = 0x48
)

// ADT7410 is the Analog Devices I2C temperature sensor.
type ADT7410 struct {
	dev     i2c.Dev
	highRes bool
}

// NewADT7410 checks the chip ID and selects 13 or 16-bit conversions.
func NewADT7410(bus i2c.Bus, addr uint16, highRes bool) (*ADT7410, error) {
	a := &ADT7410{dev: i2c.Dev{Bus: bus, Addr: addr}, highRes: highRes}

	id := make([]byte, 1)
	if err := a.dev.Tx([]byte{adt7410RegID}, id); err != nil {
		return nil, fmt.Errorf("adt7410: read id: %w", err)
	}
	if id[0]&adt7410IDMask != adt7410ID {
		return nil, fmt.Errorf("adt7410: unexpected id 0x%02x at 0x%02x", id[0], addr)
	}

	var cfg byte
	if highRes {
		cfg = adt7410Res16
	}
	if err := a.dev.Tx([]byte{adt7410RegConfig, cfg}, nil); err != nil {
		return nil, fmt.Errorf("adt7410: write config: %w", err)
	}
	return a, nil
}

func (a *ADT7410) Name() string {
	return "ADT7410"
}

func (a *ADT7410) ReadTemperature() (float64, error) {
	buf := make([]byte, 2)
	if err := a.dev.Tx([]byte{adt7410RegTemp}, buf); err != nil {
		return 0, fmt.Errorf("adt7410: read temperature: %w", err)
	}
	return adt7410Celsius(int16(binary.BigEndian.Uint16(buf)), a.highRes), nil
}

func (a *ADT7410) Close() error {
	return nil
}

// adt7410Celsius converts the temperature register. In 13-bit mode the low
// three bits are status flags.
func adt7410Celsius(raw int16, highRes bool) float64 {
	if highRes {
		return float64(raw) / 128
	}
	return float64(raw>>3) / 16
}
