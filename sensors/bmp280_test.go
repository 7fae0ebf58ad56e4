package sensors

import (
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

// bmp280Session is a captured chip-id, calibration and forced-mode read.
func bmp280Session() []i2ctest.IO {
	return []i2ctest.IO{
		{Addr: 0x76, W: []byte{0xd0}, R: []byte{0x58}},
		{
			Addr: 0x76,
			W:    []byte{0x88},
			R:    []byte{0x10, 0x6e, 0x6c, 0x66, 0x32, 0x0, 0x5d, 0x95, 0xb8, 0xd5, 0xd0, 0xb, 0x77, 0x1e, 0x9d, 0xff, 0xf9, 0xff, 0xac, 0x26, 0xa, 0xd8, 0xbd, 0x10, 0x0, 0x4b},
		},
		{Addr: 0x76, W: []byte{0xf4, 0x6c, 0xf5, 0xa0, 0xf4, 0x6c}},
		{Addr: 0x76, W: []byte{0xf4, 0x6d}},
		{Addr: 0x76, W: []byte{0xf3}, R: []byte{8}},
		{Addr: 0x76, W: []byte{0xf3}, R: []byte{0}},
		{Addr: 0x76, W: []byte{0xf7}, R: []byte{0x4a, 0x52, 0xc0, 0x80, 0x96, 0xc0}},
	}
}

func TestBMP280ReadTemperature(t *testing.T) {
	bus := &i2ctest.Playback{Ops: bmp280Session()}
	b, err := NewBMP280(bus, BMP280Address)
	if err != nil {
		t.Fatalf("NewBMP280: %v", err)
	}
	got, err := b.ReadTemperature()
	if err != nil {
		t.Fatalf("ReadTemperature: %v", err)
	}
	if got != 23.72 {
		t.Errorf("ReadTemperature = %v, want 23.72", got)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("bus: %v", err)
	}
}

func TestBMP280SenseError(t *testing.T) {
	ops := bmp280Session()
	bus := &i2ctest.Playback{Ops: ops[:3], DontPanic: true}
	b, err := NewBMP280(bus, BMP280Address)
	if err != nil {
		t.Fatalf("NewBMP280: %v", err)
	}
	if _, err := b.ReadTemperature(); err == nil {
		t.Fatal("expected error when the sensor stops answering")
	}
}

func TestBMP280BadAddress(t *testing.T) {
	if _, err := NewBMP280(&i2ctest.Playback{}, 0x48); err == nil {
		t.Fatal("expected error for an address the chip cannot use")
	}
}
