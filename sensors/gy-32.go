package sensors

import (
	"encoding/binary"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

const (
	bh1750PowerOn      = 0x01
	bh1750ContHighRes  = 0x10
	bh1750MeasureDelay = 180 * time.Millisecond
	GY32Address        = 0x23
)

// GY32 is the BH1750 light sensor board. ReadLight returns the raw 16-bit
// count of the high resolution mode.
type GY32 struct {
	dev i2c.Dev
}

func NewGY32(bus i2c.Bus, addr uint16) (*GY32, error) {
	g := &GY32{dev: i2c.Dev{Bus: bus, Addr: addr}}
	if err := g.dev.Tx([]byte{bh1750PowerOn}, nil); err != nil {
		return nil, fmt.Errorf("gy32: power on: %w", err)
	}
	if err := g.dev.Tx([]byte{bh1750ContHighRes}, nil); err != nil {
		return nil, fmt.Errorf("gy32: set mode: %w", err)
	}
	sleep(bh1750MeasureDelay)
	return g, nil
}

func (g *GY32) Name() string {
	return "GY32"
}

func (g *GY32) ReadLight() (int, error) {
	buf := make([]byte, 2)
	if err := g.dev.Tx(nil, buf); err != nil {
		return 0, fmt.Errorf("gy32: read: %w", err)
	}
	return int(binary.BigEndian.Uint16(buf)), nil
}

func (g *GY32) Close() error {
	return nil
}

// sleep is replaced in tests.
var sleep = time.Sleep
