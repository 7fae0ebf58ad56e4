package sensors

import (
	"fmt"
	"sync"

	"github.com/MichaelS11/go-dht"
)

const dhtRetries = 11

var dhtInit = sync.OnceValue(dht.HostInit)

type DHT22 struct {
	Pin string
	Dht *dht.DHT
}

func NewDHT22(pin string) (*DHT22, error) {
	if err := dhtInit(); err != nil {
		return nil, fmt.Errorf("dht22: host init: %w", err)
	}

	d, err := dht.NewDHT(pin, dht.Celsius, "dht22")
	if err != nil {
		return nil, fmt.Errorf("dht22: %w", err)
	}
	return &DHT22{Pin: pin, Dht: d}, nil
}

func (d *DHT22) Name() string {
	return "DHT22"
}

func (d *DHT22) ReadTemperature() (float64, error) {
	_, temperature, err := d.Dht.ReadRetry(dhtRetries)
	if err != nil {
		return 0, fmt.Errorf("dht22: read on %s: %w", d.Pin, err)
	}
	return temperature, nil
}

func (d *DHT22) Close() error {
	return nil
}
