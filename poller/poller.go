package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Uranury/IotLogger/link"
	"github.com/Uranury/IotLogger/sensors"
)

// Poster sends a reading and returns the server's echoed data.
type Poster interface {
	Post(ctx context.Context, r sensors.Reading) (json.RawMessage, error)
}

// Sink receives every reading the server accepted.
type Sink interface {
	Publish(ctx context.Context, r sensors.Reading) error
}

// Observer is told about iteration outcomes. Optional.
type Observer interface {
	Sent(r sensors.Reading, data json.RawMessage)
	Failed(err error)
	LinkReset()
}

// Poller runs the sense-and-transmit loop.
type Poller struct {
	Light       sensors.LightSensor
	Temperature sensors.TemperatureSensor
	Poster      Poster
	Link        link.Link
	Interval    time.Duration
	RetryDelay  time.Duration
	Sinks       []Sink
	Observer    Observer

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Run polls until ctx is cancelled. A failed iteration resets the link and
// is retried after RetryDelay instead of the full interval; a zero
// RetryDelay retries at once.
func (p *Poller) Run(ctx context.Context) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Failed to get data, retrying: %v", err)
			if p.Observer != nil {
				p.Observer.Failed(err)
			}
			if err := p.Link.Reset(ctx); err != nil {
				log.Printf("Link reset failed: %v", err)
			}
			if p.Observer != nil {
				p.Observer.LinkReset()
			}
			if p.RetryDelay > 0 {
				if err := sleep(ctx, p.RetryDelay); err != nil {
					return err
				}
			}
			continue
		}

		log.Printf("Delaying %s...", p.Interval)
		if err := sleep(ctx, p.Interval); err != nil {
			return err
		}
	}
}

// Poll performs a single iteration: sense, post, log the echo, publish.
func (p *Poller) Poll(ctx context.Context) error {
	r, err := p.read()
	if err != nil {
		return err
	}

	data, err := p.Poster.Post(ctx, r)
	if err != nil {
		return err
	}
	log.Printf("Data received from server: %s", data)
	log.Println(strings.Repeat("-", 40))

	if p.Observer != nil {
		p.Observer.Sent(r, data)
	}
	for _, s := range p.Sinks {
		if err := s.Publish(ctx, r); err != nil {
			log.Printf("Sink publish error: %v", err)
		}
	}
	return nil
}

func (p *Poller) read() (sensors.Reading, error) {
	now := p.now
	if now == nil {
		now = time.Now
	}

	light, err := p.Light.ReadLight()
	if err != nil {
		return sensors.Reading{}, fmt.Errorf("read %s: %w", p.Light.Name(), err)
	}
	r := sensors.Reading{Light: light, Time: now()}
	log.Printf("Light Level: %d", light)

	if p.Temperature != nil {
		temp, err := p.Temperature.ReadTemperature()
		if err != nil {
			log.Printf("Error reading %s: %v", p.Temperature.Name(), err)
		} else {
			r.Temperature = &temp
			log.Printf("Temperature: %0.2f C", temp)
		}
	}
	return r, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
