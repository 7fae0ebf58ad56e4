package influx

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Uranury/IotLogger/sensors"
)

const measurement = "sensor_data"

// Sink mirrors each accepted reading into InfluxDB, one blocking write per
// reading.
type Sink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	tags     map[string]string
}

func New(url, token, org, bucket string, tags map[string]string) *Sink {
	client := influxdb2.NewClient(url, token)
	return &Sink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		tags:     tags,
	}
}

func (s *Sink) Publish(ctx context.Context, r sensors.Reading) error {
	if err := s.writeAPI.WritePoint(ctx, Point(r, s.tags)); err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	return nil
}

func (s *Sink) Close() {
	s.client.Close()
}

// Point converts a reading. Temperature is only set when it was read.
func Point(r sensors.Reading, tags map[string]string) *write.Point {
	p := influxdb2.NewPointWithMeasurement(measurement).
		AddField("light", r.Light).
		SetTime(r.Time)
	for k, v := range tags {
		p.AddTag(k, v)
	}
	if r.Temperature != nil {
		p.AddField("temperature", *r.Temperature)
	}
	return p
}
