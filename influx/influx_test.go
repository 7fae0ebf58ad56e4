package influx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Uranury/IotLogger/sensors"
)

func TestPointFields(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	temp := 22.0
	p := Point(sensors.Reading{Light: 900, Temperature: &temp, Time: at}, map[string]string{"sensor": "pyportal"})

	if p.Name() != measurement {
		t.Errorf("name = %s", p.Name())
	}
	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	if fields["light"] != int64(900) || fields["temperature"] != 22.0 {
		t.Errorf("fields = %v", fields)
	}
	if len(p.TagList()) != 1 || p.TagList()[0].Value != "pyportal" {
		t.Errorf("tags = %v", p.TagList())
	}
	if !p.Time().Equal(at) {
		t.Errorf("time = %s", p.Time())
	}
}

func TestPointWithoutTemperature(t *testing.T) {
	p := Point(sensors.Reading{Light: 1}, nil)
	if len(p.FieldList()) != 1 {
		t.Errorf("fields = %v", p.FieldList())
	}
}

func TestPublishWritesLineProtocol(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/v2/write") {
			t.Errorf("path = %s", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := New(srv.URL, "token", "home", "sensors", nil)
	defer s.Close()

	if err := s.Publish(context.Background(), sensors.Reading{Light: 5, Time: time.Unix(10, 0)}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !strings.HasPrefix(body, "sensor_data light=5i") {
		t.Errorf("body = %q", body)
	}
}
