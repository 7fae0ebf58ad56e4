package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Uranury/IotLogger/sensors"
)

func TestPostEchoesData(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &got); err != nil {
			t.Errorf("bad body %q: %v", b, err)
		}
		w.Write([]byte(`{"data": "light=812"}`))
	}))
	defer srv.Close()

	temp := 23.5
	data, err := New(srv.URL, srv.Client()).Post(context.Background(), sensors.Reading{Light: 812, Temperature: &temp})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if string(data) != `"light=812"` {
		t.Errorf("data = %s", data)
	}
	if got["light"] != 812.0 || got["temperature"] != 23.5 {
		t.Errorf("posted %v", got)
	}
}

func TestPostOmitsMissingTemperature(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL, nil).Post(context.Background(), sensors.Reading{Light: 7}); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if body != `{"light":7}` {
		t.Errorf("body = %s", body)
	}
}

func TestPostErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{"status", http.StatusBadGateway, `{"data": 1}`, nil},
		{"not json", http.StatusOK, `<html>`, nil},
		{"no data", http.StatusOK, `{"status": "ok"}`, ErrNoData},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				w.Write([]byte(c.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, nil).Post(context.Background(), sensors.Reading{Light: 1})
			if err == nil {
				t.Fatal("expected error")
			}
			if c.is != nil && !errors.Is(err, c.is) {
				t.Fatalf("err = %v, want %v", err, c.is)
			}
		})
	}
}

func TestPostUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(url, nil).Post(context.Background(), sensors.Reading{}); err == nil {
		t.Fatal("expected connection error")
	}
}
