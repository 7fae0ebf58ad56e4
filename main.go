package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Uranury/IotLogger/client"
	"github.com/Uranury/IotLogger/config"
	"github.com/Uranury/IotLogger/influx"
	"github.com/Uranury/IotLogger/link"
	"github.com/Uranury/IotLogger/poller"
	"github.com/Uranury/IotLogger/sensors"
	"github.com/Uranury/IotLogger/status"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	httpClient := &http.Client{Transport: transport, Timeout: cfg.HTTPTimeout}

	// Bring the link up before touching the sensors.
	lnk := link.NewCommandLink(cfg.LinkUpCmd, cfg.LinkResetCmd, transport)
	if err := lnk.Connect(ctx); err != nil {
		log.Fatalf("Unable to connect: %v", err)
	}
	link.Diagnose(ctx, cfg.PostURL)

	set, err := sensors.Open(cfg)
	if err != nil {
		log.Fatalf("Unable to open sensors: %v", err)
	}
	defer set.Close()

	p := &poller.Poller{
		Light:       set.Light,
		Temperature: set.Temperature,
		Poster:      client.New(cfg.PostURL, httpClient),
		Link:        lnk,
		Interval:    cfg.PollInterval,
		RetryDelay:  cfg.RetryDelay,
	}

	if cfg.StatusAddr != "" {
		srv := status.New(cfg.StatusAddr)
		p.Observer = srv
		p.Sinks = append(p.Sinks, srv)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("Status server error: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.InfluxEnabled() {
		sink := influx.New(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket,
			map[string]string{"light_sensor": set.Light.Name()})
		defer sink.Close()
		p.Sinks = append(p.Sinks, sink)
		log.Printf("Mirroring readings to InfluxDB at %s", cfg.InfluxURL)
	}

	log.Printf("Posting readings to %s every %s", cfg.PostURL, cfg.PollInterval)
	if err := p.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("Poll loop stopped: %v", err)
	}
	log.Println("Shutting down")
}
