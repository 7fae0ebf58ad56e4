package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the logger needs at startup.
type Config struct {
	PostURL      string
	PollInterval time.Duration
	RetryDelay   time.Duration
	HTTPTimeout  time.Duration

	I2CBus       string
	LightSensor  string
	LightAddr    uint16 // 0 selects the chip's default address
	LightChannel int
	TempSensor   string
	TempAddr     uint16
	TempHighRes  bool
	DHTPin       string

	LinkUpCmd    string
	LinkResetCmd string

	StatusAddr string

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

// Load reads a .env file if one exists, then builds the Config from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds the Config from the process environment only.
func FromEnv() (*Config, error) {
	c := &Config{
		PostURL:      getEnv("POST_URL", "http://localhost:9989/pyportal"),
		I2CBus:       os.Getenv("I2C_BUS"),
		LightSensor:  strings.ToLower(getEnv("LIGHT_SENSOR", "ads1115")),
		TempSensor:   strings.ToLower(getEnv("TEMP_SENSOR", "adt7410")),
		DHTPin:       getEnv("DHT_PIN", "GPIO4"),
		LinkUpCmd:    os.Getenv("LINK_UP_CMD"),
		LinkResetCmd: os.Getenv("LINK_RESET_CMD"),
		StatusAddr:   os.Getenv("STATUS_ADDR"),
		InfluxURL:    os.Getenv("INFLUX_URL"),
		InfluxToken:  os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:    os.Getenv("INFLUX_ORG"),
		InfluxBucket: os.Getenv("INFLUX_BUCKET"),
	}

	u, err := url.Parse(c.PostURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("POST_URL %q is not an http(s) URL", c.PostURL)
	}

	if c.PollInterval, err = parseDuration("POLL_INTERVAL", getEnv("POLL_INTERVAL", "30s")); err != nil {
		return nil, err
	}
	if c.RetryDelay, err = parseRetryDelay(getEnv("RETRY_DELAY", "1s")); err != nil {
		return nil, err
	}
	if c.HTTPTimeout, err = parseDuration("HTTP_TIMEOUT", getEnv("HTTP_TIMEOUT", "10s")); err != nil {
		return nil, err
	}
	if c.LightAddr, err = parseAddr("LIGHT_ADDR", os.Getenv("LIGHT_ADDR")); err != nil {
		return nil, err
	}
	if c.TempAddr, err = parseAddr("TEMP_ADDR", os.Getenv("TEMP_ADDR")); err != nil {
		return nil, err
	}

	c.LightChannel, err = strconv.Atoi(getEnv("LIGHT_CHANNEL", "0"))
	if err != nil || c.LightChannel < 0 || c.LightChannel > 3 {
		return nil, fmt.Errorf("LIGHT_CHANNEL must be 0-3, got %q", os.Getenv("LIGHT_CHANNEL"))
	}

	c.TempHighRes, err = strconv.ParseBool(getEnv("TEMP_HIGH_RES", "true"))
	if err != nil {
		return nil, fmt.Errorf("TEMP_HIGH_RES: %w", err)
	}

	switch c.LightSensor {
	case "ads1115", "gy32", "sim":
	default:
		return nil, fmt.Errorf("LIGHT_SENSOR %q is not one of ads1115, gy32, sim", c.LightSensor)
	}
	switch c.TempSensor {
	case "adt7410", "bmp280", "dht22", "sim", "none":
	default:
		return nil, fmt.Errorf("TEMP_SENSOR %q is not one of adt7410, bmp280, dht22, sim, none", c.TempSensor)
	}

	return c, nil
}

// InfluxEnabled reports whether all InfluxDB settings are present.
func (c *Config) InfluxEnabled() bool {
	return c.InfluxURL != "" && c.InfluxOrg != "" && c.InfluxBucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Printf("Environment variable %s not set, using %q", key, defaultValue)
	return defaultValue
}

// parseDuration accepts a Go duration or a bare number of seconds.
func parseDuration(key, v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		v = strconv.Itoa(secs) + "s"
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

// parseRetryDelay is like parseDuration but allows 0, which retries
// without pausing.
func parseRetryDelay(v string) (time.Duration, error) {
	if v == "0" {
		return 0, nil
	}
	return parseDuration("RETRY_DELAY", v)
}

// parseAddr returns 0 for an empty value.
func parseAddr(key, v string) (uint16, error) {
	if v == "" {
		return 0, nil
	}
	a, err := strconv.ParseUint(v, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if a == 0 || a > 0x7f {
		return 0, fmt.Errorf("%s: 0x%x is not a 7-bit I2C address", key, a)
	}
	return uint16(a), nil
}
