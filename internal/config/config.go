package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize     int
	FlushInterval time.Duration
	// WindowMaxEvents caps the in-memory analysis window; the oldest events
	// are dropped once the cap is reached.
	WindowMaxEvents int

	// Reverse-geocoding enrichment configuration.
	GeocoderEnabled   bool
	GeocoderBaseURL   string
	GeocoderTimeout   time.Duration
	GeocoderCacheSize int
}

// Load reads configuration from environment variables, applying defaults
// where unset. Keys use the usual upper-snake form, e.g. KAFKA_BROKERS,
// FLUSH_INTERVAL, GEOCODER_BASE_URL.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.source_topic", "raw-telemetry-events")
	v.SetDefault("kafka.sink_topic", "risk-reports")
	v.SetDefault("kafka.group_id", "telemetry-risk")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("shutdown.timeout", "10s")
	v.SetDefault("batch.size", 50)
	v.SetDefault("flush.interval", "30s")
	v.SetDefault("window.max_events", 100000)
	v.SetDefault("geocoder.enabled", false)
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.timeout", "5s")
	v.SetDefault("geocoder.cache_size", 1000)

	cfg := &Config{
		KafkaBrokers:     parseBrokers(v.GetString("kafka.brokers")),
		KafkaSourceTopic: v.GetString("kafka.source_topic"),
		KafkaSinkTopic:   v.GetString("kafka.sink_topic"),
		KafkaGroupID:     v.GetString("kafka.group_id"),
		HTTPAddr:         v.GetString("http.addr"),
		LogLevel:         v.GetString("log.level"),
		LogFormat:        v.GetString("log.format"),
		ShutdownTimeout:  v.GetDuration("shutdown.timeout"),

		BatchSize:       v.GetInt("batch.size"),
		FlushInterval:   v.GetDuration("flush.interval"),
		WindowMaxEvents: v.GetInt("window.max_events"),

		GeocoderEnabled:   v.GetBool("geocoder.enabled"),
		GeocoderBaseURL:   v.GetString("geocoder.base_url"),
		GeocoderTimeout:   v.GetDuration("geocoder.timeout"),
		GeocoderCacheSize: v.GetInt("geocoder.cache_size"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.KafkaSourceTopic == "" {
		return errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	if c.BatchSize < 1 || c.BatchSize > 1000 {
		return fmt.Errorf("BATCH_SIZE must be between 1 and 1000, got %d", c.BatchSize)
	}
	if c.FlushInterval <= 0 {
		return errors.New("invalid FLUSH_INTERVAL")
	}
	if c.WindowMaxEvents < 1 {
		return fmt.Errorf("WINDOW_MAX_EVENTS must be positive, got %d", c.WindowMaxEvents)
	}
	if c.GeocoderEnabled {
		if c.GeocoderBaseURL == "" {
			return errors.New("GEOCODER_ENABLED is true but GEOCODER_BASE_URL is not set")
		}
		if c.GeocoderTimeout <= 0 {
			return errors.New("invalid GEOCODER_TIMEOUT")
		}
		if c.GeocoderCacheSize < 1 {
			return errors.New("invalid GEOCODER_CACHE_SIZE")
		}
	}
	return nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(value string) []string {
	parts := strings.Split(value, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
