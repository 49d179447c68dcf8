package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	feedURLENV        = "FEED_URL"
)

// Config ...
type Config struct {
	Telegram struct {
		Token       string `yaml:"token"`
		AdminChatID int64  `yaml:"admin_chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host      string `yaml:"host"`
		AdminPort int    `yaml:"admin_port"`
	} `yaml:"service"`
	Feed struct {
		URL     string `yaml:"url"`
		Channel string `yaml:"channel"`
	} `yaml:"feed"`
	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// How stale a heartbeat may be before the instance counts as OFFLINE.
	// Durations come from env only, yaml.v2 cannot decode "5m".
	HeartbeatStaleAfter time.Duration

	// Confidence interval width thresholds. Metric-unit specific:
	// width above Wide => LOW, below Narrow => HIGH.
	IntervalWide   float64 `yaml:"interval_wide"`
	IntervalNarrow float64 `yaml:"interval_narrow"`

	// Flapping detection
	FlapWindow     time.Duration
	FlapMinRecords int `yaml:"flap_min_records"`
	FlapThreshold  int `yaml:"flap_threshold"`

	// Transitions that represent expected forward progress and never alert.
	SilentTransitions []string `yaml:"silent_transitions"`

	// Orchestration
	SideEffectTimeout time.Duration
	ResolveTimeout    time.Duration
	QueueSize         int    `yaml:"queue_size"`
	SweepSchedule     string `yaml:"sweep_schedule"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		HeartbeatStaleAfter: durationFromEnv("HEARTBEAT_STALE_AFTER", "5m"),

		IntervalWide:   floatFromEnv("INTERVAL_WIDE", 0.20),
		IntervalNarrow: floatFromEnv("INTERVAL_NARROW", 0.05),

		FlapWindow:     durationFromEnv("FLAP_WINDOW", "24h"),
		FlapMinRecords: intFromEnv("FLAP_MIN_RECORDS", 6),
		FlapThreshold:  intFromEnv("FLAP_THRESHOLD", 3),

		SilentTransitions: []string{
			"TESTING->MONITORING",
			"TESTING->CONSISTENT",
			"MONITORING->CONSISTENT",
		},

		SideEffectTimeout: durationFromEnv("SIDE_EFFECT_TIMEOUT", "10s"),
		ResolveTimeout:    durationFromEnv("RESOLVE_TIMEOUT", "15s"),
		QueueSize:         intFromEnv("QUEUE_SIZE", 16),
		SweepSchedule:     getenvDefault("SWEEP_SCHEDULE", "@every 1m"),
	}
	config.Service.AdminPort = 8080

	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if url := os.Getenv(feedURLENV); url != "" {
		config.Feed.URL = url
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
