// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Kyiv on hosts without zoneinfo

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad() and pass the parts to constructors.
type AppConfig struct {
	// ClickHouse contains the destination store connection settings.
	ClickHouse ClickHouseConfig

	// NBU contains settings for the upstream National Bank API client.
	NBU NBUConfig

	// Schedule contains settings for the daily runner and backfills.
	Schedule ScheduleConfig

	// Kafka contains the optional rate publisher settings.
	Kafka KafkaConfig

	// Log contains logger settings.
	Log LogConfig

	// ServerPort is the read API listen port.
	ServerPort string
}

// ClickHouseConfig holds destination store settings. Every field except
// Password is required.
type ClickHouseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// NBUConfig holds upstream API settings.
type NBUConfig struct {
	// BaseURL is the API root, e.g. "https://bank.gov.ua".
	BaseURL string

	// Format is the response format selector sent as the "format" parameter.
	// Only "json" is accepted.
	Format string

	// RequestTimeout bounds a single HTTP call.
	RequestTimeout time.Duration

	// RequestsPerSecond limits the call rate during backfills.
	RequestsPerSecond float64
}

// ScheduleConfig holds settings for the daily runner.
type ScheduleConfig struct {
	// Hour is the hour of day (0-23) to run the daily load.
	Hour int

	// Location is the timezone the hour and "today" are evaluated in.
	Location *time.Location

	// BackfillWorkers bounds how many logical dates load concurrently.
	BackfillWorkers int

	// CatchupStart is the first logical date the scheduler loads on startup.
	// Zero disables catchup.
	CatchupStart time.Time
}

// KafkaConfig holds Kafka connection settings for loaded rate notifications.
type KafkaConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092"). Empty disables publishing.
	Broker string

	// Topic is the Kafka topic for loaded rates.
	Topic string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// ConfigError reports a missing or malformed configuration value.
// It is fatal at startup.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// DSN constructs the ClickHouse connection string.
func (c ClickHouseConfig) DSN() string {
	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%d/%s?dial_timeout=10s&read_timeout=20s",
		url.PathEscape(c.User), url.PathEscape(c.Password), c.Host, c.Port, c.Database,
	)
}

// Enabled reports whether a broker is configured.
func (c KafkaConfig) Enabled() bool {
	return c.Broker != ""
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup; a non-nil error is fatal.
func AppLoad() (*AppConfig, error) {
	_ = godotenv.Load() // Ignore error - .env is optional

	clickhouse, err := getClickHouseConfig()
	if err != nil {
		return nil, err
	}
	nbu, err := getNBUConfig()
	if err != nil {
		return nil, err
	}
	schedule, err := getScheduleConfig()
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		ClickHouse: clickhouse,
		NBU:        nbu,
		Schedule:   schedule,
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_RATES_TOPIC", "nbu_rates"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		ServerPort: getEnv("SERVER_PORT", "8080"),
	}, nil
}

func getClickHouseConfig() (ClickHouseConfig, error) {
	var cfg ClickHouseConfig
	var err error

	if cfg.Host, err = requireEnv("CLICKHOUSE_HOST"); err != nil {
		return cfg, err
	}
	port, err := requireEnv("CLICKHOUSE_TCP_PORT")
	if err != nil {
		return cfg, err
	}
	if cfg.Port, err = strconv.Atoi(port); err != nil || cfg.Port <= 0 {
		return cfg, &ConfigError{Key: "CLICKHOUSE_TCP_PORT", Reason: fmt.Sprintf("invalid port %q", port)}
	}
	if cfg.User, err = requireEnv("CLICKHOUSE_USER"); err != nil {
		return cfg, err
	}
	if cfg.Database, err = requireEnv("CLICKHOUSE_DB"); err != nil {
		return cfg, err
	}
	cfg.Password = getEnv("CLICKHOUSE_PASSWORD", "")
	return cfg, nil
}

func getNBUConfig() (NBUConfig, error) {
	cfg := NBUConfig{
		BaseURL:           strings.TrimRight(getEnv("NBU_BASE_URL", "https://bank.gov.ua"), "/"),
		Format:            getEnv("NBU_FORMAT", "json"),
		RequestTimeout:    time.Duration(getEnvInt("NBU_REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		RequestsPerSecond: getEnvFloat("NBU_REQUESTS_PER_SECOND", 2),
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return cfg, &ConfigError{Key: "NBU_BASE_URL", Reason: err.Error()}
	}
	if cfg.Format != "json" {
		return cfg, &ConfigError{Key: "NBU_FORMAT", Reason: fmt.Sprintf("unsupported format %q, only json is decoded", cfg.Format)}
	}
	if cfg.RequestsPerSecond <= 0 {
		return cfg, &ConfigError{Key: "NBU_REQUESTS_PER_SECOND", Reason: "must be positive"}
	}
	return cfg, nil
}

// getScheduleConfig loads the daily runner settings from environment.
func getScheduleConfig() (ScheduleConfig, error) {
	tz := getEnv("SCHEDULE_TIMEZONE", "Europe/Kyiv")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return ScheduleConfig{}, &ConfigError{Key: "SCHEDULE_TIMEZONE", Reason: err.Error()}
	}

	hour := getEnvInt("SCHEDULE_HOUR", 10)
	if hour < 0 || hour > 23 {
		return ScheduleConfig{}, &ConfigError{Key: "SCHEDULE_HOUR", Reason: fmt.Sprintf("hour %d out of range 0-23", hour)}
	}

	workers := getEnvInt("BACKFILL_WORKERS", 2)
	if workers < 1 {
		workers = 1
	}

	cfg := ScheduleConfig{
		Hour:            hour,
		Location:        loc,
		BackfillWorkers: workers,
	}

	if start := getEnv("CATCHUP_START_DATE", ""); start != "" {
		cfg.CatchupStart, err = time.ParseInLocation(time.DateOnly, start, loc)
		if err != nil {
			return ScheduleConfig{}, &ConfigError{Key: "CATCHUP_START_DATE", Reason: fmt.Sprintf("expected YYYY-MM-DD, got %q", start)}
		}
	}
	return cfg, nil
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// requireEnv returns the environment variable value or a ConfigError when it is unset or blank.
func requireEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", &ConfigError{Key: key, Reason: "required value is missing"}
	}
	return value, nil
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
