package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Owners of the outbox processor and reminder scheduler.
const (
	BackgroundJobsEmbedded = "embedded"
	BackgroundJobsWorker   = "worker"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	// Timezone is the IANA zone practice days are counted in.
	Timezone string

	// HTTP
	HTTPAddr    string
	CORSOrigins []string

	// Database
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	LocalMode      bool

	// Redis
	RedisURL      string
	StatsCacheTTL time.Duration

	// RabbitMQ
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string
	// BackgroundJobs says which process runs the outbox processor and the
	// reminder scheduler: BackgroundJobsEmbedded (serve, mcp) or
	// BackgroundJobsWorker (cmd/worker). Exactly one may run them per database.
	BackgroundJobs string

	// Notifications
	DiscordWebhookURL    string
	WebhookTimeout       time.Duration
	ReminderEnabled      bool
	ReminderHour         int
	ReminderMinute       int
	WeeklySummaryEnabled bool
	SchedulerTick        time.Duration

	// Sounds
	SoundsDir string

	// CalDAV
	CalDAVURL          string
	CalDAVUsername     string
	CalDAVPassword     string
	CalDAVCalendarPath string

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// ConfigFile is the YAML file the values were read from, if any.
	ConfigFile string
}

// fileConfig mirrors the optional YAML config file.
type fileConfig struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	App struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"app"`
	Sounds struct {
		Dir string `yaml:"dir"`
	} `yaml:"sounds"`
}

// Load loads configuration from .env, the YAML file named by MINDFUL_CONFIG and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit YAML file. An empty path falls back to
// MINDFUL_CONFIG; a missing file is not an error unless it was named explicitly.
func LoadFile(path string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("MINDFUL_CONFIG")
		explicit = path != ""
	}

	var file fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	databaseURL := getEnv("DATABASE_URL", file.Database.URL)
	driver := getEnv("DATABASE_DRIVER", detectDriver(databaseURL))
	sqlitePath := getEnv("SQLITE_PATH", sqlitePathFromURL(databaseURL))

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),
		Timezone:  getEnv("APP_TIMEZONE", orDefault(file.App.Timezone, "UTC")),

		HTTPAddr:    getEnv("HTTP_ADDR", orDefault(file.Server.Addr, "127.0.0.1:8000")),
		CORSOrigins: getListEnv("CORS_ORIGINS", orDefaultList(file.Server.CORSOrigins, []string{"http://localhost:5173"})),

		DatabaseURL:    databaseURL,
		DatabaseDriver: driver,
		SQLitePath:     sqlitePath,
		LocalMode:      driver == "sqlite",

		RedisURL:      getEnv("REDIS_URL", ""),
		StatsCacheTTL: getDurationEnv("STATS_CACHE_TTL", 5*time.Minute),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		BackgroundJobs:   getEnv("BACKGROUND_JOBS", defaultBackgroundJobs(getEnv("RABBITMQ_URL", ""))),

		DiscordWebhookURL:    getEnv("DISCORD_WEBHOOK_URL", ""),
		WebhookTimeout:       getDurationEnv("WEBHOOK_TIMEOUT", 10*time.Second),
		ReminderEnabled:      getBoolEnv("REMINDER_ENABLED", false),
		ReminderHour:         getIntEnv("REMINDER_HOUR", 20),
		ReminderMinute:       getIntEnv("REMINDER_MINUTE", 0),
		WeeklySummaryEnabled: getBoolEnv("WEEKLY_SUMMARY_ENABLED", true),
		SchedulerTick:        getDurationEnv("SCHEDULER_TICK", 30*time.Second),

		SoundsDir: getEnv("SOUNDS_DIR", orDefault(file.Sounds.Dir, "sounds")),

		CalDAVURL:          getEnv("CALDAV_URL", ""),
		CalDAVUsername:     getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword:     getEnv("CALDAV_PASSWORD", ""),
		CalDAVCalendarPath: getEnv("CALDAV_CALENDAR_PATH", ""),

		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		ConfigFile: path,
	}

	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		return nil, fmt.Errorf("REMINDER_HOUR must be between 0 and 23, got %d", cfg.ReminderHour)
	}
	if cfg.ReminderMinute < 0 || cfg.ReminderMinute > 59 {
		return nil, fmt.Errorf("REMINDER_MINUTE must be between 0 and 59, got %d", cfg.ReminderMinute)
	}
	if cfg.BackgroundJobs != BackgroundJobsEmbedded && cfg.BackgroundJobs != BackgroundJobsWorker {
		return nil, fmt.Errorf("BACKGROUND_JOBS must be %q or %q, got %q", BackgroundJobsEmbedded, BackgroundJobsWorker, cfg.BackgroundJobs)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsSQLite reports whether the SQLite store is in use.
func (c *Config) IsSQLite() bool {
	return c.LocalMode || c.DatabaseDriver == "sqlite"
}

// IsPostgres reports whether the PostgreSQL store is in use.
func (c *Config) IsPostgres() bool {
	return !c.IsSQLite()
}

// Location returns the configured timezone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EmbeddedJobs reports whether serve and mcp run the outbox processor and
// scheduler themselves.
func (c *Config) EmbeddedJobs() bool {
	return c.BackgroundJobs == BackgroundJobsEmbedded
}

// defaultBackgroundJobs leaves the jobs to the worker once RabbitMQ is
// configured, since that deployment already runs one for the consumer.
func defaultBackgroundJobs(rabbitMQURL string) string {
	if rabbitMQURL != "" {
		return BackgroundJobsWorker
	}
	return BackgroundJobsEmbedded
}

// CalDAVEnabled reports whether a CalDAV server is configured.
func (c *Config) CalDAVEnabled() bool {
	return c.CalDAVURL != ""
}

// detectDriver mirrors database.DetectDriver without importing it.
func detectDriver(url string) string {
	switch {
	case url == "":
		return "sqlite"
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	default:
		return "sqlite"
	}
}

// sqlitePathFromURL accepts sqlite:///path, file:path and bare file paths.
func sqlitePathFromURL(url string) string {
	switch {
	case url == "":
		return defaultSQLitePath()
	case strings.HasPrefix(url, "sqlite:///"):
		return strings.TrimPrefix(url, "sqlite:///")
	case strings.HasPrefix(url, "file:"):
		return strings.TrimPrefix(url, "file:")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return ""
	default:
		return url
	}
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mindful", "mindful.db")
	}
	return filepath.Join(home, ".mindful", "mindful.db")
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orDefaultList(value, fallback []string) []string {
	if len(value) > 0 {
		return value
	}
	return fallback
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated value, dropping blanks.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
