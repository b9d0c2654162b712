package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"ge-course-scraper/internal/logger"

	"github.com/joho/godotenv"
)

type AppEnv struct {
	AppHost string
	AppPort string
}

type DbEnv struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type RabbitMqEnv struct {
	URL          string
	TriggerQueue string
	RefreshQueue string
}

type ScraperEnv struct {
	EntryURL          string
	CatalogURL        string
	PoolSize          int
	MaxAttempts       int
	RetryDelay        time.Duration
	JobTimeout        time.Duration
	WaitTimeout       time.Duration
	AcquireWait       time.Duration
	MaxPages          int
	Categories        []string
	BatchSize         int
	Schedule          string
	DiscoverySchedule string
	Headless          bool
}

type LogEnv struct {
	Level  string
	Pretty bool
}

type EnvConfig struct {
	App      *AppEnv
	Db       *DbEnv
	RabbitMq *RabbitMqEnv
	Scraper  *ScraperEnv
	Log      *LogEnv
}

// NewEnvConfig loads .env when present and reads the process environment.
func NewEnvConfig() *EnvConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("Error loading .env file")
	}
	return ReadEnvConfig()
}

// ReadEnvConfig reads the process environment without touching .env.
func ReadEnvConfig() *EnvConfig {
	envConfig := &EnvConfig{
		App: &AppEnv{
			AppHost: getString("APP_HOST", "0.0.0.0"),
			AppPort: getString("APP_PORT", "8080"),
		},
		Db: &DbEnv{
			Driver:   getString("DB_DRIVER", "sqlite"),
			DSN:      os.Getenv("DB_DSN"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getString("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Database: os.Getenv("POSTGRES_DB"),
		},
		RabbitMq: &RabbitMqEnv{
			URL:          os.Getenv("AMQP_SERVER_URL"),
			TriggerQueue: getString("RABBITMQ_TRIGGER_QUEUE", "scrape_trigger"),
			RefreshQueue: getString("RABBITMQ_REFRESH_QUEUE", "snapshot_refreshed"),
		},
		Scraper: &ScraperEnv{
			EntryURL:          getString("SCRAPER_ENTRY_URL", "https://pisa.ucsc.edu/class_search/index.php"),
			CatalogURL:        getString("CATALOG_INDEX_URL", "https://catalog.ucsc.edu/en/current/general-catalog/academic-programs/bachelors-degrees"),
			PoolSize:          getInt("SCRAPER_POOL_SIZE", 10),
			MaxAttempts:       getInt("SCRAPER_MAX_ATTEMPTS", 3),
			RetryDelay:        getDuration("SCRAPER_RETRY_DELAY", 5*time.Second),
			JobTimeout:        getDuration("SCRAPER_JOB_TIMEOUT", 5*time.Minute),
			WaitTimeout:       getDuration("SCRAPER_WAIT_TIMEOUT", 3*time.Second),
			AcquireWait:       getDuration("SCRAPER_ACQUIRE_WAIT", 0),
			MaxPages:          getInt("SCRAPER_MAX_PAGES", 100),
			Categories:        getList("SCRAPER_CATEGORIES"),
			BatchSize:         getInt("SCRAPER_BATCH_SIZE", 100),
			Schedule:          getString("SCRAPE_SCHEDULE", "@every 60s"),
			DiscoverySchedule: getString("DISCOVERY_SCHEDULE", "@every 504h"),
			Headless:          getBool("SCRAPER_HEADLESS", true),
		},
		Log: &LogEnv{
			Level:  getString("LOG_LEVEL", "info"),
			Pretty: getBool("LOG_PRETTY", false),
		},
	}
	return envConfig
}

func getString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", raw).Msg("invalid integer, using default")
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", raw).Msg("invalid boolean, using default")
		return fallback
	}
	return value
}

func getList(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
