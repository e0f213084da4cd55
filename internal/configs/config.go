package configs

import (
	"fmt"
	"log"
	"os"
	"rental-dashboard/internal/constants"
	"rental-dashboard/internal/core/domain"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Драйверы хранилища документов
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

// StoreConfig - откуда читать посты бота
type StoreConfig struct {
	Driver        string
	DatabaseURL   string
	SQLitePath    string
	DocumentsFile string
	Collection    string
}

type ListingsConfig struct {
	Window   int
	PageSize int
}

type StatsConfig struct {
	HistoryLimit int
	RecentErrors int
}

type StdoutLogConfig struct {
	Level  string `mapstructure:"STDOUT_LOG_LEVEL" default:"debug"`
	IsJSON bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string `mapstructure:"FLUENTBIT_LOG_LEVEL" default:"info"`
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	Environment string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Rest         RESTconfig
	Store        StoreConfig
	Listings     ListingsConfig
	Stats        StatsConfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
	Tracing      TracingConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Файл .env необязателен: в контейнере переменные приходят из окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "rental-dashboard")
	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})

	// Хранилище
	cfg.Store.Driver = strings.ToLower(getEnvAsString("STORE_DRIVER", StoreDriverMemory))
	cfg.Store.Collection = getEnvAsString("POSTS_COLLECTION", constants.CollectionRentalPosts)
	switch cfg.Store.Driver {
	case StoreDriverPostgres:
		cfg.Store.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.Store.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for driver %q", cfg.Store.Driver)
		}
	case StoreDriverSQLite:
		cfg.Store.SQLitePath = os.Getenv("SQLITE_PATH")
		if cfg.Store.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH environment variable is required for driver %q", cfg.Store.Driver)
		}
	case StoreDriverMemory:
		cfg.Store.DocumentsFile = getEnvAsString("DOCUMENTS_FILE", "")
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreDriver, cfg.Store.Driver)
	}

	cfg.Listings.Window = getEnvAsPositiveInt("LISTINGS_WINDOW", constants.DefaultListingsWindow)
	cfg.Listings.PageSize = getEnvAsPositiveInt("LISTINGS_PAGE_SIZE", constants.DefaultListingsPageSize)
	cfg.Stats.HistoryLimit = getEnvAsPositiveInt("STATS_HISTORY_LIMIT", constants.DefaultStatsHistoryLimit)
	cfg.Stats.RecentErrors = getEnvAsBoundedInt("STATS_RECENT_ERRORS", constants.DefaultStatsRecentErrors, constants.MaxStatsRecentErrors)

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.Tracing.Enabled = getEnvAsBool("OTEL_ENABLED", false)
	cfg.Tracing.Endpoint = getEnvAsString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	cfg.Tracing.Environment = getEnvAsString("APP_ENV", "development")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsPositiveInt(key string, defaultValue int) int {
	v := getEnvAsInt(key, defaultValue)
	if v <= 0 {
		log.Printf("Warning: Environment variable %s must be positive (got %d). Using default value: %d\n", key, v, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvAsBoundedInt(key string, defaultValue, maxValue int) int {
	v := getEnvAsPositiveInt(key, defaultValue)
	if v > maxValue {
		log.Printf("Warning: Environment variable %s must not exceed %d (got %d). Using %d\n", key, maxValue, v, maxValue)
		return maxValue
	}
	return v
}

// getEnvAsList читает список через запятую; пустая строка отключает список.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
