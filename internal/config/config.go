package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the calendar service.
type Config struct {
	Port             string
	DatabaseURL      string
	DataPath         string
	JWTSecret        string
	FeedSecret       string
	TokenTTL         time.Duration
	Location         *time.Location
	ResyncSchedule   string
	DefaultCellWidth float64
	LogLevel         string
	LogFormat        string
	GinMode          string
}

// LoadDotEnv loads the first .env file found in the working directory or its parents.
// Values already present in the environment win.
func LoadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load parses configuration values from the current process environment.
//
// Optional values fall back to defaults. Missing required values and values
// that fail to parse are reported together in a single error.
func Load() (Config, error) {
	cfg := Config{
		Port:             "8000",
		DataPath:         "calendar.db",
		TokenTTL:         24 * time.Hour,
		Location:         time.Local,
		ResyncSchedule:   "@every 1m",
		DefaultCellWidth: 140,
		LogLevel:         "info",
		LogFormat:        "text",
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	if port := env("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err != nil || n <= 0 {
			invalid = append(invalid, "PORT")
		} else {
			cfg.Port = port
		}
	}

	cfg.DatabaseURL = env("DATABASE_URL")
	if path := env("DATA_PATH"); path != "" {
		cfg.DataPath = path
	}

	if cfg.JWTSecret = env("JWT_SECRET"); cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.FeedSecret = env("API_MASTER_SECRET"); cfg.FeedSecret == "" {
		missing = append(missing, "API_MASTER_SECRET")
	}

	if ttl := env("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			invalid = append(invalid, "TOKEN_TTL")
		} else {
			cfg.TokenTTL = d
		}
	}

	if tz := env("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			invalid = append(invalid, "TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}

	if schedule := env("RESYNC_CRON"); schedule != "" {
		cfg.ResyncSchedule = schedule
	}

	if width := env("DEFAULT_CELL_WIDTH"); width != "" {
		w, err := strconv.ParseFloat(width, 64)
		if err != nil || w <= 0 {
			invalid = append(invalid, "DEFAULT_CELL_WIDTH")
		} else {
			cfg.DefaultCellWidth = w
		}
	}

	if level := strings.ToLower(env("LOG_LEVEL")); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			invalid = append(invalid, "LOG_LEVEL")
		}
	}

	if format := strings.ToLower(env("LOG_FORMAT")); format != "" {
		switch format {
		case "text", "json":
			cfg.LogFormat = format
		default:
			invalid = append(invalid, "LOG_FORMAT")
		}
	}

	cfg.GinMode = env("GIN_MODE")

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
