package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env      string `validate:"oneof=development production"`
	DataFile string `validate:"required"`

	Redis   RedisConfig
	Log     LogConfig
	Export  ExportConfig
	Metrics MetricsConfig
	History HistoryConfig
}

// RedisConfig configures the optional roster snapshot mirror.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int `validate:"gte=0,lte=65535"`
	Password string
	DB       int `validate:"gte=0"`
	Key      string
	TTL      time.Duration
}

type LogConfig struct {
	Level  string
	Format string `validate:"omitempty,oneof=json console"`
	File   string
}

// ExportConfig controls where rendered roster exports are written.
type ExportConfig struct {
	Dir       string `validate:"required"`
	Retention time.Duration
}

// MetricsConfig toggles command instrumentation. When Textfile is set the
// registry is written there in Prometheus text format at the end of a session.
type MetricsConfig struct {
	Enabled  bool
	Textfile string
}

// HistoryConfig controls the interactive prompt history file.
type HistoryConfig struct {
	File  string
	Limit int `validate:"gte=0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.DataFile = v.GetString("DATA_FILE")

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_SNAPSHOT_CACHE"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		Key:      v.GetString("REDIS_SNAPSHOT_KEY"),
		TTL:      parseDuration(v.GetString("REDIS_SNAPSHOT_TTL"), 0),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
		File:   v.GetString("LOG_FILE"),
	}

	cfg.Export = ExportConfig{
		Dir:       v.GetString("EXPORTS_DIR"),
		Retention: parseDuration(v.GetString("EXPORTS_RETENTION"), 30*24*time.Hour),
	}

	cfg.Metrics = MetricsConfig{
		Enabled:  v.GetBool("ENABLE_METRICS"),
		Textfile: v.GetString("METRICS_TEXTFILE"),
	}

	cfg.History = HistoryConfig{
		File:  v.GetString("HISTORY_FILE"),
		Limit: v.GetInt("HISTORY_LIMIT"),
	}

	return cfg, nil
}

// Validate checks the loaded values with struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("DATA_FILE", "data/teachmate.json")

	v.SetDefault("ENABLE_SNAPSHOT_CACHE", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_SNAPSHOT_KEY", "teachmate:roster")
	v.SetDefault("REDIS_SNAPSHOT_TTL", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "teachmate.log")

	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("EXPORTS_RETENTION", "720h")
	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("METRICS_TEXTFILE", "")

	v.SetDefault("HISTORY_FILE", ".teachmate_history")
	v.SetDefault("HISTORY_LIMIT", 500)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
