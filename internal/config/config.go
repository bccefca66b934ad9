package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const EnvPrefix = "SKETCH"

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type DetectConfig struct {
	ResamplePoints      int     `mapstructure:"resample_points"`
	CanvasSize          float64 `mapstructure:"canvas_size"`
	MinPoints           int     `mapstructure:"min_points"`
	CompletionThreshold float64 `mapstructure:"completion_threshold"`
	Stroke              string  `mapstructure:"stroke"`
}

type RateLimitConfig struct {
	Events   int           `mapstructure:"events"`
	Interval time.Duration `mapstructure:"interval"`
}

type Config struct {
	Mode           string          `mapstructure:"mode"`
	Port           int             `mapstructure:"port"`
	MetricsPort    int             `mapstructure:"metrics_port"`
	LogLevel       string          `mapstructure:"log_level"`
	Secret         string          `mapstructure:"secret"`
	JWTSecret      string          `mapstructure:"jwt_secret"`
	ReadLimit      int64           `mapstructure:"read_limit"`
	PingPeriod     time.Duration   `mapstructure:"ping_period"`
	PongWait       time.Duration   `mapstructure:"pong_wait"`
	WriteWait      time.Duration   `mapstructure:"write_wait"`
	SendBuffer     int             `mapstructure:"send_buffer"`
	Backpressure   string          `mapstructure:"backpressure"`
	PersistTimeout time.Duration   `mapstructure:"persist_timeout"`
	Store          StoreConfig     `mapstructure:"store"`
	Detect         DetectConfig    `mapstructure:"detect"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("metrics_port", 9090)
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "change-me")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("backpressure", "drop")
	v.SetDefault("persist_timeout", "5s")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("detect.resample_points", 64)
	v.SetDefault("detect.canvas_size", 64.0)
	v.SetDefault("detect.min_points", 8)
	v.SetDefault("detect.completion_threshold", 0.55)
	v.SetDefault("detect.stroke", "#000")
	v.SetDefault("rate_limit.events", 0)
	v.SetDefault("rate_limit.interval", "1s")
}

// Load reads .env, then config/config.<CONFIG_ENV>.yaml, then SKETCH_* variables.
// Later sources win. Missing files are not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("config ready")
	return &cfg, nil
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	switch {
	case c.Port <= 0:
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	case c.PingPeriod <= 0 || c.PongWait <= c.PingPeriod:
		return fmt.Errorf("%w: pong_wait %s must exceed ping_period %s", ErrInvalidConfig, c.PongWait, c.PingPeriod)
	case c.Detect.CompletionThreshold < 0 || c.Detect.CompletionThreshold > 1:
		return fmt.Errorf("%w: detect.completion_threshold %v", ErrInvalidConfig, c.Detect.CompletionThreshold)
	case c.Detect.MinPoints < 3:
		return fmt.Errorf("%w: detect.min_points %d", ErrInvalidConfig, c.Detect.MinPoints)
	case c.Store.Driver != "memory" && c.Store.DSN == "":
		return fmt.Errorf("%w: store.dsn required for %s", ErrInvalidConfig, c.Store.Driver)
	}
	return nil
}
