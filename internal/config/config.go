// Package config loads agri-advisor settings from config.yaml and AGRI_*
// environment variables and initializes the global logger.
package config

import (
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agrichain/agri-advisor/internal/resilience"
)

// Config holds the full application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Weather   WeatherConfig   `yaml:"weather" mapstructure:"weather"`
	Transport TransportConfig `yaml:"transport" mapstructure:"transport"`
	Market    MarketConfig    `yaml:"market" mapstructure:"market"`
	Refdata   RefdataConfig   `yaml:"refdata" mapstructure:"refdata"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// WeatherConfig configures the OpenWeatherMap client.
type WeatherConfig struct {
	APIKey      string      `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string      `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int         `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64     `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Retry       RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// RetryConfig configures retries for upstream calls.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
}

// TransportConfig holds trucking assumptions for market ranking.
type TransportConfig struct {
	FuelRatePerKM float64 `yaml:"fuel_rate_per_km" mapstructure:"fuel_rate_per_km"`
	AvgSpeedKMH   float64 `yaml:"avg_speed_kmh" mapstructure:"avg_speed_kmh"`
}

// MarketConfig configures market listings.
type MarketConfig struct {
	MaxNearby int `yaml:"max_nearby" mapstructure:"max_nearby"`
}

// RefdataConfig points at an override reference dataset. Empty uses the
// embedded one.
type RefdataConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HTTPClient returns an HTTP client honoring the configured timeout.
func (w WeatherConfig) HTTPClient() *http.Client {
	return &http.Client{Timeout: time.Duration(w.TimeoutSecs) * time.Second}
}

// RetryPolicy converts the retry settings.
func (w WeatherConfig) RetryPolicy() resilience.Policy {
	return resilience.FromSettings(w.Retry.MaxAttempts, w.Retry.InitialBackoffMs)
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AGRI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.timeout_secs", 10)
	v.SetDefault("weather.rate_per_sec", 5)
	v.SetDefault("weather.retry.max_attempts", 3)
	v.SetDefault("weather.retry.initial_backoff_ms", 500)
	v.SetDefault("transport.fuel_rate_per_km", 8.0)
	v.SetDefault("transport.avg_speed_kmh", 30)
	v.SetDefault("market.max_nearby", 3)
	v.SetDefault("refdata.path", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks numeric ranges and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, "log.format must be json or console")
	}
	if c.Weather.TimeoutSecs <= 0 {
		errs = append(errs, "weather.timeout_secs must be > 0")
	}
	if c.Weather.RatePerSec <= 0 {
		errs = append(errs, "weather.rate_per_sec must be > 0")
	}
	if c.Weather.Retry.MaxAttempts < 1 || c.Weather.Retry.MaxAttempts > 10 {
		errs = append(errs, "weather.retry.max_attempts must be between 1 and 10")
	}
	if c.Weather.Retry.InitialBackoffMs <= 0 {
		errs = append(errs, "weather.retry.initial_backoff_ms must be > 0")
	}
	if c.Transport.FuelRatePerKM <= 0 {
		errs = append(errs, "transport.fuel_rate_per_km must be > 0")
	}
	if c.Transport.AvgSpeedKMH <= 0 || c.Transport.AvgSpeedKMH > 120 {
		errs = append(errs, "transport.avg_speed_kmh must be between 0 and 120")
	}
	if c.Market.MaxNearby < 1 {
		errs = append(errs, "market.max_nearby must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
