// Package config provides configuration loading and validation for the CLI,
// server and worker.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration,
// e.g. RESUME_ANALYZER_SERVER_PORT for server.port.
const EnvPrefix = "RESUME_ANALYZER"

// DefaultConfigName is the config file looked up in the working directory
// when no --config flag is given.
const DefaultConfigName = "resume_analyzer"

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Reports    ReportsConfig    `mapstructure:"reports"`
	Similarity SimilarityConfig `mapstructure:"similarity"`
	Coaching   CoachingConfig   `mapstructure:"coaching"`
	Auth       AuthConfig       `mapstructure:"auth"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Taxonomy   TaxonomyConfig   `mapstructure:"taxonomy"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `mapstructure:"read-timeout" validate:"min=0"`
	WriteTimeout   time.Duration `mapstructure:"write-timeout" validate:"min=0"`
	IdleTimeout    time.Duration `mapstructure:"idle-timeout" validate:"min=0"`
	CORSOrigins    []string      `mapstructure:"cors-origins"`
	PDFOnly        bool          `mapstructure:"pdf-only"`
	MaxUploadBytes int64         `mapstructure:"max-upload-bytes" validate:"min=1"`
	PublicURL      string        `mapstructure:"public-url" validate:"omitempty,url"`
}

// DatabaseConfig selects where analyses are persisted.
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver" validate:"oneof=postgres sqlite none"`
	URL        string `mapstructure:"url"`
	SQLitePath string `mapstructure:"sqlite-path"`
}

// ReportsConfig selects where rendered reports and uploaded resumes are stored.
type ReportsConfig struct {
	Backend         string `mapstructure:"backend" validate:"oneof=file s3 none"`
	Dir             string `mapstructure:"dir"`
	Bucket          string `mapstructure:"bucket"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access-key-id"`
	SecretAccessKey string `mapstructure:"secret-access-key"`
}

// SimilarityConfig selects the semantic similarity capability.
type SimilarityConfig struct {
	Provider          string        `mapstructure:"provider" validate:"oneof=gemini lexical none"`
	APIKey            string        `mapstructure:"api-key"`
	EmbeddingModel    string        `mapstructure:"embedding-model"`
	RequestsPerSecond float64       `mapstructure:"requests-per-second" validate:"min=0"`
	Burst             int           `mapstructure:"burst" validate:"min=0"`
	CacheSize         int           `mapstructure:"cache-size" validate:"min=0"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// CoachingConfig enables the optional LLM coaching notes.
type CoachingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// AuthConfig configures JWT bearer authentication.
type AuthConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	JWTSecret       string `mapstructure:"jwt-secret"`
	ExpirationHours int    `mapstructure:"expiration-hours" validate:"min=1"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default-limit" validate:"min=1"`
	DefaultWindow   time.Duration `mapstructure:"default-window" validate:"min=1ms"`
	AnalyzeLimit    int           `mapstructure:"analyze-limit" validate:"min=1"`
	AnalyzeWindow   time.Duration `mapstructure:"analyze-window" validate:"min=1ms"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval" validate:"min=1ms"`
	Whitelist       []string      `mapstructure:"whitelist" validate:"dive,ip"`
	Blacklist       []string      `mapstructure:"blacklist" validate:"dive,ip"`
}

// QueueConfig configures the AMQP worker.
type QueueConfig struct {
	URL            string `mapstructure:"url"`
	RequestQueue   string `mapstructure:"request-queue" validate:"required"`
	UpdateExchange string `mapstructure:"update-exchange" validate:"required"`
	Workers        int    `mapstructure:"workers" validate:"min=1,max=64"`
}

// TaxonomyConfig points at an optional custom taxonomy file.
type TaxonomyConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   300 * time.Second,
			IdleTimeout:    60 * time.Second,
			CORSOrigins:    []string{"*"},
			PDFOnly:        true,
			MaxUploadBytes: 10 << 20,
		},
		Database: DatabaseConfig{
			Driver:     "none",
			SQLitePath: "resume_analyzer.db",
		},
		Reports: ReportsConfig{
			Backend: "file",
			Dir:     "reports",
			Region:  "auto",
		},
		Similarity: SimilarityConfig{
			Provider:          "lexical",
			EmbeddingModel:    "text-embedding-004",
			RequestsPerSecond: 5,
			Burst:             2,
			CacheSize:         256,
			Timeout:           30 * time.Second,
		},
		Coaching: CoachingConfig{
			Model: "gemini-2.0-flash-lite",
		},
		Auth: AuthConfig{
			ExpirationHours: 24,
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			AnalyzeLimit:    30,
			AnalyzeWindow:   time.Hour,
			CleanupInterval: 5 * time.Minute,
		},
		Queue: QueueConfig{
			RequestQueue:   "resume_analysis_requests",
			UpdateExchange: "resume_analysis_updates",
			Workers:        4,
		},
	}
}

// NewViper returns a viper instance with every key's default registered and
// environment variables bound.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read-timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write-timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle-timeout", d.Server.IdleTimeout)
	v.SetDefault("server.cors-origins", d.Server.CORSOrigins)
	v.SetDefault("server.pdf-only", d.Server.PDFOnly)
	v.SetDefault("server.max-upload-bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.public-url", d.Server.PublicURL)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.sqlite-path", d.Database.SQLitePath)

	v.SetDefault("reports.backend", d.Reports.Backend)
	v.SetDefault("reports.dir", d.Reports.Dir)
	v.SetDefault("reports.bucket", d.Reports.Bucket)
	v.SetDefault("reports.endpoint", d.Reports.Endpoint)
	v.SetDefault("reports.region", d.Reports.Region)
	v.SetDefault("reports.access-key-id", d.Reports.AccessKeyID)
	v.SetDefault("reports.secret-access-key", d.Reports.SecretAccessKey)

	v.SetDefault("similarity.provider", d.Similarity.Provider)
	v.SetDefault("similarity.api-key", d.Similarity.APIKey)
	v.SetDefault("similarity.embedding-model", d.Similarity.EmbeddingModel)
	v.SetDefault("similarity.requests-per-second", d.Similarity.RequestsPerSecond)
	v.SetDefault("similarity.burst", d.Similarity.Burst)
	v.SetDefault("similarity.cache-size", d.Similarity.CacheSize)
	v.SetDefault("similarity.timeout", d.Similarity.Timeout)

	v.SetDefault("coaching.enabled", d.Coaching.Enabled)
	v.SetDefault("coaching.model", d.Coaching.Model)

	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.jwt-secret", d.Auth.JWTSecret)
	v.SetDefault("auth.expiration-hours", d.Auth.ExpirationHours)

	v.SetDefault("ratelimit.enabled", d.RateLimit.Enabled)
	v.SetDefault("ratelimit.default-limit", d.RateLimit.DefaultLimit)
	v.SetDefault("ratelimit.default-window", d.RateLimit.DefaultWindow)
	v.SetDefault("ratelimit.analyze-limit", d.RateLimit.AnalyzeLimit)
	v.SetDefault("ratelimit.analyze-window", d.RateLimit.AnalyzeWindow)
	v.SetDefault("ratelimit.cleanup-interval", d.RateLimit.CleanupInterval)
	v.SetDefault("ratelimit.whitelist", d.RateLimit.Whitelist)
	v.SetDefault("ratelimit.blacklist", d.RateLimit.Blacklist)

	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.request-queue", d.Queue.RequestQueue)
	v.SetDefault("queue.update-exchange", d.Queue.UpdateExchange)
	v.SetDefault("queue.workers", d.Queue.Workers)

	v.SetDefault("taxonomy.path", d.Taxonomy.Path)

	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)
}

// ReadFile reads path into v. An empty path looks for DefaultConfigName in
// the working directory and tolerates its absence.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName(DefaultConfigName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Decode unmarshals v into a Config and validates it. Durations accept Go
// duration strings and lists accept comma-separated strings.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		trimSliceHook(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the optional config file and environment into a validated Config.
func Load(path string) (*Config, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// trimSliceHook trims whitespace around list entries and drops blanks, so
// "a, b," decodes to [a b].
func trimSliceHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, _ reflect.Type, data any) (any, error) {
		items, ok := data.([]string)
		if !ok {
			return data, nil
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	}
}
