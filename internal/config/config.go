// Package config loads service settings from defaults, an optional YAML
// file, a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// path is given.
const DefaultConfigFile = "project-builder.yaml"

type Config struct {
	Addr           string   `mapstructure:"addr"`
	MaxConnections int      `mapstructure:"max_connections"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	JWTSecret      string   `mapstructure:"jwt_secret"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	LLMBackend       string        `mapstructure:"llm_backend"`
	LLMRetryAttempts int           `mapstructure:"llm_retry_attempts"`
	LLMRetryDelay    time.Duration `mapstructure:"llm_retry_delay"`

	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	GeminiModel   string `mapstructure:"gemini_model"`
	GeminiBaseURL string `mapstructure:"gemini_base_url"`

	HuggingFaceAPIKey  string `mapstructure:"huggingface_api_key"`
	HuggingFaceModel   string `mapstructure:"huggingface_model"`
	HuggingFaceBaseURL string `mapstructure:"huggingface_base_url"`

	OllamaURL   string `mapstructure:"ollama_url"`
	OllamaModel string `mapstructure:"ollama_model"`

	AnthropicAPIKey  string `mapstructure:"anthropic_api_key"`
	AnthropicModel   string `mapstructure:"anthropic_model"`
	AnthropicBaseURL string `mapstructure:"anthropic_base_url"`

	DBDriver   string `mapstructure:"db_driver"`
	DBPath     string `mapstructure:"db_path"`
	DBURL      string `mapstructure:"database_url"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     int    `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`

	ProjectsDir        string `mapstructure:"projects_dir"`
	MaxUploadSizeMB    int    `mapstructure:"max_upload_size_mb"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute"`
	TesseractPath      string `mapstructure:"tesseract_path"`
	PdfToTextPath      string `mapstructure:"pdftotext_path"`
}

// envKeys maps config keys to the environment variable names the service
// has always used. Keys are bound by exact name, without a prefix.
var envKeys = map[string]string{
	"addr":                  "ADDR",
	"max_connections":       "MAX_CONNECTIONS",
	"allowed_origins":       "ALLOWED_ORIGINS",
	"jwt_secret":            "JWT_SECRET",
	"log_level":             "LOG_LEVEL",
	"log_format":            "LOG_FORMAT",
	"llm_backend":           "LLM_BACKEND",
	"llm_retry_attempts":    "LLM_RETRY_ATTEMPTS",
	"llm_retry_delay":       "LLM_RETRY_DELAY",
	"gemini_api_key":        "GEMINI_API_KEY",
	"gemini_model":          "GEMINI_MODEL",
	"gemini_base_url":       "GEMINI_BASE_URL",
	"huggingface_api_key":   "HUGGINGFACE_API_KEY",
	"huggingface_model":     "HUGGINGFACE_MODEL",
	"huggingface_base_url":  "HUGGINGFACE_BASE_URL",
	"ollama_url":            "OLLAMA_URL",
	"ollama_model":          "OLLAMA_MODEL",
	"anthropic_api_key":     "ANTHROPIC_API_KEY",
	"anthropic_model":       "ANTHROPIC_MODEL",
	"anthropic_base_url":    "ANTHROPIC_BASE_URL",
	"db_driver":             "DB_DRIVER",
	"db_path":               "DB_PATH",
	"database_url":          "DATABASE_URL",
	"db_host":               "DB_HOST",
	"db_port":               "DB_PORT",
	"db_user":               "DB_USER",
	"db_password":           "DB_PASSWORD",
	"db_name":               "DB_NAME",
	"projects_dir":          "PROJECTS_DIR",
	"max_upload_size_mb":    "MAX_UPLOAD_SIZE_MB",
	"rate_limit_per_minute": "RATE_LIMIT_PER_MINUTE",
	"tesseract_path":        "TESSERACT_PATH",
	"pdftotext_path":        "PDFTOTEXT_PATH",
}

// Load reads configuration. Precedence (highest first):
//  1. environment variables (including values loaded from .env)
//  2. the YAML file at path, or ./project-builder.yaml when path is empty
//  3. built-in defaults
func Load(path string) (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// LoadFromPath reads one YAML file over the defaults, ignoring the
// environment. Used by tests and the migrate command.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return decode(v)
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	} else if _, err := os.Stat(DefaultConfigFile); err == nil {
		v.SetConfigFile(DefaultConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", DefaultConfigFile, err)
		}
	}

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// ALLOWED_ORIGINS arrives from the environment as one comma separated string.
	cfg.AllowedOrigins = splitList(strings.Join(cfg.AllowedOrigins, ","))
	cfg.LLMBackend = strings.ToLower(strings.TrimSpace(cfg.LLMBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("max_connections", d.MaxConnections)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("jwt_secret", d.JWTSecret)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("llm_backend", d.LLMBackend)
	v.SetDefault("llm_retry_attempts", d.LLMRetryAttempts)
	v.SetDefault("llm_retry_delay", d.LLMRetryDelay.String())
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", d.GeminiModel)
	v.SetDefault("gemini_base_url", d.GeminiBaseURL)
	v.SetDefault("huggingface_api_key", "")
	v.SetDefault("huggingface_model", d.HuggingFaceModel)
	v.SetDefault("huggingface_base_url", d.HuggingFaceBaseURL)
	v.SetDefault("ollama_url", d.OllamaURL)
	v.SetDefault("ollama_model", d.OllamaModel)
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_model", d.AnthropicModel)
	v.SetDefault("anthropic_base_url", "")
	v.SetDefault("db_driver", d.DBDriver)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("database_url", "")
	v.SetDefault("db_host", d.DBHost)
	v.SetDefault("db_port", d.DBPort)
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "")
	v.SetDefault("projects_dir", d.ProjectsDir)
	v.SetDefault("max_upload_size_mb", d.MaxUploadSizeMB)
	v.SetDefault("rate_limit_per_minute", d.RateLimitPerMinute)
	v.SetDefault("tesseract_path", d.TesseractPath)
	v.SetDefault("pdftotext_path", d.PdfToTextPath)
}

// Default returns a Config holding the built-in defaults.
func Default() *Config {
	return &Config{
		Addr:           ":8000",
		MaxConnections: 256,
		AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		LogLevel:       "info",
		LogFormat:      "json",

		LLMBackend:       "gemini",
		LLMRetryAttempts: 3,
		LLMRetryDelay:    2 * time.Second,

		GeminiModel:        "gemini-1.5-flash",
		GeminiBaseURL:      "https://generativelanguage.googleapis.com",
		HuggingFaceModel:   "google/flan-t5-base",
		HuggingFaceBaseURL: "https://api-inference.huggingface.co",
		OllamaURL:          "http://localhost:11434",
		OllamaModel:        "llama3",
		AnthropicModel:     "claude-sonnet-4-20250514",

		DBDriver: "sqlite",
		DBPath:   "app.db",
		DBHost:   "localhost",
		DBPort:   5432,

		ProjectsDir:        "generated_projects",
		MaxUploadSizeMB:    10,
		RateLimitPerMinute: 60,
		TesseractPath:      "tesseract",
		PdfToTextPath:      "pdftotext",
	}
}

// Validate rejects values the service cannot start with. An unknown
// LLM_BACKEND is deliberately not rejected here: the model client reports
// it per call and task generation falls back.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("db_driver %q: want sqlite or postgres", c.DBDriver))
	}
	if c.LLMRetryAttempts < 1 {
		errs = append(errs, fmt.Errorf("llm_retry_attempts must be >= 1, got %d", c.LLMRetryAttempts))
	}
	if c.LLMRetryDelay < 0 {
		errs = append(errs, errors.New("llm_retry_delay must not be negative"))
	}
	if c.MaxUploadSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_size_mb must be positive, got %d", c.MaxUploadSizeMB))
	}
	return errors.Join(errs...)
}

// ConnString builds the lib/pq connection string. DATABASE_URL wins when set.
func (c *Config) ConnString() string {
	if c.DBURL != "" {
		return c.DBURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.ConnString()
	}
	return c.DBPath
}

// MaxUploadBytes is MAX_UPLOAD_SIZE_MB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
