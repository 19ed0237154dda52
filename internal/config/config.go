package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               string
		CORSAllowedOrigins []string
	}
	Database struct {
		URL            string
		MigrationsPath string
	}
	Redis struct {
		URL string
	}
	Gemini struct {
		APIKey           string
		Model            string
		BaseURL          string
		Timeout          time.Duration
		SynthesisTimeout time.Duration
	}
	Chain struct {
		GapsURL            string
		QuestionsURL       string
		MethodologyURL     string
		GapsTimeout        time.Duration
		QuestionsTimeout   time.Duration
		MethodologyTimeout time.Duration
		OutputDir          string
	}
	LogLevel string
}

var envBindings = map[string]string{
	"server.port":                 "PORT",
	"server.cors_allowed_origins": "CORS_ALLOWED_ORIGINS",
	"database.url":                "DATABASE_URL",
	"database.migrations_path":    "MIGRATIONS_PATH",
	"redis.url":                   "REDIS_URL",
	"gemini.api_key":              "GEMINI_API_KEY",
	"gemini.model":                "GEMINI_MODEL",
	"gemini.base_url":             "GEMINI_BASE_URL",
	"gemini.timeout":              "GEMINI_TIMEOUT",
	"gemini.synthesis_timeout":    "GEMINI_SYNTHESIS_TIMEOUT",
	"chain.gaps_url":              "CHAIN_GAPS_URL",
	"chain.questions_url":         "CHAIN_QUESTIONS_URL",
	"chain.methodology_url":       "CHAIN_METHODOLOGY_URL",
	"chain.gaps_timeout":          "CHAIN_GAPS_TIMEOUT",
	"chain.questions_timeout":     "CHAIN_QUESTIONS_TIMEOUT",
	"chain.methodology_timeout":   "CHAIN_METHODOLOGY_TIMEOUT",
	"chain.output_dir":            "CHAIN_OUTPUT_DIR",
	"log_level":                   "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_allowed_origins", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	v.SetDefault("database.url", "blogs.db")
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("redis.url", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.timeout", 30*time.Second)
	v.SetDefault("gemini.synthesis_timeout", 120*time.Second)
	v.SetDefault("chain.gaps_url", "http://127.0.0.1:8080/api")
	v.SetDefault("chain.questions_url", "https://spm-production.up.railway.app")
	v.SetDefault("chain.methodology_url", "http://127.0.0.1:8080/api")
	v.SetDefault("chain.gaps_timeout", 20*time.Second)
	v.SetDefault("chain.questions_timeout", 20*time.Second)
	v.SetDefault("chain.methodology_timeout", 60*time.Second)
	v.SetDefault("chain.output_dir", "")
	v.SetDefault("log_level", "info")
}

// Load reads config.yaml from the working directory when present and then
// applies environment overrides.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit search path for config.yaml.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config

	config.Server.Port = v.GetString("server.port")
	config.Server.CORSAllowedOrigins = splitList(v.GetString("server.cors_allowed_origins"))
	config.Database.URL = v.GetString("database.url")
	config.Database.MigrationsPath = v.GetString("database.migrations_path")
	config.Redis.URL = v.GetString("redis.url")
	config.Gemini.APIKey = strings.TrimSpace(v.GetString("gemini.api_key"))
	config.Gemini.Model = v.GetString("gemini.model")
	config.Gemini.BaseURL = strings.TrimRight(v.GetString("gemini.base_url"), "/")
	config.Gemini.Timeout = v.GetDuration("gemini.timeout")
	config.Gemini.SynthesisTimeout = v.GetDuration("gemini.synthesis_timeout")
	config.Chain.GapsURL = strings.TrimRight(v.GetString("chain.gaps_url"), "/")
	config.Chain.QuestionsURL = strings.TrimRight(v.GetString("chain.questions_url"), "/")
	config.Chain.MethodologyURL = strings.TrimRight(v.GetString("chain.methodology_url"), "/")
	config.Chain.GapsTimeout = v.GetDuration("chain.gaps_timeout")
	config.Chain.QuestionsTimeout = v.GetDuration("chain.questions_timeout")
	config.Chain.MethodologyTimeout = v.GetDuration("chain.methodology_timeout")
	config.Chain.OutputDir = v.GetString("chain.output_dir")
	config.LogLevel = v.GetString("log_level")

	return &config, nil
}

// ValidateGemini reports whether the generative API can be called at all.
func (c *Config) ValidateGemini() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Gemini.BaseURL == "" {
		return fmt.Errorf("GEMINI_BASE_URL is required")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("GEMINI_MODEL is required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
