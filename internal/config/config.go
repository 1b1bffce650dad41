// Package config loads dbchat settings from defaults, a YAML file, dotenv
// files, the environment and command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = ".dbchat"
	envPrefix  = "DBCHAT"

	// PasswordEnv is the fallback for the database password.
	PasswordEnv = "DB_PASSWORD"
	// APIKeyEnv is the fallback for the OpenAI API key.
	APIKeyEnv = "OPENAI_API_KEY"
)

// AppFs is the filesystem used by the CLI.
var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	Database DatabaseConfig
	OpenAI   OpenAIConfig
	Agent    AgentConfig
	Log      LogConfig

	// File is the config file that was read, empty when none was found.
	File string
}

// DatabaseConfig holds the connection fields.
type DatabaseConfig struct {
	Kind     string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	Path     string
	// URL bypasses the per-kind template when set.
	URL            string
	ConnectTimeout time.Duration
	MaxConnections int
	SSLMode        string
}

// OpenAIConfig holds the model settings.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
}

// AgentConfig holds the SQL agent limits.
type AgentConfig struct {
	MaxIterations int
	TopK          int
	SampleRows    int
	Timeout       time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	Debug bool
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"kind":            "database.kind",
	"host":            "database.host",
	"user":            "database.user",
	"password":        "database.password",
	"database":        "database.name",
	"port":            "database.port",
	"path":            "database.path",
	"url":             "database.url",
	"connect-timeout": "database.connect_timeout",
	"ssl-mode":        "database.ssl_mode",
	"api-key":         "openai.api_key",
	"model":           "openai.model",
	"base-url":        "openai.base_url",
	"max-iterations":  "agent.max_iterations",
	"top-k":           "agent.top_k",
	"sample-rows":     "agent.sample_rows",
	"agent-timeout":   "agent.timeout",
	"log-level":       "log.level",
	"debug":           "log.debug",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.kind", "PostgreSQL")
	v.SetDefault("database.host", "10.192.88.52")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "JioStaging")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.path", "sample_store.db")
	v.SetDefault("database.connect_timeout", 30*time.Second)
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.0)

	v.SetDefault("agent.max_iterations", 15)
	v.SetDefault("agent.top_k", 10)
	v.SetDefault("agent.sample_rows", 3)
	v.SetDefault("agent.timeout", time.Duration(0))

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.debug", false)
}

// Load loads configuration from various sources. flags may be nil; a
// "config" flag, when present and set, names the config file explicitly.
func Load(fs afero.Fs, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotenv(fs, ".env", false); err != nil {
		return nil, err
	}
	if err := loadDotenv(fs, ".env.local", true); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	v.SetConfigType("yaml")
	if file := explicitConfigFile(flags); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "dbchat"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Kind:           v.GetString("database.kind"),
			Host:           v.GetString("database.host"),
			User:           v.GetString("database.user"),
			Password:       v.GetString("database.password"),
			Name:           v.GetString("database.name"),
			Port:           v.GetString("database.port"),
			Path:           v.GetString("database.path"),
			URL:            v.GetString("database.url"),
			ConnectTimeout: v.GetDuration("database.connect_timeout"),
			MaxConnections: v.GetInt("database.max_connections"),
			SSLMode:        v.GetString("database.ssl_mode"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      v.GetString("openai.api_key"),
			Model:       v.GetString("openai.model"),
			BaseURL:     v.GetString("openai.base_url"),
			Temperature: v.GetFloat64("openai.temperature"),
		},
		Agent: AgentConfig{
			MaxIterations: v.GetInt("agent.max_iterations"),
			TopK:          v.GetInt("agent.top_k"),
			SampleRows:    v.GetInt("agent.sample_rows"),
			Timeout:       v.GetDuration("agent.timeout"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			Debug: v.GetBool("log.debug"),
		},
		File: v.ConfigFileUsed(),
	}

	if cfg.Database.Password == "" {
		cfg.Database.Password = os.Getenv(PasswordEnv)
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv(APIKeyEnv)
	}

	return cfg, nil
}

func explicitConfigFile(flags *pflag.FlagSet) string {
	if flags == nil {
		return ""
	}
	f := flags.Lookup("config")
	if f == nil || !f.Changed {
		return ""
	}
	return f.Value.String()
}

// loadDotenv exports the variables of a dotenv file. Existing variables are
// kept unless override is set. A missing file is not an error.
func loadDotenv(fs afero.Fs, name string, override bool) error {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	for key, value := range env {
		if _, exists := os.LookupEnv(key); exists && !override {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// ReadDotenv returns the variables of a dotenv file without exporting them.
func ReadDotenv(fs afero.Fs, name string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}
	return godotenv.Parse(bytes.NewReader(data))
}

// Save writes the non-secret settings to ~/.config/dbchat/.dbchat.yaml and
// returns the path written.
func Save(fs afero.Fs, cfg *Config) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return SaveTo(fs, cfg, filepath.Join(home, ".config", "dbchat"))
}

// SaveTo writes the non-secret settings into dir. Passwords and API keys
// are never written.
func SaveTo(fs afero.Fs, cfg *Config, dir string) (string, error) {
	v := viper.New()
	v.SetFs(fs)

	v.Set("database.kind", cfg.Database.Kind)
	v.Set("database.host", cfg.Database.Host)
	v.Set("database.user", cfg.Database.User)
	v.Set("database.name", cfg.Database.Name)
	v.Set("database.port", cfg.Database.Port)
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.connect_timeout", cfg.Database.ConnectTimeout.String())
	v.Set("database.max_connections", cfg.Database.MaxConnections)
	v.Set("database.ssl_mode", cfg.Database.SSLMode)
	v.Set("openai.model", cfg.OpenAI.Model)
	v.Set("openai.base_url", cfg.OpenAI.BaseURL)
	v.Set("openai.temperature", cfg.OpenAI.Temperature)
	v.Set("agent.max_iterations", cfg.Agent.MaxIterations)
	v.Set("agent.top_k", cfg.Agent.TopK)
	v.Set("agent.sample_rows", cfg.Agent.SampleRows)
	v.Set("agent.timeout", cfg.Agent.Timeout.String())
	v.Set("log.level", cfg.Log.Level)

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	file := filepath.Join(dir, configName+".yaml")
	if err := v.WriteConfigAs(file); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return file, nil
}
