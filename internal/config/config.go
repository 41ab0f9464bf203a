package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	OllamaURL      string `mapstructure:"ollama_url"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	DataDir        string `mapstructure:"data_dir"`       // root for stored images and thumbnails
	StaticDir      string `mapstructure:"static_dir"`     // front-end assets, served at / when set
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds, inference backend calls
	Debug          bool   `mapstructure:"debug"`
	Verbose        bool   `mapstructure:"verbose"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		OllamaURL:      "http://localhost:11434",
		Host:           "127.0.0.1",
		Port:           3000,
		DataDir:        defaultDataDir(),
		RequestTimeout: 120,
	}
}

// Load loads configuration with precedence: ENV vars > config file > defaults
func Load() (*Config, error) {
	// A local .env is optional; ignore a missing file
	_ = godotenv.Load()

	v := viper.New()

	defaultCfg := DefaultConfig()
	v.SetDefault("ollama_url", defaultCfg.OllamaURL)
	v.SetDefault("host", defaultCfg.Host)
	v.SetDefault("port", defaultCfg.Port)
	v.SetDefault("data_dir", defaultCfg.DataDir)
	v.SetDefault("static_dir", defaultCfg.StaticDir)
	v.SetDefault("request_timeout", defaultCfg.RequestTimeout)
	v.SetDefault("debug", defaultCfg.Debug)
	v.SetDefault("verbose", defaultCfg.Verbose)

	v.SetConfigName("config")
	v.SetConfigType("json")

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("OLLAMA_CHAT")
	v.AutomaticEnv()

	_ = v.BindEnv("ollama_url", "OLLAMA_CHAT_OLLAMA_URL", "OLLAMA_HOST")
	_ = v.BindEnv("host", "OLLAMA_CHAT_HOST")
	_ = v.BindEnv("port", "OLLAMA_CHAT_PORT")
	_ = v.BindEnv("data_dir", "OLLAMA_CHAT_DATA_DIR")
	_ = v.BindEnv("static_dir", "OLLAMA_CHAT_STATIC_DIR")
	_ = v.BindEnv("request_timeout", "OLLAMA_CHAT_REQUEST_TIMEOUT")
	_ = v.BindEnv("debug", "OLLAMA_CHAT_DEBUG")
	_ = v.BindEnv("verbose", "OLLAMA_CHAT_VERBOSE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, that's ok - we'll use defaults/env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Save saves the configuration to file
func Save(cfg *Config) error {
	configDir, err := getConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	v.Set("ollama_url", cfg.OllamaURL)
	v.Set("host", cfg.Host)
	v.Set("port", cfg.Port)
	v.Set("data_dir", cfg.DataDir)
	v.Set("static_dir", cfg.StaticDir)
	v.Set("request_timeout", cfg.RequestTimeout)
	v.Set("debug", cfg.Debug)
	v.Set("verbose", cfg.Verbose)

	configPath := filepath.Join(configDir, "config.json")
	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path (XDG-compliant)
func getConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "ollama-chat"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "ollama-chat"), nil
}

func defaultDataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "ollama-chat")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "ollama-chat-data"
	}
	return filepath.Join(homeDir, ".local", "share", "ollama-chat")
}
