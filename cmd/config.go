package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrzw/ollama-chat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage configuration settings for ollama-chat.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Supported keys:
- ollama_url: Base URL of the Ollama backend (default: http://localhost:11434)
- host: Host to bind server to (default: 127.0.0.1)
- port: Port to listen on (default: 3000)
- data_dir: Directory for stored images and thumbnails
- static_dir: Directory of front-end assets served at /
- request_timeout: Inference call timeout in seconds`,
	Args: cobra.ExactArgs(2),
	Run:  runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run:   runConfigGet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) {
	key := args[0]
	value := args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch key {
	case "ollama_url":
		cfg.OllamaURL = value
	case "host":
		cfg.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("Invalid port value: %s. Must be an integer.", value)
		}
		cfg.Port = port
	case "data_dir":
		cfg.DataDir = value
	case "static_dir":
		cfg.StaticDir = value
	case "request_timeout":
		seconds, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("Invalid request_timeout value: %s. Must be an integer.", value)
		}
		cfg.RequestTimeout = seconds
	default:
		log.Fatalf("Invalid key: %s. Valid keys are: ollama_url, host, port, data_dir, static_dir, request_timeout", key)
	}

	if err := config.Save(cfg); err != nil {
		log.Fatalf("Failed to save configuration: %v", err)
	}

	fmt.Printf("Configuration updated: %s = %s\n", key, value)
}

func runConfigGet(cmd *cobra.Command, args []string) {
	key := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var value string
	switch key {
	case "ollama_url":
		value = cfg.OllamaURL
	case "host":
		value = cfg.Host
	case "port":
		if cfg.Port != 0 {
			value = strconv.Itoa(cfg.Port)
		}
	case "data_dir":
		value = cfg.DataDir
	case "static_dir":
		value = cfg.StaticDir
	case "request_timeout":
		if cfg.RequestTimeout != 0 {
			value = strconv.Itoa(cfg.RequestTimeout)
		}
	default:
		log.Fatalf("Invalid key: %s. Valid keys are: ollama_url, host, port, data_dir, static_dir, request_timeout", key)
	}

	if value == "" {
		fmt.Printf("%s is not set\n", key)
	} else {
		fmt.Printf("%s = %s\n", key, value)
	}
}
