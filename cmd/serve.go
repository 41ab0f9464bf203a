package cmd

import (
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrzw/ollama-chat/internal/config"
	"github.com/andrzw/ollama-chat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat server",
	Long: `Start the chat server that serves the browser front-end and relays
augmented prompts to the Ollama backend.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("host", "H", "127.0.0.1", "Host to bind the server to")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to listen on")
	serveCmd.Flags().BoolP("debug", "d", false, "Enable debug mode (verbose logging)")
	serveCmd.Flags().BoolP("verbose", "v", false, "Log every request without enabling debug mode")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	host, err := cmd.Flags().GetString("host")
	if err != nil {
		log.Fatalf("Failed to get host flag: %v", err)
	}
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		log.Fatalf("Failed to get port flag: %v", err)
	}

	// Use config values only if flags weren't provided (use default flag values to check)
	if !cmd.Flags().Changed("host") && cfg.Host != "" {
		host = cfg.Host
	}
	if !cmd.Flags().Changed("port") && cfg.Port != 0 {
		port = cfg.Port
	}

	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		log.Fatalf("Failed to get debug flag: %v", err)
	}
	if debug {
		cfg.Debug = true
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		log.Fatalf("Failed to get verbose flag: %v", err)
	}
	if verbose {
		cfg.Verbose = true
	}

	srv, err := server.NewServer(cfg, host, port)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s:%d", host, port)
		log.Printf("Ollama backend: %s", cfg.OllamaURL)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := server.CreateShutdownContext(30 * time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
