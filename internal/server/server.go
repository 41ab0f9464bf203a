package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andrzw/ollama-chat/internal/config"
	"github.com/andrzw/ollama-chat/internal/images"
	"github.com/andrzw/ollama-chat/internal/ollama"
	"github.com/andrzw/ollama-chat/internal/webpage"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	router  *gin.Engine
	server  *http.Server
	backend *ollama.Client
	store   *images.Store
	fetcher *webpage.Fetcher
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, host string, port int) (*Server, error) {
	// Set Gin mode based on config
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup logging
	if cfg.Debug {
		// Log to file in $TMPDIR
		logPath := filepath.Join(os.TempDir(), "ollama-chat.log")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Printf("Warning: Could not create log file %s: %v", logPath, err)
		} else {
			// Write to both file and stdout
			gin.DefaultWriter = io.MultiWriter(logFile, os.Stdout)
			gin.DefaultErrorWriter = io.MultiWriter(logFile, os.Stderr)
			log.Printf("Logging to %s", logPath)
		}
	} else {
		// In release mode, disable console color for cleaner logs
		gin.DisableConsoleColor()
	}

	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	backend, err := ollama.NewClient(cfg.OllamaURL, timeout)
	if err != nil {
		return nil, err
	}

	store, err := images.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	// Create router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	// Per-request logging in debug or verbose mode
	if cfg.Debug || cfg.Verbose {
		router.Use(gin.Logger())
	}

	srv := &http.Server{
		Addr:    getAddr(host, port),
		Handler: router,
	}

	server := &Server{
		config:  cfg,
		router:  router,
		server:  srv,
		backend: backend,
		store:   store,
		fetcher: webpage.NewFetcher(),
	}

	server.setupRoutes()

	return server, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// CreateShutdownContext creates a context for graceful shutdown
func CreateShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// setupRoutes sets up all the routes for the server
func (s *Server) setupRoutes() {
	s.router.GET("/api/models", s.handleModels)
	s.router.GET("/api/status", s.handleStatus)
	s.router.POST("/api/show", s.handleShow)

	s.router.POST("/api/chat", s.handleChat)

	s.router.GET("/images/:id/:variant", s.handleImage)
	s.router.DELETE("/api/conversation-images", s.handleDeleteImages)

	// Optional health check endpoint
	s.router.GET("/healthz", s.handleHealth)

	// Browser front-end, when configured. Served from the site root via
	// the fallback handler so it cannot collide with the API routes.
	if s.config.StaticDir != "" {
		s.router.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.config.StaticDir))))
	}
}

// getAddr returns the address string from host and port
func getAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

// handleHealth is a simple health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
