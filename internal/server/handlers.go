package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrzw/ollama-chat/internal/api"
	"github.com/andrzw/ollama-chat/internal/ollama"
)

// handleError sends a standardized error response with context-aware cancellation handling
func handleError(c *gin.Context, err error) {
	// Check for context cancellation (client disconnected)
	if errors.Is(err, context.Canceled) {
		c.JSON(499, gin.H{"error": "request canceled"})
		return
	}
	if se, ok := err.(*api.StatusError); ok {
		c.JSON(se.StatusCode, se)
		return
	}
	c.JSON(http.StatusInternalServerError, api.StatusError{ErrorMessage: err.Error()})
}

// handleModels merges the backend's available and running model lists.
// A backend failure degrades to an empty list so the front-end can
// still render.
func (s *Server) handleModels(c *gin.Context) {
	ctx := c.Request.Context()

	tags, err := s.backend.Tags(ctx)
	if err != nil {
		log.Printf("models: backend tags failed: %v", err)
		c.JSON(http.StatusOK, api.ModelsResponse{Models: []api.ModelInfo{}})
		return
	}

	running := make(map[string]bool)
	names, err := s.backend.Running(ctx)
	if err != nil {
		log.Printf("models: backend ps failed: %v", err)
	}
	for _, name := range names {
		running[name] = true
	}

	resp := api.ModelsResponse{Models: make([]api.ModelInfo, 0, len(tags))}
	for _, m := range tags {
		status := "available"
		if running[m.Name] {
			status = "running"
		}
		resp.Models = append(resp.Models, api.ModelInfo{Name: m.Name, Size: m.Size, Status: status})
	}
	c.JSON(http.StatusOK, resp)
}

// handleStatus reports backend connectivity; never an error status.
func (s *Server) handleStatus(c *gin.Context) {
	names, err := s.backend.Running(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, api.StatusResponse{})
		return
	}
	c.JSON(http.StatusOK, api.StatusResponse{
		Connected:        true,
		HasRunningModels: len(names) > 0,
	})
}

// handleShow relays backend model metadata as-is.
func (s *Server) handleShow(c *gin.Context) {
	var req api.ShowRequest
	_ = c.ShouldBindJSON(&req)

	name := req.Name
	if name == "" {
		name = req.Model
	}
	if name == "" {
		handleError(c, api.ErrValidation("Model not specified"))
		return
	}

	resp, err := s.backend.Show(c.Request.Context(), name)
	if err != nil {
		handleError(c, upstreamError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleImage streams a stored image. Content type is inferred from
// the file extension by the file server.
func (s *Server) handleImage(c *gin.Context) {
	id := c.Param("id")
	variant := c.Param("variant")
	if variant != "full" && variant != "thumb" {
		handleError(c, api.ErrNotFound("Unknown image variant"))
		return
	}

	path, err := s.store.Locate(id, variant)
	if err != nil {
		handleError(c, api.ErrNotFound("Image not found"))
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

// handleDeleteImages removes the stored images referenced by the given
// retrieval URLs. Already-absent files are skipped, not an error.
func (s *Server) handleDeleteImages(c *gin.Context) {
	var req api.DeleteImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, api.ErrValidation("Invalid request: "+err.Error()))
		return
	}
	deleted := s.store.Remove(req.ImageURLs)
	c.JSON(http.StatusOK, api.DeleteImagesResponse{Deleted: deleted})
}

// upstreamError converts a backend failure to the generic user-facing
// 500. A status reply from the backend means the model choked; any
// other error means the backend is unreachable.
func upstreamError(err error) *api.StatusError {
	var statusErr ollama.StatusError
	if errors.As(err, &statusErr) {
		return api.ErrUpstream("Model unavailable")
	}
	return api.ErrUpstream("Connection failed")
}
