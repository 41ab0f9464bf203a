// Package ollama is a thin gateway to the local inference backend.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollamaapi "github.com/ollama/ollama/api"
)

// StatusError is the backend's non-2xx reply, re-exported so callers
// can tell "backend said no" from "backend unreachable".
type StatusError = ollamaapi.StatusError

// Client wraps the backend API with a configurable per-call timeout.
type Client struct {
	backend *ollamaapi.Client
	timeout time.Duration
}

// Model is one entry of the backend's model listing.
type Model struct {
	Name string
	Size int64
}

// NewClient builds a gateway for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	return &Client{
		backend: ollamaapi.NewClient(u, http.DefaultClient),
		timeout: timeout,
	}, nil
}

// Generate issues a single non-streaming generation call and returns
// the backend's text response.
func (c *Client) Generate(ctx context.Context, model, promptText string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	stream := false
	req := &ollamaapi.GenerateRequest{
		Model:  model,
		Prompt: promptText,
		Stream: &stream,
	}

	var out strings.Builder
	err := c.backend.Generate(ctx, req, func(resp ollamaapi.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// VisionChat issues a single non-streaming chat call carrying the
// image; the client base64-encodes image bytes on the wire.
func (c *Client) VisionChat(ctx context.Context, model, promptText string, image []byte) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	stream := false
	req := &ollamaapi.ChatRequest{
		Model: model,
		Messages: []ollamaapi.Message{
			{
				Role:    "user",
				Content: promptText,
				Images:  []ollamaapi.ImageData{image},
			},
		},
		Stream: &stream,
	}

	var out strings.Builder
	err := c.backend.Chat(ctx, req, func(resp ollamaapi.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Tags lists the models the backend has available.
func (c *Client) Tags(ctx context.Context) ([]Model, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	models := make([]Model, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, Model{Name: m.Name, Size: m.Size})
	}
	return models, nil
}

// Running lists the names of currently loaded models.
func (c *Client) Running(ctx context.Context) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.backend.ListRunning(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Show relays the backend's model metadata untouched.
func (c *Client) Show(ctx context.Context, name string) (*ollamaapi.ShowResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.backend.Show(ctx, &ollamaapi.ShowRequest{Model: name})
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
