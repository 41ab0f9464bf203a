package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/andrzw/ollama-chat/internal/config"
)

// mockBackend fakes the Ollama REST API and records what reaches it.
type mockBackend struct {
	mu sync.Mutex

	srv *httptest.Server

	generateCalls int
	lastModel     string
	lastPrompt    string

	chatCalls       int
	lastChatContent string
	lastChatImages  int

	reply string
}

func newMockBackend() *mockBackend {
	b := &mockBackend{reply: "mock answer"}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tags", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"models": []map[string]any{
			{"name": "phi4:latest", "size": 100},
			{"name": "llava:13b", "size": 200},
		}})
	})
	mux.HandleFunc("GET /api/ps", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"models": []map[string]any{
			{"name": "phi4:latest"},
		}})
	})
	mux.HandleFunc("POST /api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.generateCalls++
		b.lastModel = req.Model
		b.lastPrompt = req.Prompt
		reply := b.reply
		b.mu.Unlock()
		writeJSON(w, map[string]any{"model": req.Model, "response": reply, "done": true})
	})
	mux.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string   `json:"role"`
				Content string   `json:"content"`
				Images  []string `json:"images"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.chatCalls++
		if len(req.Messages) > 0 {
			b.lastChatContent = req.Messages[0].Content
			b.lastChatImages = len(req.Messages[0].Images)
		}
		reply := b.reply
		b.mu.Unlock()
		writeJSON(w, map[string]any{
			"model":   req.Model,
			"message": map[string]any{"role": "assistant", "content": reply},
			"done":    true,
		})
	})
	mux.HandleFunc("POST /api/show", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"details": map[string]any{"family": "phi"}})
	})

	b.srv = httptest.NewServer(mux)
	return b
}

func (b *mockBackend) snapshot() (generateCalls int, lastPrompt string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generateCalls, b.lastPrompt
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func setupTestServer(t *testing.T, backendURL string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		OllamaURL:      backendURL,
		Host:           "localhost",
		DataDir:        t.TempDir(),
		RequestTimeout: 5,
	}
	s, err := NewServer(cfg, "localhost", 0)
	require.NoError(t, err)
	return s
}

type filePart struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files []filePart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for _, fp := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+fp.field+`"; filename="`+fp.name+`"`)
		header.Set("Content-Type", fp.contentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(fp.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func doJSON(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = &bytes.Buffer{}
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)
	return w
}
