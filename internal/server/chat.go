package server

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/andrzw/ollama-chat/internal/api"
	"github.com/andrzw/ollama-chat/internal/extract"
	"github.com/andrzw/ollama-chat/internal/models"
	"github.com/andrzw/ollama-chat/internal/prompt"
	"github.com/andrzw/ollama-chat/internal/webpage"
)

const (
	// At most this many URLs per message are resolved; the rest are
	// ignored.
	maxURLsPerMessage = 3

	maxUploadBytes = 20 << 20
)

// handleChat is the ingestion dispatcher: it resolves URLs found in
// the message, validates the model, routes any attached content
// through the matching extractor and issues a single backend call.
func (s *Server) handleChat(c *gin.Context) {
	req, file, codeFiles, err := parseChatRequest(c)
	if err != nil {
		handleError(c, api.ErrValidation("Invalid request: "+err.Error()))
		return
	}

	ctx := c.Request.Context()
	message := s.resolveURLs(ctx, req.Message)

	if req.Model == "" {
		handleError(c, api.ErrValidation("Model not specified"))
		return
	}

	caps := models.Classify(req.Model)
	if caps.EmbeddingOnly {
		handleError(c, api.ErrValidation("Embedding models cannot generate chat responses. Please select a chat model."))
		return
	}
	if caps.Vision && file == nil && len(codeFiles) == 0 {
		handleError(c, api.ErrValidation("Vision models require image inputs. Please attach an image."))
		return
	}

	switch {
	case len(codeFiles) > 0:
		// Batch code files take priority over a single attachment.
		message = prompt.CodeBundle(extract.Code(codeFiles), message)

	case file != nil:
		format := extract.DetectFormat(file.ContentType)
		if format == extract.FormatImage {
			s.handleVisionChat(c, req.Model, message, file, caps)
			return
		}
		text, err := extractDocument(format, file)
		if err != nil {
			var verr *api.StatusError
			if errors.As(err, &verr) {
				handleError(c, verr)
				return
			}
			log.Printf("chat: extraction failed for %s (%s): %v", file.Name, file.ContentType, err)
			handleError(c, api.ErrProcessing("Could not read the attached document"))
			return
		}
		message = prompt.Document(file.Name, text, message)
	}

	answer, err := s.backend.Generate(ctx, req.Model, message)
	if err != nil {
		log.Printf("chat: generate failed: %v", err)
		handleError(c, upstreamError(err))
		return
	}
	c.JSON(http.StatusOK, api.ChatResponse{Response: answer, Model: req.Model})
}

// handleVisionChat persists the image and issues exactly one
// vision-chat call, bypassing the generic generation path.
func (s *Server) handleVisionChat(c *gin.Context, model, message string, file *api.UploadedFile, caps models.Capabilities) {
	if !caps.Vision {
		handleError(c, api.ErrValidation("Model '"+model+"' does not support image inputs. Please select a vision model such as llava."))
		return
	}

	stored, err := s.store.Save(file.Data, file.Name)
	if err != nil {
		log.Printf("chat: image save failed for %s: %v", file.Name, err)
		handleError(c, api.ErrProcessing("Could not read the uploaded image"))
		return
	}

	answer, err := s.backend.VisionChat(c.Request.Context(), model, message, file.Data)
	if err != nil {
		log.Printf("chat: vision call failed: %v", err)
		handleError(c, upstreamError(err))
		return
	}
	c.JSON(http.StatusOK, api.ChatResponse{
		Response:     answer,
		Model:        model,
		ImageURL:     stored.FullURL,
		ThumbnailURL: stored.ThumbURL,
	})
}

// extractDocument runs the format-specific extractor. An unsupported
// format is a validation failure; anything else that goes wrong is an
// extraction failure that aborts the request.
func extractDocument(format extract.Format, file *api.UploadedFile) (string, error) {
	switch format {
	case extract.FormatPDF:
		return extract.PDF(file.Data)
	case extract.FormatWord:
		return extract.Word(file.Data, file.ContentType)
	case extract.FormatSheet:
		return extract.Sheet(file.Data)
	case extract.FormatCSV:
		return extract.CSV(file.Data)
	case extract.FormatText:
		return extract.Plain(file.Data)
	default:
		return "", api.ErrValidation("Unsupported file type. Supported formats: " + extract.SupportedFormats)
	}
}

// resolveURLs fetches up to maxURLsPerMessage URLs found in the
// message, concurrently, and appends one content or error block per
// URL in discovery order. A failed fetch never aborts the request.
func (s *Server) resolveURLs(ctx context.Context, message string) string {
	urls := webpage.ExtractURLs(message)
	if len(urls) == 0 {
		return message
	}
	if len(urls) > maxURLsPerMessage {
		urls = urls[:maxURLsPerMessage]
	}

	contents := make([]*webpage.Content, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			contents[i], errs[i] = s.fetcher.Fetch(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	b := prompt.NewBuilder(message)
	for i, u := range urls {
		if errs[i] != nil {
			log.Printf("chat: fetch %s failed: %v", u, errs[i])
			b.AddWebError(u, fetchReason(errs[i]))
			continue
		}
		b.AddWebContent(u, contents[i].Title, contents[i].Text)
	}
	return b.String()
}

func fetchReason(err error) string {
	var fe *webpage.FetchError
	if errors.As(err, &fe) {
		return fe.Err.Error()
	}
	return err.Error()
}

// parseChatRequest accepts either a multipart form (message, model,
// optional "file", repeated "codeFiles") or a plain JSON body when no
// file is attached.
func parseChatRequest(c *gin.Context) (*api.ChatRequest, *api.UploadedFile, []extract.CodeFile, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req api.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, nil, err
		}
		return &req, nil, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, nil, err
	}
	req := &api.ChatRequest{
		Message: formValue(form, "message"),
		Model:   formValue(form, "model"),
	}

	var file *api.UploadedFile
	if headers := form.File["file"]; len(headers) > 0 {
		data, err := readUpload(headers[0])
		if err != nil {
			return nil, nil, nil, err
		}
		file = &api.UploadedFile{
			Name:        headers[0].Filename,
			ContentType: headers[0].Header.Get("Content-Type"),
			Data:        data,
		}
	}

	var codeFiles []extract.CodeFile
	for _, header := range form.File["codeFiles"] {
		data, err := readUpload(header)
		if err != nil {
			return nil, nil, nil, err
		}
		codeFiles = append(codeFiles, extract.CodeFile{Name: header.Filename, Data: data})
	}

	return req, file, codeFiles, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > maxUploadBytes {
		return nil, errors.New("file too large")
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxUploadBytes {
		return nil, errors.New("file too large")
	}
	return data, nil
}
