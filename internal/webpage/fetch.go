package webpage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	fetchTimeout = 10 * time.Second
	maxBodyBytes = 4 << 20 // cap on downloaded HTML

	// MaxTextLength bounds the page text spliced into a prompt.
	MaxTextLength = 2000

	defaultTitle = "Untitled page"
)

// Content is the readable part of a fetched page.
type Content struct {
	URL   string
	Title string
	Text  string
}

// FetchError wraps a transport failure, timeout or non-2xx status for
// a single URL. Callers degrade it to an inline error block instead of
// failing the whole request.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves web pages and reduces them to title + body text.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the fixed per-request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch downloads the page at rawURL and extracts its readable
// content. Readability extraction is attempted first; when it yields
// nothing usable the visible text of the document body is used
// instead.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Content, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", "ollama-chat/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	title, text := extractReadable(body, pageURL)
	if text == "" {
		title2, text2, ferr := extractBodyText(body)
		if ferr != nil {
			return nil, &FetchError{URL: rawURL, Err: ferr}
		}
		if title == "" {
			title = title2
		}
		text = text2
	}
	if title == "" {
		title = defaultTitle
	}
	if len(text) > MaxTextLength {
		cut := MaxTextLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}

	return &Content{URL: rawURL, Title: title, Text: text}, nil
}

// extractReadable runs the readability heuristic. It never fails hard:
// an error or an empty article just means the fallback path runs.
func extractReadable(body []byte, pageURL *url.URL) (title, text string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(article.Title), collapseWhitespace(article.TextContent)
}

// extractBodyText strips script and style elements and returns the
// visible text of the document body.
func extractBodyText(body []byte) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	title = strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, noscript").Remove()
	sel := doc.Find("body")
	if sel.Length() == 0 {
		return title, collapseWhitespace(doc.Text()), nil
	}
	return title, collapseWhitespace(sel.Text()), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
