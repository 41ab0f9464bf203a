// Package prompt builds the single outgoing prompt string. Extracted
// material is collected as ordered segments and joined once, so the
// final prompt layout is a function of its inputs rather than a chain
// of in-place rewrites.
package prompt

import "strings"

// Builder accumulates the user's text plus any web-content blocks.
type Builder struct {
	segments []string
}

// NewBuilder starts a prompt from the user's original message.
func NewBuilder(message string) *Builder {
	return &Builder{segments: []string{message}}
}

// AddWebContent appends one fetched page as a delimited block.
func (b *Builder) AddWebContent(url, title, text string) {
	b.segments = append(b.segments, webBlock(url, "Title: "+title+"\n\n"+text))
}

// AddWebError appends an inline error block in place of a page that
// could not be fetched.
func (b *Builder) AddWebError(url, reason string) {
	b.segments = append(b.segments, webBlock(url, "Error fetching this URL: "+reason))
}

// String joins the accumulated segments into the outgoing prompt.
func (b *Builder) String() string {
	return strings.Join(b.segments, "")
}

func webBlock(url, body string) string {
	return "\n\n--- Web content from " + url + " ---\n" + body + "\n--- End of web content ---"
}

// Document wraps extracted document text around the user's question.
func Document(filename, text, question string) string {
	return "Document: " + filename + "\n\nExtracted text:\n" + text + "\n\nUser question: " + question
}

// CodeBundle places concatenated code-file sections above the user's
// question.
func CodeBundle(bundle, question string) string {
	return bundle + "User question: " + question
}
