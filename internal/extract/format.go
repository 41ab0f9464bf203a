// Package extract turns uploaded documents into plain text for prompt
// augmentation. Dispatch is keyed by the media type the client
// declared, normalized to a closed Format set; actual parsing is one
// extractor per format family.
package extract

import (
	"mime"
	"strings"
)

// Format is the normalized family of an uploaded file.
type Format int

const (
	FormatUnsupported Format = iota
	FormatImage
	FormatPDF
	FormatWord
	FormatSheet
	FormatCSV
	FormatText
)

// SupportedFormats is the human-readable list used in the unsupported
// file type error.
const SupportedFormats = "PDF, Word (.doc/.docx), Excel (.xlsx), CSV, plain text and images"

// DetectFormat normalizes a declared media type to a Format.
// Parameters (charset etc.) are ignored; an unparseable media type is
// unsupported.
func DetectFormat(contentType string) Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return FormatUnsupported
	}
	if strings.HasPrefix(mediaType, "image/") {
		return FormatImage
	}
	switch mediaType {
	case "application/pdf":
		return FormatPDF
	case "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FormatWord
	case "application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatSheet
	case "text/csv", "application/csv":
		return FormatCSV
	}
	if strings.HasPrefix(mediaType, "text/") || mediaType == "application/json" {
		return FormatText
	}
	return FormatUnsupported
}
