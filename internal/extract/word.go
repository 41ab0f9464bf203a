package extract

import (
	"bytes"
	"fmt"
	"mime"

	"code.sajari.com/docconv"
)

const docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Word extracts the body text of a legacy (.doc) or modern (.docx)
// word-processor document, chosen by the declared media type.
func Word(data []byte, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	if mediaType == docxMediaType {
		text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("convert docx: %w", err)
		}
		return text, nil
	}
	text, _, err := docconv.ConvertDoc(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("convert doc: %w", err)
	}
	return text, nil
}
