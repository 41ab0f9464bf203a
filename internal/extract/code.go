package extract

import (
	"path/filepath"
	"strings"
)

// CodeFile is one entry of a batch code upload.
type CodeFile struct {
	Name string
	Data []byte
}

// BinaryPlaceholder replaces the content of files whose extension is
// not on the allow-list, so raw binary never reaches the prompt.
const BinaryPlaceholder = "[binary file not shown]"

// Extensions a chat front-end treats as readable source or text.
var codeExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".json": {}, ".yaml": {}, ".yml": {}, ".xml": {}, ".csv": {},
	".go": {}, ".py": {}, ".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {},
	".java": {}, ".rs": {}, ".c": {}, ".h": {}, ".cpp": {}, ".cs": {},
	".rb": {}, ".php": {}, ".sh": {}, ".sql": {}, ".html": {}, ".css": {},
}

// Code concatenates a batch of code files, each section prefixed with
// a filename header. Files with a disallowed extension contribute the
// placeholder marker instead of their bytes.
func Code(files []CodeFile) string {
	var out strings.Builder
	for _, file := range files {
		out.WriteString("--- File: " + file.Name + " ---\n")
		ext := strings.ToLower(filepath.Ext(file.Name))
		if _, ok := codeExtensions[ext]; !ok {
			out.WriteString(BinaryPlaceholder)
		} else {
			out.WriteString(normalizeText(file.Data))
		}
		out.WriteString("\n\n")
	}
	return out.String()
}

// Plain returns an attached text file's content with line endings
// normalized.
func Plain(data []byte) (string, error) {
	return normalizeText(data), nil
}

func normalizeText(data []byte) string {
	return strings.ReplaceAll(string(data), "\r\n", "\n")
}
