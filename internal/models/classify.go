package models

import "strings"

// Capabilities are the flags the chat pipeline needs to route a
// request: embedding-only models cannot generate, vision models accept
// image inputs.
type Capabilities struct {
	EmbeddingOnly bool
	Vision        bool
}

// Name fragments of known model families. Matching is case-sensitive
// substring containment, same as the heuristic the Ollama community
// front-ends use. A model whose name happens to contain one of these
// fragments will be misclassified; authoritative capability flags
// would require a /api/show round trip per request, which this
// front-end deliberately avoids.
var (
	embeddingFragments = []string{"embed", "minilm", "bge"}
	visionFragments    = []string{"llava", "bakllava", "moondream", "minicpm-v", "vision"}
)

// Classify derives capability flags from a model identifier.
func Classify(modelID string) Capabilities {
	return Capabilities{
		EmbeddingOnly: containsAny(modelID, embeddingFragments),
		Vision:        containsAny(modelID, visionFragments),
	}
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
