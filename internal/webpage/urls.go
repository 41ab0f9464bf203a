package webpage

import "regexp"

var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// ExtractURLs returns every http(s) URL found in text, in encounter
// order, duplicates included. Matching is purely syntactic; whether a
// URL is reachable is the fetcher's problem.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}
