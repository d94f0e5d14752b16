package diagrams

import (
	"fmt"
	"regexp"
	"strings"
)

// envelopeMarkers are line-level delimiters that carry no semantic signal
// and are stripped before embedding.
var envelopeMarkers = regexp.MustCompile("(?im)^\\s*(@start\\w+|@end\\w+|```\\w*|```)\\s*$")

// elementPatterns extract structural declarations from diagram markup.
// Each entry labels its captures so the output reads "label: match".
var elementPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"class", regexp.MustCompile(`(?im)^\s*(?:abstract\s+)?class\s+([\w.]+)`)},
	{"interface", regexp.MustCompile(`(?im)^\s*interface\s+([\w.]+)`)},
	{"participant", regexp.MustCompile(`(?im)^\s*participant\s+"?([\w .]+?)"?\s*(?:as\s+\w+)?\s*$`)},
	{"actor", regexp.MustCompile(`(?im)^\s*actor\s+"?([\w .]+?)"?\s*(?:as\s+\w+)?\s*$`)},
	{"component", regexp.MustCompile(`(?im)^\s*component\s+"?([\w .]+?)"?\s*(?:as\s+\w+)?\s*$`)},
	{"package", regexp.MustCompile(`(?im)^\s*package\s+"?([\w .]+?)"?\s*\{?\s*$`)},
	{"state", regexp.MustCompile(`(?im)^\s*state\s+"?([\w .]+?)"?\s*(?:as\s+\w+)?\s*\{?\s*$`)},
	{"usecase", regexp.MustCompile(`(?im)^\s*usecase\s+"?([\w .]+?)"?\s*(?:as\s+\w+)?\s*$`)},
	{"relation", regexp.MustCompile(`(?m)^\s*([\w()".]+\s*(?:<\|--|\*--|o--|-->>|->>|-->|->|\.\.>)\s*[\w()".]+)`)},
}

// Preprocess normalizes raw diagram markup for embedding. Envelope markers
// are stripped; when structural elements are recognizable the content is
// replaced by a compact "label: match" token list, which gives the
// embedding model a denser signal than raw markup. Content without any
// recognizable structure is returned trimmed but otherwise unchanged.
func Preprocess(content string) string {
	stripped := envelopeMarkers.ReplaceAllString(content, "")
	stripped = strings.TrimSpace(stripped)

	var tokens []string
	for _, p := range elementPatterns {
		for _, m := range p.re.FindAllStringSubmatch(stripped, -1) {
			value := strings.TrimSpace(m[1])
			if value == "" {
				continue
			}
			tokens = append(tokens, fmt.Sprintf("%s: %s", p.label, value))
		}
	}

	if len(tokens) == 0 {
		return stripped
	}
	return strings.Join(tokens, "\n")
}
