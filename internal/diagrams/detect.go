package diagrams

import "regexp"

// typeRule binds a diagram type to the patterns that indicate it.
type typeRule struct {
	diagramType Type
	patterns    []*regexp.Regexp
}

// typeRules is evaluated in order and the first rule with any matching
// pattern wins. Later rules carry more ambiguous patterns (a bare "->"
// appears in several diagram dialects), so the declaration order is the
// tie-break and must not be reordered.
var typeRules = []typeRule{
	{TypeClass, []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*(?:abstract\s+)?class\s+\w`),
		regexp.MustCompile(`(?im)^\s*interface\s+\w`),
		regexp.MustCompile(`<\|--`),
		regexp.MustCompile(`(?i)\bextends\b`),
		regexp.MustCompile(`(?i)\bimplements\b`),
	}},
	{TypeSequence, []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*participant\s+\w`),
		regexp.MustCompile(`(?i)\bsequenceDiagram\b`),
		regexp.MustCompile(`-->>|->>`),
		regexp.MustCompile(`\w\s*->\s*\w`),
	}},
	{TypeComponent, []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*component\s+\S`),
		regexp.MustCompile(`(?im)^\s*package\s+\S`),
		regexp.MustCompile(`(?im)^\s*database\s+\S`),
		regexp.MustCompile(`(?im)^\s*node\s+\S`),
		regexp.MustCompile(`\[[^\]\n*]+\]\s*-`),
	}},
	{TypeState, []*regexp.Regexp{
		regexp.MustCompile(`\[\*\]`),
		regexp.MustCompile(`(?im)^\s*state\s+\w`),
		regexp.MustCompile(`(?i)\bstateDiagram\b`),
		regexp.MustCompile(`-->`),
	}},
	{TypeUseCase, []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*usecase\s+\S`),
		regexp.MustCompile(`(?im)^\s*actor\s+\w`),
		regexp.MustCompile(`\([^)\n]+\)\s*(?:as\s+\w|<?\.+>?)`),
	}},
}

// DetectType guesses the diagram type of content using ordered pattern
// groups. The first group with a match wins; if no group matches the
// result is TypeUnknown. Match counts are never compared.
func DetectType(content string) Type {
	for _, rule := range typeRules {
		for _, re := range rule.patterns {
			if re.MatchString(content) {
				return rule.diagramType
			}
		}
	}
	return TypeUnknown
}
