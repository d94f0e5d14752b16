package diagrams

import "strings"

// keywordLexicon is the fixed vocabulary matched against document content.
// Extraction preserves this order and the lexicon holds no duplicates, so
// the result needs no deduplication.
var keywordLexicon = []string{
	"class",
	"interface",
	"abstract",
	"inheritance",
	"extends",
	"implements",
	"composition",
	"aggregation",
	"association",
	"sequence",
	"participant",
	"actor",
	"message",
	"lifeline",
	"component",
	"package",
	"module",
	"database",
	"dependency",
	"state",
	"transition",
	"event",
	"usecase",
	"include",
	"attribute",
	"method",
	"relationship",
}

// ExtractKeywords returns every lexicon term contained in content, using a
// case-insensitive substring test, in lexicon order.
func ExtractKeywords(content string) []string {
	lowered := strings.ToLower(content)

	var found []string
	for _, term := range keywordLexicon {
		if strings.Contains(lowered, term) {
			found = append(found, term)
		}
	}
	return found
}
