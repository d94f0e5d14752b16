package vectordb

import "github.com/ziadkadry99/diagram-rag/internal/diagrams"

// Filter is a boolean AND of equality predicates over payload fields.
// It is backend-neutral; each adapter translates it to its own shape, so
// callers never construct backend-specific filters directly.
type Filter struct {
	DiagramType *diagrams.Type
	Source      *string
}

// DiagramTypeFilter matches documents of the given diagram type.
func DiagramTypeFilter(t diagrams.Type) *Filter {
	return &Filter{DiagramType: &t}
}

// SourceFilter matches documents with the given source.
func SourceFilter(source string) *Filter {
	return &Filter{Source: &source}
}

// CombinedFilter ANDs the predicates for the non-zero inputs. Both zero
// yields nil, meaning no filtering.
func CombinedFilter(t diagrams.Type, source string) *Filter {
	f := &Filter{}
	if t != "" && t != diagrams.TypeUnknown {
		tt := t
		f.DiagramType = &tt
	}
	if source != "" {
		s := source
		f.Source = &s
	}
	if f.DiagramType == nil && f.Source == nil {
		return nil
	}
	return f
}

// Matches reports whether doc satisfies every predicate of f. A nil
// filter matches everything.
func (f *Filter) Matches(doc *Document) bool {
	if f == nil {
		return true
	}
	if f.DiagramType != nil && doc.DiagramType != *f.DiagramType {
		return false
	}
	if f.Source != nil && doc.Source != *f.Source {
		return false
	}
	return true
}
