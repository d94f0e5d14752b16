// Package diagrams provides pure text heuristics for diagram-description
// documents: markup normalization, diagram-type detection, and keyword
// extraction. All functions are stateless and operate on immutable input.
package diagrams

// Type categorizes the kind of diagram a document describes.
type Type string

const (
	TypeClass     Type = "class"
	TypeSequence  Type = "sequence"
	TypeComponent Type = "component"
	TypeState     Type = "state"
	TypeUseCase   Type = "usecase"
	TypeUnknown   Type = "unknown"
)

// KnownTypes lists every concrete diagram type, in a fixed order.
// TypeUnknown is deliberately excluded.
var KnownTypes = []Type{
	TypeClass,
	TypeSequence,
	TypeComponent,
	TypeState,
	TypeUseCase,
}

// Valid reports whether t is one of the known concrete types.
func (t Type) Valid() bool {
	for _, k := range KnownTypes {
		if t == k {
			return true
		}
	}
	return false
}
