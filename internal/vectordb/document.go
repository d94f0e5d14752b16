package vectordb

import (
	"github.com/ziadkadry99/diagram-rag/internal/diagrams"
)

// Document is the payload stored alongside each vector. The vector itself
// lives with the backend and is never handed back to callers.
type Document struct {
	ID          string            `json:"id"`
	Content     string            `json:"content"`
	DiagramType diagrams.Type     `json:"diagramType"`
	Keywords    []string          `json:"keywords,omitempty"`
	Source      string            `json:"source,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Point pairs a document with its embedding for upsert.
type Point struct {
	Document
	Vector []float32 `json:"-"`
}

// SearchResult pairs a document with its similarity score. Produced only
// by search calls; never persisted.
type SearchResult struct {
	ID       string   `json:"id"`
	Score    float32  `json:"score"`
	Document Document `json:"document"`
}

// CollectionStats summarizes the backing collection.
type CollectionStats struct {
	Name       string `json:"name"`
	Points     uint64 `json:"points"`
	VectorSize uint64 `json:"vectorSize"`
	Status     string `json:"status"`
}
