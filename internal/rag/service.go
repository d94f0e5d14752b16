// Package rag composes the embedding provider and the vector store into
// the retrieval-augmented-generation service: document ingestion,
// semantic search, similarity lookup, prompt assembly and collection
// statistics.
package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/diagram-rag/internal/diagrams"
	"github.com/ziadkadry99/diagram-rag/internal/embeddings"
	"github.com/ziadkadry99/diagram-rag/internal/vectordb"
)

// Search parameter bounds and defaults.
const (
	DefaultSearchLimit  = 5
	MaxSearchLimit      = 20
	DefaultThreshold    = 0.7
	DefaultSimilarLimit = 5
	MaxSimilarLimit     = 10
)

// Service is the RAG orchestrator. It owns document identity; the store
// owns the collection and the provider owns model state.
type Service struct {
	store    vectordb.VectorStore
	provider *embeddings.Provider
}

// New creates a Service. Dependencies are injected so tests can run
// against fakes.
func New(store vectordb.VectorStore, provider *embeddings.Provider) *Service {
	return &Service{store: store, provider: provider}
}

// Initialize brings up the vector store, then the embedding provider.
// Either failure propagates and should abort startup.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.store.Init(ctx); err != nil {
		return fmt.Errorf("initializing vector store: %w", err)
	}
	if err := s.provider.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing embedding provider: %w", err)
	}
	return nil
}

// Ready reports whether both dependencies are initialized. Used by health
// reporting to gate traffic.
func (s *Service) Ready() bool {
	return s.store.Ready() && s.provider.Loaded()
}

// ProviderStatus exposes the embedding provider's load state.
func (s *Service) ProviderStatus() embeddings.Status {
	return s.provider.Status()
}

// DocumentInput is one document to ingest. Content is required;
// DiagramType, when valid, wins over heuristic detection.
type DocumentInput struct {
	Content     string            `json:"content"`
	DiagramType diagrams.Type     `json:"diagramType,omitempty"`
	Source      string            `json:"source,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Ingest stores the documents and returns their generated ids in input
// order. The batch is one upsert call: a backend failure fails the whole
// ingest, there is no partial success.
func (s *Service) Ingest(ctx context.Context, inputs []DocumentInput) ([]string, error) {
	if len(inputs) == 0 {
		return nil, validationErr("documents", "at least one document is required")
	}
	for i, in := range inputs {
		if strings.TrimSpace(in.Content) == "" {
			return nil, validationErr("documents", "document %d has empty content", i)
		}
	}
	if !s.Ready() {
		return nil, ErrNotReady
	}

	now := time.Now().UTC().Format(time.RFC3339)

	ids := make([]string, len(inputs))
	texts := make([]string, len(inputs))
	docs := make([]vectordb.Document, len(inputs))
	for i, in := range inputs {
		ids[i] = uuid.NewString()

		// Embed the preprocessed text, not the raw markup: the compact
		// token list keeps the embedding space focused on structure.
		texts[i] = diagrams.Preprocess(in.Content)

		diagramType := in.DiagramType
		if !diagramType.Valid() {
			diagramType = diagrams.DetectType(in.Content)
		}

		metadata := make(map[string]string, len(in.Metadata)+1)
		for k, v := range in.Metadata {
			metadata[k] = v
		}
		metadata["addedAt"] = now

		docs[i] = vectordb.Document{
			ID:          ids[i],
			Content:     in.Content,
			DiagramType: diagramType,
			Keywords:    diagrams.ExtractKeywords(in.Content),
			Source:      in.Source,
			Metadata:    metadata,
		}
	}

	vectors, err := s.provider.EmbedBatch(ctx, texts, embeddings.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("embedding documents: %w", err)
	}

	points := make([]vectordb.Point, len(docs))
	for i := range docs {
		points[i] = vectordb.Point{Document: docs[i], Vector: vectors[i]}
	}
	if err := s.store.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("storing documents: %w", err)
	}

	return ids, nil
}

// SearchOptions narrow and bound a search. The zero value means: limit 5,
// threshold 0.7, no filters.
type SearchOptions struct {
	Limit       int           `json:"limit,omitempty"`
	DiagramType diagrams.Type `json:"diagramType,omitempty"`
	Threshold   *float32      `json:"threshold,omitempty"`
	Source      string        `json:"source,omitempty"`
}

func (o SearchOptions) validate() error {
	if o.Limit < 0 || o.Limit > MaxSearchLimit {
		return validationErr("limit", "must be between 1 and %d", MaxSearchLimit)
	}
	if o.Threshold != nil && (*o.Threshold < 0 || *o.Threshold > 1) {
		return validationErr("threshold", "must be between 0 and 1")
	}
	if o.DiagramType != "" && !o.DiagramType.Valid() {
		return validationErr("diagramType", "unknown type %q", o.DiagramType)
	}
	return nil
}

func (o SearchOptions) limitOrDefault() int {
	if o.Limit == 0 {
		return DefaultSearchLimit
	}
	return o.Limit
}

func (o SearchOptions) thresholdOrDefault() float32 {
	if o.Threshold == nil {
		return DefaultThreshold
	}
	return *o.Threshold
}

// SearchResponse is the result of one search call.
type SearchResponse struct {
	Documents    []vectordb.SearchResult `json:"documents"`
	Context      string                  `json:"context"`
	TotalResults int                     `json:"totalResults"`
	Query        string                  `json:"query"`
}

// Search embeds the raw query text (queries are natural language, not
// diagram markup, so no preprocessing), runs a filtered vector search and
// assembles the context string. Zero results yield empty context, never
// an error.
func (s *Service) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationErr("query", "must not be empty")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !s.Ready() {
		return nil, ErrNotReady
	}

	vector, err := s.provider.Embed(ctx, query, embeddings.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	filter := vectordb.CombinedFilter(opts.DiagramType, opts.Source)
	results, err := s.store.Search(ctx, vector, opts.limitOrDefault(), filter, opts.thresholdOrDefault())
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	return &SearchResponse{
		Documents:    results,
		Context:      formatContext(results),
		TotalResults: len(results),
		Query:        query,
	}, nil
}

// FindSimilar returns up to limit documents similar to content. When
// excludeID is set, one extra result is requested so the excluded
// document cannot crowd out a full page.
func (s *Service) FindSimilar(ctx context.Context, content string, limit int, excludeID string) ([]vectordb.SearchResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validationErr("content", "must not be empty")
	}
	if limit < 0 || limit > MaxSimilarLimit {
		return nil, validationErr("limit", "must be between 1 and %d", MaxSimilarLimit)
	}
	if limit == 0 {
		limit = DefaultSimilarLimit
	}
	if !s.Ready() {
		return nil, ErrNotReady
	}

	vector, err := s.provider.Embed(ctx, diagrams.Preprocess(content), embeddings.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("embedding content: %w", err)
	}

	fetch := limit
	if excludeID != "" {
		fetch++
	}

	results, err := s.store.Search(ctx, vector, fetch, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	filtered := make([]vectordb.SearchResult, 0, limit)
	for _, r := range results {
		if r.ID == excludeID {
			continue
		}
		filtered = append(filtered, r)
		if len(filtered) == limit {
			break
		}
	}
	return filtered, nil
}

// Get returns the stored document, or nil when the id is unknown.
func (s *Service) Get(ctx context.Context, id string) (*vectordb.Document, error) {
	if id == "" {
		return nil, validationErr("id", "must not be empty")
	}
	if !s.Ready() {
		return nil, ErrNotReady
	}
	return s.store.GetByID(ctx, id)
}

// Delete removes a document; deleting an unknown id succeeds silently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return validationErr("id", "must not be empty")
	}
	if !s.Ready() {
		return ErrNotReady
	}
	return s.store.DeleteByID(ctx, id)
}

// DeleteBySource removes every document ingested from source.
func (s *Service) DeleteBySource(ctx context.Context, source string) error {
	if strings.TrimSpace(source) == "" {
		return validationErr("source", "must not be empty")
	}
	if !s.Ready() {
		return ErrNotReady
	}
	return s.store.DeleteByFilter(ctx, vectordb.SourceFilter(source))
}

// Stats aggregates the total count, a per-diagram-type breakdown and the
// backend's collection statistics. This is one backend round-trip per
// known diagram type, not one per document.
type Stats struct {
	TotalDocuments uint64                   `json:"totalDocuments"`
	ByDiagramType  map[diagrams.Type]uint64 `json:"byDiagramType"`
	Collection     *vectordb.CollectionStats `json:"collection"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if !s.Ready() {
		return nil, ErrNotReady
	}

	total, err := s.store.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	byType := make(map[diagrams.Type]uint64, len(diagrams.KnownTypes))
	for _, t := range diagrams.KnownTypes {
		n, err := s.store.Count(ctx, vectordb.DiagramTypeFilter(t))
		if err != nil {
			return nil, fmt.Errorf("counting %s documents: %w", t, err)
		}
		byType[t] = n
	}

	collection, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("collection stats: %w", err)
	}

	return &Stats{
		TotalDocuments: total,
		ByDiagramType:  byType,
		Collection:     collection,
	}, nil
}

// formatContext renders search results into the context block injected
// into prompts. Result order is preserved.
func formatContext(results []vectordb.SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("[%d] Score: %.3f | Type: %s\n%s",
			i+1, r.Score, r.Document.DiagramType, r.Document.Content)
	}
	return strings.Join(blocks, "\n\n---\n")
}
