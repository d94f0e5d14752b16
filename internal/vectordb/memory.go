package vectordb

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/diagram-rag/internal/embeddings"
)

const memoryCollection = "diagrams"

// MemoryStore implements VectorStore using chromem-go, an embedded
// in-process vector database. It backs local development and tests where
// running Qdrant is overkill. Contents live in memory; Persist and Load
// snapshot them to a directory on demand.
//
// chromem has no point lookup or filtered count, so the store mirrors
// payloads in an id-keyed map guarded by a mutex.
type MemoryStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
	vectorSize uint64
	ready      bool

	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryStore creates an in-memory store. embedder may be nil when
// every upserted point carries its own vector, which is how the RAG
// layer uses this store.
func NewMemoryStore(embedder embeddings.Embedder, vectorSize uint64) (*MemoryStore, error) {
	db := chromem.NewDB()

	var ef chromem.EmbeddingFunc
	if embedder != nil {
		ef = embeddings.ToChromemFunc(embedder)
	}

	col, err := db.GetOrCreateCollection(memoryCollection, nil, ef)
	if err != nil {
		return nil, &StoreError{Op: "init", Err: err}
	}

	return &MemoryStore{
		db:         db,
		collection: col,
		embedFunc:  ef,
		vectorSize: vectorSize,
		docs:       make(map[string]Document),
	}, nil
}

// Init is trivially successful: the collection lives in process memory.
func (s *MemoryStore) Init(ctx context.Context) error {
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *MemoryStore) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	chromemDocs := make([]chromem.Document, len(points))
	for i, p := range points {
		chromemDocs[i] = chromem.Document{
			ID:        p.ID,
			Content:   p.Content,
			Embedding: p.Vector,
			Metadata:  memoryMetadata(p.Document),
		}
	}

	// Delete existing points first so re-upserting an id replaces the
	// stored document instead of stacking a second copy.
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		if _, exists := s.docs[p.ID]; exists {
			if err := s.collection.Delete(ctx, nil, nil, p.ID); err != nil {
				return &StoreError{Op: "upsert", Err: err}
			}
		}
	}

	if err := s.collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return &StoreError{Op: "upsert", Err: err}
	}
	for _, p := range points {
		s.docs[p.ID] = p.Document
	}
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, vector []float32, limit int, filter *Filter, scoreThreshold float32) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	// chromem requires nResults <= the number of matching documents, so
	// clamp against the mirrored payload map.
	s.mu.RLock()
	matching := 0
	for _, doc := range s.docs {
		if filter.Matches(&doc) {
			matching++
		}
	}
	s.mu.RUnlock()
	if matching == 0 {
		return nil, nil
	}
	if limit > matching {
		limit = matching
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, limit, memoryWhere(filter), nil)
	if err != nil {
		return nil, &StoreError{Op: "search", Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	searchResults := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if scoreThreshold > 0 && r.Similarity < scoreThreshold {
			continue
		}
		doc, ok := s.docs[r.ID]
		if !ok {
			continue
		}
		searchResults = append(searchResults, SearchResult{
			ID:       r.ID,
			Score:    r.Similarity,
			Document: doc,
		})
	}
	return searchResults, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	copied := doc
	return &copied, nil
}

func (s *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return nil
	}
	if err := s.collection.Delete(ctx, nil, nil, id); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) DeleteByFilter(ctx context.Context, filter *Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, doc := range s.docs {
		if filter.Matches(&doc) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	for _, id := range ids {
		delete(s.docs, id)
	}
	return nil
}

func (s *MemoryStore) Count(ctx context.Context, filter *Filter) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter == nil {
		return uint64(len(s.docs)), nil
	}

	var n uint64
	for _, doc := range s.docs {
		if filter.Matches(&doc) {
			n++
		}
	}
	return n, nil
}

// Persist writes the store to dir: chromem's gzipped gob export plus a
// gob of the payload mirror. dir must exist.
func (s *MemoryStore) Persist(ctx context.Context, dir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.db.ExportToFile(filepath.Join(dir, "chromem.gob.gz"), true, ""); err != nil {
		return &StoreError{Op: "persist", Err: err}
	}

	f, err := os.Create(filepath.Join(dir, "documents.gob"))
	if err != nil {
		return &StoreError{Op: "persist", Err: err}
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(s.docs); err != nil {
		return &StoreError{Op: "persist", Err: err}
	}
	return nil
}

// Load restores a store previously written by Persist, replacing the
// current contents.
func (s *MemoryStore) Load(ctx context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.ImportFromFile(filepath.Join(dir, "chromem.gob.gz"), ""); err != nil {
		return &StoreError{Op: "load", Err: fmt.Errorf("import from file: %w", err)}
	}

	// Re-acquire the collection reference after import.
	col := s.db.GetCollection(memoryCollection, s.embedFunc)
	if col == nil {
		return &StoreError{Op: "load", Err: fmt.Errorf("collection %q not found after import", memoryCollection)}
	}
	s.collection = col

	f, err := os.Open(filepath.Join(dir, "documents.gob"))
	if err != nil {
		return &StoreError{Op: "load", Err: err}
	}
	defer f.Close()

	docs := make(map[string]Document)
	if err := gob.NewDecoder(f).Decode(&docs); err != nil {
		return &StoreError{Op: "load", Err: err}
	}
	s.docs = docs
	return nil
}

func (s *MemoryStore) Stats(ctx context.Context) (*CollectionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &CollectionStats{
		Name:       memoryCollection,
		Points:     uint64(len(s.docs)),
		VectorSize: s.vectorSize,
		Status:     "green",
	}, nil
}

// memoryMetadata flattens the filterable payload fields into chromem's
// string map so where-clauses can match them.
func memoryMetadata(doc Document) map[string]string {
	return map[string]string{
		"diagramType": string(doc.DiagramType),
		"source":      doc.Source,
		"keywords":    strings.Join(doc.Keywords, ","),
	}
}

func memoryWhere(filter *Filter) map[string]string {
	if filter == nil {
		return nil
	}
	where := make(map[string]string)
	if filter.DiagramType != nil {
		where["diagramType"] = string(*filter.DiagramType)
	}
	if filter.Source != nil {
		where["source"] = *filter.Source
	}
	if len(where) == 0 {
		return nil
	}
	return where
}
