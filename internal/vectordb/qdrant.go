package vectordb

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/qdrant/go-client/qdrant"

	"github.com/ziadkadry99/diagram-rag/internal/diagrams"
)

// Payload field names in the Qdrant collection.
const (
	payloadContent     = "content"
	payloadDiagramType = "diagramType"
	payloadKeywords    = "keywords"
	payloadSource      = "source"
	payloadMetadata    = "metadata"
)

// QdrantConfig configures the Qdrant-backed store.
type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	Collection string
	VectorSize uint64
}

// QdrantStore implements VectorStore against a Qdrant collection with
// cosine distance. All mutations use wait=true so a search issued after a
// returned upsert/delete observes it.
type QdrantStore struct {
	cfg    QdrantConfig
	client *qdrant.Client
	ready  atomic.Bool
}

// NewQdrantStore creates the gRPC client; no I/O happens until Init.
func NewQdrantStore(cfg QdrantConfig) (*QdrantStore, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant: collection name is required")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	if cfg.VectorSize == 0 {
		cfg.VectorSize = 1024
	}

	clientConfig := &qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	}
	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	}

	client, err := qdrant.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("qdrant: create client: %w", err)
	}

	return &QdrantStore{cfg: cfg, client: client}, nil
}

// Init verifies connectivity and creates the collection with the
// configured vector size and cosine distance if it does not exist.
// An unreachable backend fails the call; this dependency blocks startup.
func (s *QdrantStore) Init(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return &StoreError{Op: "init", Err: err}
	}

	exists, err := s.client.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return &StoreError{Op: "init", Err: err}
	}

	if !exists {
		err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.cfg.Collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.cfg.VectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return &StoreError{Op: "init", Err: err}
		}
	}

	s.ready.Store(true)
	return nil
}

func (s *QdrantStore) Ready() bool { return s.ready.Load() }

func (s *QdrantStore) Upsert(ctx context.Context, points []Point) error {
	if !s.ready.Load() {
		return ErrNotReady
	}
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: docToPayload(p.Document),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.cfg.Collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrantPoints,
	})
	if err != nil {
		return &StoreError{Op: "upsert", Err: err}
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int, filter *Filter, scoreThreshold float32) ([]SearchResult, error) {
	if !s.ready.Load() {
		return nil, ErrNotReady
	}
	if limit <= 0 {
		limit = 10
	}

	query := &qdrant.QueryPoints{
		CollectionName: s.cfg.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		Filter:         qdrantFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if scoreThreshold > 0 {
		query.ScoreThreshold = qdrant.PtrOf(scoreThreshold)
	}

	scored, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, &StoreError{Op: "search", Err: err}
	}

	results := make([]SearchResult, 0, len(scored))
	for _, point := range scored {
		doc := payloadToDoc(point.Payload)
		if doc.ID == "" && point.Id != nil {
			doc.ID = point.Id.GetUuid()
		}
		results = append(results, SearchResult{
			ID:       doc.ID,
			Score:    point.Score,
			Document: doc,
		})
	}
	return results, nil
}

func (s *QdrantStore) GetByID(ctx context.Context, id string) (*Document, error) {
	if !s.ready.Load() {
		return nil, ErrNotReady
	}

	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.cfg.Collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, &StoreError{Op: "get", Err: err}
	}
	if len(points) == 0 {
		return nil, nil
	}

	doc := payloadToDoc(points[0].Payload)
	if doc.ID == "" {
		doc.ID = id
	}
	return &doc, nil
}

func (s *QdrantStore) DeleteByID(ctx context.Context, id string) error {
	if !s.ready.Load() {
		return ErrNotReady
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.cfg.Collection,
		Wait:           qdrant.PtrOf(true),
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: []*qdrant.PointId{qdrant.NewID(id)},
				},
			},
		},
	})
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}

func (s *QdrantStore) DeleteByFilter(ctx context.Context, filter *Filter) error {
	if !s.ready.Load() {
		return ErrNotReady
	}

	qf := qdrantFilter(filter)
	if qf == nil {
		return fmt.Errorf("qdrant: refusing delete with empty filter")
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.cfg.Collection,
		Wait:           qdrant.PtrOf(true),
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: qf,
			},
		},
	})
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}

func (s *QdrantStore) Count(ctx context.Context, filter *Filter) (uint64, error) {
	if !s.ready.Load() {
		return 0, ErrNotReady
	}

	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.cfg.Collection,
		Filter:         qdrantFilter(filter),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, &StoreError{Op: "count", Err: err}
	}
	return count, nil
}

func (s *QdrantStore) Stats(ctx context.Context) (*CollectionStats, error) {
	if !s.ready.Load() {
		return nil, ErrNotReady
	}

	info, err := s.client.GetCollectionInfo(ctx, s.cfg.Collection)
	if err != nil {
		return nil, &StoreError{Op: "stats", Err: err}
	}

	return &CollectionStats{
		Name:       s.cfg.Collection,
		Points:     info.GetPointsCount(),
		VectorSize: s.cfg.VectorSize,
		Status:     info.GetStatus().String(),
	}, nil
}

// qdrantFilter translates the backend-neutral filter into Qdrant match
// conditions. Nil in, nil out.
func qdrantFilter(f *Filter) *qdrant.Filter {
	if f == nil {
		return nil
	}
	var must []*qdrant.Condition
	if f.DiagramType != nil {
		must = append(must, qdrant.NewMatch(payloadDiagramType, string(*f.DiagramType)))
	}
	if f.Source != nil {
		must = append(must, qdrant.NewMatch(payloadSource, *f.Source))
	}
	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

func docToPayload(doc Document) map[string]*qdrant.Value {
	payload := map[string]*qdrant.Value{
		"id":               qdrant.NewValueString(doc.ID),
		payloadContent:     qdrant.NewValueString(doc.Content),
		payloadDiagramType: qdrant.NewValueString(string(doc.DiagramType)),
		payloadSource:      qdrant.NewValueString(doc.Source),
	}

	keywords := make([]*qdrant.Value, len(doc.Keywords))
	for i, k := range doc.Keywords {
		keywords[i] = qdrant.NewValueString(k)
	}
	payload[payloadKeywords] = &qdrant.Value{
		Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: keywords}},
	}

	meta := make(map[string]*qdrant.Value, len(doc.Metadata))
	for k, v := range doc.Metadata {
		meta[k] = qdrant.NewValueString(v)
	}
	payload[payloadMetadata] = &qdrant.Value{
		Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{Fields: meta}},
	}

	return payload
}

func payloadToDoc(payload map[string]*qdrant.Value) Document {
	doc := Document{
		ID:          payload["id"].GetStringValue(),
		Content:     payload[payloadContent].GetStringValue(),
		DiagramType: diagrams.Type(payload[payloadDiagramType].GetStringValue()),
		Source:      payload[payloadSource].GetStringValue(),
	}

	if list := payload[payloadKeywords].GetListValue(); list != nil {
		for _, v := range list.Values {
			if s := v.GetStringValue(); s != "" {
				doc.Keywords = append(doc.Keywords, s)
			}
		}
	}

	if st := payload[payloadMetadata].GetStructValue(); st != nil && len(st.Fields) > 0 {
		doc.Metadata = make(map[string]string, len(st.Fields))
		for k, v := range st.Fields {
			doc.Metadata[k] = v.GetStringValue()
		}
	}

	return doc
}
