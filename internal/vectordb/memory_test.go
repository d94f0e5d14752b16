package vectordb

import (
	"context"
	"math"
	"testing"

	"github.com/ziadkadry99/diagram-rag/internal/diagrams"
)

// testVector produces a normalized deterministic vector from text, so
// similar texts land near each other and tests are reproducible.
func testVector(text string, dims int) []float32 {
	vec := make([]float32, dims)
	for i, ch := range text {
		vec[(int(ch)+i)%dims] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

const testDims = 64

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	store, err := NewMemoryStore(nil, testDims)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return store
}

func testPoint(id, content string, dt diagrams.Type, source string) Point {
	return Point{
		Document: Document{
			ID:          id,
			Content:     content,
			DiagramType: dt,
			Source:      source,
		},
		Vector: testVector(content, testDims),
	}
}

func TestMemoryStoreUpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Upsert(ctx, []Point{
		testPoint("doc1", "class Order with customer and items", diagrams.TypeClass, "orders"),
		testPoint("doc2", "sequence of checkout payment messages", diagrams.TypeSequence, "checkout"),
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := store.Search(ctx, testVector("class Order with customer and items", testDims), 5, nil, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].ID != "doc1" {
		t.Errorf("top result = %s, want doc1", results[0].ID)
	}
	if results[0].Document.Content != "class Order with customer and items" {
		t.Errorf("payload content mismatch: %q", results[0].Document.Content)
	}

	// Scores must be non-increasing.
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not descending at %d: %f > %f", i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestMemoryStoreSearchLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var points []Point
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		points = append(points, testPoint(id, "diagram "+id, diagrams.TypeClass, ""))
	}
	if err := store.Upsert(ctx, points); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := store.Search(ctx, testVector("diagram a", testDims), 5, nil, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) > 5 {
		t.Errorf("got %d results, limit was 5", len(results))
	}
}

func TestMemoryStoreSearchFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Upsert(ctx, []Point{
		testPoint("c1", "class diagram of billing", diagrams.TypeClass, "billing"),
		testPoint("s1", "sequence diagram of billing", diagrams.TypeSequence, "billing"),
		testPoint("c2", "class diagram of shipping", diagrams.TypeClass, "shipping"),
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := store.Search(ctx, testVector("billing", testDims), 10, DiagramTypeFilter(diagrams.TypeClass), 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.Document.DiagramType != diagrams.TypeClass {
			t.Errorf("filter leaked %s document %s", r.Document.DiagramType, r.ID)
		}
	}

	results, err = store.Search(ctx, testVector("billing", testDims), 10, CombinedFilter(diagrams.TypeClass, "billing"), 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "c1" {
		t.Errorf("combined filter results = %v, want just c1", results)
	}
}

func TestMemoryStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Upsert(ctx, []Point{testPoint("doc1", "version one", diagrams.TypeClass, "")}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Upsert(ctx, []Point{testPoint("doc1", "version two", diagrams.TypeClass, "")}); err != nil {
		t.Fatalf("re-Upsert: %v", err)
	}

	count, err := store.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d after idempotent upsert, want 1", count)
	}

	doc, err := store.GetByID(ctx, "doc1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc == nil || doc.Content != "version two" {
		t.Errorf("document not replaced: %+v", doc)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	doc, err := store.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc != nil {
		t.Errorf("got %+v for missing id, want nil", doc)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Upsert(ctx, []Point{
		testPoint("d1", "first", diagrams.TypeClass, "src-a"),
		testPoint("d2", "second", diagrams.TypeClass, "src-a"),
		testPoint("d3", "third", diagrams.TypeState, "src-b"),
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := store.DeleteByID(ctx, "d1"); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	// Deleting an absent id is not an error.
	if err := store.DeleteByID(ctx, "d1"); err != nil {
		t.Fatalf("DeleteByID twice: %v", err)
	}

	if err := store.DeleteByFilter(ctx, SourceFilter("src-a")); err != nil {
		t.Fatalf("DeleteByFilter: %v", err)
	}

	count, err := store.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d after deletes, want 1", count)
	}
	if doc, _ := store.GetByID(ctx, "d3"); doc == nil {
		t.Error("d3 should survive the filtered delete")
	}
}

func TestMemoryStoreCountFiltered(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Upsert(ctx, []Point{
		testPoint("1", "one", diagrams.TypeClass, ""),
		testPoint("2", "two", diagrams.TypeSequence, ""),
		testPoint("3", "three", diagrams.TypeClass, ""),
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	n, err := store.Count(ctx, DiagramTypeFilter(diagrams.TypeClass))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("class count = %d, want 2", n)
	}

	n, err = store.Count(ctx, DiagramTypeFilter(diagrams.TypeUseCase))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("usecase count = %d, want 0", n)
	}
}

func TestMemoryStoreSearchEmpty(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Search(context.Background(), testVector("anything", testDims), 5, nil, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results from empty store", len(results))
	}
}

func TestMemoryStorePersistAndLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := newTestStore(t)
	p := testPoint("doc-1", "class Order { +total() }", diagrams.TypeClass, "orders.puml")
	p.Metadata = map[string]string{"format": "plantuml"}
	points := []Point{
		p,
		testPoint("doc-2", "sequence checkout flow", diagrams.TypeSequence, "checkout.mmd"),
	}
	if err := store.Upsert(ctx, points); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Persist(ctx, dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restored := newTestStore(t)
	if err := restored.Load(ctx, dir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	count, err := restored.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count after load = %d, want 2", count)
	}

	doc, err := restored.GetByID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc == nil {
		t.Fatal("doc-1 missing after load")
	}
	if doc.DiagramType != diagrams.TypeClass {
		t.Errorf("diagram type = %q, want %q", doc.DiagramType, diagrams.TypeClass)
	}
	if doc.Metadata["format"] != "plantuml" {
		t.Errorf("metadata format = %q, want plantuml", doc.Metadata["format"])
	}

	results, err := restored.Search(ctx, testVector("class Order { +total() }", testDims), 1, nil, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "doc-1" {
		t.Fatalf("search after load returned %+v, want doc-1", results)
	}
}

func TestCombinedFilter(t *testing.T) {
	if f := CombinedFilter("", ""); f != nil {
		t.Errorf("empty inputs produced %+v, want nil", f)
	}
	if f := CombinedFilter(diagrams.TypeUnknown, ""); f != nil {
		t.Errorf("unknown type produced %+v, want nil", f)
	}

	f := CombinedFilter(diagrams.TypeClass, "repo")
	if f == nil || f.DiagramType == nil || *f.DiagramType != diagrams.TypeClass {
		t.Fatalf("diagram type predicate missing: %+v", f)
	}
	if f.Source == nil || *f.Source != "repo" {
		t.Fatalf("source predicate missing: %+v", f)
	}

	doc := &Document{DiagramType: diagrams.TypeClass, Source: "repo"}
	if !f.Matches(doc) {
		t.Error("filter rejects matching document")
	}
	doc.Source = "other"
	if f.Matches(doc) {
		t.Error("filter accepts non-matching document")
	}
	if !(*Filter)(nil).Matches(doc) {
		t.Error("nil filter must match everything")
	}
}
