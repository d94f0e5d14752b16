package embeddings

import (
	"context"
	"fmt"
	"sync"
)

// DefaultBatchSize bounds peak memory during batch embedding: inputs are
// chunked into groups of this size and each chunk is one inference call.
const DefaultBatchSize = 8

// warmUpProbe is the text embedded during warm-up to force model loading
// and verify the reported dimension.
const warmUpProbe = "warmup"

// Options control per-call embedding behaviour.
type Options struct {
	// Normalize scales output vectors to unit L2 norm, so cosine
	// similarity reduces to a dot product downstream.
	Normalize bool
}

// DefaultOptions returns the options used by callers that don't care:
// normalization on.
func DefaultOptions() Options {
	return Options{Normalize: true}
}

// Status describes the provider's load state for health reporting.
type Status struct {
	Loaded        bool   `json:"loaded"`
	Loading       bool   `json:"loading"`
	ModelName     string `json:"modelName"`
	EmbeddingSize int    `json:"embeddingSize"`
}

// Provider wraps an Embedder with lazy, once-only warm-up, chunked batch
// embedding, and output validation. Instances are safe for concurrent use;
// each holds its own load state, so tests can construct isolated providers
// around fake embedders.
type Provider struct {
	embedder  Embedder
	batchSize int

	mu       sync.Mutex
	loaded   bool
	loadErr  error
	inflight chan struct{} // non-nil while a warm-up is running
}

// NewProvider creates a Provider around embedder. batchSize <= 0 selects
// DefaultBatchSize.
func NewProvider(embedder Embedder, batchSize int) *Provider {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Provider{
		embedder:  embedder,
		batchSize: batchSize,
	}
}

// Initialize warms the model up. It is idempotent: once loaded it returns
// immediately, and while a warm-up is in flight every concurrent caller
// waits on the same channel and resumes when that single load finishes.
// A failed warm-up clears the guard so a later call may retry.
func (p *Provider) Initialize(ctx context.Context) error {
	p.mu.Lock()
	if p.loaded {
		p.mu.Unlock()
		return nil
	}
	if p.inflight != nil {
		ch := p.inflight
		p.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.loaded {
			return nil
		}
		return p.loadErr
	}

	ch := make(chan struct{})
	p.inflight = ch
	p.mu.Unlock()

	err := p.warmUp(ctx)

	p.mu.Lock()
	p.loaded = err == nil
	p.loadErr = err
	p.inflight = nil
	p.mu.Unlock()
	close(ch)

	return err
}

// warmUp embeds a probe text so the backend loads the model, and checks
// that the produced dimension matches what the embedder advertises.
func (p *Provider) warmUp(ctx context.Context) error {
	vecs, err := p.embedder.Embed(ctx, []string{warmUpProbe})
	if err != nil {
		return &EmbeddingError{Model: p.embedder.Name(), Err: err}
	}
	if len(vecs) != 1 || len(vecs[0]) != p.embedder.Dimensions() {
		return &EmbeddingError{
			Model: p.embedder.Name(),
			Err:   fmt.Errorf("warm-up produced unexpected shape: %d vectors", len(vecs)),
		}
	}
	return nil
}

// Embed returns one vector for text, triggering Initialize if needed.
func (p *Provider) Embed(ctx context.Context, text string, opts Options) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text}, opts)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in chunks of the configured batch size,
// strictly sequentially, preserving input order. Every output vector is
// dimension-checked; any shape mismatch fails the whole call.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string, opts Options) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyBatch
	}

	if err := p.Initialize(ctx); err != nil {
		return nil, err
	}

	dims := p.embedder.Dimensions()
	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk := texts[start:end]

		vecs, err := p.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, &EmbeddingError{Model: p.embedder.Name(), Err: err}
		}
		if len(vecs) != len(chunk) {
			return nil, &EmbeddingError{
				Model: p.embedder.Name(),
				Err:   fmt.Errorf("got %d vectors for %d inputs", len(vecs), len(chunk)),
			}
		}

		for _, v := range vecs {
			if len(v) != dims {
				return nil, &EmbeddingError{
					Model: p.embedder.Name(),
					Err:   fmt.Errorf("got %d-dim vector, expected %d", len(v), dims),
				}
			}
			if opts.Normalize {
				v = Normalize(v)
			}
			out = append(out, v)
		}
	}

	return out, nil
}

// Status reports the provider's load state. Informational only; callers
// must not use it to order operations.
func (p *Provider) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		Loaded:        p.loaded,
		Loading:       p.inflight != nil,
		ModelName:     p.embedder.Name(),
		EmbeddingSize: p.embedder.Dimensions(),
	}
}

// Loaded reports whether the model has been warmed up.
func (p *Provider) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Embedder exposes the wrapped embedder, for adapters that need the raw
// backend (e.g. the in-memory vector store's embedding hook).
func (p *Provider) Embedder() Embedder { return p.embedder }
