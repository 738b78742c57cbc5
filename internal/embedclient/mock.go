package embedclient

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"
)

// MockProvider generates deterministic, hash-derived embeddings. Used in
// tests; nothing selects it automatically when no HTTP endpoint is
// configured.
type MockProvider struct {
	mu          sync.Mutex
	dimensions  int
	closeCalled bool
	closeError  error
	embedError  error
}

// NewMockProvider creates a mock provider producing dimensions-wide
// vectors.
func NewMockProvider(dimensions int) *MockProvider {
	return &MockProvider{dimensions: dimensions}
}

// SetCloseError configures the mock to return err from Close.
func (p *MockProvider) SetCloseError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeError = err
}

// SetEmbedError configures the mock to return err from Embed.
func (p *MockProvider) SetEmbedError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.embedError = err
}

// Embed generates a deterministic, L2-normalized vector per text by hashing
// its content, so the same text always embeds to the same vector within a
// test run.
func (p *MockProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	embedErr := p.embedError
	dims := p.dimensions
	p.mu.Unlock()

	if embedErr != nil {
		return nil, embedErr
	}
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("embedclient: batch of %d exceeds max %d", len(texts), MaxBatchSize)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		hash := sha256.Sum256([]byte(text))
		v := make([]float32, dims)
		for j := 0; j < dims; j++ {
			offset := (j * 4) % len(hash)
			bits := binary.BigEndian.Uint32(hash[offset : offset+4])
			v[j] = (float32(bits)/float32(1<<32))*2.0 - 1.0
		}
		L2Normalize(v)
		embeddings[i] = v
	}
	return embeddings, nil
}

// Dimensions returns the configured vector size.
func (p *MockProvider) Dimensions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dimensions
}

// Close records that Close was called and returns any configured error.
func (p *MockProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeCalled = true
	return p.closeError
}

// IsClosed reports whether Close has been called.
func (p *MockProvider) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeCalled
}
