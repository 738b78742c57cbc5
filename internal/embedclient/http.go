package embedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// HTTPProvider calls an external embedding endpoint over HTTP (spec §4.7's
// boundary contract — the embedding model itself is a named external
// collaborator, not something this repo runs).
type HTTPProvider struct {
	endpoint   string
	dimensions int
	client     *http.Client
	parallel   int
}

// NewHTTPProvider creates a Provider backed by an HTTP endpoint exposing
// POST <endpoint>/embed. dimensions is the fixed vector size the endpoint
// is known to produce.
func NewHTTPProvider(endpoint string, dimensions int) *HTTPProvider {
	return &HTTPProvider{
		endpoint:   endpoint,
		dimensions: dimensions,
		client:     &http.Client{Timeout: 30 * time.Second},
		parallel:   4,
	}
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed embeds up to MaxBatchSize texts in one or more concurrent HTTP
// calls, preserving input order (spec §4.7: "the client may apply internal
// parallelism but must return results in input order").
func (p *HTTPProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("embedclient: batch of %d exceeds max %d", len(texts), MaxBatchSize)
	}

	chunkSize := (len(texts) + p.parallel - 1) / p.parallel
	if chunkSize < 1 {
		chunkSize = 1
	}

	results := make([][]float32, len(texts))
	group, gctx := errgroup.WithContext(ctx)

	for start := 0; start < len(texts); start += chunkSize {
		start := start
		end := start + chunkSize
		if end > len(texts) {
			end = len(texts)
		}
		group.Go(func() error {
			embeddings, err := p.embedChunk(gctx, texts[start:end])
			if err != nil {
				return err
			}
			copy(results[start:end], embeddings)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	for _, v := range results {
		L2Normalize(v)
	}
	return results, nil
}

func (p *HTTPProvider) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("embedclient: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedclient: endpoint returned status %d", resp.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("embedclient: decode response: %w", err)
	}
	if len(decoded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedclient: endpoint returned %d vectors for %d texts",
			len(decoded.Embeddings), len(texts))
	}
	return decoded.Embeddings, nil
}

// Dimensions returns the fixed vector size configured for this provider.
func (p *HTTPProvider) Dimensions() int { return p.dimensions }

// Close releases the underlying HTTP client's idle connections.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
