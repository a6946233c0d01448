package metadata

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/rs/zerolog/log"
)

// Fetcher retrieves a payload from content-addressed storage by its hash.
type Fetcher interface {
	Fetch(ctx context.Context, hash string) ([]byte, error)
}

// HTTPGateway fetches content through a pinning-gateway URL with an access
// token. Content is immutable by construction (the hash is the address), so
// fetched payloads are kept in a process-local cache, snappy-compressed.
type HTTPGateway struct {
	baseURL string
	token   string
	client  *http.Client

	mu    sync.RWMutex
	cache map[string][]byte
}

func NewHTTPGateway(baseURL, token string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: make(map[string][]byte),
	}
}

func (g *HTTPGateway) Fetch(ctx context.Context, hash string) ([]byte, error) {
	if hash == "" {
		return nil, ErrInvalidHash.Msg("content hash cannot be empty")
	}

	g.mu.RLock()
	compressed, ok := g.cache[hash]
	g.mu.RUnlock()
	if ok {
		payload, err := snappy.Decode(nil, compressed)
		if err == nil {
			return payload, nil
		}
		log.Ctx(ctx).Error().Err(err).Str("hash", hash).Msg("dropping corrupt cache entry")
	}

	u := g.baseURL + "/" + hash
	if g.token != "" {
		u += "?gatewayToken=" + g.token
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, ErrUnavailable.Err(err)
	}
	rsp, err := g.client.Do(req)
	if err != nil {
		return nil, ErrUnavailable.Err(err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return nil, ErrUnavailable.Msg("gateway returned status " + rsp.Status + " for hash " + hash)
	}
	payload, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, ErrUnavailable.Err(err)
	}

	g.mu.Lock()
	g.cache[hash] = snappy.Encode(nil, payload)
	g.mu.Unlock()

	return payload, nil
}
