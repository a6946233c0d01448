package finality

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/zkmarket/mintworkersrv/internal/metrics"
)

// Explorer looks up a transaction's status on networks whose finality is only
// observable through third-party indexing.
type Explorer interface {
	TransactionStatus(ctx context.Context, hash string) (string, error)
}

// ExplorerClient queries a blockberry-style indexer API.
type ExplorerClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewExplorerClient(baseURL, apiKey string) *ExplorerClient {
	return &ExplorerClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *ExplorerClient) TransactionStatus(ctx context.Context, hash string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.ExplorerRequestDuration.Observe(time.Since(start).Seconds())
	}()

	u := c.baseURL + "/zkapps/txs/" + url.PathEscape(hash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", ErrExplorer.Err(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	rsp, err := c.client.Do(req)
	if err != nil {
		return "", ErrExplorer.Err(err)
	}
	defer rsp.Body.Close()
	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", ErrExplorer.Err(err)
	}
	if rsp.StatusCode != http.StatusOK {
		return "", ErrExplorer.Msg("explorer returned status " + rsp.Status + " for hash " + hash)
	}

	var result struct {
		TxStatus string `json:"txStatus"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", ErrExplorer.Err(err)
	}
	return result.TxStatus, nil
}
