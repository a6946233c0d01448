package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// HTTPConnector talks to a per-network ledger node gateway. It is thin glue:
// all contract semantics stay on the node side.
type HTTPConnector struct {
	endpoints map[types.Network]string
	client    *http.Client
}

func NewHTTPConnector(endpoints map[types.Network]string) *HTTPConnector {
	return &HTTPConnector{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *HTTPConnector) endpoint(network types.Network) (string, error) {
	ep, ok := c.endpoints[network]
	if !ok || ep == "" {
		return "", ErrLedgerError.Msg("no endpoint configured for network " + string(network))
	}
	return ep, nil
}

func (c *HTTPConnector) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ErrLedgerError.Err(err)
	}
	rsp, err := c.client.Do(req)
	if err != nil {
		return ErrLedgerError.Err(err)
	}
	defer rsp.Body.Close()
	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return ErrLedgerError.Err(err)
	}
	if rsp.StatusCode == http.StatusNotFound {
		return ErrAccountNotFound
	}
	if rsp.StatusCode != http.StatusOK {
		return ErrLedgerError.Msg("node returned status " + rsp.Status)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return ErrLedgerError.Err(err)
	}
	return nil
}

func (c *HTTPConnector) FetchAccount(ctx context.Context, network types.Network, addr Address) (*Account, error) {
	ep, err := c.endpoint(network)
	if err != nil {
		return nil, err
	}
	var acct Account
	if err := c.get(ctx, ep+"/accounts/"+url.PathEscape(addr.String()), &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (c *HTTPConnector) FetchTokenAccount(ctx context.Context, network types.Network, contract Address, name Field) (*TokenAccount, error) {
	ep, err := c.endpoint(network)
	if err != nil {
		return nil, err
	}
	u := ep + "/accounts/" + url.PathEscape(contract.String()) + "/tokens/" + url.PathEscape(string(name))
	var acct TokenAccount
	if err := c.get(ctx, u, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (c *HTTPConnector) Submit(ctx context.Context, network types.Network, tx *Transaction) (*SubmitResult, error) {
	ep, err := c.endpoint(network)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(tx)
	if err != nil {
		return nil, ErrSubmission.Err(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep+"/transactions", bytes.NewReader(b))
	if err != nil {
		return nil, ErrSubmission.Err(err)
	}
	req.Header.Set("Content-Type", "application/json")
	rsp, err := c.client.Do(req)
	if err != nil {
		return nil, ErrSubmission.Err(err)
	}
	defer rsp.Body.Close()
	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, ErrSubmission.Err(err)
	}
	var result SubmitResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, ErrSubmission.Msg("node returned status " + rsp.Status)
	}
	return &result, nil
}

func (c *HTTPConnector) CheckInclusion(ctx context.Context, network types.Network, hash string) (bool, error) {
	ep, err := c.endpoint(network)
	if err != nil {
		return false, err
	}
	var rsp struct {
		Included bool `json:"included"`
	}
	if err := c.get(ctx, ep+"/transactions/"+url.PathEscape(hash)+"/inclusion", &rsp); err != nil {
		return false, err
	}
	return rsp.Included, nil
}
