package assembler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/zkmarket/mintworkersrv/internal/ledger"
)

// ProverClient talks to the external proving service, which also hosts
// circuit compilation. No client-side timeout: proofs routinely take tens of
// seconds and the outer job deadline governs.
type ProverClient struct {
	baseURL string
	client  *http.Client
}

func NewProverClient(baseURL string) *ProverClient {
	return &ProverClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (p *ProverClient) post(ctx context.Context, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	rsp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()
	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return err
	}
	if rsp.StatusCode != http.StatusOK {
		return ErrProofFailed.Msg("prover returned status " + rsp.Status)
	}
	return json.Unmarshal(body, out)
}

func (p *ProverClient) Prove(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	var proven ledger.Transaction
	if err := p.post(ctx, "/prove", tx, &proven); err != nil {
		return nil, err
	}
	return &proven, nil
}

func (p *ProverClient) Compile(ctx context.Context, circuit string) (*VerificationKey, error) {
	var key VerificationKey
	in := map[string]string{"circuit": circuit}
	if err := p.post(ctx, "/compile", in, &key); err != nil {
		return nil, err
	}
	return &key, nil
}
