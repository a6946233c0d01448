// Package reservation wraps the external name-reservation signing service
// used by the prepare flow.
package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/mugiliam/common/apperrors"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/validation"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

var (
	ErrReservationError apperrors.Error = apperrors.New("error reserving name")
	ErrRejected         apperrors.Error = ErrReservationError.New("reservation rejected").SetExpandError(true).SetStatusCode(http.StatusConflict)
	ErrInvalidToken     apperrors.Error = ErrReservationError.New("reservation response is incomplete").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
)

// Request asks the signing service to reserve an asset name for a requester.
type Request struct {
	Name      string         `json:"name"`
	PublicKey ledger.Address `json:"publicKey"`
	Network   types.Network  `json:"network"`
	Contract  ledger.Address `json:"contract"`
}

// Token is a granted reservation: the service's signature over the name
// binding, the mint price it fixed, and the expiry of the grant.
type Token struct {
	Name      string    `json:"name"`
	Signature string    `json:"signature"`
	Price     string    `json:"price"`
	Expiry    time.Time `json:"expiry"`
	Reason    string    `json:"reason,omitempty"`
}

// Validate checks the grant is usable. The service occasionally answers with
// a structurally complete but unsigned or expired token; that must surface as
// a descriptive error, not be carried into a transaction.
func (t *Token) Validate() error {
	if t.Reason != "" {
		return ErrRejected.Msg(t.Reason)
	}
	if t.Signature == "" {
		return ErrInvalidToken.Msg("missing signature")
	}
	if err := validation.V().Var(t.Price, "required,priceValidator"); err != nil {
		return ErrInvalidToken.Msg("missing or malformed price")
	}
	if t.Expiry.IsZero() || t.Expiry.Before(time.Now()) {
		return ErrInvalidToken.Msg("missing or elapsed expiry")
	}
	return nil
}

type Client interface {
	Reserve(ctx context.Context, req *Request) (*Token, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *HTTPClient) Reserve(ctx context.Context, req *Request) (*Token, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, ErrReservationError.Err(err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reserve", bytes.NewReader(b))
	if err != nil {
		return nil, ErrReservationError.Err(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	rsp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, ErrReservationError.Err(err)
	}
	defer rsp.Body.Close()
	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, ErrReservationError.Err(err)
	}
	if rsp.StatusCode != http.StatusOK {
		return nil, ErrReservationError.Msg("reservation service returned status " + rsp.Status)
	}
	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, ErrInvalidToken.Err(err)
	}
	return &token, nil
}
