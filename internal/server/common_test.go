package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkmarket/mintworkersrv/internal/apis"
	"github.com/zkmarket/mintworkersrv/internal/assembler"
	"github.com/zkmarket/mintworkersrv/internal/db/memory"
	"github.com/zkmarket/mintworkersrv/internal/events"
	"github.com/zkmarket/mintworkersrv/internal/finality"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/metadata"
	"github.com/zkmarket/mintworkersrv/internal/reservation"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

const (
	testContract = "B62qkK6mDMB5cKRUuJuJvYVkKpW3BSRygXPFGM2iSAQB6RmSSvGvNdQD"
	testSender   = "B62qmQsEHcsPUs5xdtHKjEmWqqhUPRSF2GNmdguqnNvpEZpKftPC69e"
	testHash     = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
)

func executeTestRequest(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	s, err := CreateNewServer()
	require.NoError(t, err, "create new server")

	// Mount Handlers
	s.MountHandlers()

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func checkHeader(t *testing.T, h http.Header) {
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
	assert.NotNil(t, h.Get("X-Request-ID"), "No Request Id")
}

func compareJson(t *testing.T, expected any, actual string) {
	j, err := json.Marshal(expected)
	assert.NoError(t, err, "json marshal")
	assert.JSONEq(t, string(j), actual, "Expected: %v\n Got: %v\n", expected, actual)
}

func setRequestBodyAndHeader(t *testing.T, req *http.Request, data interface{}) {
	// Marshal the data into JSON
	jsonData, err := json.Marshal(data)
	assert.NoError(t, err, "Failed to marshal data into JSON")

	// Set the request body to the JSON
	req.Body = io.NopCloser(bytes.NewReader(jsonData))
	req.ContentLength = int64(len(jsonData))

	// Set the Content-Type header to application/json
	req.Header.Set("Content-Type", "application/json")
}

// test doubles shared by the handler tests

type fakeConnector struct {
	accounts map[ledger.Address]*ledger.Account
	tokens   map[ledger.Field]*ledger.TokenAccount
	submit   *ledger.SubmitResult
	included bool
}

func (f *fakeConnector) FetchAccount(ctx context.Context, network types.Network, addr ledger.Address) (*ledger.Account, error) {
	if a, ok := f.accounts[addr]; ok {
		return a, nil
	}
	return nil, ledger.ErrAccountNotFound
}

func (f *fakeConnector) FetchTokenAccount(ctx context.Context, network types.Network, contract ledger.Address, name ledger.Field) (*ledger.TokenAccount, error) {
	if a, ok := f.tokens[name]; ok {
		return a, nil
	}
	return nil, ledger.ErrAccountNotFound
}

func (f *fakeConnector) Submit(ctx context.Context, network types.Network, tx *ledger.Transaction) (*ledger.SubmitResult, error) {
	return f.submit, nil
}

func (f *fakeConnector) CheckInclusion(ctx context.Context, network types.Network, hash string) (bool, error) {
	return f.included, nil
}

type fakeProver struct{}

func (fakeProver) Prove(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	proven := *tx
	return &proven, nil
}

type fakeCompiler struct{}

func (fakeCompiler) Compile(ctx context.Context, circuit string) (*assembler.VerificationKey, error) {
	switch circuit {
	case assembler.TokenCircuit:
		return &assembler.VerificationKey{Hash: assembler.ExpectedTokenKeyHash}, nil
	case assembler.MarketCircuit:
		return &assembler.VerificationKey{Hash: assembler.ExpectedMarketKeyHash}, nil
	}
	return nil, assembler.ErrProofFailed.Msg("unknown circuit")
}

type fakeFetcher struct {
	payloads map[string][]byte
}

func (f *fakeFetcher) Fetch(ctx context.Context, hash string) ([]byte, error) {
	if p, ok := f.payloads[hash]; ok {
		return p, nil
	}
	return nil, metadata.ErrUnavailable.Msg("no payload for hash " + hash)
}

type fakeReserver struct{}

func (fakeReserver) Reserve(ctx context.Context, req *reservation.Request) (*reservation.Token, error) {
	return &reservation.Token{
		Name:      req.Name,
		Signature: "7mXReservation",
		Price:     "5000000000",
		Expiry:    time.Now().Add(10 * time.Minute),
	}, nil
}

// setupHandlers wires the API layer with an in-memory store and scripted
// collaborators, returning the store for seeding and inspection.
func setupHandlers(t *testing.T) (*memory.Store, *fakeConnector) {
	t.Helper()
	return setupHandlersWithCompiler(t, fakeCompiler{})
}

func setupHandlersWithCompiler(t *testing.T, compiler assembler.Compiler) (*memory.Store, *fakeConnector) {
	t.Helper()
	store := memory.NewStore()
	connector := &fakeConnector{
		accounts: map[ledger.Address]*ledger.Account{
			ledger.Address(testContract): {PublicKey: ledger.Address(testContract), Nonce: 0},
			ledger.Address(testSender):   {PublicKey: ledger.Address(testSender), Nonce: 4},
		},
		submit:   &ledger.SubmitResult{Hash: "5JuTest", Status: ledger.SubmitStatusPending},
		included: true,
	}
	md := metadata.NewAssembler(&fakeFetcher{payloads: map[string][]byte{
		testHash: []byte(`{"name":"asset","description":"a fine asset"}`),
	}})
	apis.Init(apis.Dependencies{
		Assembler:    assembler.New(connector, fakeProver{}, compiler, assembler.NewKeyCache()),
		Connector:    connector,
		Metadata:     md,
		Events:       events.NopSink{},
		Reservations: fakeReserver{},
		Resolver:     finality.NewResolver(connector, finality.NewExplorerClient("http://127.0.0.1:0", "")),
		Store:        store,
	})
	return store, connector
}
