package submitter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/zkmarket/mintworkersrv/internal/assembler"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
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
	testBuyer    = "B62qpge4uMq4Vv5Rvc8Gw9qSquUYd6xoW1pz7HQkMSHm6h1o7pvLPAN"
	testRival    = "B62qjsV6WQwTeEWrNrRRBP6VaaLvQhwWTnFi4WP4LQjGvpfZEumXzxb"
)

// fakeConnector lets each test script the ledger's answers.
type fakeConnector struct {
	accounts    map[ledger.Address]*ledger.Account
	submit      *ledger.SubmitResult
	submitErr   error
	submissions int
}

func (f *fakeConnector) FetchAccount(ctx context.Context, network types.Network, addr ledger.Address) (*ledger.Account, error) {
	if a, ok := f.accounts[addr]; ok {
		return a, nil
	}
	return nil, ledger.ErrAccountNotFound
}

func (f *fakeConnector) FetchTokenAccount(ctx context.Context, network types.Network, contract ledger.Address, name ledger.Field) (*ledger.TokenAccount, error) {
	return nil, ledger.ErrAccountNotFound
}

func (f *fakeConnector) Submit(ctx context.Context, network types.Network, tx *ledger.Transaction) (*ledger.SubmitResult, error) {
	f.submissions++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submit, nil
}

func (f *fakeConnector) CheckInclusion(ctx context.Context, network types.Network, hash string) (bool, error) {
	return false, nil
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

type fakeSink struct {
	published []*events.OperationEvent
	err       error
}

func (f *fakeSink) Publish(ctx context.Context, ev *events.OperationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, ev)
	return nil
}

type fakeReserver struct {
	token *reservation.Token
	err   error
	last  *reservation.Request
}

func (f *fakeReserver) Reserve(ctx context.Context, req *reservation.Request) (*reservation.Token, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

type fixture struct {
	store     *memory.Store
	connector *fakeConnector
	sink      *fakeSink
	reserver  *fakeReserver
	ctrl      *Controller
}

const testContentHash = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	connector := &fakeConnector{
		accounts: map[ledger.Address]*ledger.Account{
			ledger.Address(testContract): {PublicKey: ledger.Address(testContract), Nonce: 0},
			ledger.Address(testSender):   {PublicKey: ledger.Address(testSender), Nonce: 4},
			ledger.Address(testBuyer):    {PublicKey: ledger.Address(testBuyer), Nonce: 1},
			ledger.Address(testRival):    {PublicKey: ledger.Address(testRival), Nonce: 7},
		},
		submit: &ledger.SubmitResult{Hash: "5JuTest", Status: ledger.SubmitStatusPending},
	}
	store := memory.NewStore()
	sink := &fakeSink{}
	reserver := &fakeReserver{token: &reservation.Token{
		Name:      "asset",
		Signature: "7mXReservation",
		Price:     "5000000000",
		Expiry:    time.Now().Add(10 * time.Minute),
	}}
	md := metadata.NewAssembler(&fakeFetcher{payloads: map[string][]byte{
		testContentHash: []byte(`{"name":"asset","description":"a fine asset"}`),
	}})
	asm := assembler.New(connector, fakeProver{}, fakeCompiler{}, assembler.NewKeyCache())
	return &fixture{
		store:     store,
		connector: connector,
		sink:      sink,
		reserver:  reserver,
		ctrl:      NewController(store, asm, connector, md, sink, reserver),
	}
}

func serializedSkeleton(t *testing.T, sender string, labels []string) string {
	t.Helper()
	updates := make([]ledger.AccountUpdateSkeleton, len(labels))
	for i, l := range labels {
		updates[i] = ledger.AccountUpdateSkeleton{Label: l, PublicKey: ledger.Address(testContract), CallDepth: 1}
	}
	skel := &ledger.Skeleton{
		FeePayer: ledger.TransactionParams{
			Sender: ledger.Address(sender),
			Fee:    100_000_000,
			Nonce:  4,
			Memo:   "test",
		},
		AccountUpdates: updates,
	}
	serialized, err := skel.Serialize()
	require.NoError(t, err)
	return serialized
}

func signedData(t *testing.T, sigs []string) string {
	t.Helper()
	type auth struct {
		Signature string `json:"signature"`
	}
	type update struct {
		Authorization auth `json:"authorization"`
	}
	updates := make([]update, len(sigs))
	for i, s := range sigs {
		updates[i].Authorization.Signature = s
	}
	payload := map[string]any{
		"command": map[string]any{
			"feePayer":       map[string]any{"authorization": "7mXFeePayer"},
			"accountUpdates": updates,
		},
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(b)
}

func mintBlob(t *testing.T, name, price string) string {
	t.Helper()
	nameField, err := ledger.EncodeString(name)
	require.NoError(t, err)
	fields, err := (&ledger.MintParams{
		Name:        nameField,
		Price:       ledger.Field(price),
		ContentHash: testContentHash,
	}).ToFields()
	require.NoError(t, err)
	blob, err := ledger.SerializeFields(fields)
	require.NoError(t, err)
	return blob
}

func tradeBlob(t *testing.T, name, price string) string {
	t.Helper()
	nameField, err := ledger.EncodeString(name)
	require.NoError(t, err)
	blob, err := ledger.SerializeFields([]ledger.Field{nameField, ledger.Field(price)})
	require.NoError(t, err)
	return blob
}

func mintJob(t *testing.T, jobId string) *Job {
	t.Helper()
	payload := map[string]string{
		"serializedTransaction": serializedSkeleton(t, testSender, []string{"mint.contract", "mint.proof", "mint.token", "mint.payment"}),
		"signedData":            signedData(t, []string{"sig0", "", "sig2", "sig3"}),
		"mintParams":            mintBlob(t, "asset", "5000000000"),
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return &Job{
		JobId:           jobId,
		Operation:       types.OperationMint,
		Network:         types.NetworkDevnet,
		ContractAddress: ledger.Address(testContract),
		Transactions:    []string{string(b)},
	}
}

func tradeJob(t *testing.T, jobId string, op types.OperationKind, sender, paramsKey, price string) *Job {
	t.Helper()
	payload := map[string]string{
		"serializedTransaction": serializedSkeleton(t, sender, []string{string(op) + ".contract", string(op) + ".offer", string(op) + ".token"}),
		"signedData":            signedData(t, []string{"sig0", "sig1", "sig2"}),
		paramsKey:               tradeBlob(t, "asset", price),
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return &Job{
		JobId:           jobId,
		Operation:       op,
		Network:         types.NetworkDevnet,
		ContractAddress: ledger.Address(testContract),
		Transactions:    []string{string(b)},
	}
}

func entryId() types.ObjectId {
	return types.ObjectIdFor(types.NetworkDevnet, testContract, "asset")
}

func TestRunRejectsUnknownOperation(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.ctrl.Run(context.Background(), &Job{Operation: types.OperationInvalid, Network: types.NetworkDevnet})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestRunRejectsUnknownNetworkWithoutSideEffects(t *testing.T) {
	fx := newFixture(t)
	job := mintJob(t, "job-1")
	job.Network = "testnet"

	_, err := fx.ctrl.Run(context.Background(), job)
	require.ErrorIs(t, err, ErrInvalidNetwork)

	_, err = fx.store.GetEntry(context.Background(), types.ObjectIdFor("testnet", testContract, "asset"))
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Zero(t, fx.connector.submissions)
}

func TestMintHappyPath(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.ctrl.Run(context.Background(), mintJob(t, "job-1"))
	require.NoError(t, err)
	assert.Equal(t, "5JuTest", res.TxHash)
	assert.Equal(t, string(statePending), res.State)

	entry, err := fx.store.GetEntry(context.Background(), entryId())
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, entry.Status)
	assert.Equal(t, "5JuTest", entry.TxHash)
	assert.Equal(t, testSender, entry.Owner)
	assert.Equal(t, "5000000000", entry.Price)
	assert.Equal(t, testContentHash, entry.ContentHash)
	assert.Equal(t, "a fine asset", entry.Document["description"])

	rec, err := fx.store.GetTransactionRecord(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", rec.Status)
	assert.Equal(t, "5JuTest", rec.TxHash)

	require.Len(t, fx.sink.published, 1)
	ev := fx.sink.published[0]
	assert.Equal(t, types.OperationMint, ev.Operation)
	assert.Equal(t, "asset", ev.Name)
	assert.Equal(t, testSender, ev.Counterparty)
}

func TestMintRejectedMarksEntryFailed(t *testing.T) {
	fx := newFixture(t)
	fx.connector.submit = &ledger.SubmitResult{Hash: "5JuRejected", Status: ledger.SubmitStatusRejected, Reason: "invalid_nonce"}

	_, err := fx.ctrl.Run(context.Background(), mintJob(t, "job-1"))
	require.ErrorIs(t, err, ErrSubmissionRejected)

	entry, err := fx.store.GetEntry(context.Background(), entryId())
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, entry.Status)
	assert.Equal(t, "5JuRejected", entry.TxHash, "the refused transaction stays traceable from the entry")

	rec, err := fx.store.GetTransactionRecord(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "rejected", rec.Status)
	assert.Equal(t, "5JuRejected", rec.TxHash)

	assert.Empty(t, fx.sink.published)
}

func TestMintAssemblyFailureMarksEntryFailed(t *testing.T) {
	fx := newFixture(t)
	job := mintJob(t, "job-1")
	// Break the envelope: drop the token-slot signature.
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(job.Transactions[0]), &payload))
	payload["signedData"] = signedData(t, []string{"sig0", "", "", "sig3"})
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	job.Transactions = []string{string(b)}

	_, err = fx.ctrl.Run(context.Background(), job)
	require.ErrorIs(t, err, assembler.ErrMissingFragment)

	entry, gerr := fx.store.GetEntry(context.Background(), entryId())
	require.NoError(t, gerr)
	assert.Equal(t, types.StatusFailed, entry.Status)
	assert.Zero(t, fx.connector.submissions, "nothing was sent to the ledger")
}

func TestMintDuplicateIsConflict(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.ctrl.Run(context.Background(), mintJob(t, "job-1"))
	require.NoError(t, err)

	_, err = fx.ctrl.Run(context.Background(), mintJob(t, "job-2"))
	require.Error(t, err)

	// The second attempt never reached the ledger, and the pending entry of
	// the first attempt survived untouched.
	assert.Equal(t, 1, fx.connector.submissions)
	entry, err := fx.store.GetEntry(context.Background(), entryId())
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, entry.Status)
	assert.Equal(t, "job-1", entry.JobId)
}

func TestMintMetadataUnavailableStillSubmits(t *testing.T) {
	fx := newFixture(t)
	job := mintJob(t, "job-1")
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(job.Transactions[0]), &payload))
	nameField, err := ledger.EncodeString("asset")
	require.NoError(t, err)
	fields, err := (&ledger.MintParams{Name: nameField, Price: "5000000000", ContentHash: "unknownhash"}).ToFields()
	require.NoError(t, err)
	payload["mintParams"], err = ledger.SerializeFields(fields)
	require.NoError(t, err)
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	job.Transactions = []string{string(b)}

	res, err := fx.ctrl.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "5JuTest", res.TxHash)

	entry, err := fx.store.GetEntry(context.Background(), entryId())
	require.NoError(t, err)
	assert.Nil(t, entry.Document)
}

func TestMintEmptyJob(t *testing.T) {
	fx := newFixture(t)
	job := mintJob(t, "job-1")
	job.Transactions = nil

	_, err := fx.ctrl.Run(context.Background(), job)
	assert.ErrorIs(t, err, ErrEmptyJob)
}

func TestSellUpdatesPrice(t *testing.T) {
	fx := newFixture(t)
	seedApplied(t, fx, testSender, "10")

	res, err := fx.ctrl.Run(context.Background(), tradeJob(t, "job-2", types.OperationSell, testSender, "sellParams", "7000000000"))
	require.NoError(t, err)
	assert.Equal(t, "5JuTest", res.TxHash)

	entry, err := fx.store.GetEntry(context.Background(), entryId())
	require.NoError(t, err)
	assert.Equal(t, "7000000000", entry.Price)
	assert.Equal(t, types.StatusApplied, entry.Status, "status untouched by sell")
	assert.Equal(t, "job-2", entry.JobId)
}

func TestSellRejectedLeavesEntryUntouched(t *testing.T) {
	fx := newFixture(t)
	seedApplied(t, fx, testSender, "10")
	fx.connector.submit = &ledger.SubmitResult{Status: ledger.SubmitStatusRejected, Reason: "price_mismatch"}

	_, err := fx.ctrl.Run(context.Background(), tradeJob(t, "job-2", types.OperationSell, testSender, "sellParams", "7000000000"))
	require.ErrorIs(t, err, ErrSubmissionRejected)

	entry, err := fx.store.GetEntry(context.Background(), entryId())
	require.NoError(t, err)
	assert.Equal(t, "10", entry.Price)
	assert.Equal(t, types.StatusApplied, entry.Status)

	rec, err := fx.store.GetTransactionRecord(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Equal(t, "rejected", rec.Status, "audit row is written even for rejections")
}

func TestBuyTransfersOwnershipAndDelists(t *testing.T) {
	fx := newFixture(t)
	seedApplied(t, fx, testSender, "7000000000")

	res, err := fx.ctrl.Run(context.Background(), tradeJob(t, "job-3", types.OperationBuy, testBuyer, "buyParams", "7000000000"))
	require.NoError(t, err)
	assert.Equal(t, "5JuTest", res.TxHash)

	entry, err := fx.store.GetEntry(context.Background(), entryId())
	require.NoError(t, err)
	assert.Equal(t, testBuyer, entry.Owner)
	assert.Equal(t, "0", entry.Price, "purchase delists the asset")

	require.Len(t, fx.sink.published, 1)
	assert.Equal(t, testBuyer, fx.sink.published[0].Counterparty)
	assert.Equal(t, "7000000000", fx.sink.published[0].Price, "event carries the sale price")
}

// resolutionChain scripts per-hash inclusion answers and the token account the
// finality pass reads back.
type resolutionChain struct {
	included map[string]bool
	tokens   map[ledger.Field]*ledger.TokenAccount
}

func (f *resolutionChain) FetchAccount(ctx context.Context, network types.Network, addr ledger.Address) (*ledger.Account, error) {
	return nil, ledger.ErrAccountNotFound
}

func (f *resolutionChain) FetchTokenAccount(ctx context.Context, network types.Network, contract ledger.Address, name ledger.Field) (*ledger.TokenAccount, error) {
	if a, ok := f.tokens[name]; ok {
		return a, nil
	}
	return nil, ledger.ErrAccountNotFound
}

func (f *resolutionChain) Submit(ctx context.Context, network types.Network, tx *ledger.Transaction) (*ledger.SubmitResult, error) {
	return nil, ledger.ErrSubmission
}

func (f *resolutionChain) CheckInclusion(ctx context.Context, network types.Network, hash string) (bool, error) {
	return f.included[hash], nil
}

func TestCompetingBuysResolveToSingleOwner(t *testing.T) {
	fx := newFixture(t)
	seedApplied(t, fx, testSender, "7000000000")
	ctx := context.Background()

	// Two buyers race for the same listing and the node accepts both into its
	// mempool. The catalog optimistically reflects whichever wrote last.
	fx.connector.submit = &ledger.SubmitResult{Hash: "5JuBuyA", Status: ledger.SubmitStatusPending}
	_, err := fx.ctrl.Run(ctx, tradeJob(t, "job-a", types.OperationBuy, testBuyer, "buyParams", "7000000000"))
	require.NoError(t, err)

	fx.connector.submit = &ledger.SubmitResult{Hash: "5JuBuyB", Status: ledger.SubmitStatusPending}
	_, err = fx.ctrl.Run(ctx, tradeJob(t, "job-b", types.OperationBuy, testRival, "buyParams", "7000000000"))
	require.NoError(t, err)

	entry, err := fx.store.GetEntry(ctx, entryId())
	require.NoError(t, err)
	assert.Equal(t, testRival, entry.Owner, "optimistic write of the later buy")

	// Chain truth: only the first buy landed.
	nameField, err := ledger.EncodeString("asset")
	require.NoError(t, err)
	chain := &resolutionChain{
		included: map[string]bool{"5JuBuyA": true},
		tokens: map[ledger.Field]*ledger.TokenAccount{
			nameField: {
				Name:        nameField,
				Owner:       ledger.Address(testBuyer),
				Price:       ledger.Field("0"),
				Version:     "2",
				ContentHash: testContentHash,
			},
		},
	}
	fetcher := &fakeFetcher{payloads: map[string][]byte{
		testContentHash: []byte(`{"name":"asset","description":"a fine asset"}`),
	}}
	rec := finality.NewReconciler(fx.store, chain, metadata.NewAssembler(fetcher), finality.NewResolver(chain, nil))

	outcome, err := rec.Run(ctx, &finality.TransactionRef{
		Network:     types.NetworkDevnet,
		Contract:    ledger.Address(testContract),
		Name:        "asset",
		JobId:       "job-a",
		TxHash:      "5JuBuyA",
		SubmittedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, finality.OutcomeApplied, outcome)

	// The losing buy never confirms and runs out its confirmation window.
	outcome, err = rec.Run(ctx, &finality.TransactionRef{
		Network:     types.NetworkDevnet,
		Contract:    ledger.Address(testContract),
		Name:        "asset",
		JobId:       "job-b",
		TxHash:      "5JuBuyB",
		SubmittedAt: time.Now().Add(-finality.FastPathBound - time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, finality.OutcomeReplaced, outcome)

	// Exactly one buy reached the catalog as applied; the loser's replaced
	// resolution did not demote it.
	entry, err = fx.store.GetEntry(ctx, entryId())
	require.NoError(t, err)
	assert.Equal(t, types.StatusApplied, entry.Status)
	assert.Equal(t, testBuyer, entry.Owner)
	assert.Equal(t, "0", entry.Price)
	assert.Equal(t, "5JuBuyA", entry.TxHash)
}

func TestTradeMissingEntryDoesNotFailSubmission(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.ctrl.Run(context.Background(), tradeJob(t, "job-2", types.OperationSell, testSender, "sellParams", "7000000000"))
	require.NoError(t, err, "catalog divergence must not mask the submission result")
	assert.Equal(t, "5JuTest", res.TxHash)
}

func TestSinkFailureDoesNotFailSubmission(t *testing.T) {
	fx := newFixture(t)
	fx.sink.err = context.DeadlineExceeded

	res, err := fx.ctrl.Run(context.Background(), mintJob(t, "job-1"))
	require.NoError(t, err)
	assert.Equal(t, "5JuTest", res.TxHash)
}

func TestPrepareBuildsBundle(t *testing.T) {
	fx := newFixture(t)
	payload, err := json.Marshal(map[string]string{
		"name":        "asset",
		"publicKey":   testSender,
		"contentHash": testContentHash,
	})
	require.NoError(t, err)
	job := &Job{
		JobId:           "job-9",
		Operation:       types.OperationPrepare,
		Network:         types.NetworkDevnet,
		ContractAddress: ledger.Address(testContract),
		Transactions:    []string{string(payload)},
	}

	res, err := fx.ctrl.Run(context.Background(), job)
	require.NoError(t, err)
	require.NotNil(t, res.Bundle)
	assert.Empty(t, res.TxHash)

	assert.Equal(t, defaultMintFee, res.Bundle.Fee)
	assert.Equal(t, "mint asset", res.Bundle.Memo)
	require.NotNil(t, res.Bundle.Reservation)
	assert.Equal(t, "7mXReservation", res.Bundle.Reservation.Signature)

	// The reservation request carried the caller's identity.
	require.NotNil(t, fx.reserver.last)
	assert.Equal(t, "asset", fx.reserver.last.Name)
	assert.Equal(t, ledger.Address(testSender), fx.reserver.last.PublicKey)

	// The unsigned transaction uses the caller's current nonce and carries no
	// authorizations yet.
	tx := string(res.Bundle.Transaction)
	assert.Equal(t, testSender, gjson.Get(tx, "feePayer.sender").String())
	assert.Equal(t, int64(4), gjson.Get(tx, "feePayer.nonce").Int())
	assert.Equal(t, "", gjson.Get(tx, "accountUpdates.0.authorization.signature").String())

	// The serialized skeleton round-trips and the params blob decodes into
	// the reserved name and price.
	skel, err := ledger.DeserializeSkeleton(res.Bundle.SerializedTransaction)
	require.NoError(t, err)
	assert.Len(t, skel.AccountUpdates, 4)

	fields, err := ledger.DeserializeFields(res.Bundle.OperationParams)
	require.NoError(t, err)
	mp, err := ledger.MintParamsFromFields(fields)
	require.NoError(t, err)
	name, err := mp.Name.DecodeString()
	require.NoError(t, err)
	assert.Equal(t, "asset", name)
	assert.Equal(t, "5000000000", mp.Price.DecimalOrZero())
	assert.Equal(t, testContentHash, mp.ContentHash)
}

func TestPrepareRejectedReservation(t *testing.T) {
	fx := newFixture(t)
	fx.reserver.token = &reservation.Token{Name: "asset", Reason: "name already reserved"}

	job := prepareJob(t, "asset", testSender)
	_, err := fx.ctrl.Run(context.Background(), job)
	assert.ErrorIs(t, err, reservation.ErrRejected)
}

func TestPrepareInvalidToken(t *testing.T) {
	fx := newFixture(t)
	fx.reserver.token = &reservation.Token{Name: "asset", Signature: "7mX", Price: "5"} // no expiry

	_, err := fx.ctrl.Run(context.Background(), prepareJob(t, "asset", testSender))
	assert.ErrorIs(t, err, reservation.ErrInvalidToken)
}

func TestPrepareRejectsBadName(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.ctrl.Run(context.Background(), prepareJob(t, "not a valid name!", testSender))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Nil(t, fx.reserver.last, "reservation service was never called")
}

func prepareJob(t *testing.T, name, publicKey string) *Job {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"name":        name,
		"publicKey":   publicKey,
		"contentHash": testContentHash,
	})
	require.NoError(t, err)
	return &Job{
		JobId:           "job-9",
		Operation:       types.OperationPrepare,
		Network:         types.NetworkDevnet,
		ContractAddress: ledger.Address(testContract),
		Transactions:    []string{string(payload)},
	}
}

func seedApplied(t *testing.T, fx *fixture, owner, price string) {
	t.Helper()
	require.NoError(t, fx.store.CreateEntry(context.Background(), &catalog.Entry{
		Network:         types.NetworkDevnet,
		ContractAddress: testContract,
		Name:            "asset",
		Owner:           owner,
		Price:           price,
		Status:          types.StatusApplied,
		JobId:           "job-1",
		ContentHash:     testContentHash,
		TxHash:          "5JuMint",
	}))
}
