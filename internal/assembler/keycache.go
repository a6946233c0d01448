package assembler

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// VerificationKey is an opaque compiled-circuit artifact. Only the hash is
// inspected here; proof generation consumes the data.
type VerificationKey struct {
	Hash string `json:"hash"`
	Data string `json:"data"`
}

// Compiler produces verification keys for the named circuits. Compilation is
// expensive (tens of seconds) and delegated.
type Compiler interface {
	Compile(ctx context.Context, circuit string) (*VerificationKey, error)
}

const (
	// TokenCircuit proves individual asset state transitions.
	TokenCircuit = "token"
	// MarketCircuit proves marketplace contract calls (mint, sell, buy).
	MarketCircuit = "market"
)

// Hashes of the verification keys this worker release was built against.
// A freshly compiled key with any other hash means the local circuit cache or
// the contract sources drifted.
const (
	ExpectedTokenKeyHash  = "5843895878069081750289541700770838249968925061976534515154469994302266268813"
	ExpectedMarketKeyHash = "24139975270662303786797749945629266860678147620070374852317783168915794368251"
)

// KeyCache holds the process-wide compiled verification keys. Populated once
// per process lifetime; every assemble call shares the same artifacts. The
// once guard also serializes two simultaneous first compilations.
type KeyCache struct {
	once     sync.Once
	token    *VerificationKey
	market   *VerificationKey
	err      error
	degraded atomic.Bool
}

func NewKeyCache() *KeyCache {
	return &KeyCache{}
}

// Ensure compiles both circuits on first use and verifies the key hashes.
// Any failure here, mismatch included, is terminal for the process: the error
// is cached, Degraded flips, and every later call fails the same way. The
// readiness endpoint reports the degraded state so the deployment restarts
// the worker; nothing in-process ever clears it.
func (kc *KeyCache) Ensure(ctx context.Context, compiler Compiler) error {
	kc.once.Do(func() {
		token, err := compiler.Compile(ctx, TokenCircuit)
		if err != nil {
			kc.fail(ErrEnvironmentInconsistency.MsgErr("token circuit compilation failed", err))
			return
		}
		if token.Hash != ExpectedTokenKeyHash {
			log.Ctx(ctx).Error().
				Str("got", token.Hash).
				Str("want", ExpectedTokenKeyHash).
				Msg("token verification key mismatch")
			kc.fail(ErrEnvironmentInconsistency.Msg("token verification key hash mismatch"))
			return
		}
		market, err := compiler.Compile(ctx, MarketCircuit)
		if err != nil {
			kc.fail(ErrEnvironmentInconsistency.MsgErr("market circuit compilation failed", err))
			return
		}
		if market.Hash != ExpectedMarketKeyHash {
			log.Ctx(ctx).Error().
				Str("got", market.Hash).
				Str("want", ExpectedMarketKeyHash).
				Msg("market verification key mismatch")
			kc.fail(ErrEnvironmentInconsistency.Msg("market verification key hash mismatch"))
			return
		}
		kc.token = token
		kc.market = market
	})
	return kc.err
}

func (kc *KeyCache) fail(err error) {
	kc.err = err
	kc.degraded.Store(true)
}

// Degraded reports whether circuit setup failed terminally. A degraded cache
// never recovers in-process; a restart is the only way back to serving.
func (kc *KeyCache) Degraded() bool {
	return kc.degraded.Load()
}
