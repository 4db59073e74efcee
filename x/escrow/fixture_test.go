package escrow

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/safepaytest"
	"github.com/iov-one/safepay/store"
	"github.com/iov-one/safepay/x/token"
	"github.com/stretchr/testify/require"
)

const (
	initialFunds   = 10000
	initialBalance = 1000
	reserve        = 100 + token.AccountSize
)

var (
	usdc = safepay.NewCondition("asset", "name", []byte("USDC")).Address()
	eurc = safepay.NewCondition("asset", "name", []byte("EURC")).Address()
)

// fixture is a ledger with two parties holding USDC, ready to be used by
// the escrow handlers.
type fixture struct {
	db      safepay.CacheableKVStore
	program derive.Keyspace
	tokens  token.Controller
	auth    *safepaytest.CtxAuth

	alice, bob, carol safepay.Condition
	// aliceUSDC, aliceEURC and bobUSDC are the associated holdings.
	aliceUSDC, aliceEURC, bobUSDC safepay.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:      store.MemStore(),
		program: derive.NewKeyspace("escrow"),
		tokens:  token.NewController(),
		auth:    &safepaytest.CtxAuth{Key: "auth"},
		alice:   safepaytest.NewCondition(),
		bob:     safepaytest.NewCondition(),
		carol:   safepaytest.NewCondition(),
	}
	authority := safepaytest.NewCondition().Address()
	raw, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"token":  map[string]interface{}{"reserve_base": 100, "reserve_per_byte": 1, "program": "token"},
			"escrow": map[string]interface{}{"program": "escrow"},
		},
		"token": map[string]interface{}{
			"mints": []interface{}{
				map[string]interface{}{"id": usdc, "authority": authority, "decimals": 6},
				map[string]interface{}{"id": eurc, "authority": authority, "decimals": 6},
			},
			"wallets": []interface{}{
				map[string]interface{}{"address": f.alice.Address(), "funds": initialFunds},
				map[string]interface{}{"address": f.bob.Address(), "funds": initialFunds},
			},
			"holdings": []interface{}{
				map[string]interface{}{"owner": f.alice.Address(), "mint": usdc, "amount": initialBalance},
				map[string]interface{}{"owner": f.alice.Address(), "mint": eurc, "amount": initialBalance},
				map[string]interface{}{"owner": f.bob.Address(), "mint": eurc, "amount": 0},
			},
		},
	})
	require.NoError(t, err)
	var opts safepay.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	require.NoError(t, (&token.Initializer{}).FromGenesis(opts, f.db))
	require.NoError(t, (&Initializer{Program: f.program}).FromGenesis(opts, f.db))

	f.aliceUSDC, err = f.tokens.AssociatedAddress(f.db, f.alice.Address(), usdc)
	require.NoError(t, err)
	f.aliceEURC, err = f.tokens.AssociatedAddress(f.db, f.alice.Address(), eurc)
	require.NoError(t, err)
	f.bobUSDC, err = f.tokens.AssociatedAddress(f.db, f.bob.Address(), usdc)
	require.NoError(t, err)
	return f
}

func (f *fixture) ref(t testing.TB, instanceKey uint64) *EscrowRef {
	t.Helper()
	ref, err := NewEscrowRef(f.program, Identity{
		Sender:      f.alice.Address(),
		Receiver:    f.bob.Address(),
		Asset:       usdc,
		InstanceKey: instanceKey,
	})
	require.NoError(t, err)
	return ref
}

func (f *fixture) handler(msg safepay.Msg) safepay.Handler {
	switch msg.(type) {
	case *OpenMsg:
		return OpenHandler{auth: f.auth, tokens: f.tokens, program: f.program}
	case *CompleteMsg:
		return CompleteHandler{auth: f.auth, tokens: f.tokens, program: f.program}
	case *CancelMsg:
		return CancelHandler{auth: f.auth, tokens: f.tokens, program: f.program}
	default:
		panic("unknown message")
	}
}

// exec runs the message the way the application does: check on a discarded
// cache, then deliver on a cache that is written only on success.
func (f *fixture) exec(t testing.TB, signer safepay.Condition, msg safepay.Msg) (*safepay.DeliverResult, error) {
	t.Helper()
	ctx := context.Background()
	if signer != nil {
		ctx = f.auth.SetConditions(ctx, signer)
	}
	h := f.handler(msg)
	tx := &safepaytest.Tx{Msg: msg}

	check := f.db.CacheWrap()
	_, err := h.Check(ctx, check, tx)
	check.Discard()
	if err != nil {
		return nil, err
	}

	deliver := f.db.CacheWrap()
	res, err := h.Deliver(ctx, deliver, tx)
	if err != nil {
		deliver.Discard()
		return nil, err
	}
	require.NoError(t, deliver.Write())
	return res, nil
}

func (f *fixture) balance(t testing.TB, holding safepay.Address) uint64 {
	t.Helper()
	b, err := f.tokens.Balance(f.db, holding)
	require.NoError(t, err)
	return b
}

func (f *fixture) funds(t testing.TB, addr safepay.Address) uint64 {
	t.Helper()
	n, err := f.tokens.Funds(f.db, addr)
	require.NoError(t, err)
	return n
}

func (f *fixture) record(t testing.TB, ref *EscrowRef) *Escrow {
	t.Helper()
	rec, err := Query(f.db, ref.Record)
	require.NoError(t, err)
	return rec
}

// nonCanonicalBump returns a valid bump lower than the canonical one.
func nonCanonicalBump(t testing.TB, program derive.Keyspace, seeds [][]byte, canonical uint8) uint8 {
	t.Helper()
	for b := int(canonical) - 1; b >= 0; b-- {
		if _, err := derive.CreateAddress(program, seeds, uint8(b)); err == nil {
			return uint8(b)
		}
	}
	t.Fatal("no other valid bump")
	return 0
}
