package sigs

import (
	"context"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x"
)

// signatureVerifyCost is the gas charged for every verified signature.
const signatureVerifyCost = 500

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ safepay.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator, which requires at
// least one signature to be present.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	ctx, signers, err := d.verify(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(signers * signatureVerifyCost)
	return res, nil
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	ctx, _, err := d.verify(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) verify(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx) (safepay.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		if d.allowMissingSigs {
			return ctx, 0, nil
		}
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "transaction cannot be signed")
	}
	signers, err := VerifyTxSignatures(store, stx, safepay.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}

type contextKey int // local to the sigs module

const contextKeySigners contextKey = iota

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx safepay.Context, signers []safepay.Condition) safepay.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gives access to the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (Authenticate) GetConditions(ctx safepay.Context) []safepay.Condition {
	val, _ := ctx.Value(contextKeySigners).([]safepay.Condition)
	return val
}

// HasAddress returns true if the address signed the current Context.
func (a Authenticate) HasAddress(ctx safepay.Context, addr safepay.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
