package safepaytest

import (
	"context"
	"fmt"

	"github.com/iov-one/safepay"
)

// Auth is a mock implementing x.Authenticator interface.
//
// It authenticates every condition listed in Signers, regardless of the
// context.
type Auth struct {
	Signers []safepay.Condition
}

// NewAuth returns an authenticator for given signers.
func NewAuth(signers ...safepay.Condition) *Auth {
	return &Auth{Signers: signers}
}

func (a *Auth) GetConditions(safepay.Context) []safepay.Condition {
	return a.Signers
}

func (a *Auth) HasAddress(ctx safepay.Context, addr safepay.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve conditions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx safepay.Context, conds ...safepay.Condition) safepay.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx safepay.Context) []safepay.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]safepay.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []safepay.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx safepay.Context, addr safepay.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
