package x

import (
	"github.com/iov-one/safepay"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(safepay.Context) []safepay.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(safepay.Context, safepay.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx safepay.Context) []safepay.Condition {
	var res []safepay.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx safepay.Context, addr safepay.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// staticAuth authorizes a fixed set of conditions regardless of the context.
type staticAuth []safepay.Condition

// SignedBy returns an Authenticator that authorizes exactly the given
// conditions. Extensions use it to act with the authority of a program
// derived address when calling another extension.
func SignedBy(conds ...safepay.Condition) Authenticator {
	return staticAuth(conds)
}

func (s staticAuth) GetConditions(safepay.Context) []safepay.Condition {
	return s
}

func (s staticAuth) HasAddress(_ safepay.Context, addr safepay.Address) bool {
	for _, c := range s {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx safepay.Context, auth Authenticator) []safepay.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]safepay.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil
func MainSigner(ctx safepay.Context, auth Authenticator) safepay.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx safepay.Context, auth Authenticator, required []safepay.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in required are
// also in context.
func HasNAddresses(ctx safepay.Context, auth Authenticator, required []safepay.Address, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}
