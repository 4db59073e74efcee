package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/safepaytest"
	"github.com/iov-one/safepay/safepaytest/assert"
	"github.com/iov-one/safepay/x"
)

func TestAuth(t *testing.T) {
	a := safepaytest.NewCondition()
	b := safepaytest.NewCondition()
	c := safepaytest.NewCondition()

	ctx1 := &safepaytest.CtxAuth{Key: "foo"}
	ctx2 := &safepaytest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          safepay.Context
		auth         x.Authenticator
		mainSigner   safepay.Condition
		wantInCtx    safepay.Condition
		wantNotInCtx safepay.Condition
		wantAll      []safepay.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &safepaytest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         safepaytest.NewAuth(a),
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []safepay.Condition{a},
		},
		"chained": {
			ctx: context.Background(),
			auth: x.ChainAuth(
				safepaytest.NewAuth(b),
				safepaytest.NewAuth(a)),
			mainSigner:   b,
			wantInCtx:    a,
			wantNotInCtx: c,
			wantAll:      []safepay.Condition{b, a},
		},
		"signed by": {
			ctx:          context.Background(),
			auth:         x.SignedBy(c, a),
			mainSigner:   c,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []safepay.Condition{c, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []safepay.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, x.MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition address that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("condition address that was expected not to be in context found")
			}

			all := tc.auth.GetConditions(tc.ctx)
			if len(tc.wantAll) != 0 || len(all) != 0 {
				assert.Equal(t, tc.wantAll, all)
			}

			addrs := x.GetAddresses(tc.ctx, tc.auth)
			if !x.HasAllAddresses(tc.ctx, tc.auth, addrs) {
				t.Fatal("not all addresses found")
			}
			if !x.HasNAddresses(tc.ctx, tc.auth, addrs, len(addrs)) {
				t.Fatal("not all addresses found")
			}
			if tc.wantNotInCtx != nil {
				missing := append(addrs, tc.wantNotInCtx.Address())
				if x.HasAllAddresses(tc.ctx, tc.auth, missing) {
					t.Fatal("missing address must not be found")
				}
				if x.HasNAddresses(tc.ctx, tc.auth, missing, len(missing)) {
					t.Fatal("missing address must not be counted")
				}
			}
		})
	}
}
