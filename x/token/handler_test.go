package token

import (
	"context"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/safepaytest"
	"github.com/iov-one/safepay/safepaytest/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHandler(t *testing.T) {
	alice := safepaytest.NewCondition()
	bob := safepaytest.NewCondition()

	cases := map[string]struct {
		signer         safepay.Condition
		amount         uint64
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
	}{
		"success": {
			signer: alice,
			amount: 40,
		},
		"not signed by the owner": {
			signer:         bob,
			amount:         40,
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"invalid amount": {
			signer:         alice,
			amount:         0,
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
		},
		"too much": {
			signer:         alice,
			amount:         1000,
			wantDeliverErr: errors.ErrInsufficientAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, mint := ledger(t)
			from := holding(t, db, alice.Address(), mint, 100)
			to := holding(t, db, bob.Address(), mint, 0)

			auth := &safepaytest.CtxAuth{Key: "auth"}
			ctx := auth.SetConditions(context.Background(), tc.signer)
			h := NewSendHandler(auth, NewController())
			tx := &safepaytest.Tx{Msg: &SendMsg{From: from, To: to, Amount: tc.amount}}

			cache := db.CacheWrap()
			res, err := h.Check(ctx, cache, tx)
			cache.Discard()
			assert.IsErr(t, tc.wantCheckErr, err)
			if tc.wantCheckErr == nil {
				assert.Equal(t, int64(sendCost), res.GasAllocated)
			}

			_, err = h.Deliver(ctx, db, tx)
			assert.IsErr(t, tc.wantDeliverErr, err)
			if tc.wantDeliverErr == nil {
				b, err := NewController().Balance(db, to)
				require.NoError(t, err)
				assert.Equal(t, tc.amount, b)
			}
		})
	}
}

func TestCreateHoldingHandler(t *testing.T) {
	payer := safepaytest.NewCondition()
	owner := safepaytest.NewCondition().Address()

	db, mint := ledger(t)
	c := NewController()
	require.NoError(t, c.Fund(db, payer.Address(), testReserve))

	auth := &safepaytest.CtxAuth{Key: "auth"}
	h := NewCreateHoldingHandler(auth, c)
	tx := &safepaytest.Tx{Msg: &CreateHoldingMsg{Owner: owner, Mint: mint}}

	_, err := h.Check(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	ctx := auth.SetConditions(context.Background(), payer)
	res, err := h.Check(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, int64(createHoldingCost), res.GasAllocated)

	dres, err := h.Deliver(ctx, db, tx)
	require.NoError(t, err)
	want, err := c.AssociatedAddress(db, owner, mint)
	require.NoError(t, err)
	assert.Equal(t, []byte(want), dres.Data)

	funds, err := c.Funds(db, payer.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), funds)
}

func TestMsgValidate(t *testing.T) {
	addr := safepaytest.NewCondition().Address()

	assert.Nil(t, (&SendMsg{From: addr, To: addr, Amount: 1}).Validate())
	err := (&SendMsg{From: addr, Amount: 0}).Validate()
	assert.FieldError(t, err, "To", errors.ErrEmpty)
	assert.FieldError(t, err, "Amount", errors.ErrAmount)
	assert.FieldError(t, err, "From", nil)

	assert.Nil(t, (&CreateHoldingMsg{Owner: addr, Mint: addr}).Validate())
	assert.FieldError(t, (&CreateHoldingMsg{Owner: addr, Mint: addr[:3]}).Validate(), "Mint", errors.ErrInput)
}

func TestSendMsgSerialization(t *testing.T) {
	msg := SendMsg{
		From:   safepaytest.NewCondition().Address(),
		To:     safepaytest.NewCondition().Address(),
		Amount: 1234,
	}
	raw, err := msg.Marshal()
	require.NoError(t, err)

	var got SendMsg
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, msg, got)
}
