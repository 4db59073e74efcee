package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/safepaytest"
	"github.com/iov-one/safepay/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	h := safepaytest.PanicHandler{Msg: "boom"}
	r := NewRecovery()

	ctx := context.Background()
	db := store.MemStore()

	assert.Panics(t, func() { h.Check(ctx, db, nil) })
	assert.Panics(t, func() { h.Deliver(ctx, db, nil) })

	_, err := r.Check(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "boom")

	_, err = r.Deliver(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestRecoveryLogsPath(t *testing.T) {
	var buf bytes.Buffer
	ctx := safepay.WithLogger(context.Background(), log.NewTMLogger(&buf))
	tx := &safepaytest.Tx{Msg: &safepaytest.Msg{RoutePath: "escrow/cancel"}}

	_, err := NewRecovery().Deliver(ctx, store.MemStore(), tx, safepaytest.PanicHandler{Msg: "nil custody"})
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, buf.String(), "handler panic")
	assert.Contains(t, buf.String(), "escrow/cancel")
	assert.Contains(t, buf.String(), "nil custody")
}

func TestRecoveryPassesResults(t *testing.T) {
	h := &safepaytest.Handler{DeliverResult: safepay.DeliverResult{Log: "done"}}
	res, err := NewRecovery().Deliver(context.Background(), store.MemStore(), nil, h)
	assert.NoError(t, err)
	assert.Equal(t, "done", res.Log)

	h.DeliverErr = errors.ErrAmount
	_, err = NewRecovery().Deliver(context.Background(), store.MemStore(), nil, h)
	assert.True(t, errors.ErrAmount.Is(err))
}
