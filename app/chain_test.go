package app

import (
	"context"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/safepaytest"
	"github.com/iov-one/safepay/safepaytest/assert"
	"github.com/iov-one/safepay/store"
)

// recorder appends its name to a shared log before and after calling the
// next handler.
type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	*r.log = append(*r.log, r.name)
	res, err := next.Check(ctx, db, tx)
	*r.log = append(*r.log, "/"+r.name)
	return res, err
}

func (r *recorder) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	*r.log = append(*r.log, r.name)
	res, err := next.Deliver(ctx, db, tx)
	*r.log = append(*r.log, "/"+r.name)
	return res, err
}

func TestChainOrder(t *testing.T) {
	var calls []string
	var skipped *recorder

	h := &safepaytest.Handler{}
	stack := ChainDecorators(
		&recorder{name: "a", log: &calls},
		nil,
		skipped,
	).Chain(
		&recorder{name: "b", log: &calls},
	).WithHandler(h)

	ctx := context.Background()
	tx := &safepaytest.Tx{Msg: &safepaytest.Msg{RoutePath: "token/send"}}

	_, err := stack.Deliver(ctx, store.MemStore(), tx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "/b", "/a"}, calls)
	assert.Equal(t, 1, h.DeliverCallCount())

	calls = nil
	_, err = stack.Check(ctx, store.MemStore(), tx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "/b", "/a"}, calls)
	assert.Equal(t, 1, h.CheckCallCount())
}

func TestChainWithoutDecorators(t *testing.T) {
	h := &safepaytest.Handler{}
	stack := ChainDecorators().WithHandler(h)
	_, err := stack.Check(context.Background(), store.MemStore(), &safepaytest.Tx{})
	assert.Nil(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
}
