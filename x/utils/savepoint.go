package utils

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Savepoint isolates all writes done by the wrapped handler. They are
// written to the parent store only if the handler succeeds and discarded
// otherwise.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ safepay.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	cache, ok := s.cache(store, s.onCheck)
	if !ok {
		return next.Check(ctx, store, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	cache, ok := s.cache(store, s.onDeliver)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}

func (Savepoint) cache(store safepay.KVStore, enabled bool) (safepay.KVCacheWrap, bool) {
	if !enabled {
		return nil, false
	}
	cstore, ok := store.(safepay.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return cstore.CacheWrap(), true
}
