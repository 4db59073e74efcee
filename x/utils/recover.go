package utils

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Recovery turns a panic raised further down the stack into an ErrPanic
// error and logs it together with the message path.
type Recovery struct{}

var _ safepay.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Checker) (res *safepay.CheckResult, err error) {
	defer catchPanic(ctx, tx, &err)
	res, err = next.Check(ctx, store, tx)
	return res, err
}

func (Recovery) Deliver(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (res *safepay.DeliverResult, err error) {
	defer catchPanic(ctx, tx, &err)
	res, err = next.Deliver(ctx, store, tx)
	return res, err
}

// catchPanic must be deferred directly, recover has no effect otherwise.
func catchPanic(ctx safepay.Context, tx safepay.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	path := "(missing)"
	if tx != nil {
		path = safepay.GetPath(tx)
	}
	safepay.GetLogger(ctx).Error("handler panic", "path", path, "panic", r)
}
