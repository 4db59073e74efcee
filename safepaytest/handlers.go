package safepaytest

import "github.com/iov-one/safepay"

// Handler is a mock implementation of the safepay.Handler interface that
// counts its calls and returns preconfigured results.
type Handler struct {
	checkCall   int
	CheckResult safepay.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult safepay.DeliverResult
	DeliverErr    error
}

var _ safepay.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int   { return h.checkCall }
func (h *Handler) DeliverCallCount() int { return h.deliverCall }
func (h *Handler) CallCount() int        { return h.checkCall + h.deliverCall }

// WriteHandler is a mock handler that writes a single key value pair to the
// store before returning Err.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ safepay.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &safepay.CheckResult{}, h.Err
}

func (h *WriteHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &safepay.DeliverResult{}, h.Err
}

// PanicHandler panics on every call.
type PanicHandler struct {
	Msg string
}

func (h PanicHandler) Check(safepay.Context, safepay.KVStore, safepay.Tx) (*safepay.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(safepay.Context, safepay.KVStore, safepay.Tx) (*safepay.DeliverResult, error) {
	panic(h.Msg)
}

// Decorate returns a handler that calls given decorator around the handler.
func Decorate(h safepay.Handler, d safepay.Decorator) safepay.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn safepay.Handler
	dc safepay.Decorator
}

func (d *decoratedHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
