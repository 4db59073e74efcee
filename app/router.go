package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// isPath is the format of all message paths: <extension>/<action>
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router allows us to register many handlers with different paths and
// dispatch every transaction to the handler of its message.
type Router struct {
	routes map[string]safepay.Handler
}

var _ safepay.Registry = (*Router)(nil)
var _ safepay.Handler = (*Router)(nil)

// NewRouter returns a new empty router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]safepay.Handler, 10),
	}
}

// Handle adds a new handler for given path. It panics if the path is not
// valid or already in use.
func (r *Router) Handle(path string, h safepay.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for given path, or an error if
// there is none.
func (r *Router) Handler(path string) (safepay.Handler, error) {
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", path)
	}
	return h, nil
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}

func (r *Router) route(tx safepay.Tx) (safepay.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no msg")
	}
	return r.Handler(msg.Path())
}
