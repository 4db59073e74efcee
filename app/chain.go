package app

import (
	"reflect"

	"github.com/iov-one/safepay"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []safepay.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewRecovery(),
    utils.NewLogging(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(
    router,
  )
*/
func ChainDecorators(chain ...safepay.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...safepay.Decorator) Decorators {
	newChain := make([]safepay.Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	newChain = append(newChain, cutoffNil(chain)...)
	return Decorators{newChain}
}

// cutoffNil returns given decorators without the nil values.
func cutoffNil(ds []safepay.Decorator) []safepay.Decorator {
	res := make([]safepay.Decorator, 0, len(ds))
	for _, d := range ds {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		res = append(res, d)
	}
	return res
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h safepay.Handler) safepay.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    safepay.Decorator
	next safepay.Handler
}

var _ safepay.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx safepay.Context, store safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
