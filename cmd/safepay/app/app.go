/*
Package app links together all the various components
to construct the safepay application.
*/
package app

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/x"
	"github.com/iov-one/safepay/x/escrow"
	"github.com/iov-one/safepay/x/sigs"
	"github.com/iov-one/safepay/x/token"
	"github.com/iov-one/safepay/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultProgram is the keyspace the escrow extension derives its
// addresses in.
var DefaultProgram = derive.NewKeyspace("escrow")

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		metrics,
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router with the token and escrow routes.
func Router(authFn x.Authenticator, program derive.Keyspace) *app.Router {
	r := app.NewRouter()
	tokens := token.NewController()
	token.RegisterRoutes(r, authFn, tokens)
	escrow.RegisterRoutes(r, authFn, tokens, program)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into the Application.
func Stack(metrics *utils.Metrics, program derive.Keyspace) safepay.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn, program))
}

// Initializers returns the genesis initializers of all extensions.
func Initializers(program derive.Keyspace) safepay.Initializer {
	return app.ChainInitializers(
		&token.Initializer{},
		&escrow.Initializer{Program: program},
	)
}

// NewApplication returns the safepay application over given store. A nil
// registerer keeps the metrics private to this application.
func NewApplication(store safepay.CacheableKVStore, logger log.Logger, reg prometheus.Registerer, debug bool) (*app.Application, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := utils.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	stack := Stack(metrics, DefaultProgram)
	return app.NewApplication(store, stack, Initializers(DefaultProgram), logger, debug)
}
