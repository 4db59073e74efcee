package app

import (
	"sync"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Application executes transactions against a store.
//
// Transactions are executed one at a time. Each runs in its own cache over
// the store: a checked transaction is always discarded, a delivered one is
// written only if the handler succeeded.
type Application struct {
	mu          sync.Mutex
	store       safepay.CacheableKVStore
	handler     safepay.Handler
	initializer safepay.Initializer
	logger      log.Logger
	chainID     string
	debug       bool
}

// NewApplication returns an application over given store. If the store was
// already initialized, the chain id is loaded from it.
func NewApplication(
	store safepay.CacheableKVStore,
	handler safepay.Handler,
	initializer safepay.Initializer,
	logger log.Logger,
	debug bool,
) (*Application, error) {
	if logger == nil {
		logger = safepay.DefaultLogger
	}
	chainID, err := loadChainID(store)
	if err != nil {
		return nil, err
	}
	return &Application{
		store:       store,
		handler:     handler,
		initializer: initializer,
		logger:      logger,
		chainID:     chainID,
		debug:       debug,
	}, nil
}

// InitChain loads the genesis state. It can be called only once per store.
func (a *Application) InitChain(gen *Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q already initialized", a.chainID)
	}

	cache := a.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if a.initializer != nil {
		if err := a.initializer.FromGenesis(gen.AppState, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	a.chainID = gen.ChainID
	a.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// ChainID returns the id of the chain, empty until initialized.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// CheckTx validates the transaction without changing the state.
func (a *Application) CheckTx(ctx safepay.Context, tx safepay.Tx) (*safepay.CheckResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, err := a.context(ctx, "check_tx", tx)
	if err != nil {
		return nil, err
	}
	cache := a.store.CacheWrap()
	defer cache.Discard()

	res, err := a.handler.Check(ctx, cache, tx)
	if err != nil {
		return nil, errors.Redact(err, a.debug)
	}
	return res, nil
}

// DeliverTx executes the transaction. The state changes only when the
// transaction succeeds.
func (a *Application) DeliverTx(ctx safepay.Context, tx safepay.Tx) (*safepay.DeliverResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, err := a.context(ctx, "deliver_tx", tx)
	if err != nil {
		return nil, err
	}
	cache := a.store.CacheWrap()
	res, err := a.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, errors.Redact(err, a.debug)
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return res, nil
}

// Store gives read access to the committed state.
func (a *Application) Store() safepay.ReadOnlyKVStore {
	return a.store
}

func (a *Application) context(parent safepay.Context, call string, tx safepay.Tx) (safepay.Context, error) {
	if a.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	ctx := safepay.WithChainID(parent, a.chainID)
	ctx = safepay.WithLogger(ctx, a.logger)
	ctx = safepay.WithLogInfo(ctx, "call", call, "path", safepay.GetPath(tx))
	return ctx, nil
}
