package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Genesis file format.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState safepay.Options `json:"app_state"`
}

// LoadGenesis reads the genesis file at given path.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode genesis: %s", err)
	}
	if !safepay.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", gen.ChainID)
	}
	return &gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...safepay.Initializer) safepay.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []safepay.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts safepay.Options, kv safepay.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

// chainIDKey is where the chain id is persisted.
var chainIDKey = []byte("_i:chain_id")

func loadChainID(db safepay.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "chain id")
	}
	return string(raw), nil
}

func saveChainID(db safepay.KVStore, chainID string) error {
	if !safepay.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	return db.Set(chainIDKey, []byte(chainID))
}
