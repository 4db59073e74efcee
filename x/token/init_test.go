package token

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/gconf"
	"github.com/iov-one/safepay/safepaytest"
	"github.com/iov-one/safepay/safepaytest/assert"
	"github.com/iov-one/safepay/store"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"conf": {
			"token": {"reserve_base": 5, "reserve_per_byte": 1, "program": "token"}
		},
		"token": {
			"mints": [
				{"id": "cond:asset/name/55534443", "authority": "cond:test/auth/01", "decimals": 6}
			],
			"wallets": [
				{"address": "cond:sigs/ed25519/AA", "funds": 1000}
			],
			"holdings": [
				{"owner": "cond:sigs/ed25519/AA", "mint": "cond:asset/name/55534443", "amount": 250}
			]
		}
	}`
	var opts safepay.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	var conf Configuration
	require.NoError(t, gconf.Load(db, PackageName, &conf))
	assert.Equal(t, uint64(5+AccountSize), conf.Reserve())

	owner := safepay.NewCondition("sigs", "ed25519", []byte{0xAA}).Address()
	mint := safepay.NewCondition("asset", "name", []byte("USDC")).Address()
	c := NewController()

	funds, err := c.Funds(db, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), funds)

	addr, err := c.AssociatedAddress(db, owner, mint)
	require.NoError(t, err)
	acc, err := c.Account(db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), acc.Balance)
	assert.Equal(t, uint64(0), acc.Reserve)

	m, err := c.Mint(db, mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), m.Supply)
	assert.Equal(t, uint32(6), m.Decimals)
}

func TestGenesisRequiresConfiguration(t *testing.T) {
	db := store.MemStore()
	var ini Initializer
	err := ini.FromGenesis(safepay.Options{}, db)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestGenesisDuplicatedMint(t *testing.T) {
	mint := safepaytest.NewCondition().Address()
	raw, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"token": map[string]interface{}{"program": "token"},
		},
		"token": map[string]interface{}{
			"mints": []interface{}{
				map[string]interface{}{"id": mint, "authority": mint},
				map[string]interface{}{"id": mint, "authority": mint},
			},
		},
	})
	require.NoError(t, err)
	var opts safepay.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	var ini Initializer
	err = ini.FromGenesis(opts, store.MemStore())
	assert.IsErr(t, errors.ErrDuplicate, err)
}
