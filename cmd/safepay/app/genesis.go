package app

import (
	"encoding/json"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/errors"
)

// AssetID returns the mint address of an asset known by its ticker.
func AssetID(ticker string) safepay.Address {
	return safepay.NewCondition("asset", "name", []byte(ticker)).Address()
}

// DevGenesis produces a genesis for local use: a single asset minted by the
// owner, with a funded wallet and a holding of the asset for every account.
func DevGenesis(chainID, ticker string, owner safepay.Address, accounts []safepay.Address, funds, balance uint64) (*app.Genesis, error) {
	if !safepay.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	asset := AssetID(ticker)

	type entry = map[string]interface{}
	var wallets, holdings []entry
	for _, a := range accounts {
		wallets = append(wallets, entry{"address": a, "funds": funds})
		holdings = append(holdings, entry{"owner": a, "mint": asset, "amount": balance})
	}
	state := entry{
		"conf": entry{
			"token":  entry{"reserve_base": 100, "reserve_per_byte": 1, "program": "token"},
			"escrow": entry{"program": DefaultProgram.Name()},
		},
		"token": entry{
			"mints":    []entry{{"id": asset, "authority": owner, "decimals": 6}},
			"wallets":  wallets,
			"holdings": holdings,
		},
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var opts safepay.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &app.Genesis{ChainID: chainID, AppState: opts}, nil
}
