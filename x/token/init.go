package token

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/gconf"
)

// Initializer fulfils the Initializer interface to load the token state from
// genesis.
type Initializer struct{}

var _ safepay.Initializer = (*Initializer)(nil)

type genesisMint struct {
	ID        safepay.Address `json:"id"`
	Authority safepay.Address `json:"authority"`
	Decimals  uint32          `json:"decimals"`
}

type genesisWallet struct {
	Address safepay.Address `json:"address"`
	Funds   uint64          `json:"funds"`
}

type genesisHolding struct {
	Owner  safepay.Address `json:"owner"`
	Mint   safepay.Address `json:"mint"`
	Amount uint64          `json:"amount"`
}

type genesis struct {
	Mints    []genesisMint    `json:"mints"`
	Wallets  []genesisWallet  `json:"wallets"`
	Holdings []genesisHolding `json:"holdings"`
}

// FromGenesis stores the configuration, mints, wallets and associated
// holdings declared in the genesis file. Genesis holdings lock no storage
// allowance.
func (*Initializer) FromGenesis(opts safepay.Options, db safepay.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, PackageName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var gen genesis
	if err := opts.ReadOptions(PackageName, &gen); err != nil {
		return err
	}

	for i, m := range gen.Mints {
		if err := m.ID.Validate(); err != nil {
			return errors.Wrapf(err, "mint #%d id", i)
		}
		mint := Mint{Authority: m.Authority, Decimals: m.Decimals}
		if err := mints.Create(db, m.ID, &mint); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
	}

	control := controller{}
	for i, w := range gen.Wallets {
		if err := control.Fund(db, w.Address, w.Funds); err != nil {
			return errors.Wrapf(err, "wallet #%d", i)
		}
	}

	noReserve := conf
	noReserve.ReserveBase, noReserve.ReservePerByte = 0, 0
	for i, h := range gen.Holdings {
		addr, err := associatedAddress(&conf, h.Owner, h.Mint)
		if err != nil {
			return errors.Wrapf(err, "holding #%d", i)
		}
		if err := createAccount(db, &noReserve, h.Owner, addr, h.Mint, h.Owner); err != nil {
			return errors.Wrapf(err, "holding #%d", i)
		}
		if err := control.MintTo(db, h.Mint, addr, h.Amount); err != nil {
			return errors.Wrapf(err, "holding #%d", i)
		}
	}
	return nil
}
