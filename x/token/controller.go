package token

import (
	"math"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x"
)

// Controller is the ledger API other extensions use to move assets.
type Controller interface {
	// CreateAccount opens a new holding of mint at addr, controlled by
	// owner. Both the payer and the holding address must authorize it.
	// The storage allowance is taken from the payer wallet.
	CreateAccount(ctx safepay.Context, db safepay.KVStore, auth x.Authenticator, payer, addr, mint, owner safepay.Address) error

	// Transfer moves amount between two holdings of the same mint. The
	// owner of the source holding must authorize it. Moving zero is a
	// no-op.
	Transfer(ctx safepay.Context, db safepay.KVStore, auth x.Authenticator, from, to safepay.Address, amount uint64) error

	// CloseAccount removes an empty holding and returns its storage
	// allowance to the refundTo wallet. The amount reclaimed is returned.
	CloseAccount(ctx safepay.Context, db safepay.KVStore, auth x.Authenticator, addr, refundTo safepay.Address) (uint64, error)

	// ProvisionHolding ensures the associated holding of owner for mint
	// exists, creating it at the cost of the payer when needed. The
	// address of the holding is returned.
	ProvisionHolding(ctx safepay.Context, db safepay.KVStore, auth x.Authenticator, payer, owner, mint safepay.Address) (safepay.Address, error)

	// AssociatedAddress returns the address of the associated holding of
	// owner for mint.
	AssociatedAddress(db safepay.ReadOnlyKVStore, owner, mint safepay.Address) (safepay.Address, error)

	Account(db safepay.ReadOnlyKVStore, addr safepay.Address) (*Account, error)
	Balance(db safepay.ReadOnlyKVStore, addr safepay.Address) (uint64, error)
	Mint(db safepay.ReadOnlyKVStore, id safepay.Address) (*Mint, error)
	Funds(db safepay.ReadOnlyKVStore, addr safepay.Address) (uint64, error)

	// MintTo issues new tokens into an existing holding.
	MintTo(db safepay.KVStore, mint, to safepay.Address, amount uint64) error

	// Fund adds native funds to a wallet.
	Fund(db safepay.KVStore, addr safepay.Address, amount uint64) error
}

// NewController returns the ledger controller. All parameters are loaded
// from the token configuration stored in the database.
func NewController() Controller {
	return controller{}
}

type controller struct{}

var _ Controller = controller{}

func (controller) CreateAccount(ctx safepay.Context, db safepay.KVStore, auth x.Authenticator, payer, addr, mint, owner safepay.Address) error {
	if !auth.HasAddress(ctx, payer) {
		return errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrap(errors.ErrUnauthorized, "holding address signature missing")
	}
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	return createAccount(db, conf, payer, addr, mint, owner)
}

func createAccount(db safepay.KVStore, conf *Configuration, payer, addr, mint, owner safepay.Address) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if _, err := loadMint(db, mint); err != nil {
		return err
	}
	switch ok, err := accounts.Has(db, addr); {
	case err != nil:
		return errors.Wrap(err, "holding")
	case ok:
		return errors.Wrapf(errors.ErrDuplicate, "holding %s", addr)
	}

	reserve := conf.Reserve()
	if err := debit(db, payer, reserve); err != nil {
		return errors.Wrap(err, "storage allowance")
	}
	acc := Account{
		Mint:    mint,
		Owner:   owner,
		Reserve: reserve,
	}
	if err := accounts.Create(db, addr, &acc); err != nil {
		return errors.Wrap(err, "create holding")
	}
	return nil
}

func (controller) Transfer(ctx safepay.Context, db safepay.KVStore, auth x.Authenticator, from, to safepay.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	src, err := loadAccount(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := loadAccount(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(errors.ErrCurrency, "cannot move %s tokens into %s holding", src.Mint, dst.Mint)
	}
	if !auth.HasAddress(ctx, src.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "source owner signature missing")
	}
	if src.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", src.Balance, amount)
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	src.Balance -= amount
	dst.Balance += amount
	if err := accounts.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := accounts.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (controller) CloseAccount(ctx safepay.Context, db safepay.KVStore, auth x.Authenticator, addr, refundTo safepay.Address) (uint64, error) {
	acc, err := loadAccount(db, addr)
	if err != nil {
		return 0, err
	}
	if !auth.HasAddress(ctx, acc.Owner) {
		return 0, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	if acc.Balance != 0 {
		return 0, errors.Wrapf(errors.ErrState, "holding not empty: %d", acc.Balance)
	}
	if err := credit(db, refundTo, acc.Reserve); err != nil {
		return 0, errors.Wrap(err, "reclaim storage allowance")
	}
	if err := accounts.Delete(db, addr); err != nil {
		return 0, errors.Wrap(err, "delete holding")
	}
	return acc.Reserve, nil
}

func (controller) ProvisionHolding(ctx safepay.Context, db safepay.KVStore, auth x.Authenticator, payer, owner, mint safepay.Address) (safepay.Address, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	addr, err := associatedAddress(conf, owner, mint)
	if err != nil {
		return nil, err
	}
	switch acc, err := loadAccount(db, addr); {
	case err == nil:
		if !acc.Owner.Equals(owner) || !acc.Mint.Equals(mint) {
			return nil, errors.Wrapf(errors.ErrState, "holding %s does not belong to %s", addr, owner)
		}
		return addr, nil
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	if !auth.HasAddress(ctx, payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	// The token program is the authority of all associated addresses.
	if err := createAccount(db, conf, payer, addr, mint, owner); err != nil {
		return nil, err
	}
	return addr, nil
}

func (controller) AssociatedAddress(db safepay.ReadOnlyKVStore, owner, mint safepay.Address) (safepay.Address, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	return associatedAddress(conf, owner, mint)
}

func associatedAddress(conf *Configuration, owner, mint safepay.Address) (safepay.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if err := mint.Validate(); err != nil {
		return nil, errors.Wrap(err, "mint")
	}
	addr, _, err := derive.FindAddress(conf.Keyspace(), [][]byte{owner, mint})
	if err != nil {
		return nil, errors.Wrap(err, "associated address")
	}
	return addr, nil
}

func (controller) Account(db safepay.ReadOnlyKVStore, addr safepay.Address) (*Account, error) {
	return loadAccount(db, addr)
}

func (controller) Balance(db safepay.ReadOnlyKVStore, addr safepay.Address) (uint64, error) {
	acc, err := loadAccount(db, addr)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (controller) Mint(db safepay.ReadOnlyKVStore, id safepay.Address) (*Mint, error) {
	return loadMint(db, id)
}

func (controller) Funds(db safepay.ReadOnlyKVStore, addr safepay.Address) (uint64, error) {
	w, err := loadWallet(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Funds, nil
}

func (controller) MintTo(db safepay.KVStore, mint, to safepay.Address, amount uint64) error {
	m, err := loadMint(db, mint)
	if err != nil {
		return err
	}
	acc, err := loadAccount(db, to)
	if err != nil {
		return err
	}
	if !acc.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrCurrency, "holding of %s", acc.Mint)
	}
	if m.Supply > math.MaxUint64-amount || acc.Balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	acc.Balance += amount
	if err := mints.Put(db, mint, m); err != nil {
		return errors.Wrap(err, "save mint")
	}
	if err := accounts.Put(db, to, acc); err != nil {
		return errors.Wrap(err, "save holding")
	}
	return nil
}

func (controller) Fund(db safepay.KVStore, addr safepay.Address, amount uint64) error {
	return credit(db, addr, amount)
}

func credit(db safepay.KVStore, addr safepay.Address, amount uint64) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "wallet")
	}
	w, err := loadWallet(db, addr)
	if err != nil {
		return err
	}
	if w.Funds > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "wallet funds")
	}
	w.Funds += amount
	return wallets.Put(db, addr, w)
}

func debit(db safepay.KVStore, addr safepay.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	w, err := loadWallet(db, addr)
	if err != nil {
		return err
	}
	if w.Funds < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "funds %d, required %d", w.Funds, amount)
	}
	w.Funds -= amount
	return wallets.Put(db, addr, w)
}
