package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/orm"
)

// AccountSize is the number of bytes a holding occupies, used to price the
// storage allowance.
const AccountSize = 80

// maxDecimals limits the precision of an asset.
const maxDecimals = 18

// Mint describes a fungible asset. Mints are stored under the asset ID.
type Mint struct {
	// Authority is the address allowed to issue new tokens.
	Authority safepay.Address `protobuf:"bytes,1,opt,name=authority,proto3" json:"authority,omitempty"`
	Decimals  uint32          `protobuf:"varint,2,opt,name=decimals,proto3" json:"decimals,omitempty"`
	// Supply is the total amount issued so far.
	Supply uint64 `protobuf:"varint,3,opt,name=supply,proto3" json:"supply,omitempty"`
}

// Account is a holding of a single asset.
type Account struct {
	Mint  safepay.Address `protobuf:"bytes,1,opt,name=mint,proto3" json:"mint,omitempty"`
	Owner safepay.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	// Balance is the amount of the asset held.
	Balance uint64 `protobuf:"varint,3,opt,name=balance,proto3" json:"balance,omitempty"`
	// Reserve is the native storage allowance locked by this holding.
	Reserve uint64 `protobuf:"varint,4,opt,name=reserve,proto3" json:"reserve,omitempty"`
}

// Wallet keeps the native funds of an address, used to pay storage
// allowances.
type Wallet struct {
	Funds uint64 `protobuf:"varint,1,opt,name=funds,proto3" json:"funds,omitempty"`
}

type (
	mintWire    Mint
	accountWire Account
	walletWire  Wallet
)

func (m *mintWire) Reset()         { *m = mintWire{} }
func (m *mintWire) String() string { return proto.CompactTextString(m) }
func (*mintWire) ProtoMessage()    {}

func (m *accountWire) Reset()         { *m = accountWire{} }
func (m *accountWire) String() string { return proto.CompactTextString(m) }
func (*accountWire) ProtoMessage()    {}

func (m *walletWire) Reset()         { *m = walletWire{} }
func (m *walletWire) String() string { return proto.CompactTextString(m) }
func (*walletWire) ProtoMessage()    {}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Marshal() ([]byte, error)    { return proto.Marshal((*mintWire)(m)) }
func (m *Mint) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*mintWire)(m)) }

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	if m.Decimals > maxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.Wrapf(errors.ErrInput, "max %d", maxDecimals))
	}
	return errs
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Marshal() ([]byte, error)    { return proto.Marshal((*accountWire)(a)) }
func (a *Account) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*accountWire)(a)) }

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	return errs
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error)    { return proto.Marshal((*walletWire)(w)) }
func (w *Wallet) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*walletWire)(w)) }

// Validate always succeeds, any amount of funds is valid.
func (w *Wallet) Validate() error { return nil }

var (
	mints    = orm.NewModelBucket("mint", &Mint{})
	accounts = orm.NewModelBucket("account", &Account{})
	wallets  = orm.NewModelBucket("wallet", &Wallet{})
)

func loadAccount(db safepay.ReadOnlyKVStore, addr safepay.Address) (*Account, error) {
	var a Account
	if err := accounts.One(db, addr, &a); err != nil {
		return nil, errors.Wrapf(err, "holding %s", addr)
	}
	return &a, nil
}

func loadMint(db safepay.ReadOnlyKVStore, id safepay.Address) (*Mint, error) {
	var m Mint
	if err := mints.One(db, id, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", id)
	}
	return &m, nil
}

// loadWallet returns the wallet of given address. An address that was never
// funded has an empty wallet.
func loadWallet(db safepay.ReadOnlyKVStore, addr safepay.Address) (*Wallet, error) {
	var w Wallet
	switch err := wallets.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Query returns the holding stored under given address.
func Query(db safepay.ReadOnlyKVStore, addr safepay.Address) (*Account, error) {
	return loadAccount(db, addr)
}
