package escrow

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/errors"
)

const (
	stateTag  = "state"
	walletTag = "wallet"
)

// Identity is the tuple an escrow instance is derived from. The same
// identity always yields the same record and custody addresses.
type Identity struct {
	Sender   safepay.Address
	Receiver safepay.Address
	Asset    safepay.Address
	// InstanceKey is chosen by the sender to open several escrows with the
	// same parties and asset.
	InstanceKey uint64
}

// Validate returns an error if any of the addresses is not valid.
func (id Identity) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", id.Sender.Validate())
	errs = errors.AppendField(errs, "Receiver", id.Receiver.Validate())
	errs = errors.AppendField(errs, "Asset", id.Asset.Validate())
	return errs
}

// Seeds returns the derivation seeds of this identity for given tag.
func (id Identity) Seeds(tag string) [][]byte {
	return [][]byte{
		[]byte(tag),
		id.Sender,
		id.Receiver,
		id.Asset,
		derive.U64Seed(id.InstanceKey),
	}
}

// StateCredential returns the credential of the escrow record address. The
// record address owns the custody holding.
func (id Identity) StateCredential(program derive.Keyspace, bump uint8) (*derive.Credential, error) {
	return id.credential(program, stateTag, bump)
}

// WalletCredential returns the credential of the custody holding address.
func (id Identity) WalletCredential(program derive.Keyspace, bump uint8) (*derive.Credential, error) {
	return id.credential(program, walletTag, bump)
}

func (id Identity) credential(program derive.Keyspace, tag string, bump uint8) (*derive.Credential, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	cred, err := derive.NewCredential(program, id.Seeds(tag), bump)
	if err != nil {
		return nil, errors.Wrapf(ErrAuthorityMismatch, "%s credential: %s", tag, err)
	}
	return cred, nil
}

// FindBumps returns the canonical bumps of the record and the custody
// addresses.
func (id Identity) FindBumps(program derive.Keyspace) (stateBump, walletBump uint8, err error) {
	if err := id.Validate(); err != nil {
		return 0, 0, err
	}
	if _, stateBump, err = derive.FindAddress(program, id.Seeds(stateTag)); err != nil {
		return 0, 0, errors.Wrap(err, "state")
	}
	if _, walletBump, err = derive.FindAddress(program, id.Seeds(walletTag)); err != nil {
		return 0, 0, errors.Wrap(err, "wallet")
	}
	return stateBump, walletBump, nil
}

// EscrowRef is everything a client needs to address an escrow instance.
type EscrowRef struct {
	Identity
	StateBump  uint8
	WalletBump uint8
	// Record is the address of the escrow record.
	Record safepay.Address
	// Custody is the address of the custody holding.
	Custody safepay.Address
}

// NewEscrowRef computes the reference of the escrow of given identity,
// using the canonical bumps.
func NewEscrowRef(program derive.Keyspace, id Identity) (*EscrowRef, error) {
	stateBump, walletBump, err := id.FindBumps(program)
	if err != nil {
		return nil, err
	}
	state, err := id.StateCredential(program, stateBump)
	if err != nil {
		return nil, err
	}
	wallet, err := id.WalletCredential(program, walletBump)
	if err != nil {
		return nil, err
	}
	return &EscrowRef{
		Identity:   id,
		StateBump:  stateBump,
		WalletBump: walletBump,
		Record:     state.Address(),
		Custody:    wallet.Address(),
	}, nil
}

// OpenMsg returns the message opening this escrow.
func (r *EscrowRef) OpenMsg(source safepay.Address, amount uint64) *OpenMsg {
	return &OpenMsg{
		Sender:      r.Sender,
		Receiver:    r.Receiver,
		Asset:       r.Asset,
		InstanceKey: r.InstanceKey,
		StateBump:   uint32(r.StateBump),
		WalletBump:  uint32(r.WalletBump),
		Source:      source,
		Amount:      amount,
	}
}

// CompleteMsg returns the message releasing this escrow to the receiver.
func (r *EscrowRef) CompleteMsg() *CompleteMsg {
	return &CompleteMsg{
		Sender:      r.Sender,
		Receiver:    r.Receiver,
		Asset:       r.Asset,
		InstanceKey: r.InstanceKey,
		StateBump:   uint32(r.StateBump),
		WalletBump:  uint32(r.WalletBump),
	}
}

// CancelMsg returns the message refunding this escrow into given holding.
func (r *EscrowRef) CancelMsg(refundTo safepay.Address) *CancelMsg {
	return &CancelMsg{
		Sender:      r.Sender,
		Receiver:    r.Receiver,
		Asset:       r.Asset,
		InstanceKey: r.InstanceKey,
		StateBump:   uint32(r.StateBump),
		WalletBump:  uint32(r.WalletBump),
		RefundTo:    refundTo,
	}
}
