package escrow

import (
	"encoding/binary"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x"
	"github.com/iov-one/safepay/x/token"
)

const (
	openEscrowCost     int64 = 300
	completeEscrowCost int64 = 50
	cancelEscrowCost   int64 = 50
)

// RegisterRoutes will instantiate and register all handlers in this
// package. All escrow addresses are derived in the given program keyspace.
func RegisterRoutes(r safepay.Registry, auth x.Authenticator, tokens token.Controller, program derive.Keyspace) {
	r.Handle(pathOpenMsg, OpenHandler{auth: auth, tokens: tokens, program: program})
	r.Handle(pathCompleteMsg, CompleteHandler{auth: auth, tokens: tokens, program: program})
	r.Handle(pathCancelMsg, CancelHandler{auth: auth, tokens: tokens, program: program})
}

// OpenHandler creates an escrow and locks the tokens in its custody.
type OpenHandler struct {
	auth    x.Authenticator
	tokens  token.Controller
	program derive.Keyspace
}

var _ safepay.Handler = OpenHandler{}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h OpenHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &safepay.CheckResult{GasAllocated: openEscrowCost}, nil
}

// Deliver creates the custody holding and the escrow record, then moves the
// tokens from the sender holding into the custody. The record address is
// returned as the result data.
func (h OpenHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	msg, state, wallet, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// The custody can only be created with the authority of its own
	// derived address.
	creator := x.ChainAuth(h.auth, x.SignedBy(wallet.Condition()))
	if err := h.tokens.CreateAccount(ctx, db, creator, msg.Sender, wallet.Address(), msg.Asset, state.Address()); err != nil {
		return nil, errors.Wrap(err, "create custody")
	}

	rec := Escrow{
		InstanceKey: msg.InstanceKey,
		Sender:      msg.Sender,
		Receiver:    msg.Receiver,
		Asset:       msg.Asset,
		Custody:     wallet.Address(),
		Amount:      msg.Amount,
		Stage:       StageDeposited,
	}
	if err := escrows.Create(db, state.Address(), &rec); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	if err := h.tokens.Transfer(ctx, db, h.auth, msg.Source, rec.Custody, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	safepay.GetLogger(ctx).Info("escrow opened",
		"escrow", state.Address(), "amount", rec.Amount, "stage", rec.Stage)
	return &safepay.DeliverResult{Data: state.Address()}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h OpenHandler) validate(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*OpenMsg, *derive.Credential, *derive.Credential, error) {
	var msg OpenMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Sender) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "sender signature missing")
	}

	id := msg.identity()
	state, err := id.StateCredential(h.program, uint8(msg.StateBump))
	if err != nil {
		return nil, nil, nil, err
	}
	wallet, err := id.WalletCredential(h.program, uint8(msg.WalletBump))
	if err != nil {
		return nil, nil, nil, err
	}
	// A single record per identity.
	for _, c := range []*derive.Credential{state, wallet} {
		switch ok, err := c.IsCanonical(); {
		case err != nil:
			return nil, nil, nil, errors.Wrap(err, "bump")
		case !ok:
			return nil, nil, nil, errors.Wrapf(ErrAuthorityMismatch, "bump %d is not canonical", c.Bump())
		}
	}

	switch exists, err := escrows.Has(db, state.Address()); {
	case err != nil:
		return nil, nil, nil, errors.Wrap(err, "escrow")
	case exists:
		return nil, nil, nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s", state.Address())
	}

	src, err := h.tokens.Account(db, msg.Source)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "source")
	}
	if !src.Owner.Equals(msg.Sender) {
		return nil, nil, nil, errors.Wrap(ErrOwnershipMismatch, "source holding is not owned by the sender")
	}
	if !src.Mint.Equals(msg.Asset) {
		return nil, nil, nil, errors.Wrap(ErrOwnershipMismatch, "source holding asset")
	}
	if src.Balance < msg.Amount {
		return nil, nil, nil, errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", src.Balance, msg.Amount)
	}
	return &msg, state, wallet, nil
}

// CompleteHandler releases an escrow to its receiver.
type CompleteHandler struct {
	auth    x.Authenticator
	tokens  token.Controller
	program derive.Keyspace
}

var _ safepay.Handler = CompleteHandler{}

func (h CompleteHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &safepay.CheckResult{GasAllocated: completeEscrowCost}, nil
}

// Deliver moves the recorded amount into the associated holding of the
// receiver, creating it at the receiver's cost when needed.
func (h CompleteHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	inst, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	rec := inst.record

	dest, err := h.tokens.ProvisionHolding(ctx, db, h.auth, rec.Receiver, rec.Receiver, rec.Asset)
	if err != nil {
		return nil, errors.Wrap(err, "receiver holding")
	}
	if err := checkOwnership(db, h.tokens, dest, rec.Receiver, rec.Asset); err != nil {
		return nil, err
	}

	closed, err := transferOut(ctx, db, h.tokens, rec, inst.state, dest, rec.Amount)
	if err != nil {
		return nil, err
	}
	if err := inst.advance(db, StageCompleted); err != nil {
		return nil, err
	}

	safepay.GetLogger(ctx).Info("escrow completed",
		"escrow", inst.state.Address(), "amount", rec.Amount, "stage", rec.Stage, "custody_closed", closed)
	return &safepay.DeliverResult{Data: dest}, nil
}

func (h CompleteHandler) validate(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*instance, error) {
	var msg CompleteMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	inst, err := loadInstance(db, h.program, msg.identity(), msg.StateBump, msg.WalletBump)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, inst.record.Receiver) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "receiver signature missing")
	}
	if err := inst.record.Stage.Transition(StageCompleted); err != nil {
		return nil, err
	}
	return inst, nil
}

// CancelHandler returns the tokens of an escrow to its sender.
type CancelHandler struct {
	auth    x.Authenticator
	tokens  token.Controller
	program derive.Keyspace
}

var _ safepay.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &safepay.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

// Deliver moves everything left in custody into the refund holding. Once
// the custody is closed a retry moves nothing and still succeeds.
func (h CancelHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	msg, inst, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	rec := inst.record

	amount, err := h.tokens.Balance(db, rec.Custody)
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		amount = 0
	default:
		return nil, errors.Wrap(err, "custody balance")
	}

	closed, err := transferOut(ctx, db, h.tokens, rec, inst.state, msg.RefundTo, amount)
	if err != nil {
		return nil, err
	}
	if err := inst.advance(db, StageRefunded); err != nil {
		return nil, err
	}

	safepay.GetLogger(ctx).Info("escrow cancelled",
		"escrow", inst.state.Address(), "amount", amount, "stage", rec.Stage, "custody_closed", closed)
	return &safepay.DeliverResult{Data: encodeAmount(amount)}, nil
}

func (h CancelHandler) validate(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*CancelMsg, *instance, error) {
	var msg CancelMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	inst, err := loadInstance(db, h.program, msg.identity(), msg.StateBump, msg.WalletBump)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, inst.record.Sender) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "sender signature missing")
	}
	if err := checkOwnership(db, h.tokens, msg.RefundTo, inst.record.Sender, inst.record.Asset); err != nil {
		return nil, nil, err
	}
	if err := inst.record.Stage.Transition(StageRefunded); err != nil {
		return nil, nil, err
	}
	return &msg, inst, nil
}

// encodeAmount returns the amount as 8 big endian bytes.
func encodeAmount(amount uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, amount)
	return raw
}

// DecodeAmount reads the amount released by a cancel call from its result
// data.
func DecodeAmount(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "amount of %d bytes", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// instance is an escrow record together with the credentials rebuilt from
// the message that references it.
type instance struct {
	record *Escrow
	state  *derive.Credential
	wallet *derive.Credential
}

// loadInstance rebuilds both credentials of given identity and loads the
// escrow record. The record must belong to the identity and its custody
// must be the derived wallet address.
func loadInstance(db safepay.ReadOnlyKVStore, program derive.Keyspace, id Identity, stateBump, walletBump uint32) (*instance, error) {
	state, err := id.StateCredential(program, uint8(stateBump))
	if err != nil {
		return nil, err
	}
	wallet, err := id.WalletCredential(program, uint8(walletBump))
	if err != nil {
		return nil, err
	}
	rec, err := Query(db, state.Address())
	if err != nil {
		return nil, err
	}
	if got := rec.Identity(); !got.Sender.Equals(id.Sender) ||
		!got.Receiver.Equals(id.Receiver) ||
		!got.Asset.Equals(id.Asset) ||
		got.InstanceKey != id.InstanceKey {
		return nil, errors.Wrap(ErrAuthorityMismatch, "record does not belong to the identity")
	}
	if err := wallet.Verify(rec.Custody); err != nil {
		return nil, errors.Wrapf(ErrAuthorityMismatch, "custody: %s", err)
	}
	return &instance{record: rec, state: state, wallet: wallet}, nil
}

// advance moves the record into the next stage and saves it.
func (i *instance) advance(db safepay.KVStore, next Stage) error {
	if err := i.record.Stage.Transition(next); err != nil {
		return err
	}
	i.record.Stage = next
	if err := escrows.Put(db, i.state.Address(), i.record); err != nil {
		return errors.Wrap(err, "cannot store escrow")
	}
	return nil
}

// checkOwnership ensures the holding belongs to owner and keeps the asset.
func checkOwnership(db safepay.ReadOnlyKVStore, tokens token.Controller, holding, owner, asset safepay.Address) error {
	acc, err := tokens.Account(db, holding)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !acc.Owner.Equals(owner) {
		return errors.Wrapf(ErrOwnershipMismatch, "holding %s is not owned by %s", holding, owner)
	}
	if !acc.Mint.Equals(asset) {
		return errors.Wrapf(ErrOwnershipMismatch, "holding %s keeps %s, not %s", holding, acc.Mint, asset)
	}
	return nil
}
