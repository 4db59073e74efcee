package token

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x"
)

const (
	sendCost          = 100
	createHoldingCost = 300
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r safepay.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
	r.Handle(pathCreateHoldingMsg, NewCreateHoldingHandler(auth, control))
}

// SendHandler moves tokens between holdings.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ safepay.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

// Check verifies the message is properly formed and that the source holding
// owner signed it.
func (h SendHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &safepay.CheckResult{GasAllocated: sendCost}, nil
}

// Deliver moves the tokens if all preconditions are met.
func (h SendHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(ctx, db, h.auth, msg.From, msg.To, msg.Amount); err != nil {
		return nil, err
	}
	safepay.GetLogger(ctx).Info("tokens sent", "from", msg.From, "to", msg.To, "amount", msg.Amount)
	return &safepay.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	src, err := h.control.Account(db, msg.From)
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if !h.auth.HasAddress(ctx, src.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "holding owner signature missing")
	}
	return &msg, nil
}

// CreateHoldingHandler provisions associated holdings.
type CreateHoldingHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ safepay.Handler = CreateHoldingHandler{}

// NewCreateHoldingHandler creates a handler for CreateHoldingMsg
func NewCreateHoldingHandler(auth x.Authenticator, control Controller) CreateHoldingHandler {
	return CreateHoldingHandler{auth: auth, control: control}
}

func (h CreateHoldingHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &safepay.CheckResult{GasAllocated: createHoldingCost}, nil
}

// Deliver returns the address of the holding as the result data.
func (h CreateHoldingHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	msg, payer, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.control.ProvisionHolding(ctx, db, h.auth, payer, msg.Owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	return &safepay.DeliverResult{Data: addr}, nil
}

func (h CreateHoldingHandler) validate(ctx safepay.Context, tx safepay.Tx) (*CreateHoldingMsg, safepay.Address, error) {
	var msg CreateHoldingMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	return &msg, signer.Address(), nil
}
