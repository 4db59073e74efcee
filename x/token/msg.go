package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

const (
	pathSendMsg          = "token/send"
	pathCreateHoldingMsg = "token/create_holding"
)

// SendMsg moves tokens between two holdings of the same asset.
type SendMsg struct {
	From   safepay.Address `protobuf:"bytes,1,opt,name=from,proto3" json:"from,omitempty"`
	To     safepay.Address `protobuf:"bytes,2,opt,name=to,proto3" json:"to,omitempty"`
	Amount uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

// CreateHoldingMsg provisions the associated holding of an owner. The
// storage allowance is paid by the main signer.
type CreateHoldingMsg struct {
	Owner safepay.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Mint  safepay.Address `protobuf:"bytes,2,opt,name=mint,proto3" json:"mint,omitempty"`
}

type (
	sendMsgWire          SendMsg
	createHoldingMsgWire CreateHoldingMsg
)

func (m *sendMsgWire) Reset()         { *m = sendMsgWire{} }
func (m *sendMsgWire) String() string { return proto.CompactTextString(m) }
func (*sendMsgWire) ProtoMessage()    {}

func (m *createHoldingMsgWire) Reset()         { *m = createHoldingMsgWire{} }
func (m *createHoldingMsgWire) String() string { return proto.CompactTextString(m) }
func (*createHoldingMsgWire) ProtoMessage()    {}

var _ safepay.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string { return pathSendMsg }

func (m *SendMsg) Marshal() ([]byte, error)    { return proto.Marshal((*sendMsgWire)(m)) }
func (m *SendMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*sendMsgWire)(m)) }

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "To", m.To.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	return errs
}

var _ safepay.Msg = (*CreateHoldingMsg)(nil)

func (CreateHoldingMsg) Path() string { return pathCreateHoldingMsg }

func (m *CreateHoldingMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*createHoldingMsgWire)(m))
}

func (m *CreateHoldingMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*createHoldingMsgWire)(m))
}

func (m *CreateHoldingMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	return errs
}
