package escrow

import (
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

const (
	pathOpenMsg     = "escrow/open"
	pathCompleteMsg = "escrow/complete"
	pathCancelMsg   = "escrow/cancel"
)

// OpenMsg locks Amount tokens taken from the Source holding of the sender.
type OpenMsg struct {
	Sender      safepay.Address `protobuf:"bytes,1,opt,name=sender,proto3" json:"sender,omitempty"`
	Receiver    safepay.Address `protobuf:"bytes,2,opt,name=receiver,proto3" json:"receiver,omitempty"`
	Asset       safepay.Address `protobuf:"bytes,3,opt,name=asset,proto3" json:"asset,omitempty"`
	InstanceKey uint64          `protobuf:"varint,4,opt,name=instance_key,json=instanceKey,proto3" json:"instance_key,omitempty"`
	StateBump   uint32          `protobuf:"varint,5,opt,name=state_bump,json=stateBump,proto3" json:"state_bump,omitempty"`
	WalletBump  uint32          `protobuf:"varint,6,opt,name=wallet_bump,json=walletBump,proto3" json:"wallet_bump,omitempty"`
	Source      safepay.Address `protobuf:"bytes,7,opt,name=source,proto3" json:"source,omitempty"`
	Amount      uint64          `protobuf:"varint,8,opt,name=amount,proto3" json:"amount,omitempty"`
}

// CompleteMsg releases the escrow to the receiver.
type CompleteMsg struct {
	Sender      safepay.Address `protobuf:"bytes,1,opt,name=sender,proto3" json:"sender,omitempty"`
	Receiver    safepay.Address `protobuf:"bytes,2,opt,name=receiver,proto3" json:"receiver,omitempty"`
	Asset       safepay.Address `protobuf:"bytes,3,opt,name=asset,proto3" json:"asset,omitempty"`
	InstanceKey uint64          `protobuf:"varint,4,opt,name=instance_key,json=instanceKey,proto3" json:"instance_key,omitempty"`
	StateBump   uint32          `protobuf:"varint,5,opt,name=state_bump,json=stateBump,proto3" json:"state_bump,omitempty"`
	WalletBump  uint32          `protobuf:"varint,6,opt,name=wallet_bump,json=walletBump,proto3" json:"wallet_bump,omitempty"`
}

// CancelMsg returns the tokens left in custody to the RefundTo holding of
// the sender.
type CancelMsg struct {
	Sender      safepay.Address `protobuf:"bytes,1,opt,name=sender,proto3" json:"sender,omitempty"`
	Receiver    safepay.Address `protobuf:"bytes,2,opt,name=receiver,proto3" json:"receiver,omitempty"`
	Asset       safepay.Address `protobuf:"bytes,3,opt,name=asset,proto3" json:"asset,omitempty"`
	InstanceKey uint64          `protobuf:"varint,4,opt,name=instance_key,json=instanceKey,proto3" json:"instance_key,omitempty"`
	StateBump   uint32          `protobuf:"varint,5,opt,name=state_bump,json=stateBump,proto3" json:"state_bump,omitempty"`
	WalletBump  uint32          `protobuf:"varint,6,opt,name=wallet_bump,json=walletBump,proto3" json:"wallet_bump,omitempty"`
	RefundTo    safepay.Address `protobuf:"bytes,7,opt,name=refund_to,json=refundTo,proto3" json:"refund_to,omitempty"`
}

type (
	openMsgWire     OpenMsg
	completeMsgWire CompleteMsg
	cancelMsgWire   CancelMsg
)

func (m *openMsgWire) Reset()         { *m = openMsgWire{} }
func (m *openMsgWire) String() string { return proto.CompactTextString(m) }
func (*openMsgWire) ProtoMessage()    {}

func (m *completeMsgWire) Reset()         { *m = completeMsgWire{} }
func (m *completeMsgWire) String() string { return proto.CompactTextString(m) }
func (*completeMsgWire) ProtoMessage()    {}

func (m *cancelMsgWire) Reset()         { *m = cancelMsgWire{} }
func (m *cancelMsgWire) String() string { return proto.CompactTextString(m) }
func (*cancelMsgWire) ProtoMessage()    {}

var _ safepay.Msg = (*OpenMsg)(nil)

func (OpenMsg) Path() string { return pathOpenMsg }

func (m *OpenMsg) Marshal() ([]byte, error)    { return proto.Marshal((*openMsgWire)(m)) }
func (m *OpenMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*openMsgWire)(m)) }

func (m *OpenMsg) Validate() error {
	errs := validateRef(m.identity(), m.StateBump, m.WalletBump)
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *OpenMsg) identity() Identity {
	return Identity{Sender: m.Sender, Receiver: m.Receiver, Asset: m.Asset, InstanceKey: m.InstanceKey}
}

var _ safepay.Msg = (*CompleteMsg)(nil)

func (CompleteMsg) Path() string { return pathCompleteMsg }

func (m *CompleteMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*completeMsgWire)(m))
}

func (m *CompleteMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*completeMsgWire)(m))
}

func (m *CompleteMsg) Validate() error {
	return validateRef(m.identity(), m.StateBump, m.WalletBump)
}

func (m *CompleteMsg) identity() Identity {
	return Identity{Sender: m.Sender, Receiver: m.Receiver, Asset: m.Asset, InstanceKey: m.InstanceKey}
}

var _ safepay.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string { return pathCancelMsg }

func (m *CancelMsg) Marshal() ([]byte, error)    { return proto.Marshal((*cancelMsgWire)(m)) }
func (m *CancelMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*cancelMsgWire)(m)) }

func (m *CancelMsg) Validate() error {
	errs := validateRef(m.identity(), m.StateBump, m.WalletBump)
	errs = errors.AppendField(errs, "RefundTo", m.RefundTo.Validate())
	return errs
}

func (m *CancelMsg) identity() Identity {
	return Identity{Sender: m.Sender, Receiver: m.Receiver, Asset: m.Asset, InstanceKey: m.InstanceKey}
}

func validateRef(id Identity, stateBump, walletBump uint32) error {
	errs := id.Validate()
	if stateBump > math.MaxUint8 {
		errs = errors.AppendField(errs, "StateBump", errors.Wrap(errors.ErrInput, "must fit in a byte"))
	}
	if walletBump > math.MaxUint8 {
		errs = errors.AppendField(errs, "WalletBump", errors.Wrap(errors.ErrInput, "must fit in a byte"))
	}
	return errs
}
