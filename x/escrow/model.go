package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/orm"
)

// Escrow is the record of a single escrow instance, stored under its derived
// record address.
type Escrow struct {
	InstanceKey uint64          `protobuf:"varint,1,opt,name=instance_key,json=instanceKey,proto3" json:"instance_key,omitempty"`
	Sender      safepay.Address `protobuf:"bytes,2,opt,name=sender,proto3" json:"sender,omitempty"`
	Receiver    safepay.Address `protobuf:"bytes,3,opt,name=receiver,proto3" json:"receiver,omitempty"`
	Asset       safepay.Address `protobuf:"bytes,4,opt,name=asset,proto3" json:"asset,omitempty"`
	// Custody is the address of the holding the tokens are locked in.
	Custody safepay.Address `protobuf:"bytes,5,opt,name=custody,proto3" json:"custody,omitempty"`
	// Amount is set when the escrow is opened and never changes.
	Amount uint64 `protobuf:"varint,6,opt,name=amount,proto3" json:"amount,omitempty"`
	Stage  Stage  `protobuf:"varint,7,opt,name=stage,proto3" json:"stage,omitempty"`
}

type escrowWire Escrow

func (m *escrowWire) Reset()         { *m = escrowWire{} }
func (m *escrowWire) String() string { return proto.CompactTextString(m) }
func (*escrowWire) ProtoMessage()    {}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Marshal() ([]byte, error) {
	return proto.Marshal((*escrowWire)(e))
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*escrowWire)(e))
}

func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", e.Sender.Validate())
	errs = errors.AppendField(errs, "Receiver", e.Receiver.Validate())
	errs = errors.AppendField(errs, "Asset", e.Asset.Validate())
	errs = errors.AppendField(errs, "Custody", e.Custody.Validate())
	if e.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	if _, err := ParseStage(int32(e.Stage)); err != nil {
		errs = errors.AppendField(errs, "Stage", err)
	}
	return errs
}

// Identity returns the tuple this escrow was derived from.
func (e *Escrow) Identity() Identity {
	return Identity{
		Sender:      e.Sender,
		Receiver:    e.Receiver,
		Asset:       e.Asset,
		InstanceKey: e.InstanceKey,
	}
}

var escrows = orm.NewModelBucket("escrow", &Escrow{})

// Query returns the escrow stored under given record address.
func Query(db safepay.ReadOnlyKVStore, record safepay.Address) (*Escrow, error) {
	var e Escrow
	if err := escrows.One(db, record, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", record)
	}
	return &e, nil
}
