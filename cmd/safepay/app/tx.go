package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x/escrow"
	"github.com/iov-one/safepay/x/sigs"
	"github.com/iov-one/safepay/x/token"
)

// Tx carries a single message together with the signatures authorizing it.
// The message is stored serialized next to its path, so that any registered
// message can be decoded.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	MsgPath    string               `protobuf:"bytes,2,opt,name=msg_path,json=msgPath,proto3" json:"msg_path,omitempty"`
	MsgData    []byte               `protobuf:"bytes,3,opt,name=msg_data,json=msgData,proto3" json:"msg_data,omitempty"`
}

type txWire Tx

func (m *txWire) Reset()         { *m = txWire{} }
func (m *txWire) String() string { return proto.CompactTextString(m) }
func (*txWire) ProtoMessage()    {}

var _ safepay.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// messages lists constructors of every message this application routes.
var messages = map[string]func() safepay.Msg{}

func init() {
	for _, fn := range []func() safepay.Msg{
		func() safepay.Msg { return &token.SendMsg{} },
		func() safepay.Msg { return &token.CreateHoldingMsg{} },
		func() safepay.Msg { return &escrow.OpenMsg{} },
		func() safepay.Msg { return &escrow.CompleteMsg{} },
		func() safepay.Msg { return &escrow.CancelMsg{} },
	} {
		messages[fn().Path()] = fn
	}
}

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg safepay.Msg) (*Tx, error) {
	if _, ok := messages[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message %q", msg.Path())
	}
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal msg")
	}
	return &Tx{MsgPath: msg.Path(), MsgData: raw}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (safepay.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*txWire)(tx))
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*txWire)(tx)); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// GetMsg decodes the carried message.
func (tx *Tx) GetMsg() (safepay.Msg, error) {
	fn, ok := messages[tx.MsgPath]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message %q", tx.MsgPath)
	}
	msg := fn()
	if err := msg.Unmarshal(tx.MsgData); err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return msg, nil
}

// GetSignatures returns the signatures of all signers.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}
