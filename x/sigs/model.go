package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequence is the greatest sequence a client can represent exactly as a
// javascript number.
const maxSequence = (1 << 53) - 1

// UserData is the state kept for every signer.
type UserData struct {
	PubKey   *crypto.PublicKey `protobuf:"bytes,1,opt,name=pub_key,json=pubKey,proto3" json:"pub_key,omitempty"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

// StdSignature is a single signature of a transaction.
type StdSignature struct {
	PubKey    *crypto.PublicKey `protobuf:"bytes,1,opt,name=pub_key,json=pubKey,proto3" json:"pub_key,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
	Sequence  int64             `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

type (
	userDataWire     UserData
	stdSignatureWire StdSignature
)

func (m *userDataWire) Reset()         { *m = userDataWire{} }
func (m *userDataWire) String() string { return proto.CompactTextString(m) }
func (*userDataWire) ProtoMessage()    {}

func (m *stdSignatureWire) Reset()         { *m = stdSignatureWire{} }
func (m *stdSignatureWire) String() string { return proto.CompactTextString(m) }
func (*stdSignatureWire) ProtoMessage()    {}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return proto.Marshal((*userDataWire)(u))
}

func (u *UserData) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*userDataWire)(u))
}

func (u *UserData) Validate() error {
	var errs error
	if u.PubKey == nil {
		errs = errors.AppendField(errs, "PubKey", errors.ErrEmpty)
	}
	if u.Sequence < 0 || u.Sequence > maxSequence {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

// CheckAndIncrementSequence increments the sequence if it equals expected.
// Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	if u.Sequence+1 > maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	return proto.Marshal((*stdSignatureWire)(s))
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*stdSignatureWire)(s))
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.PubKey == nil || len(s.PubKey.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil || len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

var users = orm.NewModelBucket(BucketName, &UserData{})

// loadUser returns the stored data of the signer, or a fresh record if the
// key never signed before.
func loadUser(db safepay.ReadOnlyKVStore, pub *crypto.PublicKey) (*UserData, error) {
	var u UserData
	switch err := users.One(db, pub.Address(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{PubKey: pub}, nil
	default:
		return nil, err
	}
}
