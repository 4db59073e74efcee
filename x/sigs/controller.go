package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of all signers.
	GetSignatures() []*StdSignature
}

// VerifyTxSignatures checks all the signatures on the tx and increments the
// sequence of every signer.
//
// returns the conditions of all signers (possibly empty), or an error if any
// signature is invalid
func VerifyTxSignatures(db safepay.KVStore, tx SignedTx, chainID string) ([]safepay.Condition, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	signers := make([]safepay.Condition, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := VerifySignature(db, sig, bz, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against sign bytes and updates the
// signer sequence in the store.
func VerifySignature(db safepay.KVStore, sig *StdSignature, signBytes []byte, chainID string) (safepay.Condition, error) {
	if sig == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "nil signature")
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.PubKey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	user, err := loadUser(db, sig.PubKey)
	if err != nil {
		return nil, err
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := users.Put(db, sig.PubKey.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save signer")
	}
	return sig.PubKey.Condition(), nil
}

// BuildSignBytes combines all info on the actual tx before signing. The
// result is the sha512 hash of the version, the chain ID, the sequence and
// the transaction sign bytes.
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !safepay.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	output := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+len(nonce)+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, chainID...)
	output = append(output, nonce...)
	output = append(output, signBytes...)

	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// SignTx creates a signature for the given tx
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	toSign, err := BuildSignBytes(signBytes, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(toSign)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		PubKey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}

// NextSequence returns the sequence the next signature of given key must
// carry.
func NextSequence(db safepay.ReadOnlyKVStore, pub *crypto.PublicKey) (int64, error) {
	user, err := loadUser(db, pub)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}
