package safepaytest

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/crypto"
)

// NewKey returns a fresh random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a fresh random key.
func NewCondition() safepay.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceCondition returns a condition that is unique for the given
// extension and counter. It is useful for creating readable, stable test
// identities.
func SequenceCondition(ext string, n uint64) safepay.Condition {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return safepay.NewCondition(ext, "seq", data)
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) safepay.Address {
	t.Helper()

	addr, err := safepay.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
