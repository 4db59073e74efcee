package crypto

import (
	"github.com/iov-one/safepay/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultDerivationPath is the SLIP-10 path used by the command line tools
// when no other path is requested.
const DefaultDerivationPath = "m/44'/234'/0'"

// DeriveKey derives an ed25519 private key from a master seed following
// SLIP-10. Only hardened paths are supported, for example "m/44'/234'/0'".
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, errors.Wrapf(errors.ErrInput, "seed length %d", len(seed))
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
