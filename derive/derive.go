package derive

import (
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by a derivation.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	conditionExt  = "derive"
	conditionType = "pda"
)

// Keyspace identifies the program that owns a set of derived addresses.
// Two programs never share a derived address, even for identical seeds.
type Keyspace struct {
	name string
	id   safepay.Address
}

// NewKeyspace returns the keyspace of the program registered under given
// name.
func NewKeyspace(name string) Keyspace {
	return Keyspace{
		name: name,
		id:   safepay.NewCondition("program", "name", []byte(name)).Address(),
	}
}

// Name returns the name the keyspace was created with.
func (k Keyspace) Name() string { return k.name }

// ID returns the program identity all derivations are bound to.
func (k Keyspace) ID() safepay.Address { return k.id }

// Validate returns an error if this keyspace was not created using
// NewKeyspace.
func (k Keyspace) Validate() error {
	if k.name == "" {
		return errors.Wrap(errors.ErrEmpty, "keyspace name")
	}
	return k.id.Validate()
}

func (k Keyspace) String() string {
	return k.name
}

// U64Seed encodes an integer as a little endian, 8 byte seed.
func U64Seed(v uint64) []byte {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, v)
	return raw
}

// CreateAddress returns the address derived from given seeds and bump. An
// error is returned when the result is an ed25519 curve point, as such
// address might have a private key.
func CreateAddress(program Keyspace, seeds [][]byte, bump uint8) (safepay.Address, error) {
	cond, err := condition(program, seeds, bump)
	if err != nil {
		return nil, err
	}
	addr := cond.Address()
	if onCurve(addr) {
		return nil, errors.Wrapf(errors.ErrInput, "bump %d: address is a curve point", bump)
	}
	return addr, nil
}

// FindAddress returns the first valid derived address, searching bump values
// from 255 down to 0, together with the bump used.
func FindAddress(program Keyspace, seeds [][]byte) (safepay.Address, uint8, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateAddress(program, seeds, uint8(bump))
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.ErrInput.Is(err) {
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(errors.ErrState, "no valid bump")
}

// condition builds the signing condition of a derived address. Each seed is
// prefixed with its length so that seed boundaries cannot be shifted.
func condition(program Keyspace, seeds [][]byte, bump uint8) (safepay.Condition, error) {
	if err := program.Validate(); err != nil {
		return nil, errors.Wrap(err, "program")
	}
	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}
	size := len(program.id) + 1
	for _, s := range seeds {
		size += len(s) + 1
	}
	data := make([]byte, 0, size)
	data = append(data, program.id...)
	for _, s := range seeds {
		data = append(data, byte(len(s)))
		data = append(data, s...)
	}
	data = append(data, bump)
	return safepay.NewCondition(conditionExt, conditionType, data), nil
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInput, "seed %d too long: %d", i, len(s))
		}
	}
	return nil
}

func onCurve(addr safepay.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(addr)
	return err == nil
}
