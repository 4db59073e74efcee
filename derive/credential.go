package derive

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Credential proves the authority of a program over one derived address.
//
// A credential carries no secret. It can only be built by a caller that knows
// the program keyspace, the seeds and the bump of the address. Handlers
// rebuild it for every operation that moves funds and never store it.
type Credential struct {
	program Keyspace
	seeds   [][]byte
	bump    uint8
	cond    safepay.Condition
	addr    safepay.Address
}

// NewCredential rebuilds the credential of the address derived from given
// seeds and bump.
func NewCredential(program Keyspace, seeds [][]byte, bump uint8) (*Credential, error) {
	cond, err := condition(program, seeds, bump)
	if err != nil {
		return nil, err
	}
	addr := cond.Address()
	if onCurve(addr) {
		return nil, errors.Wrapf(errors.ErrInput, "bump %d: address is a curve point", bump)
	}
	copied := make([][]byte, len(seeds))
	for i, s := range seeds {
		copied[i] = append([]byte(nil), s...)
	}
	return &Credential{
		program: program,
		seeds:   copied,
		bump:    bump,
		cond:    cond,
		addr:    addr,
	}, nil
}

// Address returns the derived address this credential has authority over.
func (c *Credential) Address() safepay.Address {
	return c.addr.Clone()
}

// Condition returns the condition under which the program acts for the
// derived address. Condition().Address() always equals Address().
func (c *Credential) Condition() safepay.Condition {
	return append(safepay.Condition(nil), c.cond...)
}

// Bump returns the bump byte of the derivation.
func (c *Credential) Bump() uint8 {
	return c.bump
}

// Program returns the keyspace of the program owning the derived address.
func (c *Credential) Program() Keyspace {
	return c.program
}

// Verify returns an error unless the credential has authority over given
// address.
func (c *Credential) Verify(addr safepay.Address) error {
	if !c.addr.Equals(addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "derived address %s does not match %s", c.addr, addr)
	}
	return nil
}

// IsCanonical returns true if the credential uses the highest valid bump for
// its seeds, the one FindAddress returns.
func (c *Credential) IsCanonical() (bool, error) {
	_, bump, err := FindAddress(c.program, c.seeds)
	if err != nil {
		return false, err
	}
	return bump == c.bump, nil
}
