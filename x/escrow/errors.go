package escrow

import "github.com/iov-one/safepay/errors"

// x/escrow reserves 1400 ~ 1409.
var (
	ErrStageInvalid      = errors.Register(1401, "invalid stage")
	ErrAuthorityMismatch = errors.Register(1402, "authority mismatch")
	ErrOwnershipMismatch = errors.Register(1403, "destination ownership mismatch")
)
