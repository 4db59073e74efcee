package escrow

import (
	"fmt"

	"github.com/iov-one/safepay/errors"
)

// Stage is the position of an escrow in its lifecycle. It is stored as a
// single code.
type Stage int32

const (
	// StageDeposited is set once the tokens are moved into the custody.
	StageDeposited Stage = 1
	// StageCompleted is set once the receiver got the tokens.
	StageCompleted Stage = 2
	// StageRefunded is set once the sender pulled the tokens back.
	StageRefunded Stage = 3
)

// ParseStage returns the stage of given code. Unknown codes are rejected.
func ParseStage(code int32) (Stage, error) {
	switch s := Stage(code); s {
	case StageDeposited, StageCompleted, StageRefunded:
		return s, nil
	default:
		return 0, errors.Wrapf(ErrStageInvalid, "unknown stage %d", code)
	}
}

func (s Stage) String() string {
	switch s {
	case StageDeposited:
		return "deposited"
	case StageCompleted:
		return "completed"
	case StageRefunded:
		return "refunded"
	default:
		return fmt.Sprintf("Stage(%d)", int32(s))
	}
}

// Transition returns an error unless an escrow in this stage can move into
// the next one.
func (s Stage) Transition(next Stage) error {
	switch {
	case s == StageDeposited && next == StageCompleted:
		return nil
	case s == StageDeposited && next == StageRefunded:
		return nil
	case s == StageRefunded && next == StageRefunded:
		return nil
	default:
		return errors.Wrapf(ErrStageInvalid, "cannot move from %s to %s", s, next)
	}
}
