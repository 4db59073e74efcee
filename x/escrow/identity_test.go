package escrow

import (
	"testing"

	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/safepaytest"
	"github.com/iov-one/safepay/safepaytest/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowRefIsDeterministic(t *testing.T) {
	program := derive.NewKeyspace("escrow")
	id := Identity{
		Sender:      safepaytest.NewCondition().Address(),
		Receiver:    safepaytest.NewCondition().Address(),
		Asset:       safepaytest.NewCondition().Address(),
		InstanceKey: 1,
	}

	a, err := NewEscrowRef(program, id)
	require.NoError(t, err)
	b, err := NewEscrowRef(program, id)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	if a.Record.Equals(a.Custody) {
		t.Fatal("record and custody must not share an address")
	}

	variants := map[string]func(Identity) Identity{
		"instance key": func(i Identity) Identity { i.InstanceKey++; return i },
		"sender":       func(i Identity) Identity { i.Sender = safepaytest.NewCondition().Address(); return i },
		"receiver":     func(i Identity) Identity { i.Receiver = safepaytest.NewCondition().Address(); return i },
		"asset":        func(i Identity) Identity { i.Asset = safepaytest.NewCondition().Address(); return i },
		"swapped":      func(i Identity) Identity { i.Sender, i.Receiver = i.Receiver, i.Sender; return i },
	}
	for name, change := range variants {
		t.Run(name, func(t *testing.T) {
			other, err := NewEscrowRef(program, change(id))
			require.NoError(t, err)
			if other.Record.Equals(a.Record) || other.Custody.Equals(a.Custody) {
				t.Fatal("different identities must not share addresses")
			}
		})
	}

	t.Run("program", func(t *testing.T) {
		other, err := NewEscrowRef(derive.NewKeyspace("other"), id)
		require.NoError(t, err)
		if other.Record.Equals(a.Record) {
			t.Fatal("programs must not share addresses")
		}
	})
}

func TestCredentials(t *testing.T) {
	program := derive.NewKeyspace("escrow")
	id := Identity{
		Sender:      safepaytest.NewCondition().Address(),
		Receiver:    safepaytest.NewCondition().Address(),
		Asset:       safepaytest.NewCondition().Address(),
		InstanceKey: 42,
	}
	ref, err := NewEscrowRef(program, id)
	require.NoError(t, err)

	state, err := id.StateCredential(program, ref.StateBump)
	require.NoError(t, err)
	assert.Equal(t, ref.Record, state.Address())
	assert.Equal(t, state.Address(), state.Condition().Address())
	assert.Nil(t, state.Verify(ref.Record))
	assert.IsErr(t, errors.ErrUnauthorized, state.Verify(ref.Custody))

	wallet, err := id.WalletCredential(program, ref.WalletBump)
	require.NoError(t, err)
	assert.Equal(t, ref.Custody, wallet.Address())

	_, err = Identity{InstanceKey: 1}.StateCredential(program, ref.StateBump)
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestEscrowValidate(t *testing.T) {
	addr := safepaytest.NewCondition().Address()
	valid := Escrow{
		InstanceKey: 1,
		Sender:      addr,
		Receiver:    addr,
		Asset:       addr,
		Custody:     addr,
		Amount:      1,
		Stage:       StageDeposited,
	}
	assert.Nil(t, valid.Validate())

	e := valid
	e.Amount = 0
	assert.FieldError(t, e.Validate(), "Amount", errors.ErrAmount)

	e = valid
	e.Stage = 7
	assert.FieldError(t, e.Validate(), "Stage", ErrStageInvalid)

	e = valid
	e.Custody = nil
	assert.FieldError(t, e.Validate(), "Custody", errors.ErrEmpty)
}

func TestEscrowSerialization(t *testing.T) {
	addr := safepaytest.NewCondition().Address()
	e := Escrow{
		InstanceKey: 7,
		Sender:      addr,
		Receiver:    addr,
		Asset:       addr,
		Custody:     addr,
		Amount:      99,
		Stage:       StageRefunded,
	}
	raw, err := e.Marshal()
	require.NoError(t, err)
	var got Escrow
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, e, got)
}
