package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/safepaytest"
	"github.com/iov-one/safepay/safepaytest/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCompleteScenario(t *testing.T) {
	f := newFixture(t)
	ref := f.ref(t, 1)

	res, err := f.exec(t, f.alice, ref.OpenMsg(f.aliceUSDC, 100))
	require.NoError(t, err)
	assert.Equal(t, []byte(ref.Record), res.Data)

	assert.Equal(t, uint64(100), f.balance(t, ref.Custody))
	assert.Equal(t, uint64(initialBalance-100), f.balance(t, f.aliceUSDC))
	assert.Equal(t, uint64(initialFunds-reserve), f.funds(t, f.alice.Address()))
	rec := f.record(t, ref)
	assert.Equal(t, StageDeposited, rec.Stage)
	assert.Equal(t, uint64(100), rec.Amount)
	assert.Equal(t, ref.Custody, rec.Custody)

	custody, err := f.tokens.Account(f.db, ref.Custody)
	require.NoError(t, err)
	assert.Equal(t, ref.Record, custody.Owner)

	res, err = f.exec(t, f.bob, ref.CompleteMsg())
	require.NoError(t, err)
	assert.Equal(t, []byte(f.bobUSDC), res.Data)

	assert.Equal(t, uint64(100), f.balance(t, f.bobUSDC))
	_, err = f.tokens.Account(f.db, ref.Custody)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, StageCompleted, f.record(t, ref).Stage)
	// The custody allowance goes back to the sender, the receiver pays
	// for its own holding.
	assert.Equal(t, uint64(initialFunds), f.funds(t, f.alice.Address()))
	assert.Equal(t, uint64(initialFunds-reserve), f.funds(t, f.bob.Address()))

	_, err = f.exec(t, f.bob, ref.CompleteMsg())
	assert.IsErr(t, ErrStageInvalid, err)
	assert.Equal(t, uint64(100), f.balance(t, f.bobUSDC))
	assert.Equal(t, StageCompleted, f.record(t, ref).Stage)
}

func TestOpenCancelScenario(t *testing.T) {
	f := newFixture(t)
	ref := f.ref(t, 2)

	_, err := f.exec(t, f.alice, ref.OpenMsg(f.aliceUSDC, 50))
	require.NoError(t, err)
	assert.Equal(t, uint64(initialBalance-50), f.balance(t, f.aliceUSDC))

	res, err := f.exec(t, f.alice, ref.CancelMsg(f.aliceUSDC))
	require.NoError(t, err)
	moved, err := DecodeAmount(res.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), moved)
	assert.Equal(t, uint64(initialBalance), f.balance(t, f.aliceUSDC))
	assert.Equal(t, StageRefunded, f.record(t, ref).Stage)
	assert.Equal(t, uint64(initialFunds), f.funds(t, f.alice.Address()))

	// Retry is accepted and moves nothing.
	res, err = f.exec(t, f.alice, ref.CancelMsg(f.aliceUSDC))
	require.NoError(t, err)
	moved, err = DecodeAmount(res.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), moved)
	assert.Equal(t, uint64(initialBalance), f.balance(t, f.aliceUSDC))
	assert.Equal(t, StageRefunded, f.record(t, ref).Stage)

	// The amount recorded at opening never changes.
	assert.Equal(t, uint64(50), f.record(t, ref).Amount)
}

func TestCancelRefundsLiveCustodyBalance(t *testing.T) {
	f := newFixture(t)
	ref := f.ref(t, 3)

	_, err := f.exec(t, f.alice, ref.OpenMsg(f.aliceUSDC, 50))
	require.NoError(t, err)

	// Tokens sent directly to the custody are refunded as well.
	require.NoError(t, f.tokens.MintTo(f.db, usdc, ref.Custody, 7))

	res, err := f.exec(t, f.alice, ref.CancelMsg(f.aliceUSDC))
	require.NoError(t, err)
	moved, err := DecodeAmount(res.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(57), moved)
	assert.Equal(t, uint64(initialBalance+7), f.balance(t, f.aliceUSDC))
}

func TestOpen(t *testing.T) {
	cases := map[string]struct {
		msg     func(f *fixture) *OpenMsg
		signer  func(f *fixture) safepay.Condition
		wantErr *errors.Error
	}{
		"success": {
			msg: func(f *fixture) *OpenMsg { return f.ref(t, 1).OpenMsg(f.aliceUSDC, 10) },
		},
		"whole balance": {
			msg: func(f *fixture) *OpenMsg { return f.ref(t, 1).OpenMsg(f.aliceUSDC, initialBalance) },
		},
		"not signed by the sender": {
			msg:     func(f *fixture) *OpenMsg { return f.ref(t, 1).OpenMsg(f.aliceUSDC, 10) },
			signer:  func(f *fixture) safepay.Condition { return f.bob },
			wantErr: errors.ErrUnauthorized,
		},
		"no signature": {
			msg:     func(f *fixture) *OpenMsg { return f.ref(t, 1).OpenMsg(f.aliceUSDC, 10) },
			signer:  func(f *fixture) safepay.Condition { return nil },
			wantErr: errors.ErrUnauthorized,
		},
		"insufficient balance": {
			msg:     func(f *fixture) *OpenMsg { return f.ref(t, 1).OpenMsg(f.aliceUSDC, initialBalance+1) },
			wantErr: errors.ErrInsufficientAmount,
		},
		"zero amount": {
			msg:     func(f *fixture) *OpenMsg { return f.ref(t, 1).OpenMsg(f.aliceUSDC, 0) },
			wantErr: errors.ErrAmount,
		},
		"source of another asset": {
			msg:     func(f *fixture) *OpenMsg { return f.ref(t, 1).OpenMsg(f.aliceEURC, 10) },
			wantErr: ErrOwnershipMismatch,
		},
		"source not owned by the sender": {
			msg: func(f *fixture) *OpenMsg {
				bobEURC, err := f.tokens.AssociatedAddress(f.db, f.bob.Address(), eurc)
				require.NoError(t, err)
				msg := f.ref(t, 1).OpenMsg(bobEURC, 10)
				msg.Asset = eurc
				ref, err := NewEscrowRef(f.program, msg.identity())
				require.NoError(t, err)
				msg.StateBump, msg.WalletBump = uint32(ref.StateBump), uint32(ref.WalletBump)
				return msg
			},
			wantErr: ErrOwnershipMismatch,
		},
		"missing source holding": {
			msg:     func(f *fixture) *OpenMsg { return f.ref(t, 1).OpenMsg(safepaytest.NewCondition().Address(), 10) },
			wantErr: errors.ErrNotFound,
		},
		"non canonical state bump": {
			msg: func(f *fixture) *OpenMsg {
				ref := f.ref(t, 1)
				msg := ref.OpenMsg(f.aliceUSDC, 10)
				msg.StateBump = uint32(nonCanonicalBump(t, f.program, ref.Seeds(stateTag), ref.StateBump))
				return msg
			},
			wantErr: ErrAuthorityMismatch,
		},
		"non canonical wallet bump": {
			msg: func(f *fixture) *OpenMsg {
				ref := f.ref(t, 1)
				msg := ref.OpenMsg(f.aliceUSDC, 10)
				msg.WalletBump = uint32(nonCanonicalBump(t, f.program, ref.Seeds(walletTag), ref.WalletBump))
				return msg
			},
			wantErr: ErrAuthorityMismatch,
		},
		"bump out of range": {
			msg: func(f *fixture) *OpenMsg {
				msg := f.ref(t, 1).OpenMsg(f.aliceUSDC, 10)
				msg.StateBump = 256
				return msg
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			signer := f.alice
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			msg := tc.msg(f)
			_, err := f.exec(t, signer, msg)
			assert.IsErr(t, tc.wantErr, err)

			ref, rerr := NewEscrowRef(f.program, msg.identity())
			require.NoError(t, rerr)
			_, qerr := Query(f.db, ref.Record)
			if tc.wantErr != nil {
				assert.IsErr(t, errors.ErrNotFound, qerr)
				assert.Equal(t, uint64(initialBalance), f.balance(t, f.aliceUSDC))
				return
			}
			assert.Nil(t, qerr)
			assert.Equal(t, msg.Amount, f.balance(t, ref.Custody))
		})
	}
}

func TestOpenTwice(t *testing.T) {
	f := newFixture(t)
	ref := f.ref(t, 9)

	_, err := f.exec(t, f.alice, ref.OpenMsg(f.aliceUSDC, 10))
	require.NoError(t, err)
	_, err = f.exec(t, f.alice, ref.OpenMsg(f.aliceUSDC, 10))
	assert.IsErr(t, errors.ErrDuplicate, err)
	assert.Equal(t, uint64(10), f.balance(t, ref.Custody))

	// Another instance key is another escrow.
	other := f.ref(t, 10)
	_, err = f.exec(t, f.alice, other.OpenMsg(f.aliceUSDC, 10))
	require.NoError(t, err)
	assert.Equal(t, uint64(initialBalance-20), f.balance(t, f.aliceUSDC))
}

func TestCompleteRequiresReceiver(t *testing.T) {
	f := newFixture(t)
	ref := f.ref(t, 1)
	_, err := f.exec(t, f.alice, ref.OpenMsg(f.aliceUSDC, 100))
	require.NoError(t, err)

	for _, signer := range []safepay.Condition{f.alice, f.carol, nil} {
		_, err := f.exec(t, signer, ref.CompleteMsg())
		assert.IsErr(t, errors.ErrUnauthorized, err)
	}
	assert.Equal(t, uint64(100), f.balance(t, ref.Custody))
	assert.Equal(t, StageDeposited, f.record(t, ref).Stage)
	_, err = f.tokens.Account(f.db, f.bobUSDC)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCancelRequiresSender(t *testing.T) {
	f := newFixture(t)
	ref := f.ref(t, 1)
	_, err := f.exec(t, f.alice, ref.OpenMsg(f.aliceUSDC, 100))
	require.NoError(t, err)

	_, err = f.exec(t, f.bob, ref.CancelMsg(f.aliceUSDC))
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, StageDeposited, f.record(t, ref).Stage)
}

func TestCancelDestination(t *testing.T) {
	f := newFixture(t)
	ref := f.ref(t, 1)
	_, err := f.exec(t, f.alice, ref.OpenMsg(f.aliceUSDC, 100))
	require.NoError(t, err)

	bobEURC, err := f.tokens.AssociatedAddress(f.db, f.bob.Address(), eurc)
	require.NoError(t, err)

	cases := map[string]struct {
		refundTo safepay.Address
		wantErr  *errors.Error
	}{
		"holding of the receiver": {refundTo: bobEURC, wantErr: ErrOwnershipMismatch},
		"holding of another asset": {refundTo: f.aliceEURC, wantErr: ErrOwnershipMismatch},
		"missing holding":          {refundTo: safepaytest.NewCondition().Address(), wantErr: errors.ErrNotFound},
		"the custody itself":       {refundTo: ref.Custody, wantErr: ErrOwnershipMismatch},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := f.exec(t, f.alice, ref.CancelMsg(tc.refundTo))
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, uint64(100), f.balance(t, ref.Custody))
		})
	}
}

func TestTerminalStages(t *testing.T) {
	f := newFixture(t)

	completed := f.ref(t, 1)
	_, err := f.exec(t, f.alice, completed.OpenMsg(f.aliceUSDC, 10))
	require.NoError(t, err)
	_, err = f.exec(t, f.bob, completed.CompleteMsg())
	require.NoError(t, err)
	_, err = f.exec(t, f.alice, completed.CancelMsg(f.aliceUSDC))
	assert.IsErr(t, ErrStageInvalid, err)

	refunded := f.ref(t, 2)
	_, err = f.exec(t, f.alice, refunded.OpenMsg(f.aliceUSDC, 10))
	require.NoError(t, err)
	_, err = f.exec(t, f.alice, refunded.CancelMsg(f.aliceUSDC))
	require.NoError(t, err)
	_, err = f.exec(t, f.bob, refunded.CompleteMsg())
	assert.IsErr(t, ErrStageInvalid, err)

	_, err = f.exec(t, f.bob, f.ref(t, 3).CompleteMsg())
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestSubstitutedCustody(t *testing.T) {
	f := newFixture(t)
	ref := f.ref(t, 1)
	_, err := f.exec(t, f.alice, ref.OpenMsg(f.aliceUSDC, 100))
	require.NoError(t, err)

	// Another valid wallet bump points to an address that is not the
	// custody of this escrow.
	msg := ref.CompleteMsg()
	msg.WalletBump = uint32(nonCanonicalBump(t, f.program, ref.Seeds(walletTag), ref.WalletBump))
	_, err = f.exec(t, f.bob, msg)
	assert.IsErr(t, ErrAuthorityMismatch, err)

	// A record pointing to a holding the escrow does not control is
	// rejected as well.
	forged := f.record(t, ref)
	forged.Custody = f.aliceUSDC
	require.NoError(t, escrows.Put(f.db, ref.Record, forged))
	_, err = f.exec(t, f.bob, ref.CompleteMsg())
	assert.IsErr(t, ErrAuthorityMismatch, err)
	_, err = f.exec(t, f.alice, ref.CancelMsg(f.aliceUSDC))
	assert.IsErr(t, ErrAuthorityMismatch, err)
	assert.Equal(t, uint64(initialBalance-100), f.balance(t, f.aliceUSDC))
}

func TestCheckDoesNotWrite(t *testing.T) {
	f := newFixture(t)
	ref := f.ref(t, 1)
	msg := ref.OpenMsg(f.aliceUSDC, 10)
	ctx := f.auth.SetConditions(context.Background(), f.alice)
	res, err := f.handler(msg).Check(ctx, f.db, &safepaytest.Tx{Msg: msg})
	require.NoError(t, err)
	assert.Equal(t, openEscrowCost, res.GasAllocated)
	_, err = Query(f.db, ref.Record)
	assert.IsErr(t, errors.ErrNotFound, err)
}
