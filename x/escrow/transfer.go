package escrow

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x"
	"github.com/iov-one/safepay/x/token"
)

// transferOut moves amount from the custody of the escrow into dest, acting
// with the authority of the record address. The balance left in custody is
// read again after the transfer and an empty custody is closed, its storage
// allowance going back to the sender.
//
// A custody that was already closed can only release zero tokens.
func transferOut(
	ctx safepay.Context,
	db safepay.KVStore,
	tokens token.Controller,
	rec *Escrow,
	authority *derive.Credential,
	dest safepay.Address,
	amount uint64,
) (closed bool, err error) {
	custody, err := tokens.Account(db, rec.Custody)
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err) && amount == 0:
		return true, nil
	default:
		return false, errors.Wrap(err, "custody")
	}
	if !custody.Owner.Equals(authority.Address()) {
		return false, errors.Wrapf(ErrAuthorityMismatch, "custody %s is not owned by %s", rec.Custody, authority.Address())
	}

	signer := x.SignedBy(authority.Condition())
	if err := tokens.Transfer(ctx, db, signer, rec.Custody, dest, amount); err != nil {
		return false, errors.Wrap(err, "release custody")
	}

	left, err := tokens.Balance(db, rec.Custody)
	if err != nil {
		return false, errors.Wrap(err, "custody balance")
	}
	if left != 0 {
		return false, nil
	}
	if _, err := tokens.CloseAccount(ctx, db, signer, rec.Custody, rec.Sender); err != nil {
		return false, errors.Wrap(err, "close custody")
	}
	return true, nil
}
