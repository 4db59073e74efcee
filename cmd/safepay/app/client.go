package app

import (
	"context"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x/escrow"
	"github.com/iov-one/safepay/x/sigs"
	"github.com/iov-one/safepay/x/token"
)

// Client submits signed transactions to an in-process application and reads
// its state.
type Client struct {
	app    *app.Application
	tokens token.Controller
}

// NewClient returns a client of given application.
func NewClient(a *app.Application) *Client {
	return &Client{app: a, tokens: token.NewController()}
}

// Open locks amount of the asset from the source holding into a new escrow.
// The returned reference addresses the escrow in Complete and Cancel.
func (c *Client) Open(ctx context.Context, sender crypto.Signer, receiver, asset, source safepay.Address, instanceKey, amount uint64) (*escrow.EscrowRef, error) {
	program, err := escrow.Program(c.app.Store())
	if err != nil {
		return nil, errors.Wrap(err, "escrow program")
	}
	ref, err := escrow.NewEscrowRef(program, escrow.Identity{
		Sender:      sender.PublicKey().Address(),
		Receiver:    receiver,
		Asset:       asset,
		InstanceKey: instanceKey,
	})
	if err != nil {
		return nil, err
	}
	if _, err := c.submit(ctx, sender, ref.OpenMsg(source, amount)); err != nil {
		return nil, err
	}
	return ref, nil
}

// Complete releases the escrow to the receiver. It returns the holding the
// funds were moved to.
func (c *Client) Complete(ctx context.Context, receiver crypto.Signer, ref *escrow.EscrowRef) (safepay.Address, error) {
	res, err := c.submit(ctx, receiver, ref.CompleteMsg())
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Cancel refunds the escrow into given holding of the sender. It returns
// the refunded amount.
func (c *Client) Cancel(ctx context.Context, sender crypto.Signer, ref *escrow.EscrowRef, refundTo safepay.Address) (uint64, error) {
	res, err := c.submit(ctx, sender, ref.CancelMsg(refundTo))
	if err != nil {
		return 0, err
	}
	return escrow.DecodeAmount(res.Data)
}

// Send moves tokens between two holdings of the same asset.
func (c *Client) Send(ctx context.Context, owner crypto.Signer, from, to safepay.Address, amount uint64) error {
	_, err := c.submit(ctx, owner, &token.SendMsg{From: from, To: to, Amount: amount})
	return err
}

// CreateHolding provisions the associated holding of owner for given asset,
// paid by payer.
func (c *Client) CreateHolding(ctx context.Context, payer crypto.Signer, owner, mint safepay.Address) (safepay.Address, error) {
	res, err := c.submit(ctx, payer, &token.CreateHoldingMsg{Owner: owner, Mint: mint})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Escrow returns the escrow record stored at given address.
func (c *Client) Escrow(record safepay.Address) (*escrow.Escrow, error) {
	return escrow.Query(c.app.Store(), record)
}

// Holding returns the holding stored at given address.
func (c *Client) Holding(addr safepay.Address) (*token.Account, error) {
	return c.tokens.Account(c.app.Store(), addr)
}

// AssociatedHolding returns the address of the associated holding of owner
// for given asset. The holding may not exist yet.
func (c *Client) AssociatedHolding(owner, mint safepay.Address) (safepay.Address, error) {
	return c.tokens.AssociatedAddress(c.app.Store(), owner, mint)
}

// Funds returns the native funds of given address.
func (c *Client) Funds(addr safepay.Address) (uint64, error) {
	return c.tokens.Funds(c.app.Store(), addr)
}

// submit signs the message with the next sequence of the signer, checks it
// and delivers it.
func (c *Client) submit(ctx context.Context, signer crypto.Signer, msg safepay.Msg) (*safepay.DeliverResult, error) {
	tx, err := NewTx(msg)
	if err != nil {
		return nil, err
	}
	seq, err := sigs.NextSequence(c.app.Store(), signer.PublicKey())
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	sig, err := sigs.SignTx(signer, tx, c.app.ChainID(), seq)
	if err != nil {
		return nil, err
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	if _, err := c.app.CheckTx(ctx, tx); err != nil {
		return nil, errors.Wrap(err, "check")
	}
	res, err := c.app.DeliverTx(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "deliver")
	}
	return res, nil
}
