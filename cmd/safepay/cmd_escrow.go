package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/cmd/safepay/app"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/x/escrow"
)

// escrowView is the printed form of an escrow reference and its record.
type escrowView struct {
	Sender      safepay.Address `json:"sender"`
	Receiver    safepay.Address `json:"receiver"`
	Asset       safepay.Address `json:"asset"`
	InstanceKey uint64          `json:"instance_key"`
	Record      safepay.Address `json:"record"`
	StateBump   uint8           `json:"state_bump"`
	Custody     safepay.Address `json:"custody"`
	WalletBump  uint8           `json:"wallet_bump"`
	Amount      uint64          `json:"amount,omitempty"`
	Stage       string          `json:"stage,omitempty"`
}

func newEscrowView(ref *escrow.EscrowRef, rec *escrow.Escrow) escrowView {
	v := escrowView{
		Sender:      ref.Sender,
		Receiver:    ref.Receiver,
		Asset:       ref.Asset,
		InstanceKey: ref.InstanceKey,
		Record:      ref.Record,
		StateBump:   ref.StateBump,
		Custody:     ref.Custody,
		WalletBump:  ref.WalletBump,
	}
	if rec != nil {
		v.Amount = rec.Amount
		v.Stage = rec.Stage.String()
	}
	return v
}

func escrowRef(program derive.Keyspace, sender, receiver safepay.Address, ticker string, instance uint64) (*escrow.EscrowRef, error) {
	if len(sender) == 0 || len(receiver) == 0 {
		flagDie("sender and receiver are required")
	}
	return escrow.NewEscrowRef(program, escrow.Identity{
		Sender:      sender,
		Receiver:    receiver,
		Asset:       app.AssetID(ticker),
		InstanceKey: instance,
	})
}

func cmdDerive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the addresses and bumps of the escrow of given parties, asset and
instance key. The state is not read.
`)
		fl.PrintDefaults()
	}
	var (
		senderFl   = flAddress(fl, "sender", "", "Sender address.")
		receiverFl = flAddress(fl, "receiver", "", "Receiver address.")
		tickerFl   = fl.String("asset", "USDC", "Ticker of the asset.")
		instanceFl = fl.Uint64("instance", 0, "Instance key.")
		programFl  = fl.String("program", app.DefaultProgram.Name(), "Name of the escrow program keyspace.")
	)
	fl.Parse(args)

	ref, err := escrowRef(derive.NewKeyspace(*programFl), *senderFl, *receiverFl, *tickerFl, *instanceFl)
	if err != nil {
		return err
	}
	return writeJSON(output, newEscrowView(ref, nil))
}

func cmdOpen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Open an escrow. The amount is moved from the source holding of the key owner
into the custody of the escrow. The escrow reference is printed out.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl     = fl.String("home", defaultHome(), "Application home directory. You can use SAFEPAY_HOME environment variable to set it.")
		keyPathFl  = fl.String("key", defaultKeyPath(), "Path to the private key file of the sender.")
		receiverFl = flAddress(fl, "receiver", "", "Receiver address.")
		tickerFl   = fl.String("asset", "USDC", "Ticker of the asset.")
		instanceFl = fl.Uint64("instance", 0, "Instance key, distinguishing escrows between the same parties.")
		amountFl   = fl.Uint64("amount", 0, "Amount to lock.")
		sourceFl   = flAddress(fl, "source", "", "Source holding. Defaults to the associated holding of the sender.")
		logLevel   = fl.String("log-level", "error", "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	if len(*receiverFl) == 0 {
		flagDie("receiver is required")
	}
	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	h, err := openApp(*homeFl, *logLevel)
	if err != nil {
		return err
	}
	defer h.Close()

	sender := key.PublicKey().Address()
	asset := app.AssetID(*tickerFl)
	source, err := orAssociated(h, *sourceFl, sender, asset)
	if err != nil {
		return err
	}
	ref, err := h.Open(context.Background(), key, *receiverFl, asset, source, *instanceFl, *amountFl)
	if err != nil {
		return err
	}
	rec, err := h.Escrow(ref.Record)
	if err != nil {
		return err
	}
	return writeJSON(output, newEscrowView(ref, rec))
}

func cmdComplete(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Complete an escrow as its receiver. The funds are moved to the associated
holding of the receiver, created if needed. The holding address is printed out.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl     = fl.String("home", defaultHome(), "Application home directory. You can use SAFEPAY_HOME environment variable to set it.")
		keyPathFl  = fl.String("key", defaultKeyPath(), "Path to the private key file of the receiver.")
		senderFl   = flAddress(fl, "sender", "", "Sender address.")
		tickerFl   = fl.String("asset", "USDC", "Ticker of the asset.")
		instanceFl = fl.Uint64("instance", 0, "Instance key.")
		logLevel   = fl.String("log-level", "error", "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	h, err := openApp(*homeFl, *logLevel)
	if err != nil {
		return err
	}
	defer h.Close()

	program, err := escrow.Program(h.app.Store())
	if err != nil {
		return err
	}
	ref, err := escrowRef(program, *senderFl, key.PublicKey().Address(), *tickerFl, *instanceFl)
	if err != nil {
		return err
	}
	dest, err := h.Complete(context.Background(), key, ref)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, dest)
	return err
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Cancel an escrow as its sender. The custody balance is moved back to a holding
of the sender. The refunded amount is printed out.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl     = fl.String("home", defaultHome(), "Application home directory. You can use SAFEPAY_HOME environment variable to set it.")
		keyPathFl  = fl.String("key", defaultKeyPath(), "Path to the private key file of the sender.")
		receiverFl = flAddress(fl, "receiver", "", "Receiver address.")
		tickerFl   = fl.String("asset", "USDC", "Ticker of the asset.")
		instanceFl = fl.Uint64("instance", 0, "Instance key.")
		refundFl   = flAddress(fl, "refund-to", "", "Refund holding. Defaults to the associated holding of the sender.")
		logLevel   = fl.String("log-level", "error", "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	h, err := openApp(*homeFl, *logLevel)
	if err != nil {
		return err
	}
	defer h.Close()

	program, err := escrow.Program(h.app.Store())
	if err != nil {
		return err
	}
	sender := key.PublicKey().Address()
	ref, err := escrowRef(program, sender, *receiverFl, *tickerFl, *instanceFl)
	if err != nil {
		return err
	}
	refundTo, err := orAssociated(h, *refundFl, sender, ref.Asset)
	if err != nil {
		return err
	}
	amount, err := h.Cancel(context.Background(), key, ref, refundTo)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, amount)
	return err
}

func cmdShowEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out an escrow and its current stage.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl     = fl.String("home", defaultHome(), "Application home directory. You can use SAFEPAY_HOME environment variable to set it.")
		senderFl   = flAddress(fl, "sender", "", "Sender address.")
		receiverFl = flAddress(fl, "receiver", "", "Receiver address.")
		tickerFl   = fl.String("asset", "USDC", "Ticker of the asset.")
		instanceFl = fl.Uint64("instance", 0, "Instance key.")
		logLevel   = fl.String("log-level", "error", "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	h, err := openApp(*homeFl, *logLevel)
	if err != nil {
		return err
	}
	defer h.Close()

	program, err := escrow.Program(h.app.Store())
	if err != nil {
		return err
	}
	ref, err := escrowRef(program, *senderFl, *receiverFl, *tickerFl, *instanceFl)
	if err != nil {
		return err
	}
	rec, err := h.Escrow(ref.Record)
	if err != nil {
		return err
	}
	return writeJSON(output, newEscrowView(ref, rec))
}
