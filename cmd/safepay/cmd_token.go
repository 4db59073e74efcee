package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/safepay/cmd/safepay/app"
	"github.com/iov-one/safepay/errors"
)

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Send tokens from the associated holding of the key owner to the associated
holding of the recipient. The recipient holding must exist.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Application home directory. You can use SAFEPAY_HOME environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(), "Path to the private key file of the sender.")
		toFl      = flAddress(fl, "to", "", "Recipient address.")
		tickerFl  = fl.String("asset", "USDC", "Ticker of the asset.")
		amountFl  = fl.Uint64("amount", 0, "Amount to send.")
		logLevel  = fl.String("log-level", "error", "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	if len(*toFl) == 0 {
		flagDie("recipient is required")
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

	asset := app.AssetID(*tickerFl)
	from, err := h.AssociatedHolding(key.PublicKey().Address(), asset)
	if err != nil {
		return err
	}
	to, err := h.AssociatedHolding(*toFl, asset)
	if err != nil {
		return err
	}
	return h.Send(context.Background(), key, from, to, *amountFl)
}

func cmdCreateHolding(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create the associated holding of an owner, paid by the key owner. The holding
address is printed out.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Application home directory. You can use SAFEPAY_HOME environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(), "Path to the private key file of the payer.")
		ownerFl   = flAddress(fl, "owner", "", "Owner of the holding. Defaults to the payer.")
		tickerFl  = fl.String("asset", "USDC", "Ticker of the asset.")
		logLevel  = fl.String("log-level", "error", "Log level: debug, info, error or none.")
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

	owner := *ownerFl
	if len(owner) == 0 {
		owner = key.PublicKey().Address()
	}
	addr, err := h.CreateHolding(context.Background(), key, owner, app.AssetID(*tickerFl))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, addr)
	return err
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the native funds of an account and the balance of its associated
holding of the asset.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = fl.String("home", defaultHome(), "Application home directory. You can use SAFEPAY_HOME environment variable to set it.")
		ownerFl  = flAddress(fl, "owner", "", "Account address.")
		tickerFl = fl.String("asset", "USDC", "Ticker of the asset.")
		logLevel = fl.String("log-level", "error", "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	if len(*ownerFl) == 0 {
		flagDie("owner is required")
	}
	h, err := openApp(*homeFl, *logLevel)
	if err != nil {
		return err
	}
	defer h.Close()

	funds, err := h.Funds(*ownerFl)
	if err != nil {
		return err
	}
	addr, err := h.AssociatedHolding(*ownerFl, app.AssetID(*tickerFl))
	if err != nil {
		return err
	}
	var balance uint64
	switch holding, err := h.Holding(addr); {
	case err == nil:
		balance = holding.Balance
	case errors.ErrNotFound.Is(err):
	default:
		return err
	}

	return writeJSON(output, struct {
		Funds   uint64 `json:"funds"`
		Holding string `json:"holding"`
		Balance uint64 `json:"balance"`
	}{funds, addr.String(), balance})
}
