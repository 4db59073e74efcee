package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"

	baseapp "github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/cmd/safepay/app"
)

func cmdGenesis(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out a genesis for local use. A single asset is created. Every account
gets native funds and an associated holding of the asset.
`)
		fl.PrintDefaults()
	}
	var (
		chainIDFl  = fl.String("chain-id", "safepay-local", "Chain ID.")
		tickerFl   = fl.String("ticker", "USDC", "Ticker of the asset.")
		ownerFl    = flAddress(fl, "owner", "", "Authority of the asset mint. Defaults to the first account.")
		accountsFl = flAddressList(fl, "account", "Account to be funded. Can be repeated.")
		fundsFl    = fl.Uint64("funds", 1000000, "Native funds of every account.")
		balanceFl  = fl.Uint64("balance", 1000000, "Asset balance of every account.")
	)
	fl.Parse(args)

	if len(*accountsFl) == 0 {
		flagDie("at least one account is required")
	}
	owner := *ownerFl
	if len(owner) == 0 {
		owner = (*accountsFl)[0]
	}
	gen, err := app.DevGenesis(*chainIDFl, *tickerFl, owner, *accountsFl, *fundsFl, *balanceFl)
	if err != nil {
		return err
	}
	return writeJSON(output, gen)
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the application state in the home directory from a genesis file.
When no file is given, the genesis is read from the standard input.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Application home directory. You can use SAFEPAY_HOME environment variable to set it.")
		genesisFl = fl.String("genesis", "", "Path to the genesis file.")
		logLevel  = fl.String("log-level", "error", "Log level: debug, info, error or none.")
	)
	fl.Parse(args)

	var gen *baseapp.Genesis
	if *genesisFl != "" {
		var err error
		if gen, err = baseapp.LoadGenesis(*genesisFl); err != nil {
			return err
		}
	} else {
		raw, err := ioutil.ReadAll(input)
		if err != nil {
			return fmt.Errorf("cannot read genesis: %s", err)
		}
		gen = new(baseapp.Genesis)
		if err := json.Unmarshal(raw, gen); err != nil {
			return fmt.Errorf("cannot decode genesis: %s", err)
		}
	}

	h, err := openApp(*homeFl, *logLevel)
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.app.InitChain(gen); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, h.app.ChainID())
	return err
}
