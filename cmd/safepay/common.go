package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/safepay"
	baseapp "github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/cmd/safepay/app"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/store"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

// env returns the value of an environment variable if provided (even if
// empty) or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultHome() string {
	return env("SAFEPAY_HOME", filepath.Join(os.Getenv("HOME"), ".safepay"))
}

func defaultKeyPath() string {
	return env("SAFEPAY_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".safepay.priv.key"))
}

// logOutput is where the application logs are written.
var logOutput io.Writer = os.Stderr

func newLogger(level string) (log.Logger, error) {
	allowed, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(logOutput)), allowed), nil
}

// appHome is an application opened from its home directory.
type appHome struct {
	*app.Client
	app *baseapp.Application
	db  *store.LevelDB
}

// openApp opens the application state kept in the home directory. The
// returned application must be closed after use.
func openApp(home, logLevel string) (*appHome, error) {
	logger, err := newLogger(logLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %s", err)
	}
	db, err := store.OpenLevelDB(filepath.Join(home, "data"))
	if err != nil {
		return nil, fmt.Errorf("cannot open state: %s", err)
	}
	a, err := app.NewApplication(db, logger, nil, false)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create application: %s", err)
	}
	return &appHome{Client: app.NewClient(a), app: a, db: db}, nil
}

func (h *appHome) Close() error {
	return h.db.Close()
}

// readKey loads the private key stored in a file as raw bytes.
func readKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}

// orAssociated returns addr, or the associated holding of owner if addr is
// not set.
func orAssociated(h *appHome, addr, owner, asset safepay.Address) (safepay.Address, error) {
	if len(addr) != 0 {
		return addr, nil
	}
	return h.AssociatedHolding(owner, asset)
}

func writeJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
