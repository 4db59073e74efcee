/*
Package gconf stores the configuration of extensions.

Each extension keeps a single configuration object in the store under the
"_c:<package name>" key. The object is read from the genesis "conf" section
when the chain is initialised and loaded by handlers whenever they need it.
*/
package gconf

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Configuration is implemented by every configuration object.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

func configKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates the configuration and writes it as the configuration of
// given package.
func Save(db safepay.SetDeleter, pkg string, src Configuration) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validate %s configuration", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "marshal %s configuration: %s", pkg, err)
	}
	if err := db.Set(configKey(pkg), raw); err != nil {
		return errors.Wrapf(err, "save %s configuration", pkg)
	}
	return nil
}

// Load reads the configuration of given package into dst. ErrNotFound is
// returned when the package was never configured.
func Load(db safepay.ReadOnlyKVStore, pkg string, dst Configuration) error {
	raw, err := db.Get(configKey(pkg))
	if err != nil {
		return errors.Wrapf(err, "load %s configuration", pkg)
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal %s configuration: %s", pkg, err)
	}
	return nil
}

// InitConfig reads opts["conf"][pkg] into conf, validates it and saves it as
// the configuration of given package.
func InitConfig(db safepay.SetDeleter, opts safepay.Options, pkg string, conf Configuration) error {
	var confOptions safepay.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read %s configuration", pkg)
	}
	return Save(db, pkg, conf)
}
