package orm

import (
	"reflect"
	"regexp"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	safepay.Persistent
	Validate() error
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// ModelBucket is the storage of a single model type.
type ModelBucket interface {
	// One loads the model stored under given key into dest. ErrNotFound is
	// returned when no model exists, ErrType when dest is not of the
	// bucket model type.
	One(db safepay.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if a model exists under given key.
	Has(db safepay.ReadOnlyKVStore, key []byte) (bool, error)

	// Put validates and saves given model, overwriting any existing value.
	Put(db safepay.KVStore, key []byte, m Model) error

	// Create is like Put, but fails with ErrDuplicate when the key is
	// already used.
	Create(db safepay.KVStore, key []byte, m Model) error

	// Delete removes the model stored under given key. ErrNotFound is
	// returned when no model exists.
	Delete(db safepay.KVStore, key []byte) error
}

// NewModelBucket returns a bucket storing models of the same type as model
// under given name. Panics if the name is not valid.
func NewModelBucket(name string, model Model) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return &modelBucket{
		prefix: []byte(name + ":"),
		model:  reflect.TypeOf(model),
	}
}

type modelBucket struct {
	prefix []byte
	model  reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	if len(key) == 0 {
		panic("empty model key")
	}
	return append(append(make([]byte, 0, len(mb.prefix)+len(key)), mb.prefix...), key...)
}

func (mb *modelBucket) One(db safepay.ReadOnlyKVStore, key []byte, dest Model) error {
	if t := reflect.TypeOf(dest); t != mb.model {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %T", mb.model, dest)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.model, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.model, err)
	}
	return nil
}

func (mb *modelBucket) Has(db safepay.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return false, errors.Wrap(err, "cannot load from the database")
	}
	return ok, nil
}

func (mb *modelBucket) Put(db safepay.KVStore, key []byte, m Model) error {
	if t := reflect.TypeOf(m); t != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %T in a %s bucket", m, mb.model)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal: %s", err)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Create(db safepay.KVStore, key []byte, m Model) error {
	switch exists, err := mb.Has(db, key); {
	case err != nil:
		return err
	case exists:
		return errors.Wrapf(errors.ErrDuplicate, "%s %X", mb.model, key)
	}
	return mb.Put(db, key, m)
}

func (mb *modelBucket) Delete(db safepay.KVStore, key []byte) error {
	switch exists, err := mb.Has(db, key); {
	case err != nil:
		return err
	case !exists:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.model, key)
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}
