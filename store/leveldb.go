package store

import (
	"github.com/iov-one/safepay/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDB is a persistent store backed by a leveldb database on disk.
type LevelDB struct {
	db *leveldb.DB
}

var _ CacheableKVStore = (*LevelDB)(nil)

// OpenLevelDB opens, or creates, the database in given directory.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", dir, err)
	}
	return &LevelDB{db: db}, nil
}

// Close releases the database. The store must not be used afterwards.
func (l *LevelDB) Close() error {
	if err := l.db.Close(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "close: %s", err)
	}
	return nil
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	if key == nil {
		panic("nil key")
	}
	val, err := l.db.Get(key, nil)
	switch {
	case err == leveldb.ErrNotFound:
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	return val, nil
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	if key == nil {
		panic("nil key")
	}
	ok, err := l.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has: %s", err)
	}
	return ok, nil
}

func (l *LevelDB) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	if err := l.db.Put(key, value, nil); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "set: %s", err)
	}
	return nil
}

func (l *LevelDB) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	if err := l.db.Delete(key, nil); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "delete: %s", err)
	}
	return nil
}

// NewBatch returns a batch that is committed to disk atomically.
func (l *LevelDB) NewBatch() Batch {
	return &levelBatch{db: l.db, b: new(leveldb.Batch)}
}

// CacheWrap returns a cache whose Write commits all its operations in a
// single atomic leveldb batch.
func (l *LevelDB) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(l, l.NewBatch(), nil)
}

type levelBatch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *levelBatch) Set(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *levelBatch) Write() error {
	if err := b.db.Write(b.b, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "batch write: %s", err)
	}
	b.b.Reset()
	return nil
}

func (b *levelBatch) reset() {
	b.b.Reset()
}
