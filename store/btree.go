package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/safepay/errors"
)

// btreeDegree is the branching factor of the cache btree.
const btreeDegree = 2

// BTreeCacheWrap places a btree cache over a read only store. All writes go
// to the btree and to the batch, the batch being flushed on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap returns a cache over back, writing through batch.
//
// free may be nil. Nested cache wraps share the free list of their parent.
func NewBTreeCacheWrap(back ReadOnlyKVStore, batch Batch, free *btree.FreeList) *BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return &BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  back,
		batch: batch,
	}
}

// MemStore returns an empty in memory store. Nothing is persisted.
func MemStore() CacheableKVStore {
	var e EmptyKVStore
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// CacheWrap layers another cache on top of this one. Writing it flushes its
// operations into this cache only.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch that writes into this cache.
func (b *BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all cached operations to the parent and clears the cache.
func (b *BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	if err != nil {
		return errors.Wrap(err, "cache write")
	}
	return nil
}

// Discard drops all cached data.
func (b *BTreeCacheWrap) Discard() {
	b.bt.Clear(true)
	if r, ok := b.batch.(resetter); ok {
		r.reset()
	}
}

func (b *BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.bt.ReplaceOrInsert(item{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b *BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.bt.ReplaceOrInsert(item{key: key, deleted: true})
	return b.batch.Delete(key)
}

// Get returns the cached value if present, otherwise it reads from the
// parent store.
func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if key == nil {
		panic("nil key")
	}
	if res := b.bt.Get(item{key: key}); res != nil {
		it := res.(item)
		if it.deleted {
			return nil, nil
		}
		return it.value, nil
	}
	return b.back.Get(key)
}

func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if key == nil {
		panic("nil key")
	}
	if res := b.bt.Get(item{key: key}); res != nil {
		return !res.(item).deleted, nil
	}
	return b.back.Has(key)
}

// resetter is implemented by batches that can drop their recorded
// operations without writing them.
type resetter interface {
	reset()
}

// item is a cached key, either set to a value or marked as deleted.
type item struct {
	key     []byte
	value   []byte
	deleted bool
}

func (i item) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(item).key) < 0
}

// EmptyKVStore never holds any data, used as a base layer of MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has(key []byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error    { return nil }
func (EmptyKVStore) Delete(key []byte) error        { return nil }
func (e EmptyKVStore) NewBatch() Batch              { return NewNonAtomicBatch(e) }
