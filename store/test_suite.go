package store

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/safepay/safepaytest/assert"
)

// TestSuite runs the same checks against any CacheableKVStore
// implementation. Each implementation provides a constructor and calls the
// suite methods from its own tests.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh, empty store and a function that
// releases it.
type TestStoreConstructor func(t testing.TB) (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// Run executes all checks of the suite as subtests.
func (s *TestSuite) Run(t *testing.T) {
	t.Run("get set", s.GetSet)
	t.Run("cache conflicts", s.CacheConflicts)
	t.Run("nested savepoints", s.NestedSavepoints)
	t.Run("discard", s.Discard)
}

// GetSet does basic sanity checks on the store and a cache over it.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase(t)
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// A cache sees the parent data.
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// Writing more data is only visible in the cache.
	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// Deleting through a cache.
	c2 := base.CacheWrap()
	assert.Nil(t, c2.Delete(k))
	s.AssertGetHas(t, c2, k, nil, false)
	s.AssertGetHas(t, base, k, v, true)
	assert.Nil(t, c2.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that a cache can overwrite and delete parent values
// without affecting the parent until written.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	ks := randKeys(4, 16)
	vs := randKeys(4, 40)

	parent, cleanup := s.makeBase(t)
	defer cleanup()

	for _, op := range []Op{SetOp(ks[1], vs[1]), SetOp(ks[2], vs[2])} {
		assert.Nil(t, op.Apply(parent))
	}

	child := parent.CacheWrap()
	for _, op := range []Op{SetOp(ks[1], vs[3]), SetOp(ks[3], vs[0]), DelOp(ks[2])} {
		assert.Nil(t, op.Apply(child))
	}

	s.AssertGetHas(t, parent, ks[1], vs[1], true)
	s.AssertGetHas(t, parent, ks[2], vs[2], true)
	s.AssertGetHas(t, parent, ks[3], nil, false)

	s.AssertGetHas(t, child, ks[1], vs[3], true)
	s.AssertGetHas(t, child, ks[2], nil, false)
	s.AssertGetHas(t, child, ks[3], vs[0], true)

	assert.Nil(t, child.Write())
	s.AssertGetHas(t, parent, ks[1], vs[3], true)
	s.AssertGetHas(t, parent, ks[2], nil, false)
	s.AssertGetHas(t, parent, ks[3], vs[0], true)
}

// NestedSavepoints checks that a discarded inner cache does not affect the
// outer one, while a written inner cache becomes part of it.
func (s *TestSuite) NestedSavepoints(t *testing.T) {
	base, cleanup := s.makeBase(t)
	defer cleanup()

	outer := base.CacheWrap()
	assert.Nil(t, outer.Set([]byte("outer"), []byte("1")))

	failed := outer.CacheWrap()
	assert.Nil(t, failed.Set([]byte("failed"), []byte("2")))
	assert.Nil(t, failed.Delete([]byte("outer")))
	failed.Discard()

	ok := outer.CacheWrap()
	assert.Nil(t, ok.Set([]byte("ok"), []byte("3")))
	assert.Nil(t, ok.Write())

	s.AssertGetHas(t, outer, []byte("outer"), []byte("1"), true)
	s.AssertGetHas(t, outer, []byte("failed"), nil, false)
	s.AssertGetHas(t, outer, []byte("ok"), []byte("3"), true)
	s.AssertGetHas(t, base, []byte("ok"), nil, false)

	assert.Nil(t, outer.Write())
	s.AssertGetHas(t, base, []byte("outer"), []byte("1"), true)
	s.AssertGetHas(t, base, []byte("failed"), nil, false)
	s.AssertGetHas(t, base, []byte("ok"), []byte("3"), true)
}

// Discard checks that a discarded cache leaves no trace, even when written
// afterwards.
func (s *TestSuite) Discard(t *testing.T) {
	base, cleanup := s.makeBase(t)
	defer cleanup()

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("key"), []byte("value")))
	cache.Discard()
	s.AssertGetHas(t, cache, []byte("key"), nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, []byte("key"), nil, false)
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// randKeys returns a slice of count keys, all of a given size
func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = make([]byte, size)
		if _, err := rand.Read(res[i]); err != nil {
			panic(err)
		}
	}
	return res
}
