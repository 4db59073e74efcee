package store

import "github.com/iov-one/safepay"

type (
	// ReadOnlyKVStore is re-exported from the root package.
	ReadOnlyKVStore = safepay.ReadOnlyKVStore
	// SetDeleter is re-exported from the root package.
	SetDeleter = safepay.SetDeleter
	// KVStore is re-exported from the root package.
	KVStore = safepay.KVStore
	// Batch is re-exported from the root package.
	Batch = safepay.Batch
	// CacheableKVStore is re-exported from the root package.
	CacheableKVStore = safepay.CacheableKVStore
	// KVCacheWrap is re-exported from the root package.
	KVCacheWrap = safepay.KVCacheWrap
)
