/*
Package store provides the key value stores the application runs on.

Every store implements safepay.CacheableKVStore. A cache wrap buffers all
writes in a btree on top of its parent store. Write flushes the buffered
operations to the parent in order, Discard drops them. Cache wraps can be
nested, which is how savepoints inside a transaction are implemented.

MemStore keeps everything in memory and is meant for tests and check
transactions. LevelDB persists data on disk and commits a cache wrap as a
single atomic leveldb batch.
*/
package store
