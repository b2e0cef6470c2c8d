package payermint

// Defines all public interfaces for interacting with stores.
//
// KVStore/Iterator are the basic objects to use in all code.

// ReadOnlyKVStore is a simple interface to read data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is exclusive.
	// Start must be less than end, or the Iterator is invalid.
	// CONTRACT: No writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator over a domain of keys in descending order. End is
	// exclusive. Start must be greater than end, or the Iterator is
	// invalid.
	// CONTRACT: No writes may happen within a domain while an iterator
	// exists over it.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// KVStore is a simple interface to get/set data.
type KVStore interface {
	ReadOnlyKVStore

	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error

	// NewBatch returns a batch that can write multiple ops atomically.
	NewBatch() Batch
}

// SetDeleter is a minimal interface for writing, the write-side subset of
// KVStore that a Batch flushes into.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Batch can write multiple ops atomically to an underlying store.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator allows us to access a set of items within a range of keys. These
// may all be preloaded, or loaded on demand.
//
//   var itr Iterator = ...
//   defer itr.Release()
//
//   for {
//     k, v, err := itr.Next()
//     if errors.ErrIteratorDone.Is(err) {
//       break
//     }
//     ...
//   }
type Iterator interface {
	// Next moves the iterator to the next sequential key in the database,
	// as defined by order of iteration. It returns ErrIteratorDone when
	// the iterator is exhausted.
	Next() (key, value []byte, err error)

	// Release releases the Iterator.
	Release()
}

// CacheableKVStore is a KVStore that supports CacheWrapping
//
// CacheWrap() should not return a Committer, since Commit() on cache-wraps
// makes no sense.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap allows us to maintain a scratch-pad of uncommitted data that
// we can view with all queries.
//
// At the end, call Write to use the cached data, or Discard to drop it.
type KVCacheWrap interface {
	// CacheableKVStore allows us to use this Cache recursively.
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data.
	Discard()
}
