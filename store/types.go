package store

import "github.com/payermint/payermint"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = payermint.ReadOnlyKVStore
type KVStore = payermint.KVStore
type SetDeleter = payermint.SetDeleter
type Batch = payermint.Batch
type Iterator = payermint.Iterator
type CacheableKVStore = payermint.CacheableKVStore
type KVCacheWrap = payermint.KVCacheWrap

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}
