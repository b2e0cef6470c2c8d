package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/payermint/payermint/errors"
)

// cacheIterator merges a range of cached btree items with an iterator over
// the backing store. Cached writes shadow backing store entries with the
// same key and deletion markers mask them out entirely.
type cacheIterator struct {
	items   []btree.Item
	parent  Iterator
	reverse bool

	// Read-ahead state for the parent iterator.
	parentKey   []byte
	parentValue []byte
	parentDone  bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []btree.Item, parent Iterator, reverse bool) *cacheIterator {
	return &cacheIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

func (c *cacheIterator) Next() (key, value []byte, err error) {
	for {
		if err := c.advanceParent(); err != nil {
			return nil, nil, err
		}

		var cached btree.Item
		if len(c.items) > 0 {
			cached = c.items[0]
		}

		// Only the parent has data left.
		if cached == nil {
			if c.parentDone {
				return nil, nil, errors.ErrIteratorDone
			}
			key, value := c.parentKey, c.parentValue
			c.parentKey = nil
			return key, value, nil
		}

		cachedKey := cached.(keyer).Key()

		// Only the cache has data left, or the cache entry comes first.
		if c.parentDone || c.before(cachedKey, c.parentKey) {
			c.items = c.items[1:]
			if set, ok := cached.(setItem); ok {
				return set.Key(), set.value, nil
			}
			// A deletion marker with no backing entry, skip it.
			continue
		}

		// Same key in both, the cache entry shadows the parent one.
		if bytes.Equal(cachedKey, c.parentKey) {
			c.items = c.items[1:]
			c.parentKey = nil
			if set, ok := cached.(setItem); ok {
				return set.Key(), set.value, nil
			}
			// Deleted in the cache, do not expose the parent entry.
			continue
		}

		// The parent entry comes first.
		key, value := c.parentKey, c.parentValue
		c.parentKey = nil
		return key, value, nil
	}
}

// advanceParent reads the next parent entry into the read-ahead buffer if it
// is empty. ErrIteratorDone from the parent is recorded, not returned.
func (c *cacheIterator) advanceParent() error {
	if c.parentDone || c.parentKey != nil {
		return nil
	}
	key, value, err := c.parent.Next()
	switch {
	case err == nil:
		c.parentKey = key
		c.parentValue = value
		return nil
	case errors.ErrIteratorDone.Is(err):
		c.parentDone = true
		return nil
	default:
		return err
	}
}

// before returns true if key a is emitted before key b in the iteration
// order of this iterator.
func (c *cacheIterator) before(a, b []byte) bool {
	if c.reverse {
		return bytes.Compare(a, b) > 0
	}
	return bytes.Compare(a, b) < 0
}

func (c *cacheIterator) Release() {
	c.items = nil
	c.parentKey = nil
	c.parentDone = true
	c.parent.Release()
}
