package utils

import (
	"context"
	"testing"

	"github.com/payermint/payermint"
	"github.com/payermint/payermint/errors"
	"github.com/payermint/payermint/paytest"
	"github.com/payermint/payermint/paytest/assert"
	"github.com/payermint/payermint/store"
)

// writingHandler writes the given key-value on every call and returns the
// configured error.
type writingHandler struct {
	key, value []byte
	err        error
}

func (h writingHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{}, h.err
}

func (h writingHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &payermint.DeliverResult{}, h.err
}

func TestSavepointCommitsOnSuccess(t *testing.T) {
	h := writingHandler{key: []byte("k"), value: []byte("v")}
	sp := NewSavepoint().OnCheck().OnDeliver()
	db := store.MemStore()
	tx := &paytest.Tx{Msg: &paytest.Msg{RoutePath: "test/good"}}

	if _, err := sp.Check(context.Background(), db, tx, h); err != nil {
		t.Fatalf("check: %+v", err)
	}
	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestSavepointRollsBackOnError(t *testing.T) {
	h := writingHandler{key: []byte("k"), value: []byte("v"), err: errors.ErrUnauthorized}
	sp := NewSavepoint().OnCheck().OnDeliver()
	db := store.MemStore()
	tx := &paytest.Tx{Msg: &paytest.Msg{RoutePath: "test/good"}}

	_, err := sp.Deliver(context.Background(), db, tx, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// The handler write must not be visible.
	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestSavepointInactiveDoesNotIsolate(t *testing.T) {
	h := writingHandler{key: []byte("k"), value: []byte("v"), err: errors.ErrUnauthorized}
	sp := NewSavepoint() // neither OnCheck nor OnDeliver
	db := store.MemStore()
	tx := &paytest.Tx{Msg: &paytest.Msg{RoutePath: "test/good"}}

	_, err := sp.Deliver(context.Background(), db, tx, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// Without an active savepoint the partial write leaks through.
	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)
}
