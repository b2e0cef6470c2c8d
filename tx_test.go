package payermint_test

import (
	"testing"

	"github.com/payermint/payermint"
	"github.com/payermint/payermint/errors"
	"github.com/payermint/payermint/paytest"
	"github.com/payermint/payermint/paytest/assert"
)

func TestLoadMsg(t *testing.T) {
	msg := &paytest.Msg{RoutePath: "test/mine", Serialized: []byte("payload")}
	tx := &paytest.Tx{Msg: msg}

	var dest paytest.Msg
	assert.Nil(t, payermint.LoadMsg(tx, &dest))
	assert.Equal(t, *msg, dest)
}

func TestLoadMsgValidates(t *testing.T) {
	msg := &paytest.Msg{RoutePath: "test/mine", Err: errors.ErrState}
	tx := &paytest.Tx{Msg: msg}

	var dest paytest.Msg
	err := payermint.LoadMsg(tx, &dest)
	assert.IsErr(t, errors.ErrState, err)
}

func TestLoadMsgWrongDestination(t *testing.T) {
	tx := &paytest.Tx{Msg: &paytest.Msg{RoutePath: "test/mine"}}

	var wrong otherMsg
	err := payermint.LoadMsg(tx, &wrong)
	assert.IsErr(t, errors.ErrType, err)
}

func TestGetPath(t *testing.T) {
	tx := &paytest.Tx{Msg: &paytest.Msg{RoutePath: "test/mine"}}
	assert.Equal(t, "test/mine", payermint.GetPath(tx))

	broken := &paytest.Tx{Err: errors.ErrState}
	assert.Equal(t, "(missing)", payermint.GetPath(broken))
}

type otherMsg struct{ paytest.Msg }
