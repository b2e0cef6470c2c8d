package cash

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/errors"
	"github.com/payermint/payermint/x"
)

// RegisterRoutes will instantiate and register all handlers in this package
func RegisterRoutes(r payermint.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ payermint.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from sender to receiver if all preconditions
// are met
func (h SendHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &payermint.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx payermint.Context, tx payermint.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source must sign the transaction")
	}
	return &msg, nil
}
