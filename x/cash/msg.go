package cash

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/errors"
)

// Ensure we implement the Msg interface
var _ payermint.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
	maxRefSize  int = 64
)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var err error
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		err = errors.Wrapf(errors.ErrAmount, "non-positive SendMsg: %#v", m.Amount)
	} else {
		err = errors.Append(err, errors.Wrap(m.Amount.Validate(), "amount"))
	}
	err = errors.AppendField(err, "Source", m.Source.Validate())
	err = errors.AppendField(err, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		err = errors.AppendField(err, "Memo", errors.Wrap(errors.ErrInput, "memo too long"))
	}
	if len(m.Ref) > maxRefSize {
		err = errors.AppendField(err, "Ref", errors.Wrap(errors.ErrInput, "ref too long"))
	}
	return err
}
