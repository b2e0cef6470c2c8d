package utils

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ payermint.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx payermint.Context, store payermint.KVStore, tx payermint.Tx, next payermint.Checker) (_ *payermint.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx payermint.Context, store payermint.KVStore, tx payermint.Tx, next payermint.Deliverer) (_ *payermint.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
