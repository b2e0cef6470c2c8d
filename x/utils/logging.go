package utils

import (
	"time"

	"github.com/payermint/payermint"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ payermint.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> warn, success -> debug
func (r Logging) Check(ctx payermint.Context, store payermint.KVStore, tx payermint.Tx, next payermint.Checker) (*payermint.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx payermint.Context, store payermint.KVStore, tx payermint.Tx, next payermint.Deliverer) (*payermint.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx payermint.Context, tx payermint.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := payermint.GetLogger(ctx).With(
		"path", payermint.GetPath(tx),
		"duration_us", int64(delta/time.Microsecond),
	)

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.

	if err != nil {
		logger.Errorw(msg, "err", err)
	} else if lowPrio {
		logger.Debugw(msg)
	} else {
		logger.Infow(msg)
	}
}
