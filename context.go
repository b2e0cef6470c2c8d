package payermint

import (
	"context"
	"time"

	"github.com/payermint/payermint/errors"
)

// Context is just an alias for the standard implementation. We use functions
// to extend it to our domain.
type Context = context.Context

type contextKey int // local to the payermint module

const (
	contextKeyHeight contextKey = iota
	contextKeyChainID
	contextKeyBlockTime
)

// WithHeight sets the block height for the Context. Must be done once at the
// beginning of every block.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height, ok is false if no height is
// set yet.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithChainID sets the chain id for the Context. Must be done once at
// initialization.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Chain ID already set")
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the current chain id. Panics if the chain id was not
// set, as it is required for a proper setup.
func GetChainID(ctx Context) string {
	if ctx == nil {
		panic("Context is nil")
	}
	val, ok := ctx.Value(contextKeyChainID).(string)
	if !ok {
		panic("Chain ID not set")
	}
	return val
}

// WithBlockTime sets the block time for the Context. The block time is
// the engine's only clock: all schedule gating and timestamps use it.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyBlockTime, t)
}

// BlockTime returns the current block wall clock time, ok is false if it
// was not provided.
func BlockTime(ctx Context) (time.Time, bool) {
	val, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	return val, ok
}

// IsExpired returns true if the given time is in the past as compared to the
// "now" as declared for the block. Expiration is inclusive, meaning that if
// the current time is equal to the expiration time then this function
// returns true.
//
// This function panics if the block time is not provided in the context.
// This must never happen. The panic is here to prevent a broken setup from
// processing data incorrectly.
func IsExpired(ctx Context, t UnixTime) bool {
	blockNow, ok := BlockTime(ctx)
	if !ok {
		panic("block time is not present")
	}
	return t <= AsUnixTime(blockNow)
}

// BlockUnixTime returns the current block time as UnixTime. It returns an
// error instead of panicking when the time is missing, for handlers that
// prefer explicit failures.
func BlockUnixTime(ctx Context) (UnixTime, error) {
	now, ok := BlockTime(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return AsUnixTime(now), nil
}
