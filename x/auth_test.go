package x

import (
	"context"
	"testing"

	"github.com/payermint/payermint"
	"github.com/payermint/payermint/paytest"
	"github.com/payermint/payermint/paytest/assert"
)

func TestAuth(t *testing.T) {
	a := paytest.NewCondition()
	b := paytest.NewCondition()
	c := paytest.NewCondition()

	auth := &paytest.Auth{Signers: []payermint.Condition{a, b}}
	ctx := context.Background()

	assert.Equal(t, true, auth.HasAddress(ctx, a.Address()))
	assert.Equal(t, true, auth.HasAddress(ctx, b.Address()))
	assert.Equal(t, false, auth.HasAddress(ctx, c.Address()))

	assert.Equal(t, a, MainSigner(ctx, auth))
	assert.Equal(t, true, HasAllAddresses(ctx, auth, []payermint.Address{a.Address(), b.Address()}))
	assert.Equal(t, false, HasAllAddresses(ctx, auth, []payermint.Address{a.Address(), c.Address()}))
	assert.Equal(t, true, HasAllConditions(ctx, auth, []payermint.Condition{a, b}))
	assert.Equal(t, false, HasAllConditions(ctx, auth, []payermint.Condition{c}))
}

func TestChainAuth(t *testing.T) {
	a := paytest.NewCondition()
	b := paytest.NewCondition()

	chain := ChainAuth(
		&paytest.Auth{Signer: a},
		&paytest.Auth{Signer: b},
	)
	ctx := context.Background()

	assert.Equal(t, true, chain.HasAddress(ctx, a.Address()))
	assert.Equal(t, true, chain.HasAddress(ctx, b.Address()))
	assert.Equal(t, 2, len(chain.GetConditions(ctx)))
}

func TestMainSignerEmpty(t *testing.T) {
	auth := &paytest.Auth{}
	if got := MainSigner(context.Background(), auth); got != nil {
		t.Fatalf("want nil, got %s", got)
	}
}
