package coin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinsAdd(t *testing.T) {
	cs, err := CombineCoins(
		NewCoin(100, "SOL"),
		NewCoin(50, "USDC"),
	)
	require.NoError(t, err)
	require.Equal(t, 2, cs.Count())

	cs, err = cs.Add(NewCoin(10, "SOL"))
	require.NoError(t, err)
	assert.True(t, cs.Contains(NewCoin(110, "SOL")))
	assert.True(t, cs.Contains(NewCoin(50, "USDC")))
	assert.False(t, cs.Contains(NewCoin(51, "USDC")))

	// Adding a new currency keeps the set sorted.
	cs, err = cs.Add(NewCoin(7, "BTC"))
	require.NoError(t, err)
	require.NoError(t, cs.Validate())
	assert.Equal(t, 3, cs.Count())
	assert.Equal(t, "BTC", cs[0].Ticker)

	// Draining a currency removes it from the set.
	cs, err = cs.Subtract(NewCoin(7, "BTC"))
	require.NoError(t, err)
	assert.Equal(t, 2, cs.Count())
}

func TestCoinsAmount(t *testing.T) {
	cs, err := CombineCoins(NewCoin(42, "SOL"))
	require.NoError(t, err)

	assert.Equal(t, int64(42), cs.Amount("SOL").Amount)
	assert.Equal(t, int64(0), cs.Amount("USDC").Amount)
	assert.Equal(t, "USDC", cs.Amount("USDC").Ticker)
}

func TestCoinsNonNegative(t *testing.T) {
	var empty Coins
	assert.True(t, empty.IsNonNegative())
	assert.False(t, empty.IsPositive())

	cs, err := CombineCoins(NewCoin(1, "SOL"))
	require.NoError(t, err)
	assert.True(t, cs.IsPositive())

	cs, err = cs.Subtract(NewCoin(2, "SOL"))
	require.NoError(t, err)
	assert.False(t, cs.IsNonNegative())
}

func TestCoinsValidate(t *testing.T) {
	cases := map[string]struct {
		coins   Coins
		wantErr bool
	}{
		"valid sorted set": {
			coins: Coins{NewCoinp(1, "BTC"), NewCoinp(2, "SOL")},
		},
		"not sorted": {
			coins:   Coins{NewCoinp(2, "SOL"), NewCoinp(1, "BTC")},
			wantErr: true,
		},
		"zero coin": {
			coins:   Coins{NewCoinp(0, "SOL")},
			wantErr: true,
		},
		"invalid ticker": {
			coins:   Coins{NewCoinp(1, "x")},
			wantErr: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.wantErr {
				assert.Error(t, tc.coins.Validate())
			} else {
				assert.NoError(t, tc.coins.Validate())
			}
		})
	}
}

func TestNormalizeCoins(t *testing.T) {
	cs, err := NormalizeCoins(Coins{
		NewCoinp(5, "SOL"),
		NewCoinp(1, "BTC"),
		NewCoinp(5, "SOL"),
		NewCoinp(0, "USDC"),
	})
	require.NoError(t, err)
	require.NoError(t, cs.Validate())
	require.Equal(t, 2, cs.Count())
	assert.True(t, cs.Contains(NewCoin(10, "SOL")))
	assert.True(t, cs.Contains(NewCoin(1, "BTC")))
}
