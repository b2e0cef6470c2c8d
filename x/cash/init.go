package cash

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/errors"
)

// Initializer fulfils the Initializer interface to load initial wallets
// from the genesis file.
type Initializer struct{}

var _ payermint.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis and save it to
// the database.
func (Initializer) FromGenesis(opts payermint.Options, db payermint.KVStore) error {
	accounts := []struct {
		Address payermint.Address `json:"address"`
		Coins   []coin.Coin       `json:"coins"`
	}{}
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return errors.Wrap(err, "read cash")
	}

	bucket := NewWalletBucket()
	for i, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d address", i)
		}
		var coins coin.Coins
		for i := range a.Coins {
			coins = append(coins, &a.Coins[i])
		}
		coins, err := coin.NormalizeCoins(coins)
		if err != nil {
			return errors.Wrapf(err, "account #%d coins", i)
		}
		if err := bucket.Save(db, a.Address, coins); err != nil {
			return errors.Wrapf(err, "save account #%d", i)
		}
	}
	return nil
}
