package cash

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Validate requires that all coins are in alphabetical order and valid.
func (s *Set) Validate() error {
	return s.Coins.Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() *Set {
	return &Set{
		Coins: s.Coins.Clone(),
	}
}

var _ orm.Model = (*Set)(nil)

// WalletBucket stores a coin set per wallet address.
type WalletBucket struct {
	orm.ModelBucket
}

// NewWalletBucket initializes a wallet bucket with the default name.
func NewWalletBucket() WalletBucket {
	return WalletBucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Set{}),
	}
}

// Wallet returns the coin set stored for this address. A missing wallet is
// not an error, an empty set is returned instead.
func (b WalletBucket) Wallet(db payermint.ReadOnlyKVStore, addr payermint.Address) (coin.Coins, error) {
	var set Set
	switch err := b.One(db, addr, &set); {
	case err == nil:
		return set.Coins, nil
	case isNotFound(err):
		return nil, nil
	default:
		return nil, err
	}
}

// Save persists the coin set under this address. Wallets that were drained
// completely are removed from the store.
func (b WalletBucket) Save(db payermint.KVStore, addr payermint.Address, coins coin.Coins) error {
	if coins.IsEmpty() {
		switch err := b.Delete(db, addr); {
		case err == nil, isNotFound(err):
			return nil
		default:
			return err
		}
	}
	return b.Put(db, addr, &Set{Coins: coins})
}
