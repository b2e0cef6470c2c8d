package cash

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/errors"
)

// isNotFound tests for the store level not found error.
func isNotFound(err error) bool {
	return errors.ErrNotFound.Is(err)
}

// Controller is the functionality needed by other extensions to move funds
// around. This is implemented by CashController and may be mocked in tests.
type Controller interface {
	// Balance returns the coins held by this account.
	Balance(db payermint.ReadOnlyKVStore, account payermint.Address) (coin.Coins, error)

	// MoveCoins removes the amount from the source wallet and adds it to
	// the destination wallet. It fails if the source does not hold enough.
	MoveCoins(db payermint.KVStore, source, destination payermint.Address, amount coin.Coin) error

	// CoinMint adds the amount to the destination wallet out of thin air.
	// This is how external deposits enter the system.
	CoinMint(db payermint.KVStore, destination payermint.Address, amount coin.Coin) error

	// CoinBurn removes the amount from the account wallet. It fails if
	// the account does not hold enough.
	CoinBurn(db payermint.KVStore, account payermint.Address, amount coin.Coin) error
}

// CashController implements the Controller interface on top of a wallet
// bucket.
type CashController struct {
	bucket WalletBucket
}

var _ Controller = CashController{}

// NewController returns a controller using the given bucket for storage.
func NewController(bucket WalletBucket) CashController {
	return CashController{bucket: bucket}
}

func (c CashController) Balance(db payermint.ReadOnlyKVStore, account payermint.Address) (coin.Coins, error) {
	return c.bucket.Wallet(db, account)
}

func (c CashController) MoveCoins(db payermint.KVStore, source, destination payermint.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer: %s", amount)
	}

	sender, err := c.bucket.Wallet(db, source)
	if err != nil {
		return errors.Wrap(err, "source wallet")
	}
	if !sender.Contains(amount) {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds in %s", source)
	}

	recipient, err := c.bucket.Wallet(db, destination)
	if err != nil {
		return errors.Wrap(err, "destination wallet")
	}

	sender, err = sender.Subtract(amount)
	if err != nil {
		return err
	}
	recipient, err = recipient.Add(amount)
	if err != nil {
		return err
	}

	if err := c.bucket.Save(db, source, sender); err != nil {
		return errors.Wrap(err, "save source")
	}
	return errors.Wrap(c.bucket.Save(db, destination, recipient), "save destination")
}

func (c CashController) CoinMint(db payermint.KVStore, destination payermint.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive mint: %s", amount)
	}

	recipient, err := c.bucket.Wallet(db, destination)
	if err != nil {
		return err
	}
	recipient, err = recipient.Add(amount)
	if err != nil {
		return err
	}
	return c.bucket.Save(db, destination, recipient)
}

func (c CashController) CoinBurn(db payermint.KVStore, account payermint.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive burn: %s", amount)
	}

	wallet, err := c.bucket.Wallet(db, account)
	if err != nil {
		return err
	}
	if !wallet.Contains(amount) {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds in %s", account)
	}
	wallet, err = wallet.Subtract(amount)
	if err != nil {
		return err
	}
	return c.bucket.Save(db, account, wallet)
}
