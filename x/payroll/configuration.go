package payroll

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/errors"
	"github.com/payermint/payermint/gconf"
)

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "Treasury", c.Treasury.Validate())
	if c.DefaultFeeBps > uint32(coin.FeeDenominator) {
		errs = errors.Append(errs,
			errors.Field("DefaultFeeBps", ErrInvalidFeeBps, "%d basis points", c.DefaultFeeBps))
	}
	return errs
}

// GetOwner implements the gconf.OwnedConfig interface.
func (c *Configuration) GetOwner() payermint.Address {
	return c.Owner
}

// loadConf returns the configuration of this package as stored via gconf.
// The configuration must be provided through the genesis.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "payroll", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
