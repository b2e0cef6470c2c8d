package payroll

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/errors"
	"github.com/payermint/payermint/gconf"
)

// Initializer fulfils the Initializer interface to load the package
// configuration from the genesis file. The configuration must be present
// before any vault is created.
type Initializer struct{}

var _ payermint.Initializer = (*Initializer)(nil)

// FromGenesis will parse the payroll configuration from genesis and save it
// to the database.
func (Initializer) FromGenesis(opts payermint.Options, db payermint.KVStore) error {
	if err := gconf.InitConfig(db, opts, "payroll", &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	return nil
}
