/*
Package std wires the standard set of extensions into a single processing
stack. Use it to get a fully assembled handler, or as a template for a
custom assembly when your deployment grows beyond the defaults.
*/
package std

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/app"
	"github.com/payermint/payermint/errors"
	"github.com/payermint/payermint/x"
	"github.com/payermint/payermint/x/cash"
	"github.com/payermint/payermint/x/payroll"
	"github.com/payermint/payermint/x/utils"
)

// Router returns a router with the message handlers of all standard
// extensions registered. The cash controller is shared with the payroll
// extension so that payouts move real wallet funds.
func Router(auth x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController(cash.NewWalletBucket())
	cash.RegisterRoutes(r, auth, ctrl)
	payroll.RegisterRoutes(r, auth, ctrl)
	return r
}

// Chain returns the standard decorator chain. Recovery turns panics into
// errors, logging reports every transaction result and the savepoint makes
// each transaction atomic on both check and deliver.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		utils.NewSavepoint().OnCheck().OnDeliver(),
	)
}

// Stack returns the standard decorator chain wrapped around the standard
// router. The result is the complete transaction processing handler.
func Stack(auth x.Authenticator) payermint.Handler {
	return Chain().WithHandler(Router(auth))
}

// Initializers returns the genesis initializers of all standard extensions,
// in the order they must be executed.
func Initializers() []payermint.Initializer {
	return []payermint.Initializer{
		cash.Initializer{},
		payroll.Initializer{},
	}
}

// FromGenesis initializes the database state of every standard extension
// from the given genesis options.
func FromGenesis(opts payermint.Options, db payermint.KVStore) error {
	for _, ini := range Initializers() {
		if err := ini.FromGenesis(opts, db); err != nil {
			return errors.Wrap(err, "genesis initializer")
		}
	}
	return nil
}
