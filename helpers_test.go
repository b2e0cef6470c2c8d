package payermint_test

import (
	stdcontext "context"

	"github.com/payermint/payermint"
)

func context() payermint.Context {
	return stdcontext.Background()
}
