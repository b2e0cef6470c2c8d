package payroll

import (
	"github.com/payermint/payermint/errors"
)

var (
	ErrInvalidFeeBps           = errors.Register(1200, "fee rate exceeds the unit")
	ErrNameTooLong             = errors.Register(1201, "name too long")
	ErrMetadataURITooLong      = errors.Register(1202, "metadata URI too long")
	ErrRoleTooLong             = errors.Register(1203, "role too long")
	ErrInvalidAllocation       = errors.Register(1204, "invalid allocation")
	ErrAssetNotWhitelisted     = errors.Register(1205, "asset not whitelisted")
	ErrTooManyAssets           = errors.Register(1206, "too many whitelisted assets")
	ErrAssetWhitelisted        = errors.Register(1207, "asset already whitelisted")
	ErrMemberExists            = errors.Register(1208, "member already exists")
	ErrMemberNotFound          = errors.Register(1209, "member not found")
	ErrMemberNotActive         = errors.Register(1210, "member not active")
	ErrAllocationExceeded      = errors.Register(1211, "allocation exceeded")
	ErrTotalAllocationExceeded = errors.Register(1212, "total allocation exceeded")
	ErrInsufficientBalance     = errors.Register(1213, "insufficient balance")
	ErrBatchFinalized          = errors.Register(1214, "batch already finalized")
	ErrScheduleNotActive       = errors.Register(1215, "payout schedule not active")
	ErrPayoutTimeNotReached    = errors.Register(1216, "payout time not reached")
)
