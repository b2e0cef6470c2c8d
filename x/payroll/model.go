package payroll

import (
	"encoding/binary"

	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/errors"
	"github.com/payermint/payermint/orm"
)

const (
	maxNameLen        = 32
	maxRoleLen        = 16
	maxMetadataURILen = 200
	maxAssets         = 3
	maxBatchIDLen     = 32

	// maxTotalBps is the unit in basis points. Active percentage
	// allocations of one vault must never sum above it.
	maxTotalBps = int64(coin.FeeDenominator)
)

func (t VaultType) Validate() error {
	switch t {
	case VaultCompany, VaultOrganization, VaultIndividuals, VaultDivisions:
		return nil
	}
	return errors.Wrapf(errors.ErrState, "unknown vault type %d", t)
}

func (p AllocationPolicy) Validate() error {
	switch p {
	case PercentageOfBalance, FixedPerAsset:
		return nil
	}
	return errors.Wrapf(errors.ErrState, "unknown allocation policy %d", p)
}

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", v.Owner.Validate())
	errs = errors.AppendField(errs, "Name", validateName(v.Name))
	errs = errors.AppendField(errs, "Type", v.Type.Validate())
	errs = errors.AppendField(errs, "Policy", v.Policy.Validate())
	errs = errors.AppendField(errs, "Assets", validateAssets(v.Assets))
	errs = errors.AppendField(errs, "Members", validateMembers(v.Members))
	if v.Schedule != nil {
		errs = errors.AppendField(errs, "Schedule", v.Schedule.Validate())
	}
	errs = errors.AppendField(errs, "Balance", v.Balance.Validate())
	if !v.Balance.IsNonNegative() {
		errs = errors.Append(errs,
			errors.Field("Balance", errors.ErrState, "negative balance"))
	}
	errs = errors.AppendField(errs, "LastDepositAt", v.LastDepositAt.Validate())
	errs = errors.AppendField(errs, "MetadataURI", validateMetadataURI(v.MetadataURI))
	return errs
}

// member returns the roster entry with the given wallet together with its
// position, or nil and the roster length if the wallet is not registered.
func (v *Vault) member(wallet payermint.Address) (*Member, int) {
	for i, m := range v.Members {
		if m.Wallet.Equals(wallet) {
			return m, i
		}
	}
	return nil, len(v.Members)
}

func (m *Member) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "Allocation", m.Allocation.Validate())
	if len(m.Role) > maxRoleLen {
		errs = errors.Append(errs,
			errors.Field("Role", ErrRoleTooLong, "at most %d characters", maxRoleLen))
	}
	errs = errors.AppendField(errs, "MetadataURI", validateMetadataURI(m.MetadataURI))
	return errs
}

func (a Allocation) Validate() error {
	if a.Percentage != nil && a.Fixed != nil {
		return errors.Wrap(ErrInvalidAllocation, "percentage and fixed are exclusive")
	}
	if a.Percentage != nil && int64(a.Percentage.Bps) > maxTotalBps {
		return errors.Wrapf(ErrInvalidAllocation, "%d basis points exceeds the unit", a.Percentage.Bps)
	}
	if a.Fixed != nil {
		if err := a.Fixed.Amounts.Validate(); err != nil {
			return errors.Wrap(err, "fixed amounts")
		}
		if !a.Fixed.Amounts.IsPositive() {
			return errors.Wrap(ErrInvalidAllocation, "fixed amounts must be positive")
		}
	}
	return nil
}

func (s *PayoutSchedule) Validate() error {
	var errs error
	if s.Interval <= 0 {
		errs = errors.Append(errs,
			errors.Field("Interval", errors.ErrState, "must be positive"))
	}
	errs = errors.AppendField(errs, "NextPayoutAt", s.NextPayoutAt.Validate())
	return errs
}

var _ orm.Model = (*PayrollBatch)(nil)

func (b *PayrollBatch) Validate() error {
	var errs error
	if len(b.VaultID) != 8 {
		errs = errors.Append(errs,
			errors.Field("VaultID", errors.ErrInput, "8 bytes required"))
	}
	errs = errors.AppendField(errs, "BatchID", validateBatchID(b.BatchID))
	errs = errors.AppendField(errs, "CreatedAt", b.CreatedAt.Validate())
	errs = errors.AppendField(errs, "TotalAmount", b.TotalAmount.Validate())
	if !b.TotalAmount.IsPositive() {
		errs = errors.Append(errs,
			errors.Field("TotalAmount", errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "ServiceFee", b.ServiceFee.Validate())
	if b.PayoutCount < 0 {
		errs = errors.Append(errs,
			errors.Field("PayoutCount", errors.ErrState, "negative counter"))
	}
	return errs
}

func validateName(name string) error {
	if name == "" {
		return errors.ErrEmpty
	}
	if len(name) > maxNameLen {
		return errors.Wrapf(ErrNameTooLong, "at most %d characters", maxNameLen)
	}
	return nil
}

func validateMetadataURI(uri string) error {
	if len(uri) > maxMetadataURILen {
		return errors.Wrapf(ErrMetadataURITooLong, "at most %d characters", maxMetadataURILen)
	}
	return nil
}

func validateAssets(assets []string) error {
	if len(assets) > maxAssets {
		return errors.Wrapf(ErrTooManyAssets, "at most %d assets", maxAssets)
	}
	seen := make(map[string]struct{}, len(assets))
	for _, ticker := range assets {
		if !coin.IsCC(ticker) {
			return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
		}
		if _, ok := seen[ticker]; ok {
			return errors.Wrapf(ErrAssetWhitelisted, "duplicated ticker %q", ticker)
		}
		seen[ticker] = struct{}{}
	}
	return nil
}

func validateBatchID(id []byte) error {
	switch n := len(id); {
	case n == 0:
		return errors.ErrEmpty
	case n > maxBatchIDLen:
		return errors.Wrapf(errors.ErrInput, "at most %d bytes", maxBatchIDLen)
	}
	return nil
}

// validateMembers ensures the roster is unique by wallet, every entry is
// valid on its own and active percentage shares do not sum above the unit.
func validateMembers(members []*Member) error {
	seen := make(map[string]struct{}, len(members))
	for i, m := range members {
		if m == nil {
			return errors.Wrapf(errors.ErrEmpty, "member %d", i)
		}
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
		key := m.Wallet.String()
		if _, ok := seen[key]; ok {
			return errors.Wrapf(ErrMemberExists, "wallet %q", key)
		}
		seen[key] = struct{}{}
	}
	if total := percentageBps(members, 0); total > maxTotalBps {
		return errors.Wrapf(ErrAllocationExceeded, "%d basis points", total)
	}
	return nil
}

// NewVaultBucket returns a bucket for managing vault records.
func NewVaultBucket() orm.ModelBucket {
	return orm.NewModelBucket("vault", &Vault{})
}

var vaultSeq = orm.NewSequence("vault", "id")

// NewBatchBucket returns a bucket for managing payroll batch records. Keys
// are a composition of the vault ID and the caller supplied batch ID.
func NewBatchBucket() orm.ModelBucket {
	return orm.NewModelBucket("batch", &PayrollBatch{})
}

// batchKey builds the composite batch bucket key. The vault ID is a fixed 8
// byte sequence value, so the composition is unambiguous.
func batchKey(vaultID, batchID []byte) []byte {
	key := make([]byte, 0, len(vaultID)+len(batchID))
	key = append(key, vaultID...)
	return append(key, batchID...)
}

// VaultCondition returns the condition controlling the funds of a vault.
func VaultCondition(vaultID []byte) payermint.Condition {
	return payermint.NewCondition("payroll", "vault", vaultID)
}

// VaultAccount returns the address that holds the funds of a vault.
func VaultAccount(vaultID []byte) payermint.Address {
	return VaultCondition(vaultID).Address()
}

// validateVaultID ensures the raw value is a valid vault identifier. Vault
// identifiers are 8 byte big endian sequence values starting at one.
func validateVaultID(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrInput, "vault ID must be 8 bytes")
	}
	if binary.BigEndian.Uint64(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "vault ID must not be zero")
	}
	return nil
}
