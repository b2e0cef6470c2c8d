package payroll

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/errors"
)

var _ payermint.Msg = (*UpdateConfigurationMsg)(nil)
var _ payermint.Msg = (*CreateVaultMsg)(nil)
var _ payermint.Msg = (*AddMemberMsg)(nil)
var _ payermint.Msg = (*EditMemberMsg)(nil)
var _ payermint.Msg = (*RemoveMemberMsg)(nil)
var _ payermint.Msg = (*BulkAddMembersMsg)(nil)
var _ payermint.Msg = (*AddAssetMsg)(nil)
var _ payermint.Msg = (*RemoveAssetMsg)(nil)
var _ payermint.Msg = (*ConfigureScheduleMsg)(nil)
var _ payermint.Msg = (*DepositMsg)(nil)
var _ payermint.Msg = (*CreateBatchMsg)(nil)
var _ payermint.Msg = (*ProcessPayoutMsg)(nil)
var _ payermint.Msg = (*ProcessScheduledPayoutMsg)(nil)
var _ payermint.Msg = (*BulkProcessPayoutsMsg)(nil)
var _ payermint.Msg = (*FinalizeBatchMsg)(nil)

// UpdateConfigurationMsg requests a patch of the package configuration.
// Only fields with a non zero value are updated.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

func (UpdateConfigurationMsg) Path() string {
	return "payroll/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch is required")
	}
	if m.Patch.DefaultFeeBps > uint32(coin.FeeDenominator) {
		return errors.Wrapf(ErrInvalidFeeBps, "%d basis points", m.Patch.DefaultFeeBps)
	}
	var errs error
	if len(m.Patch.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", m.Patch.Owner.Validate())
	}
	if len(m.Patch.Treasury) != 0 {
		errs = errors.AppendField(errs, "Treasury", m.Patch.Treasury.Validate())
	}
	return errs
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// CreateVaultMsg requests creation of a new vault. The vault identifier is
// assigned by the engine and returned in the result data.
type CreateVaultMsg struct {
	Owner       payermint.Address
	Name        string
	Type        VaultType
	Assets      []string
	Policy      AllocationPolicy
	MetadataURI string
	CodeClaim   string
}

func (CreateVaultMsg) Path() string {
	return "payroll/create_vault"
}

func (m *CreateVaultMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Name", validateName(m.Name))
	errs = errors.AppendField(errs, "Type", m.Type.Validate())
	errs = errors.AppendField(errs, "Assets", validateAssets(m.Assets))
	errs = errors.AppendField(errs, "Policy", m.Policy.Validate())
	errs = errors.AppendField(errs, "MetadataURI", validateMetadataURI(m.MetadataURI))
	return errs
}

func (m *CreateVaultMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateVaultMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// AddMemberMsg requests appending a single member to the vault roster.
type AddMemberMsg struct {
	VaultID []byte
	Member  *Member
}

func (AddMemberMsg) Path() string {
	return "payroll/add_member"
}

func (m *AddMemberMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	if m.Member == nil {
		errs = errors.Append(errs,
			errors.Field("Member", errors.ErrEmpty, "member is required"))
	} else {
		errs = errors.AppendField(errs, "Member", m.Member.Validate())
	}
	return errs
}

func (m *AddMemberMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *AddMemberMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// EditMemberMsg requests an in place replacement of the roster member with
// the same wallet address.
type EditMemberMsg struct {
	VaultID []byte
	Member  *Member
}

func (EditMemberMsg) Path() string {
	return "payroll/edit_member"
}

func (m *EditMemberMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	if m.Member == nil {
		errs = errors.Append(errs,
			errors.Field("Member", errors.ErrEmpty, "member is required"))
	} else {
		errs = errors.AppendField(errs, "Member", m.Member.Validate())
	}
	return errs
}

func (m *EditMemberMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *EditMemberMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// RemoveMemberMsg requests removal of a member from the vault roster.
type RemoveMemberMsg struct {
	VaultID []byte
	Wallet  payermint.Address
}

func (RemoveMemberMsg) Path() string {
	return "payroll/remove_member"
}

func (m *RemoveMemberMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	return errs
}

func (m *RemoveMemberMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RemoveMemberMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// BulkAddMembersMsg requests appending a batch of members to the vault
// roster. The batch is accepted as a whole or not at all.
type BulkAddMembersMsg struct {
	VaultID []byte
	Members []*Member
}

func (BulkAddMembersMsg) Path() string {
	return "payroll/bulk_add_members"
}

func (m *BulkAddMembersMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	for i, member := range m.Members {
		if member == nil {
			errs = errors.Append(errs,
				errors.Field("Members", errors.ErrEmpty, "member %d", i))
			continue
		}
		errs = errors.AppendField(errs, "Members", member.Validate())
	}
	return errs
}

func (m *BulkAddMembersMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *BulkAddMembersMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// AddAssetMsg requests whitelisting of an asset for deposits.
type AddAssetMsg struct {
	VaultID []byte
	Ticker  string
}

func (AddAssetMsg) Path() string {
	return "payroll/add_asset"
}

func (m *AddAssetMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	if !coin.IsCC(m.Ticker) {
		errs = errors.Append(errs,
			errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", m.Ticker))
	}
	return errs
}

func (m *AddAssetMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *AddAssetMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// RemoveAssetMsg requests removal of an asset from the vault whitelist.
// Removing an asset that is not whitelisted has no effect.
type RemoveAssetMsg struct {
	VaultID []byte
	Ticker  string
}

func (RemoveAssetMsg) Path() string {
	return "payroll/remove_asset"
}

func (m *RemoveAssetMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	if !coin.IsCC(m.Ticker) {
		errs = errors.Append(errs,
			errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", m.Ticker))
	}
	return errs
}

func (m *RemoveAssetMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RemoveAssetMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// ConfigureScheduleMsg replaces the payout schedule of a vault wholesale.
// A nil schedule clears any existing one.
type ConfigureScheduleMsg struct {
	VaultID  []byte
	Schedule *PayoutSchedule
}

func (ConfigureScheduleMsg) Path() string {
	return "payroll/configure_schedule"
}

func (m *ConfigureScheduleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	if m.Schedule != nil {
		errs = errors.AppendField(errs, "Schedule", m.Schedule.Validate())
	}
	return errs
}

func (m *ConfigureScheduleMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ConfigureScheduleMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// DepositMsg moves coins from the source wallet into the vault account and
// credits the vault balance. Anyone can deposit, not only the vault owner.
type DepositMsg struct {
	VaultID []byte
	Source  payermint.Address
	Amount  coin.Coin
}

func (DepositMsg) Path() string {
	return "payroll/deposit"
}

func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	if !m.Amount.IsPositive() {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// CreateBatchMsg opens a new payroll batch for a vault. The batch ID is
// supplied by the caller and must be unique within the vault. The service
// fee is computed from the declared total and the fee rate in effect now,
// and is carried by the batch unchanged from then on.
type CreateBatchMsg struct {
	VaultID     []byte
	BatchID     []byte
	TotalAmount coin.Coin
}

func (CreateBatchMsg) Path() string {
	return "payroll/create_batch"
}

func (m *CreateBatchMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	errs = errors.AppendField(errs, "BatchID", validateBatchID(m.BatchID))
	errs = errors.AppendField(errs, "TotalAmount", m.TotalAmount.Validate())
	if !m.TotalAmount.IsPositive() {
		errs = errors.Append(errs,
			errors.Field("TotalAmount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *CreateBatchMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateBatchMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// ProcessPayoutMsg requests a direct payout to a single member, accounted
// against an open batch. The fee split uses the rate of the current
// configuration, not the rate frozen in the batch.
type ProcessPayoutMsg struct {
	VaultID []byte
	BatchID []byte
	Wallet  payermint.Address
	Amount  coin.Coin
}

func (ProcessPayoutMsg) Path() string {
	return "payroll/process_payout"
}

func (m *ProcessPayoutMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	errs = errors.AppendField(errs, "BatchID", validateBatchID(m.BatchID))
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	if !m.Amount.IsPositive() {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *ProcessPayoutMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ProcessPayoutMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// ProcessScheduledPayoutMsg requests one payout resolved from the member
// allocation, gated by the vault schedule.
type ProcessScheduledPayoutMsg struct {
	VaultID []byte
	Wallet  payermint.Address
	Ticker  string
}

func (ProcessScheduledPayoutMsg) Path() string {
	return "payroll/process_scheduled_payout"
}

func (m *ProcessScheduledPayoutMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	errs = errors.AppendField(errs, "Wallet", m.Wallet.Validate())
	if !coin.IsCC(m.Ticker) {
		errs = errors.Append(errs,
			errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", m.Ticker))
	}
	return errs
}

func (m *ProcessScheduledPayoutMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ProcessScheduledPayoutMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// Payout is a single entry of a bulk payout request.
type Payout struct {
	Wallet payermint.Address
	Amount coin.Coin
}

func (p *Payout) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Wallet", p.Wallet.Validate())
	errs = errors.AppendField(errs, "Amount", p.Amount.Validate())
	if !p.Amount.IsPositive() {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

// BulkProcessPayoutsMsg accounts a list of payouts against a batch in one
// operation. The aggregate service fee is moved to the treasury and the
// vault balance is debited by the total, but no per member transfers are
// performed. An empty list is a no-op.
type BulkProcessPayoutsMsg struct {
	VaultID []byte
	BatchID []byte
	Payouts []*Payout
}

func (BulkProcessPayoutsMsg) Path() string {
	return "payroll/bulk_process_payouts"
}

func (m *BulkProcessPayoutsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	errs = errors.AppendField(errs, "BatchID", validateBatchID(m.BatchID))
	for i, p := range m.Payouts {
		if p == nil {
			errs = errors.Append(errs,
				errors.Field("Payouts", errors.ErrEmpty, "payout %d", i))
			continue
		}
		errs = errors.AppendField(errs, "Payouts", p.Validate())
	}
	return errs
}

func (m *BulkProcessPayoutsMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *BulkProcessPayoutsMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// FinalizeBatchMsg closes a batch for good. No payout can be processed
// against a finalized batch and finalization cannot be reverted.
type FinalizeBatchMsg struct {
	VaultID []byte
	BatchID []byte
}

func (FinalizeBatchMsg) Path() string {
	return "payroll/finalize_batch"
}

func (m *FinalizeBatchMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "VaultID", validateVaultID(m.VaultID))
	errs = errors.AppendField(errs, "BatchID", validateBatchID(m.BatchID))
	return errs
}

func (m *FinalizeBatchMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *FinalizeBatchMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
