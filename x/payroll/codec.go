package payroll

import (
	amino "github.com/tendermint/go-amino"

	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
)

// cdc serializes all models and messages of this package.
var cdc = amino.NewCodec()

// Configuration is the per package global settings singleton, managed by
// gconf. It must be provided via the genesis before any vault is created.
type Configuration struct {
	// Owner is the address that is allowed to update this configuration.
	Owner payermint.Address `json:"owner"`
	// Treasury receives all service fees collected on payouts.
	Treasury payermint.Address `json:"treasury"`
	// DefaultFeeBps is the service fee rate in basis points (0..10000).
	DefaultFeeBps uint32 `json:"default_fee_bps"`
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

// VaultType describes what kind of entity the vault pays. It is
// informational only and has no influence on the engine behaviour.
type VaultType int32

const (
	VaultCompany VaultType = iota + 1
	VaultOrganization
	VaultIndividuals
	VaultDivisions
)

// AllocationPolicy declares how member shares of a vault balance are
// expressed.
type AllocationPolicy int32

const (
	// PercentageOfBalance members declare a basis point share of the
	// vault balance. Active shares must never sum above the unit.
	PercentageOfBalance AllocationPolicy = iota + 1
	// FixedPerAsset members declare absolute amounts per asset. Amounts
	// are checked against the vault balance at payout time only.
	FixedPerAsset
)

// Vault is an owner controlled custody record holding balances and the
// rules of their distribution.
type Vault struct {
	// Owner is set at creation time and never changes.
	Owner payermint.Address
	Name  string
	Type  VaultType
	// Assets is the whitelist of tickers this vault accepts.
	Assets []string
	Policy AllocationPolicy
	// Members is the payout roster, unique by wallet address.
	Members  []*Member
	Schedule *PayoutSchedule
	// Balance mirrors the funds held on the vault account. Every deposit
	// and payout updates both in the same operation.
	Balance       coin.Coins
	LastDepositAt payermint.UnixTime
	MetadataURI   string
	// CodeClaim is an opaque value carried for external tooling.
	CodeClaim string
}

func (v *Vault) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(v)
}

func (v *Vault) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, v)
}

// Member is a payout recipient registered with a vault.
type Member struct {
	Wallet     payermint.Address
	Allocation Allocation
	// Role is a free form label, for example "engineer".
	Role string
	// Active members take part in allocation accounting and can receive
	// scheduled payouts. Inactive members are kept for bookkeeping only.
	Active      bool
	MetadataURI string
}

// Allocation is a union of the supported member share declarations. At most
// one of the fields can be set. An allocation with no field set is valid on
// a member but cannot be resolved into a scheduled payout amount.
type Allocation struct {
	Percentage *PercentageAllocation
	Fixed      *FixedAllocation
}

// IsUnset returns true if no allocation variant was declared.
func (a Allocation) IsUnset() bool {
	return a.Percentage == nil && a.Fixed == nil
}

// PercentageAllocation entitles a member to a basis point share of the
// vault balance.
type PercentageAllocation struct {
	Bps uint32
}

// FixedAllocation entitles a member to absolute amounts, one per asset.
type FixedAllocation struct {
	Amounts coin.Coins
}

// PayoutSchedule is the recurring payout cadence of a vault.
type PayoutSchedule struct {
	Interval     payermint.UnixDuration
	NextPayoutAt payermint.UnixTime
	Active       bool
}

// PayrollBatch records a single payout run against a vault. The service fee
// is frozen from the configuration in effect at creation time. A finalized
// batch rejects any further processing.
type PayrollBatch struct {
	VaultID     []byte
	BatchID     []byte
	CreatedAt   payermint.UnixTime
	TotalAmount coin.Coin
	ServiceFee  coin.Coin
	PayoutCount int64
	Finalized   bool
}

func (b *PayrollBatch) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(b)
}

func (b *PayrollBatch) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, b)
}
