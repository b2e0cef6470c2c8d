package payroll

import (
	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/errors"
	"github.com/payermint/payermint/gconf"
	"github.com/payermint/payermint/orm"
	"github.com/payermint/payermint/x"
)

const (
	createVaultCost   = 100
	rosterUpdateCost  = 50
	depositCost       = 100
	payoutCost        = 100
	payoutPerItemCost = 10
)

// CashController moves funds between wallets. The required functionality is
// implemented by the x/cash extension.
type CashController interface {
	MoveCoins(payermint.KVStore, payermint.Address, payermint.Address, coin.Coin) error
}

// RegisterRoutes registers handlers for payroll message processing.
func RegisterRoutes(r payermint.Registry, auth x.Authenticator, ctrl CashController) {
	vaults := NewVaultBucket()
	batches := NewBatchBucket()

	r.Handle(&UpdateConfigurationMsg{},
		gconf.NewUpdateConfigurationHandler("payroll", &Configuration{}, auth))
	r.Handle(&CreateVaultMsg{}, &createVaultHandler{auth: auth, vaults: vaults})
	r.Handle(&AddMemberMsg{}, &addMemberHandler{auth: auth, vaults: vaults})
	r.Handle(&EditMemberMsg{}, &editMemberHandler{auth: auth, vaults: vaults})
	r.Handle(&RemoveMemberMsg{}, &removeMemberHandler{auth: auth, vaults: vaults})
	r.Handle(&BulkAddMembersMsg{}, &bulkAddMembersHandler{auth: auth, vaults: vaults})
	r.Handle(&AddAssetMsg{}, &addAssetHandler{auth: auth, vaults: vaults})
	r.Handle(&RemoveAssetMsg{}, &removeAssetHandler{auth: auth, vaults: vaults})
	r.Handle(&ConfigureScheduleMsg{}, &configureScheduleHandler{auth: auth, vaults: vaults})
	r.Handle(&DepositMsg{}, &depositHandler{auth: auth, vaults: vaults, ctrl: ctrl})
	r.Handle(&CreateBatchMsg{}, &createBatchHandler{auth: auth, vaults: vaults, batches: batches})
	r.Handle(&ProcessPayoutMsg{}, &processPayoutHandler{
		auth: auth, vaults: vaults, batches: batches, ctrl: ctrl})
	r.Handle(&ProcessScheduledPayoutMsg{}, &processScheduledPayoutHandler{
		auth: auth, vaults: vaults, ctrl: ctrl})
	r.Handle(&BulkProcessPayoutsMsg{}, &bulkProcessPayoutsHandler{
		auth: auth, vaults: vaults, batches: batches, ctrl: ctrl})
	r.Handle(&FinalizeBatchMsg{}, &finalizeBatchHandler{auth: auth, vaults: vaults, batches: batches})
}

// loadVault returns the vault stored under the given identifier.
func loadVault(vaults orm.ModelBucket, db payermint.ReadOnlyKVStore, vaultID []byte) (*Vault, error) {
	var v Vault
	if err := vaults.One(db, vaultID, &v); err != nil {
		return nil, errors.Wrap(err, "load vault")
	}
	return &v, nil
}

// loadBatch returns the batch of the vault stored under the given batch
// identifier.
func loadBatch(batches orm.ModelBucket, db payermint.ReadOnlyKVStore, vaultID, batchID []byte) (*PayrollBatch, error) {
	var b PayrollBatch
	if err := batches.One(db, batchKey(vaultID, batchID), &b); err != nil {
		return nil, errors.Wrap(err, "load batch")
	}
	return &b, nil
}

// ownedVault loads the vault and ensures its owner signed the transaction.
func ownedVault(vaults orm.ModelBucket, auth x.Authenticator, ctx payermint.Context, db payermint.ReadOnlyKVStore, vaultID []byte) (*Vault, error) {
	v, err := loadVault(vaults, db, vaultID)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, v.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "vault owner must sign the transaction")
	}
	return v, nil
}

type createVaultHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
}

var _ payermint.Handler = (*createVaultHandler)(nil)

func (h *createVaultHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: createVaultCost}, nil
}

func (h *createVaultHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	now, err := payermint.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	vaultID, err := vaultSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "acquire vault ID")
	}
	vault := &Vault{
		Owner:         msg.Owner,
		Name:          msg.Name,
		Type:          msg.Type,
		Assets:        msg.Assets,
		Policy:        msg.Policy,
		LastDepositAt: now,
		MetadataURI:   msg.MetadataURI,
		CodeClaim:     msg.CodeClaim,
	}
	if err := h.vaults.Put(db, vaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{Data: vaultID}, nil
}

func (h *createVaultHandler) validate(ctx payermint.Context, tx payermint.Tx) (*CreateVaultMsg, error) {
	var msg CreateVaultMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "vault owner must sign the transaction")
	}
	return &msg, nil
}

type addMemberHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
}

var _ payermint.Handler = (*addMemberHandler)(nil)

func (h *addMemberHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: rosterUpdateCost}, nil
}

func (h *addMemberHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	vault.Members = append(vault.Members, msg.Member)
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *addMemberHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*AddMemberMsg, *Vault, error) {
	var msg AddMemberMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	if err := validateAddMember(vault, msg.Member); err != nil {
		return nil, nil, err
	}
	return &msg, vault, nil
}

type editMemberHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
}

var _ payermint.Handler = (*editMemberHandler)(nil)

func (h *editMemberHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: rosterUpdateCost}, nil
}

func (h *editMemberHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *editMemberHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*EditMemberMsg, *Vault, error) {
	var msg EditMemberMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	existing, idx := vault.member(msg.Member.Wallet)
	if existing == nil {
		return nil, nil, errors.Wrapf(ErrMemberNotFound, "wallet %q", msg.Member.Wallet)
	}
	vault.Members[idx] = msg.Member
	if err := validateEditedRoster(vault); err != nil {
		return nil, nil, err
	}
	return &msg, vault, nil
}

type removeMemberHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
}

var _ payermint.Handler = (*removeMemberHandler)(nil)

func (h *removeMemberHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: rosterUpdateCost}, nil
}

func (h *removeMemberHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *removeMemberHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*RemoveMemberMsg, *Vault, error) {
	var msg RemoveMemberMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	existing, idx := vault.member(msg.Wallet)
	if existing == nil {
		return nil, nil, errors.Wrapf(ErrMemberNotFound, "wallet %q", msg.Wallet)
	}
	// Removal only shrinks the allocation sum, no re-validation needed.
	vault.Members = append(vault.Members[:idx], vault.Members[idx+1:]...)
	return &msg, vault, nil
}

type bulkAddMembersHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
}

var _ payermint.Handler = (*bulkAddMembersHandler)(nil)

func (h *bulkAddMembersHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &payermint.CheckResult{
		GasAllocated: rosterUpdateCost + payoutPerItemCost*int64(len(msg.Members)),
	}, nil
}

func (h *bulkAddMembersHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	vault.Members = append(vault.Members, msg.Members...)
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *bulkAddMembersHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*BulkAddMembersMsg, *Vault, error) {
	var msg BulkAddMembersMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	if err := validateBulkAdd(vault, msg.Members); err != nil {
		return nil, nil, err
	}
	return &msg, vault, nil
}

type addAssetHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
}

var _ payermint.Handler = (*addAssetHandler)(nil)

func (h *addAssetHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: rosterUpdateCost}, nil
}

func (h *addAssetHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	vault.Assets = append(vault.Assets, msg.Ticker)
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *addAssetHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*AddAssetMsg, *Vault, error) {
	var msg AddAssetMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	if len(vault.Assets) >= maxAssets {
		return nil, nil, errors.Wrapf(ErrTooManyAssets, "at most %d assets", maxAssets)
	}
	for _, ticker := range vault.Assets {
		if ticker == msg.Ticker {
			return nil, nil, errors.Wrapf(ErrAssetWhitelisted, "ticker %q", msg.Ticker)
		}
	}
	return &msg, vault, nil
}

type removeAssetHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
}

var _ payermint.Handler = (*removeAssetHandler)(nil)

func (h *removeAssetHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: rosterUpdateCost}, nil
}

func (h *removeAssetHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	assets := vault.Assets[:0]
	for _, ticker := range vault.Assets {
		if ticker != msg.Ticker {
			assets = append(assets, ticker)
		}
	}
	vault.Assets = assets
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *removeAssetHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*RemoveAssetMsg, *Vault, error) {
	var msg RemoveAssetMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, vault, nil
}

type configureScheduleHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
}

var _ payermint.Handler = (*configureScheduleHandler)(nil)

func (h *configureScheduleHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: rosterUpdateCost}, nil
}

func (h *configureScheduleHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	vault.Schedule = msg.Schedule
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *configureScheduleHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*ConfigureScheduleMsg, *Vault, error) {
	var msg ConfigureScheduleMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, vault, nil
}

type depositHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
	ctrl   CashController
}

var _ payermint.Handler = (*depositHandler)(nil)

func (h *depositHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: depositCost}, nil
}

func (h *depositHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := payermint.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, msg.Source, VaultAccount(msg.VaultID), msg.Amount); err != nil {
		return nil, errors.Wrap(err, "move coins")
	}
	balance, err := vault.Balance.Add(msg.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "credit balance")
	}
	vault.Balance = balance
	vault.LastDepositAt = now
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *depositHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*DepositMsg, *Vault, error) {
	var msg DepositMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	// Any wallet can fund a vault, so unlike for the other operations the
	// depositor and not the vault owner must sign.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "source must sign the transaction")
	}
	vault, err := loadVault(h.vaults, db, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	if !hasAsset(vault, msg.Amount.Ticker) {
		return nil, nil, errors.Wrapf(ErrAssetNotWhitelisted, "ticker %q", msg.Amount.Ticker)
	}
	return &msg, vault, nil
}

func hasAsset(v *Vault, ticker string) bool {
	for _, t := range v.Assets {
		if t == ticker {
			return true
		}
	}
	return false
}

type createBatchHandler struct {
	auth    x.Authenticator
	vaults  orm.ModelBucket
	batches orm.ModelBucket
}

var _ payermint.Handler = (*createBatchHandler)(nil)

func (h *createBatchHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: rosterUpdateCost}, nil
}

func (h *createBatchHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := payermint.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	// The service fee is frozen into the batch using the rate in effect
	// now. Later rate updates do not change it.
	fee, err := msg.TotalAmount.Fraction(conf.DefaultFeeBps)
	if err != nil {
		return nil, errors.Wrap(err, "service fee")
	}
	batch := &PayrollBatch{
		VaultID:     msg.VaultID,
		BatchID:     msg.BatchID,
		CreatedAt:   now,
		TotalAmount: msg.TotalAmount,
		ServiceFee:  fee,
	}
	key := batchKey(msg.VaultID, msg.BatchID)
	if err := h.batches.Put(db, key, batch); err != nil {
		return nil, errors.Wrap(err, "store batch")
	}
	return &payermint.DeliverResult{Data: key}, nil
}

func (h *createBatchHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*CreateBatchMsg, error) {
	var msg CreateBatchMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID); err != nil {
		return nil, err
	}
	switch err := h.batches.Has(db, batchKey(msg.VaultID, msg.BatchID)); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "batch %x", msg.BatchID)
	case errors.ErrNotFound.Is(err):
		// All good, the identifier is free to take.
	default:
		return nil, errors.Wrap(err, "check batch ID")
	}
	return &msg, nil
}

type processPayoutHandler struct {
	auth    x.Authenticator
	vaults  orm.ModelBucket
	batches orm.ModelBucket
	ctrl    CashController
}

var _ payermint.Handler = (*processPayoutHandler)(nil)

func (h *processPayoutHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: payoutCost}, nil
}

func (h *processPayoutHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, batch, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	// Fee and net come from the current rate, not from the rate frozen in
	// the batch at creation time.
	fee, net, err := splitFee(msg.Amount, conf.DefaultFeeBps)
	if err != nil {
		return nil, err
	}
	if err := h.payout(db, msg.VaultID, msg.Wallet, conf.Treasury, fee, net); err != nil {
		return nil, err
	}
	balance, err := vault.Balance.Subtract(msg.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "debit balance")
	}
	vault.Balance = balance
	batch.PayoutCount++
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	if err := h.batches.Put(db, batchKey(msg.VaultID, msg.BatchID), batch); err != nil {
		return nil, errors.Wrap(err, "store batch")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *processPayoutHandler) payout(db payermint.KVStore, vaultID []byte, wallet, treasury payermint.Address, fee, net coin.Coin) error {
	account := VaultAccount(vaultID)
	if fee.IsPositive() {
		if err := h.ctrl.MoveCoins(db, account, treasury, fee); err != nil {
			return errors.Wrap(err, "move fee")
		}
	}
	if net.IsPositive() {
		if err := h.ctrl.MoveCoins(db, account, wallet, net); err != nil {
			return errors.Wrap(err, "move net")
		}
	}
	return nil
}

func (h *processPayoutHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*ProcessPayoutMsg, *Vault, *PayrollBatch, error) {
	var msg ProcessPayoutMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	batch, err := loadBatch(h.batches, db, msg.VaultID, msg.BatchID)
	if err != nil {
		return nil, nil, nil, err
	}
	if batch.Finalized {
		return nil, nil, nil, errors.Wrapf(ErrBatchFinalized, "batch %x", msg.BatchID)
	}
	member, _ := vault.member(msg.Wallet)
	if member == nil {
		return nil, nil, nil, errors.Wrapf(ErrMemberNotFound, "wallet %q", msg.Wallet)
	}
	if !member.Active {
		return nil, nil, nil, errors.Wrapf(ErrMemberNotActive, "wallet %q", msg.Wallet)
	}
	if !vault.Balance.Contains(msg.Amount) {
		return nil, nil, nil, errors.Wrapf(ErrInsufficientBalance, "%s not covered", msg.Amount)
	}
	return &msg, vault, batch, nil
}

type processScheduledPayoutHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
	ctrl   CashController
}

var _ payermint.Handler = (*processScheduledPayoutHandler)(nil)

func (h *processScheduledPayoutHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: payoutCost}, nil
}

func (h *processScheduledPayoutHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, amount, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	fee, net, err := splitFee(amount, conf.DefaultFeeBps)
	if err != nil {
		return nil, err
	}
	account := VaultAccount(msg.VaultID)
	if fee.IsPositive() {
		if err := h.ctrl.MoveCoins(db, account, conf.Treasury, fee); err != nil {
			return nil, errors.Wrap(err, "move fee")
		}
	}
	if net.IsPositive() {
		if err := h.ctrl.MoveCoins(db, account, msg.Wallet, net); err != nil {
			return nil, errors.Wrap(err, "move net")
		}
	}
	balance, err := vault.Balance.Subtract(amount)
	if err != nil {
		return nil, errors.Wrap(err, "debit balance")
	}
	vault.Balance = balance
	// Advance by exactly one interval. Missed intervals are not backfilled
	// and do not accumulate into multiple payouts.
	vault.Schedule.NextPayoutAt = vault.Schedule.NextPayoutAt.Add(vault.Schedule.Interval.Duration())
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *processScheduledPayoutHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*ProcessScheduledPayoutMsg, *Vault, coin.Coin, error) {
	var zero coin.Coin
	var msg ProcessScheduledPayoutMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, zero, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, zero, err
	}
	if vault.Schedule == nil || !vault.Schedule.Active {
		return nil, nil, zero, errors.Wrap(ErrScheduleNotActive, "no active schedule")
	}
	if !payermint.IsExpired(ctx, vault.Schedule.NextPayoutAt) {
		return nil, nil, zero, errors.Wrapf(ErrPayoutTimeNotReached, "due %s", vault.Schedule.NextPayoutAt)
	}
	member, _ := vault.member(msg.Wallet)
	if member == nil {
		return nil, nil, zero, errors.Wrapf(ErrMemberNotFound, "wallet %q", msg.Wallet)
	}
	if !member.Active {
		return nil, nil, zero, errors.Wrapf(ErrMemberNotActive, "wallet %q", msg.Wallet)
	}
	amount, err := payoutAmount(member, vault.Balance, msg.Ticker)
	if err != nil {
		return nil, nil, zero, err
	}
	if !amount.IsPositive() {
		return nil, nil, zero, errors.Wrap(ErrInsufficientBalance, "nothing to pay out")
	}
	if !vault.Balance.Contains(amount) {
		return nil, nil, zero, errors.Wrapf(ErrInsufficientBalance, "%s not covered", amount)
	}
	return &msg, vault, amount, nil
}

type bulkProcessPayoutsHandler struct {
	auth    x.Authenticator
	vaults  orm.ModelBucket
	batches orm.ModelBucket
	ctrl    CashController
}

var _ payermint.Handler = (*bulkProcessPayoutsHandler)(nil)

func (h *bulkProcessPayoutsHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	msg, _, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &payermint.CheckResult{
		GasAllocated: payoutCost + payoutPerItemCost*int64(len(msg.Payouts)),
	}, nil
}

func (h *bulkProcessPayoutsHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, vault, batch, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if len(msg.Payouts) == 0 {
		return &payermint.DeliverResult{}, nil
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	// Phase one: compute the aggregate debit and fee without touching any
	// state. The fee is rounded down per payout, not on the total.
	var total, fees coin.Coins
	for i, p := range msg.Payouts {
		t, err := total.Add(p.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "payout %d total", i)
		}
		total = t
		fee, err := p.Amount.Fraction(conf.DefaultFeeBps)
		if err != nil {
			return nil, errors.Wrapf(err, "payout %d fee", i)
		}
		f, err := fees.Add(fee)
		if err != nil {
			return nil, errors.Wrapf(err, "payout %d fee", i)
		}
		fees = f
	}
	for _, c := range total {
		if !vault.Balance.Contains(*c) {
			return nil, errors.Wrapf(ErrInsufficientBalance, "%s not covered", c)
		}
	}

	// Phase two: settle the fee position and the vault ledger. Individual
	// member transfers are not part of this operation.
	account := VaultAccount(msg.VaultID)
	for _, fee := range fees {
		if err := h.ctrl.MoveCoins(db, account, conf.Treasury, *fee); err != nil {
			return nil, errors.Wrap(err, "move fee")
		}
	}
	balance := vault.Balance
	for _, c := range total {
		b, err := balance.Subtract(*c)
		if err != nil {
			return nil, errors.Wrap(err, "debit balance")
		}
		balance = b
	}
	vault.Balance = balance
	batch.PayoutCount += int64(len(msg.Payouts))
	if err := h.vaults.Put(db, msg.VaultID, vault); err != nil {
		return nil, errors.Wrap(err, "store vault")
	}
	if err := h.batches.Put(db, batchKey(msg.VaultID, msg.BatchID), batch); err != nil {
		return nil, errors.Wrap(err, "store batch")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *bulkProcessPayoutsHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*BulkProcessPayoutsMsg, *Vault, *PayrollBatch, error) {
	var msg BulkProcessPayoutsMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	vault, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	batch, err := loadBatch(h.batches, db, msg.VaultID, msg.BatchID)
	if err != nil {
		return nil, nil, nil, err
	}
	if batch.Finalized {
		return nil, nil, nil, errors.Wrapf(ErrBatchFinalized, "batch %x", msg.BatchID)
	}
	return &msg, vault, batch, nil
}

type finalizeBatchHandler struct {
	auth    x.Authenticator
	vaults  orm.ModelBucket
	batches orm.ModelBucket
}

var _ payermint.Handler = (*finalizeBatchHandler)(nil)

func (h *finalizeBatchHandler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &payermint.CheckResult{GasAllocated: rosterUpdateCost}, nil
}

func (h *finalizeBatchHandler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, batch, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	batch.Finalized = true
	if err := h.batches.Put(db, batchKey(msg.VaultID, msg.BatchID), batch); err != nil {
		return nil, errors.Wrap(err, "store batch")
	}
	return &payermint.DeliverResult{}, nil
}

func (h *finalizeBatchHandler) validate(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*FinalizeBatchMsg, *PayrollBatch, error) {
	var msg FinalizeBatchMsg
	if err := payermint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if _, err := ownedVault(h.vaults, h.auth, ctx, db, msg.VaultID); err != nil {
		return nil, nil, err
	}
	batch, err := loadBatch(h.batches, db, msg.VaultID, msg.BatchID)
	if err != nil {
		return nil, nil, err
	}
	if batch.Finalized {
		return nil, nil, errors.Wrapf(ErrBatchFinalized, "batch %x", msg.BatchID)
	}
	return &msg, batch, nil
}
