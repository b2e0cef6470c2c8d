package payroll

import (
	"context"
	"testing"

	"github.com/payermint/payermint"
	"github.com/payermint/payermint/app"
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/errors"
	"github.com/payermint/payermint/gconf"
	"github.com/payermint/payermint/paytest"
	"github.com/payermint/payermint/paytest/assert"
	"github.com/payermint/payermint/store"
	"github.com/payermint/payermint/x/cash"
)

// blockNow is the block time all handler tests run at unless declared
// otherwise.
const blockNow payermint.UnixTime = 1600000000

type testEnv struct {
	t        testing.TB
	db       payermint.KVStore
	rt       *app.Router
	auth     *paytest.CtxAuth
	ctrl     cash.CashController
	owner    payermint.Condition
	treasury payermint.Condition
}

func newTestEnv(t testing.TB, feeBps uint32) *testEnv {
	t.Helper()

	db := store.MemStore()
	owner := paytest.NewCondition()
	treasury := paytest.NewCondition()
	conf := Configuration{
		Owner:         owner.Address(),
		Treasury:      treasury.Address(),
		DefaultFeeBps: feeBps,
	}
	if err := gconf.Save(db, "payroll", &conf); err != nil {
		t.Fatalf("save configuration: %+v", err)
	}

	auth := &paytest.CtxAuth{Key: "auth"}
	ctrl := cash.NewController(cash.NewWalletBucket())
	rt := app.NewRouter()
	RegisterRoutes(rt, auth, ctrl)

	return &testEnv{
		t:        t,
		db:       db,
		rt:       rt,
		auth:     auth,
		ctrl:     ctrl,
		owner:    owner,
		treasury: treasury,
	}
}

// ctx returns a request context at the given block time, authenticating all
// given signers.
func (e *testEnv) ctx(at payermint.UnixTime, signers ...payermint.Condition) payermint.Context {
	ctx := payermint.WithBlockTime(context.Background(), at.Time())
	return e.auth.SetConditions(ctx, signers...)
}

func (e *testEnv) deliver(ctx payermint.Context, msg payermint.Msg) (*payermint.DeliverResult, error) {
	return e.rt.Deliver(ctx, e.db, &paytest.Tx{Msg: msg})
}

// createVault stores a vault via the message flow and returns its ID.
func (e *testEnv) createVault(msg *CreateVaultMsg) []byte {
	e.t.Helper()
	if msg.Owner == nil {
		msg.Owner = e.owner.Address()
	}
	if msg.Name == "" {
		msg.Name = "engineering"
	}
	if msg.Type == 0 {
		msg.Type = VaultCompany
	}
	if msg.Policy == 0 {
		msg.Policy = PercentageOfBalance
	}
	if msg.Assets == nil {
		msg.Assets = []string{"SOL"}
	}
	res, err := e.deliver(e.ctx(blockNow, e.owner), msg)
	if err != nil {
		e.t.Fatalf("create vault: %+v", err)
	}
	return res.Data
}

// fund mints coins for the source wallet and deposits them into the vault.
func (e *testEnv) fund(vaultID []byte, source payermint.Condition, amount coin.Coin) {
	e.t.Helper()
	if err := e.ctrl.CoinMint(e.db, source.Address(), amount); err != nil {
		e.t.Fatalf("mint: %+v", err)
	}
	_, err := e.deliver(e.ctx(blockNow, source), &DepositMsg{
		VaultID: vaultID,
		Source:  source.Address(),
		Amount:  amount,
	})
	if err != nil {
		e.t.Fatalf("deposit: %+v", err)
	}
}

func (e *testEnv) vault(vaultID []byte) *Vault {
	e.t.Helper()
	v, err := loadVault(NewVaultBucket(), e.db, vaultID)
	if err != nil {
		e.t.Fatalf("load vault: %+v", err)
	}
	return v
}

func (e *testEnv) batch(vaultID, batchID []byte) *PayrollBatch {
	e.t.Helper()
	b, err := loadBatch(NewBatchBucket(), e.db, vaultID, batchID)
	if err != nil {
		e.t.Fatalf("load batch: %+v", err)
	}
	return b
}

func (e *testEnv) walletAmount(addr payermint.Address, ticker string) int64 {
	e.t.Helper()
	coins, err := e.ctrl.Balance(e.db, addr)
	if err != nil {
		e.t.Fatalf("balance: %+v", err)
	}
	return coins.Amount(ticker).Amount
}

func TestCreateVault(t *testing.T) {
	env := newTestEnv(t, 250)

	res, err := env.deliver(env.ctx(blockNow, env.owner), &CreateVaultMsg{
		Owner:  env.owner.Address(),
		Name:   "engineering",
		Type:   VaultCompany,
		Assets: []string{"SOL", "USDC"},
		Policy: PercentageOfBalance,
	})
	assert.Nil(t, err)
	assert.Equal(t, paytest.SequenceID(1), res.Data)

	v := env.vault(res.Data)
	assert.Equal(t, env.owner.Address(), v.Owner)
	assert.Equal(t, blockNow, v.LastDepositAt)
	assert.Equal(t, true, v.Balance.IsEmpty())

	// Identifiers are drawn from a sequence, one per vault.
	second, err := env.deliver(env.ctx(blockNow, env.owner), &CreateVaultMsg{
		Owner:  env.owner.Address(),
		Name:   "marketing",
		Type:   VaultDivisions,
		Assets: []string{"SOL"},
		Policy: FixedPerAsset,
	})
	assert.Nil(t, err)
	assert.Equal(t, paytest.SequenceID(2), second.Data)
}

func TestCreateVaultRequiresOwnerSignature(t *testing.T) {
	env := newTestEnv(t, 250)
	stranger := paytest.NewCondition()

	_, err := env.deliver(env.ctx(blockNow, stranger), &CreateVaultMsg{
		Owner:  env.owner.Address(),
		Name:   "engineering",
		Type:   VaultCompany,
		Assets: []string{"SOL"},
		Policy: PercentageOfBalance,
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestDeposit(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{Assets: []string{"SOL"}})
	funder := paytest.NewCondition()
	assert.Nil(t, env.ctrl.CoinMint(env.db, funder.Address(), coin.NewCoin(1000, "SOL")))

	// Depositing is open to anyone holding funds, not only the owner.
	_, err := env.deliver(env.ctx(blockNow+60, funder), &DepositMsg{
		VaultID: vaultID,
		Source:  funder.Address(),
		Amount:  coin.NewCoin(800, "SOL"),
	})
	assert.Nil(t, err)

	v := env.vault(vaultID)
	assert.Equal(t, int64(800), v.Balance.Amount("SOL").Amount)
	assert.Equal(t, blockNow+60, v.LastDepositAt)
	assert.Equal(t, int64(800), env.walletAmount(VaultAccount(vaultID), "SOL"))
	assert.Equal(t, int64(200), env.walletAmount(funder.Address(), "SOL"))
}

func TestDepositChecks(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{Assets: []string{"SOL"}})
	funder := paytest.NewCondition()
	assert.Nil(t, env.ctrl.CoinMint(env.db, funder.Address(), coin.NewCoin(1000, "USDC")))

	cases := map[string]struct {
		signer  payermint.Condition
		msg     *DepositMsg
		wantErr *errors.Error
	}{
		"asset not whitelisted": {
			signer: funder,
			msg: &DepositMsg{
				VaultID: vaultID,
				Source:  funder.Address(),
				Amount:  coin.NewCoin(100, "USDC"),
			},
			wantErr: ErrAssetNotWhitelisted,
		},
		"source must sign": {
			signer: env.owner,
			msg: &DepositMsg{
				VaultID: vaultID,
				Source:  funder.Address(),
				Amount:  coin.NewCoin(100, "SOL"),
			},
			wantErr: errors.ErrUnauthorized,
		},
		"unknown vault": {
			signer: funder,
			msg: &DepositMsg{
				VaultID: paytest.SequenceID(999),
				Source:  funder.Address(),
				Amount:  coin.NewCoin(100, "SOL"),
			},
			wantErr: errors.ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := env.deliver(env.ctx(blockNow, tc.signer), tc.msg)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestDepositThenPayoutConservesFunds(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{Assets: []string{"SOL"}})
	alice := paytest.NewCondition()

	_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(10000), Active: true},
	})
	assert.Nil(t, err)

	funder := paytest.NewCondition()
	env.fund(vaultID, funder, coin.NewCoin(1000, "SOL"))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &CreateBatchMsg{
		VaultID:     vaultID,
		BatchID:     []byte("run-1"),
		TotalAmount: coin.NewCoin(1000, "SOL"),
	})
	assert.Nil(t, err)

	_, err = env.deliver(env.ctx(blockNow, env.owner), &ProcessPayoutMsg{
		VaultID: vaultID,
		BatchID: []byte("run-1"),
		Wallet:  alice.Address(),
		Amount:  coin.NewCoin(1000, "SOL"),
	})
	assert.Nil(t, err)

	// 250 bps of 1000 goes to the treasury, the rest to the member.
	assert.Equal(t, int64(25), env.walletAmount(env.treasury.Address(), "SOL"))
	assert.Equal(t, int64(975), env.walletAmount(alice.Address(), "SOL"))
	assert.Equal(t, int64(0), env.walletAmount(VaultAccount(vaultID), "SOL"))
	assert.Equal(t, true, env.vault(vaultID).Balance.IsEmpty())
	assert.Equal(t, int64(1), env.batch(vaultID, []byte("run-1")).PayoutCount)
}

func TestCreateBatchFreezesFee(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{})

	_, err := env.deliver(env.ctx(blockNow, env.owner), &CreateBatchMsg{
		VaultID:     vaultID,
		BatchID:     []byte("run-1"),
		TotalAmount: coin.NewCoin(10000, "SOL"),
	})
	assert.Nil(t, err)

	b := env.batch(vaultID, []byte("run-1"))
	assert.Equal(t, int64(250), b.ServiceFee.Amount)
	assert.Equal(t, blockNow, b.CreatedAt)
	assert.Equal(t, false, b.Finalized)

	// A later rate change does not touch the frozen fee.
	conf := Configuration{
		Owner:         env.owner.Address(),
		Treasury:      env.treasury.Address(),
		DefaultFeeBps: 500,
	}
	assert.Nil(t, gconf.Save(env.db, "payroll", &conf))
	assert.Equal(t, int64(250), env.batch(vaultID, []byte("run-1")).ServiceFee.Amount)
}

func TestCreateBatchRejectsDuplicateID(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{})

	msg := &CreateBatchMsg{
		VaultID:     vaultID,
		BatchID:     []byte("run-1"),
		TotalAmount: coin.NewCoin(100, "SOL"),
	}
	_, err := env.deliver(env.ctx(blockNow, env.owner), msg)
	assert.Nil(t, err)
	_, err = env.deliver(env.ctx(blockNow, env.owner), msg)
	assert.IsErr(t, errors.ErrDuplicate, err)

	// The same batch ID is free to use within another vault.
	otherID := env.createVault(&CreateVaultMsg{Name: "marketing"})
	_, err = env.deliver(env.ctx(blockNow, env.owner), &CreateBatchMsg{
		VaultID:     otherID,
		BatchID:     []byte("run-1"),
		TotalAmount: coin.NewCoin(100, "SOL"),
	})
	assert.Nil(t, err)
}

func TestProcessPayoutUsesCurrentRate(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{})
	alice := paytest.NewCondition()

	_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(10000), Active: true},
	})
	assert.Nil(t, err)
	env.fund(vaultID, paytest.NewCondition(), coin.NewCoin(2000, "SOL"))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &CreateBatchMsg{
		VaultID:     vaultID,
		BatchID:     []byte("run-1"),
		TotalAmount: coin.NewCoin(2000, "SOL"),
	})
	assert.Nil(t, err)

	// Double the rate after the batch was created. The payout must use
	// the current rate while the frozen batch fee stays at 250 bps.
	conf := Configuration{
		Owner:         env.owner.Address(),
		Treasury:      env.treasury.Address(),
		DefaultFeeBps: 500,
	}
	assert.Nil(t, gconf.Save(env.db, "payroll", &conf))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &ProcessPayoutMsg{
		VaultID: vaultID,
		BatchID: []byte("run-1"),
		Wallet:  alice.Address(),
		Amount:  coin.NewCoin(1000, "SOL"),
	})
	assert.Nil(t, err)

	assert.Equal(t, int64(50), env.walletAmount(env.treasury.Address(), "SOL"))
	assert.Equal(t, int64(950), env.walletAmount(alice.Address(), "SOL"))
	assert.Equal(t, int64(50), env.batch(vaultID, []byte("run-1")).ServiceFee.Amount)
}

func TestProcessPayoutChecks(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{})
	alice := paytest.NewCondition()
	inactive := paytest.NewCondition()

	_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(5000), Active: true},
	})
	assert.Nil(t, err)
	_, err = env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: inactive.Address(), Allocation: pctAlloc(1000), Active: false},
	})
	assert.Nil(t, err)
	env.fund(vaultID, paytest.NewCondition(), coin.NewCoin(500, "SOL"))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &CreateBatchMsg{
		VaultID:     vaultID,
		BatchID:     []byte("run-1"),
		TotalAmount: coin.NewCoin(500, "SOL"),
	})
	assert.Nil(t, err)

	cases := map[string]struct {
		signer  payermint.Condition
		msg     *ProcessPayoutMsg
		wantErr *errors.Error
	}{
		"owner must sign": {
			signer: alice,
			msg: &ProcessPayoutMsg{
				VaultID: vaultID,
				BatchID: []byte("run-1"),
				Wallet:  alice.Address(),
				Amount:  coin.NewCoin(100, "SOL"),
			},
			wantErr: errors.ErrUnauthorized,
		},
		"unknown batch": {
			signer: env.owner,
			msg: &ProcessPayoutMsg{
				VaultID: vaultID,
				BatchID: []byte("run-2"),
				Wallet:  alice.Address(),
				Amount:  coin.NewCoin(100, "SOL"),
			},
			wantErr: errors.ErrNotFound,
		},
		"unknown member": {
			signer: env.owner,
			msg: &ProcessPayoutMsg{
				VaultID: vaultID,
				BatchID: []byte("run-1"),
				Wallet:  paytest.RandomAddress(),
				Amount:  coin.NewCoin(100, "SOL"),
			},
			wantErr: ErrMemberNotFound,
		},
		"inactive member": {
			signer: env.owner,
			msg: &ProcessPayoutMsg{
				VaultID: vaultID,
				BatchID: []byte("run-1"),
				Wallet:  inactive.Address(),
				Amount:  coin.NewCoin(100, "SOL"),
			},
			wantErr: ErrMemberNotActive,
		},
		"insufficient balance": {
			signer: env.owner,
			msg: &ProcessPayoutMsg{
				VaultID: vaultID,
				BatchID: []byte("run-1"),
				Wallet:  alice.Address(),
				Amount:  coin.NewCoin(501, "SOL"),
			},
			wantErr: ErrInsufficientBalance,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := env.deliver(env.ctx(blockNow, tc.signer), tc.msg)
			assert.IsErr(t, tc.wantErr, err)
		})
	}

	// None of the rejected payouts left a trace.
	assert.Equal(t, int64(500), env.vault(vaultID).Balance.Amount("SOL").Amount)
	assert.Equal(t, int64(0), env.batch(vaultID, []byte("run-1")).PayoutCount)
}

func TestFinalizeBatch(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{})
	alice := paytest.NewCondition()

	_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(10000), Active: true},
	})
	assert.Nil(t, err)
	env.fund(vaultID, paytest.NewCondition(), coin.NewCoin(1000, "SOL"))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &CreateBatchMsg{
		VaultID:     vaultID,
		BatchID:     []byte("run-1"),
		TotalAmount: coin.NewCoin(1000, "SOL"),
	})
	assert.Nil(t, err)

	finalize := &FinalizeBatchMsg{VaultID: vaultID, BatchID: []byte("run-1")}
	_, err = env.deliver(env.ctx(blockNow, env.owner), finalize)
	assert.Nil(t, err)
	assert.Equal(t, true, env.batch(vaultID, []byte("run-1")).Finalized)

	// The second finalization fails and changes nothing.
	_, err = env.deliver(env.ctx(blockNow, env.owner), finalize)
	assert.IsErr(t, ErrBatchFinalized, err)
	assert.Equal(t, true, env.batch(vaultID, []byte("run-1")).Finalized)

	// A finalized batch accepts no more payouts.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &ProcessPayoutMsg{
		VaultID: vaultID,
		BatchID: []byte("run-1"),
		Wallet:  alice.Address(),
		Amount:  coin.NewCoin(100, "SOL"),
	})
	assert.IsErr(t, ErrBatchFinalized, err)
	assert.Equal(t, int64(1000), env.vault(vaultID).Balance.Amount("SOL").Amount)
}

func TestScheduledPayout(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{})
	alice := paytest.NewCondition()

	_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(5000), Active: true},
	})
	assert.Nil(t, err)
	env.fund(vaultID, paytest.NewCondition(), coin.NewCoin(1000, "SOL"))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &ConfigureScheduleMsg{
		VaultID: vaultID,
		Schedule: &PayoutSchedule{
			Interval:     3600,
			NextPayoutAt: blockNow + 100,
			Active:       true,
		},
	})
	assert.Nil(t, err)

	payout := &ProcessScheduledPayoutMsg{
		VaultID: vaultID,
		Wallet:  alice.Address(),
		Ticker:  "SOL",
	}

	// Too early, the schedule is left untouched.
	_, err = env.deliver(env.ctx(blockNow+99, env.owner), payout)
	assert.IsErr(t, ErrPayoutTimeNotReached, err)
	assert.Equal(t, blockNow+100, env.vault(vaultID).Schedule.NextPayoutAt)

	// Even long past due the schedule advances by exactly one interval.
	_, err = env.deliver(env.ctx(blockNow+9000, env.owner), payout)
	assert.Nil(t, err)
	v := env.vault(vaultID)
	assert.Equal(t, blockNow+100+3600, v.Schedule.NextPayoutAt)

	// 5000 bps of the 1000 balance is 500, minus the 250 bps fee.
	assert.Equal(t, int64(12), env.walletAmount(env.treasury.Address(), "SOL"))
	assert.Equal(t, int64(488), env.walletAmount(alice.Address(), "SOL"))
	assert.Equal(t, int64(500), v.Balance.Amount("SOL").Amount)
}

func TestScheduledPayoutChecks(t *testing.T) {
	env := newTestEnv(t, 250)
	alice := paytest.NewCondition()
	unset := paytest.NewCondition()
	inactive := paytest.NewCondition()

	vaultID := env.createVault(&CreateVaultMsg{})
	for _, m := range []*Member{
		{Wallet: alice.Address(), Allocation: pctAlloc(5000), Active: true},
		{Wallet: unset.Address(), Active: true},
		{Wallet: inactive.Address(), Allocation: pctAlloc(1000), Active: false},
	} {
		_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{VaultID: vaultID, Member: m})
		assert.Nil(t, err)
	}
	env.fund(vaultID, paytest.NewCondition(), coin.NewCoin(1000, "SOL"))

	// Without a schedule no scheduled payout is possible.
	_, err := env.deliver(env.ctx(blockNow, env.owner), &ProcessScheduledPayoutMsg{
		VaultID: vaultID, Wallet: alice.Address(), Ticker: "SOL",
	})
	assert.IsErr(t, ErrScheduleNotActive, err)

	// An inactive schedule behaves the same.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &ConfigureScheduleMsg{
		VaultID:  vaultID,
		Schedule: &PayoutSchedule{Interval: 3600, NextPayoutAt: blockNow, Active: false},
	})
	assert.Nil(t, err)
	_, err = env.deliver(env.ctx(blockNow, env.owner), &ProcessScheduledPayoutMsg{
		VaultID: vaultID, Wallet: alice.Address(), Ticker: "SOL",
	})
	assert.IsErr(t, ErrScheduleNotActive, err)

	_, err = env.deliver(env.ctx(blockNow, env.owner), &ConfigureScheduleMsg{
		VaultID:  vaultID,
		Schedule: &PayoutSchedule{Interval: 3600, NextPayoutAt: blockNow, Active: true},
	})
	assert.Nil(t, err)

	cases := map[string]struct {
		wallet  payermint.Address
		wantErr *errors.Error
	}{
		"unknown member":   {wallet: paytest.RandomAddress(), wantErr: ErrMemberNotFound},
		"inactive member":  {wallet: inactive.Address(), wantErr: ErrMemberNotActive},
		"unset allocation": {wallet: unset.Address(), wantErr: ErrInvalidAllocation},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := env.deliver(env.ctx(blockNow, env.owner), &ProcessScheduledPayoutMsg{
				VaultID: vaultID, Wallet: tc.wallet, Ticker: "SOL",
			})
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestScheduledPayoutFixedAllocation(t *testing.T) {
	env := newTestEnv(t, 0)
	alice := paytest.NewCondition()

	vaultID := env.createVault(&CreateVaultMsg{Policy: FixedPerAsset})
	_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member: &Member{
			Wallet:     alice.Address(),
			Allocation: fixedAlloc(coin.NewCoin(300, "SOL")),
			Active:     true,
		},
	})
	assert.Nil(t, err)
	env.fund(vaultID, paytest.NewCondition(), coin.NewCoin(1000, "SOL"))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &ConfigureScheduleMsg{
		VaultID:  vaultID,
		Schedule: &PayoutSchedule{Interval: 3600, NextPayoutAt: blockNow, Active: true},
	})
	assert.Nil(t, err)

	_, err = env.deliver(env.ctx(blockNow, env.owner), &ProcessScheduledPayoutMsg{
		VaultID: vaultID, Wallet: alice.Address(), Ticker: "SOL",
	})
	assert.Nil(t, err)
	assert.Equal(t, int64(300), env.walletAmount(alice.Address(), "SOL"))
	assert.Equal(t, int64(700), env.vault(vaultID).Balance.Amount("SOL").Amount)
}

func TestWhitelistEdits(t *testing.T) {
	env := newTestEnv(t, 250)
	vaultID := env.createVault(&CreateVaultMsg{Assets: []string{"SOL", "USDC"}})

	_, err := env.deliver(env.ctx(blockNow, env.owner), &AddAssetMsg{VaultID: vaultID, Ticker: "USDT"})
	assert.Nil(t, err)

	// The whitelist is full now.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &AddAssetMsg{VaultID: vaultID, Ticker: "BTC"})
	assert.IsErr(t, ErrTooManyAssets, err)
	assert.Equal(t, []string{"SOL", "USDC", "USDT"}, env.vault(vaultID).Assets)

	_, err = env.deliver(env.ctx(blockNow, env.owner), &RemoveAssetMsg{VaultID: vaultID, Ticker: "USDC"})
	assert.Nil(t, err)
	assert.Equal(t, []string{"SOL", "USDT"}, env.vault(vaultID).Assets)

	// Removing an unknown asset changes nothing.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &RemoveAssetMsg{VaultID: vaultID, Ticker: "BTC"})
	assert.Nil(t, err)
	assert.Equal(t, []string{"SOL", "USDT"}, env.vault(vaultID).Assets)

	_, err = env.deliver(env.ctx(blockNow, env.owner), &AddAssetMsg{VaultID: vaultID, Ticker: "SOL"})
	assert.IsErr(t, ErrAssetWhitelisted, err)
}

func TestMemberRoster(t *testing.T) {
	env := newTestEnv(t, 250)
	alice := paytest.NewCondition()
	bob := paytest.NewCondition()

	vaultID := env.createVault(&CreateVaultMsg{})
	_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(6000), Active: true},
	})
	assert.Nil(t, err)

	// No second membership for the same wallet.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(100), Active: true},
	})
	assert.IsErr(t, ErrMemberExists, err)

	// The unit has only 4000 bps left.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: bob.Address(), Allocation: pctAlloc(4001), Active: true},
	})
	assert.IsErr(t, ErrAllocationExceeded, err)
	assert.Equal(t, 1, len(env.vault(vaultID).Members))

	// Editing replaces the member wholesale.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &EditMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(2000), Role: "lead", Active: true},
	})
	assert.Nil(t, err)
	edited, _ := env.vault(vaultID).member(alice.Address())
	assert.Equal(t, "lead", edited.Role)
	assert.Equal(t, uint32(2000), edited.Allocation.Percentage.Bps)

	_, err = env.deliver(env.ctx(blockNow, env.owner), &EditMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: bob.Address(), Allocation: pctAlloc(100), Active: true},
	})
	assert.IsErr(t, ErrMemberNotFound, err)

	_, err = env.deliver(env.ctx(blockNow, env.owner), &RemoveMemberMsg{
		VaultID: vaultID,
		Wallet:  alice.Address(),
	})
	assert.Nil(t, err)
	assert.Equal(t, 0, len(env.vault(vaultID).Members))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &RemoveMemberMsg{
		VaultID: vaultID,
		Wallet:  alice.Address(),
	})
	assert.IsErr(t, ErrMemberNotFound, err)
}

func TestEditMemberCountsUnsetAllocations(t *testing.T) {
	env := newTestEnv(t, 250)
	alice := paytest.NewCondition()
	unset := paytest.NewCondition()

	vaultID := env.createVault(&CreateVaultMsg{})
	for _, m := range []*Member{
		{Wallet: alice.Address(), Allocation: pctAlloc(5000), Active: true},
		{Wallet: unset.Address(), Active: true},
	} {
		_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{VaultID: vaultID, Member: m})
		assert.Nil(t, err)
	}

	// The roster edit check charges one basis point per unset allocation,
	// so 10000 bps for alice no longer fits next to the unset member.
	_, err := env.deliver(env.ctx(blockNow, env.owner), &EditMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(10000), Active: true},
	})
	assert.IsErr(t, ErrAllocationExceeded, err)

	_, err = env.deliver(env.ctx(blockNow, env.owner), &EditMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(9999), Active: true},
	})
	assert.Nil(t, err)
}

func TestBulkAddMembers(t *testing.T) {
	env := newTestEnv(t, 250)
	alice := paytest.NewCondition()
	bob := paytest.NewCondition()
	carl := paytest.NewCondition()

	vaultID := env.createVault(&CreateVaultMsg{})
	_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{
		VaultID: vaultID,
		Member:  &Member{Wallet: alice.Address(), Allocation: pctAlloc(5000), Active: true},
	})
	assert.Nil(t, err)

	// The batch is rejected as a whole, the roster stays untouched.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &BulkAddMembersMsg{
		VaultID: vaultID,
		Members: []*Member{
			{Wallet: bob.Address(), Allocation: pctAlloc(3000), Active: true},
			{Wallet: carl.Address(), Allocation: pctAlloc(2001), Active: true},
		},
	})
	assert.IsErr(t, ErrAllocationExceeded, err)
	assert.Equal(t, 1, len(env.vault(vaultID).Members))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &BulkAddMembersMsg{
		VaultID: vaultID,
		Members: []*Member{
			{Wallet: bob.Address(), Allocation: pctAlloc(3000), Active: true},
			{Wallet: carl.Address(), Allocation: pctAlloc(2000), Active: true},
		},
	})
	assert.Nil(t, err)
	assert.Equal(t, 3, len(env.vault(vaultID).Members))
}

func TestBulkProcessPayouts(t *testing.T) {
	env := newTestEnv(t, 250)
	alice := paytest.NewCondition()
	bob := paytest.NewCondition()

	vaultID := env.createVault(&CreateVaultMsg{})
	for _, m := range []*Member{
		{Wallet: alice.Address(), Allocation: pctAlloc(5000), Active: true},
		{Wallet: bob.Address(), Allocation: pctAlloc(5000), Active: true},
	} {
		_, err := env.deliver(env.ctx(blockNow, env.owner), &AddMemberMsg{VaultID: vaultID, Member: m})
		assert.Nil(t, err)
	}
	env.fund(vaultID, paytest.NewCondition(), coin.NewCoin(1000, "SOL"))

	_, err := env.deliver(env.ctx(blockNow, env.owner), &CreateBatchMsg{
		VaultID:     vaultID,
		BatchID:     []byte("run-1"),
		TotalAmount: coin.NewCoin(1000, "SOL"),
	})
	assert.Nil(t, err)

	// An empty list is a no-op.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &BulkProcessPayoutsMsg{
		VaultID: vaultID,
		BatchID: []byte("run-1"),
	})
	assert.Nil(t, err)
	assert.Equal(t, int64(0), env.batch(vaultID, []byte("run-1")).PayoutCount)
	assert.Equal(t, int64(1000), env.vault(vaultID).Balance.Amount("SOL").Amount)

	// Covering the total is checked before anything moves.
	_, err = env.deliver(env.ctx(blockNow, env.owner), &BulkProcessPayoutsMsg{
		VaultID: vaultID,
		BatchID: []byte("run-1"),
		Payouts: []*Payout{
			{Wallet: alice.Address(), Amount: coin.NewCoin(600, "SOL")},
			{Wallet: bob.Address(), Amount: coin.NewCoin(500, "SOL")},
		},
	})
	assert.IsErr(t, ErrInsufficientBalance, err)
	assert.Equal(t, int64(1000), env.vault(vaultID).Balance.Amount("SOL").Amount)
	assert.Equal(t, int64(0), env.walletAmount(env.treasury.Address(), "SOL"))

	_, err = env.deliver(env.ctx(blockNow, env.owner), &BulkProcessPayoutsMsg{
		VaultID: vaultID,
		BatchID: []byte("run-1"),
		Payouts: []*Payout{
			{Wallet: alice.Address(), Amount: coin.NewCoin(500, "SOL")},
			{Wallet: bob.Address(), Amount: coin.NewCoin(500, "SOL")},
		},
	})
	assert.Nil(t, err)

	// The fee position and the ledger are settled in aggregate. The
	// members receive nothing in this flow.
	assert.Equal(t, int64(24), env.walletAmount(env.treasury.Address(), "SOL"))
	assert.Equal(t, int64(0), env.walletAmount(alice.Address(), "SOL"))
	assert.Equal(t, int64(0), env.walletAmount(bob.Address(), "SOL"))
	assert.Equal(t, true, env.vault(vaultID).Balance.IsEmpty())
	assert.Equal(t, int64(2), env.batch(vaultID, []byte("run-1")).PayoutCount)
	assert.Equal(t, int64(976), env.walletAmount(VaultAccount(vaultID), "SOL"))
}

func TestUpdateConfiguration(t *testing.T) {
	env := newTestEnv(t, 250)

	_, err := env.deliver(env.ctx(blockNow, env.owner), &UpdateConfigurationMsg{
		Patch: &Configuration{DefaultFeeBps: 100},
	})
	assert.Nil(t, err)

	conf, err := loadConf(env.db)
	assert.Nil(t, err)
	assert.Equal(t, uint32(100), conf.DefaultFeeBps)
	// Zero value fields of the patch leave the configuration untouched.
	assert.Equal(t, env.treasury.Address(), conf.Treasury)

	stranger := paytest.NewCondition()
	_, err = env.deliver(env.ctx(blockNow, stranger), &UpdateConfigurationMsg{
		Patch: &Configuration{DefaultFeeBps: 9999},
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}
