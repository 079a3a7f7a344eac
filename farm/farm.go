// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farm implements the proportional staking-reward ledger contract.
package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/event"
	"github.com/freyrlabs/freyr/farm/accrual"
	"github.com/freyrlabs/freyr/farm/reverts"
	"github.com/freyrlabs/freyr/farm/stakes"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/log"
	"github.com/freyrlabs/freyr/slot"
	"github.com/freyrlabs/freyr/state"
)

var (
	logger = log.WithContext("pkg", "farm")

	slotOwner         = freyr.BytesToBytes32([]byte("owner"))
	slotFeePercent    = freyr.BytesToBytes32([]byte("fee-percent"))
	slotRewardPerStep = freyr.BytesToBytes32([]byte("reward-per-step"))

	maxFeePercent = new(big.Int).SetUint64(freyr.MaxFeePercent)
)

// SetLogger replaces the package logger.
func SetLogger(l log.Logger) {
	logger = l
}

// StakeToken is the asset users deposit. The farm's own address is the
// custody account holding all staked balances.
type StakeToken interface {
	TransferFrom(spender, from, to freyr.Address, amount *big.Int) (bool, error)
	Transfer(from, to freyr.Address, amount *big.Int) (bool, error)
}

// RewardToken is the asset minted as claim payout.
type RewardToken interface {
	Mint(to freyr.Address, amount *big.Int) error
}

// Farm is the staking-reward ledger. Per elapsed step it owes rewardPerStep
// to stakers pro rata; every mutating entry point settles the caller's
// record before touching balances so rewards always accrue against the
// balance window they were earned in.
//
// Entry points are not safe for concurrent use; the caller serializes them
// and provides atomicity through state checkpoints.
type Farm struct {
	ctx    *slot.Context
	stakes *stakes.Service

	owner         *slot.Address
	feePercent    *slot.Uint256
	rewardPerStep *slot.Uint256

	stakeToken  StakeToken
	rewardToken RewardToken
	sink        event.Sink
}

// New creates a farm instance at the given address. sink may be nil to
// drop event logs.
func New(addr freyr.Address, st *state.State, stakeToken StakeToken, rewardToken RewardToken, sink event.Sink) *Farm {
	ctx := slot.NewContext(addr, st)
	return &Farm{
		ctx:           ctx,
		stakes:        stakes.New(ctx),
		owner:         slot.NewAddress(ctx, slotOwner),
		feePercent:    slot.NewUint256(ctx, slotFeePercent),
		rewardPerStep: slot.NewUint256(ctx, slotRewardPerStep),
		stakeToken:    stakeToken,
		rewardToken:   rewardToken,
		sink:          sink,
	}
}

// Initialize writes the construction-time parameters. The owner identity is
// immutable afterwards; a second call fails.
func (f *Farm) Initialize(owner freyr.Address, rewardPerStep, feePercent *big.Int) error {
	cur, err := f.owner.Get()
	if err != nil {
		return err
	}
	if !cur.IsZero() {
		return errors.New("farm already initialized")
	}
	if owner.IsZero() {
		return errors.New("zero owner")
	}
	if feePercent.Sign() < 0 || feePercent.Cmp(maxFeePercent) > 0 {
		return errors.New("fee percent out of range")
	}
	f.owner.Set(&owner)
	f.rewardPerStep.Set(rewardPerStep)
	f.feePercent.Set(feePercent)
	return nil
}

// Address returns the contract's storage address, which is also the stake
// custody account.
func (f *Farm) Address() freyr.Address {
	return f.ctx.Address()
}

// Deposit stakes amount for user. The stake asset moves from user into
// custody; the user joins the member set on first deposit.
func (f *Farm) Deposit(user freyr.Address, amount *big.Int, step uint64) error {
	logger.Debug("depositing stake", "user", user, "amount", amount, "step", step)

	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount
	}

	ok, err := f.stakeToken.TransferFrom(f.ctx.Address(), user, f.ctx.Address(), amount)
	if err != nil {
		return errors.Wrap(err, "failed to move stake into custody")
	}
	if !ok {
		return reverts.ErrTransferFailed
	}

	rec, err := f.stakes.GetStaker(user)
	if err != nil {
		return err
	}
	// settle against the pre-deposit balance and total
	if err := f.settle(user, rec, step); err != nil {
		return err
	}

	if !rec.HasStaked {
		if err := f.stakes.Join(user); err != nil {
			return err
		}
		rec.HasStaked = true
	}
	rec.Balance.Add(rec.Balance, amount)
	rec.IsStaking = true
	if err := f.stakes.SetStaker(user, rec); err != nil {
		return err
	}
	if err := f.stakes.AddTotal(amount); err != nil {
		return err
	}

	f.emit(DepositEvent, user, amount)
	logger.Info("deposited stake", "user", user, "amount", amount)
	return nil
}

// Withdraw returns user's entire staking balance from custody. There is no
// partial withdrawal; the user leaves the member set.
func (f *Farm) Withdraw(user freyr.Address, step uint64) (*big.Int, error) {
	logger.Debug("withdrawing stake", "user", user, "step", step)

	rec, err := f.stakes.GetStaker(user)
	if err != nil {
		return nil, err
	}
	if !rec.IsStaking {
		return nil, reverts.ErrNotStaking
	}
	if rec.Balance.Sign() == 0 {
		return nil, reverts.ErrNoBalance
	}

	// settle against the pre-withdrawal balance
	if err := f.settle(user, rec, step); err != nil {
		return nil, err
	}

	amount := new(big.Int).Set(rec.Balance)
	rec.Balance = new(big.Int)
	rec.IsStaking = false
	if err := f.stakes.SubTotal(amount); err != nil {
		return nil, err
	}

	// the whole operation aborts when the return transfer fails
	ok, err := f.stakeToken.Transfer(f.ctx.Address(), user, amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to return stake from custody")
	}
	if !ok {
		return nil, reverts.ErrTransferFailed
	}

	if rec.Balance.Sign() == 0 {
		rec.HasStaked = false
		if err := f.stakes.Leave(user); err != nil {
			return nil, err
		}
	}
	if err := f.stakes.SetStaker(user, rec); err != nil {
		return nil, err
	}

	f.emit(WithdrawEvent, user, amount)
	logger.Info("withdrew stake", "user", user, "amount", amount)
	return amount, nil
}

// Claim settles user's rewards, then pays out the pending amount minus the
// protocol fee. Pending rewards are zeroed before any mint call.
func (f *Farm) Claim(user freyr.Address, step uint64) (payout, fee *big.Int, err error) {
	logger.Debug("claiming rewards", "user", user, "step", step)

	rec, err := f.stakes.GetStaker(user)
	if err != nil {
		return nil, nil, err
	}
	if err := f.settle(user, rec, step); err != nil {
		return nil, nil, err
	}
	if rec.PendingRewards.Sign() == 0 {
		return nil, nil, reverts.ErrNoRewards
	}

	pending := rec.PendingRewards
	rec.PendingRewards = new(big.Int)
	if err := f.stakes.SetStaker(user, rec); err != nil {
		return nil, nil, err
	}

	feePercent, err := f.feePercent.Get()
	if err != nil {
		return nil, nil, err
	}
	payout, fee = accrual.SplitFee(pending, feePercent)

	owner, err := f.owner.Get()
	if err != nil {
		return nil, nil, err
	}
	if err := f.rewardToken.Mint(user, payout); err != nil {
		return nil, nil, errors.Wrap(err, "failed to mint payout")
	}
	if err := f.rewardToken.Mint(owner, fee); err != nil {
		return nil, nil, errors.Wrap(err, "failed to mint fee")
	}

	f.emit(RewardsClaimedEvent, user, payout)
	f.emit(FeeCollectedEvent, owner, fee)
	logger.Info("claimed rewards", "user", user, "payout", payout, "fee", fee)
	return payout, fee, nil
}

// DistributeAll settles every member of the staker set at the given step.
// Maintenance only: checkpoints advance and pending rewards grow, nothing
// is paid out. Owner gated.
func (f *Farm) DistributeAll(caller freyr.Address, step uint64) error {
	logger.Debug("distributing rewards", "caller", caller, "step", step)

	if err := f.requireOwner(caller); err != nil {
		return err
	}

	members, err := f.stakes.Members()
	if err != nil {
		return err
	}
	total, err := f.stakes.TotalStaked()
	if err != nil {
		return err
	}
	rate, err := f.rewardPerStep.Get()
	if err != nil {
		return err
	}

	for _, user := range members {
		rec, err := f.stakes.GetStaker(user)
		if err != nil {
			return err
		}
		if reward, ok := accrual.Settle(rec, total, rate, step); ok {
			f.emit(RewardsDistributedEvent, user, reward)
		}
		if err := f.stakes.SetStaker(user, rec); err != nil {
			return err
		}
	}

	logger.Info("distributed rewards", "stakers", len(members), "step", step)
	return nil
}

// SetFeePercent adjusts the claim fee. Owner gated; the percent stays on
// the 0..100 scale.
func (f *Farm) SetFeePercent(caller freyr.Address, percent *big.Int) error {
	logger.Debug("setting fee percent", "caller", caller, "percent", percent)

	if err := f.requireOwner(caller); err != nil {
		return err
	}
	if percent == nil || percent.Sign() < 0 || percent.Cmp(maxFeePercent) > 0 {
		return reverts.ErrInvalidAmount
	}
	f.feePercent.Set(percent)

	logger.Info("set fee percent", "percent", percent)
	return nil
}

// settle folds user's accrued rewards into the record and emits the
// distribution event when a settlement window closed.
func (f *Farm) settle(user freyr.Address, rec *stakes.Staker, step uint64) error {
	total, err := f.stakes.TotalStaked()
	if err != nil {
		return err
	}
	rate, err := f.rewardPerStep.Get()
	if err != nil {
		return err
	}
	if reward, ok := accrual.Settle(rec, total, rate, step); ok {
		f.emit(RewardsDistributedEvent, user, reward)
	}
	return nil
}

func (f *Farm) requireOwner(caller freyr.Address) error {
	owner, err := f.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.ErrUnauthorized
	}
	return nil
}

// Owner returns the privileged identity.
func (f *Farm) Owner() (freyr.Address, error) {
	return f.owner.Get()
}

// FeePercent returns the claim fee on the 0..100 scale.
func (f *Farm) FeePercent() (*big.Int, error) {
	return f.feePercent.Get()
}

// RewardPerStep returns the reward minted per elapsed step.
func (f *Farm) RewardPerStep() (*big.Int, error) {
	return f.rewardPerStep.Get()
}

// TotalStaked returns the staked total.
func (f *Farm) TotalStaked() (*big.Int, error) {
	return f.stakes.TotalStaked()
}

// Staker returns the record of addr.
func (f *Farm) Staker(addr freyr.Address) (*stakes.Staker, error) {
	return f.stakes.GetStaker(addr)
}

// StakerCount returns the member set size.
func (f *Farm) StakerCount() (uint64, error) {
	return f.stakes.MemberCount()
}

// Stakers returns a snapshot of the member set, in current set order.
func (f *Farm) Stakers() ([]freyr.Address, error) {
	return f.stakes.Members()
}
