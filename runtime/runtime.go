// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime drives the reward ledger. It serializes entry points,
// stamps each with the current step, wraps every operation in a state
// checkpoint so failures leave no trace, and relays committed logs to the
// log store.
package runtime

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/cache"
	"github.com/freyrlabs/freyr/co"
	"github.com/freyrlabs/freyr/event"
	"github.com/freyrlabs/freyr/farm"
	"github.com/freyrlabs/freyr/farm/accrual"
	"github.com/freyrlabs/freyr/farm/reverts"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/log"
	"github.com/freyrlabs/freyr/logdb"
	"github.com/freyrlabs/freyr/slot"
	"github.com/freyrlabs/freyr/state"
	"github.com/freyrlabs/freyr/token"
)

var (
	logger = log.WithContext("pkg", "runtime")

	slotStep = freyr.BytesToBytes32([]byte("current-step"))
)

// receiptBacklog bounds the in-memory receipt history served to subscribers.
const receiptBacklog = 1024

// Runtime owns the ledger state. All exported methods are safe for
// concurrent use; mutations run one at a time.
type Runtime struct {
	mu  sync.Mutex
	st  *state.State
	ldb *logdb.LogDB
	buf *event.Buffer

	farm   *farm.Farm
	stake  *token.Token
	reward *token.Token

	step *slot.Uint256

	seq      uint64
	receipts *cache.LRU
	tick     co.Signal
}

// New creates a runtime over already-initialized ledger state. ldb may be
// nil to skip log persistence.
func New(st *state.State, ldb *logdb.LogDB) (*Runtime, error) {
	buf := &event.Buffer{}
	stake := token.New(freyr.StakeTokenAddress, st, freyr.StakeTokenName, freyr.StakeTokenSymbol, buf)
	reward := token.New(freyr.RewardTokenAddress, st, freyr.RewardTokenName, freyr.RewardTokenSymbol, buf)
	f := farm.New(freyr.FarmAddress, st, stake, reward, buf)

	owner, err := f.Owner()
	if err != nil {
		return nil, err
	}
	if owner.IsZero() {
		return nil, errors.New("ledger state not initialized")
	}

	receipts, err := cache.NewLRU(receiptBacklog)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		st:       st,
		ldb:      ldb,
		buf:      buf,
		farm:     f,
		stake:    stake,
		reward:   reward,
		step:     slot.NewUint256(slot.NewContext(freyr.LedgerAddress, st), slotStep),
		receipts: receipts,
	}
	step, err := rt.currentStep()
	if err != nil {
		return nil, err
	}
	logger.Info("runtime ready", "step", step, "owner", owner)
	metricCurrentStep().Set(int64(step))
	return rt, nil
}

func (rt *Runtime) currentStep() (uint64, error) {
	v, err := rt.step.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read current step")
	}
	return v.Uint64(), nil
}

// Receipt describes one committed operation.
type Receipt struct {
	Seq       uint64
	Kind      string
	Step      uint64
	Events    event.Events
	Transfers event.Transfers
}

// execute runs fn inside a checkpoint at the current step, committing on
// success and reverting on failure. Callers hold rt.mu.
func (rt *Runtime) execute(kind string, fn func(step uint64) error) (*Receipt, error) {
	startTime := time.Now()

	step, err := rt.currentStep()
	if err != nil {
		return nil, err
	}
	rt.buf.Reset()
	chk := rt.st.NewCheckpoint()

	if err := fn(step); err != nil {
		rt.st.RevertTo(chk)
		metricOpCount().AddWithLabel(1, map[string]string{"kind": kind, "status": "reverted"})
		return nil, err
	}
	if err := rt.st.Commit(); err != nil {
		rt.st.RevertTo(chk)
		metricOpCount().AddWithLabel(1, map[string]string{"kind": kind, "status": "failed"})
		return nil, errors.Wrap(err, "failed to commit state")
	}

	receipt := &Receipt{
		Kind:      kind,
		Step:      step,
		Events:    rt.buf.Events(),
		Transfers: rt.buf.Transfers(),
	}
	if rt.ldb != nil {
		if err := rt.ldb.Prepare(step).Insert(receipt.Events, receipt.Transfers).Commit(); err != nil {
			// state is committed; the log store catches up on replay
			logger.Warn("failed to persist logs", "kind", kind, "step", step, "err", err)
		}
	}

	rt.seq++
	receipt.Seq = rt.seq
	rt.receipts.Add(receipt.Seq, receipt)

	metricOpCount().AddWithLabel(1, map[string]string{"kind": kind, "status": "committed"})
	metricOpDuration().ObserveWithLabels(time.Since(startTime).Milliseconds(), map[string]string{"kind": kind})
	if count, err := rt.farm.StakerCount(); err == nil {
		metricStakerCount().Set(int64(count))
	}

	rt.tick.Broadcast()
	return receipt, nil
}

// Deposit stakes amount for user at the current step.
func (rt *Runtime) Deposit(user freyr.Address, amount *big.Int) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.execute("deposit", func(step uint64) error {
		return rt.farm.Deposit(user, amount, step)
	})
}

// Withdraw returns user's whole staking balance.
func (rt *Runtime) Withdraw(user freyr.Address) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.execute("withdraw", func(step uint64) error {
		_, err := rt.farm.Withdraw(user, step)
		return err
	})
}

// Claim pays out user's pending rewards minus the protocol fee.
func (rt *Runtime) Claim(user freyr.Address) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.execute("claim", func(step uint64) error {
		_, _, err := rt.farm.Claim(user, step)
		return err
	})
}

// DistributeAll settles every staker at the current step. Owner gated.
func (rt *Runtime) DistributeAll(caller freyr.Address) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.execute("distribute", func(step uint64) error {
		return rt.farm.DistributeAll(caller, step)
	})
}

// SetFeePercent adjusts the claim fee. Owner gated.
func (rt *Runtime) SetFeePercent(caller freyr.Address, percent *big.Int) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.execute("set-fee", func(uint64) error {
		return rt.farm.SetFeePercent(caller, percent)
	})
}

// Approve sets spender's allowance over owner's balance of the given token.
func (rt *Runtime) Approve(tokenAddr, owner, spender freyr.Address, amount *big.Int) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	tok, err := rt.token(tokenAddr)
	if err != nil {
		return nil, err
	}
	return rt.execute("approve", func(uint64) error {
		return tok.Approve(owner, spender, amount)
	})
}

// Transfer moves tokens between accounts.
func (rt *Runtime) Transfer(tokenAddr, from, to freyr.Address, amount *big.Int) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	tok, err := rt.token(tokenAddr)
	if err != nil {
		return nil, err
	}
	return rt.execute("transfer", func(uint64) error {
		ok, err := tok.Transfer(from, to, amount)
		if err != nil {
			return err
		}
		if !ok {
			return reverts.ErrTransferFailed
		}
		return nil
	})
}

// AdvanceStep moves the ledger clock one step forward and returns the new
// step.
func (rt *Runtime) AdvanceStep() (uint64, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	step, err := rt.currentStep()
	if err != nil {
		return 0, err
	}
	step++

	chk := rt.st.NewCheckpoint()
	rt.step.Set(new(big.Int).SetUint64(step))
	if err := rt.st.Commit(); err != nil {
		rt.st.RevertTo(chk)
		return 0, errors.Wrap(err, "failed to commit step")
	}

	logger.Debug("advanced step", "step", step)
	metricCurrentStep().Set(int64(step))
	rt.tick.Broadcast()
	return step, nil
}

func (rt *Runtime) token(addr freyr.Address) (*token.Token, error) {
	switch addr {
	case freyr.StakeTokenAddress:
		return rt.stake, nil
	case freyr.RewardTokenAddress:
		return rt.reward, nil
	default:
		return nil, errors.Errorf("unknown token %v", addr)
	}
}

// Token returns the token registered at addr.
func (rt *Runtime) Token(addr freyr.Address) (*token.Token, error) {
	return rt.token(addr)
}

// StakeToken returns the stake asset.
func (rt *Runtime) StakeToken() *token.Token { return rt.stake }

// RewardToken returns the reward asset.
func (rt *Runtime) RewardToken() *token.Token { return rt.reward }

// Step returns the current ledger step.
func (rt *Runtime) Step() (uint64, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.currentStep()
}

// Seq returns the sequence number of the latest committed operation.
func (rt *Runtime) Seq() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.seq
}

// Receipt returns the receipt with the given sequence number if it is still
// in the backlog.
func (rt *Runtime) Receipt(seq uint64) (*Receipt, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if v, ok := rt.receipts.Get(seq); ok {
		return v.(*Receipt), true
	}
	return nil, false
}

// NewTicker returns a waiter notified on every committed operation and step
// advance.
func (rt *Runtime) NewTicker() co.Waiter {
	return rt.tick.NewWaiter()
}

// GlobalState is a snapshot of ledger-wide parameters.
type GlobalState struct {
	Step          uint64
	Owner         freyr.Address
	FeePercent    *big.Int
	RewardPerStep *big.Int
	TotalStaked   *big.Int
	StakerCount   uint64
}

// Global returns the ledger-wide parameter snapshot.
func (rt *Runtime) Global() (*GlobalState, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	step, err := rt.currentStep()
	if err != nil {
		return nil, err
	}
	owner, err := rt.farm.Owner()
	if err != nil {
		return nil, err
	}
	fee, err := rt.farm.FeePercent()
	if err != nil {
		return nil, err
	}
	rate, err := rt.farm.RewardPerStep()
	if err != nil {
		return nil, err
	}
	total, err := rt.farm.TotalStaked()
	if err != nil {
		return nil, err
	}
	count, err := rt.farm.StakerCount()
	if err != nil {
		return nil, err
	}
	return &GlobalState{
		Step:          step,
		Owner:         owner,
		FeePercent:    fee,
		RewardPerStep: rate,
		TotalStaked:   total,
		StakerCount:   count,
	}, nil
}

// StakerStatus is a staker record projected to the current step.
type StakerStatus struct {
	Address        freyr.Address
	Balance        *big.Int
	Checkpoint     uint64
	PendingRewards *big.Int
	// ProjectedRewards adds the not-yet-settled accrual up to the current
	// step to the pending amount.
	ProjectedRewards *big.Int
	HasStaked        bool
	IsStaking        bool
}

// Staker returns the projected record of addr.
func (rt *Runtime) Staker(addr freyr.Address) (*StakerStatus, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.stakerStatus(addr)
}

// Stakers returns the projected records of all current members, in set
// order.
func (rt *Runtime) Stakers() ([]*StakerStatus, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	members, err := rt.farm.Stakers()
	if err != nil {
		return nil, err
	}
	out := make([]*StakerStatus, 0, len(members))
	for _, addr := range members {
		status, err := rt.stakerStatus(addr)
		if err != nil {
			return nil, err
		}
		out = append(out, status)
	}
	return out, nil
}

func (rt *Runtime) stakerStatus(addr freyr.Address) (*StakerStatus, error) {
	step, err := rt.currentStep()
	if err != nil {
		return nil, err
	}
	rec, err := rt.farm.Staker(addr)
	if err != nil {
		return nil, err
	}

	projected := new(big.Int).Set(rec.PendingRewards)
	if elapsed := step - rec.Checkpoint; elapsed > 0 {
		total, err := rt.farm.TotalStaked()
		if err != nil {
			return nil, err
		}
		if total.Sign() > 0 {
			rate, err := rt.farm.RewardPerStep()
			if err != nil {
				return nil, err
			}
			projected.Add(projected, accrual.Reward(rec.Balance, total, rate, elapsed))
		}
	}
	return &StakerStatus{
		Address:          addr,
		Balance:          rec.Balance,
		Checkpoint:       rec.Checkpoint,
		PendingRewards:   rec.PendingRewards,
		ProjectedRewards: projected,
		HasStaked:        rec.HasStaked,
		IsStaking:        rec.IsStaking,
	}, nil
}
