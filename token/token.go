// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a storage-backed fungible asset ledger.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/event"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/slot"
	"github.com/freyrlabs/freyr/state"
)

var (
	supplySlot     = freyr.Blake2b([]byte("total-supply"))
	balancesSlot   = freyr.Blake2b([]byte("balances"))
	allowancesSlot = freyr.Blake2b([]byte("allowances"))
)

// approvalKey addresses an (owner, spender) allowance entry.
type approvalKey struct {
	owner   freyr.Address
	spender freyr.Address
}

func (k approvalKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token is a fungible asset ledger living under its own storage address.
// Moves conserve balances and fail softly on insufficient balance or
// allowance; minting creates new supply. Successful moves are reported to
// the sink as transfer logs, with the zero address as mint sender.
type Token struct {
	name       string
	symbol     string
	ctx        *slot.Context
	supply     *slot.Uint256
	balances   *slot.Mapping[freyr.Address, *big.Int]
	allowances *slot.Mapping[approvalKey, *big.Int]
	sink       event.Sink
}

// New creates a token ledger at the given address. sink may be nil to
// drop transfer logs.
func New(addr freyr.Address, st *state.State, name, symbol string, sink event.Sink) *Token {
	ctx := slot.NewContext(addr, st)
	return &Token{
		name:       name,
		symbol:     symbol,
		ctx:        ctx,
		supply:     slot.NewUint256(ctx, supplySlot),
		balances:   slot.NewMapping[freyr.Address, *big.Int](ctx, balancesSlot),
		allowances: slot.NewMapping[approvalKey, *big.Int](ctx, allowancesSlot),
		sink:       sink,
	}
}

// Address returns the token's storage address.
func (t *Token) Address() freyr.Address {
	return t.ctx.Address()
}

// Name returns the asset name.
func (t *Token) Name() string {
	return t.name
}

// Symbol returns the asset symbol.
func (t *Token) Symbol() string {
	return t.symbol
}

// TotalSupply returns the minted supply.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.supply.Get()
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr freyr.Address) (*big.Int, error) {
	return t.balances.Get(addr)
}

// Allowance returns what spender may move out of owner's balance.
func (t *Token) Allowance(owner, spender freyr.Address) (*big.Int, error) {
	return t.allowances.Get(approvalKey{owner, spender})
}

// Approve lets spender move up to amount out of owner's balance.
func (t *Token) Approve(owner, spender freyr.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("token: negative allowance")
	}
	return t.allowances.Set(approvalKey{owner, spender}, amount)
}

// Transfer moves amount from the caller's own balance to recipient.
// It returns false when from's balance is insufficient.
func (t *Token) Transfer(from, to freyr.Address, amount *big.Int) (bool, error) {
	if amount.Sign() < 0 {
		return false, errors.New("token: negative amount")
	}
	ok, err := t.move(from, to, amount)
	if err != nil || !ok {
		return ok, err
	}
	t.logTransfer(from, to, amount)
	return true, nil
}

// TransferFrom moves amount from from's balance to recipient, consuming
// spender's allowance. It returns false on insufficient balance or allowance.
func (t *Token) TransferFrom(spender, from, to freyr.Address, amount *big.Int) (bool, error) {
	if amount.Sign() < 0 {
		return false, errors.New("token: negative amount")
	}
	key := approvalKey{from, spender}
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return false, err
	}
	if allowance.Cmp(amount) < 0 {
		return false, nil
	}
	ok, err := t.move(from, to, amount)
	if err != nil || !ok {
		return ok, err
	}
	if err := t.allowances.Set(key, allowance.Sub(allowance, amount)); err != nil {
		return false, err
	}
	t.logTransfer(from, to, amount)
	return true, nil
}

// Mint creates amount of new supply into to's balance.
func (t *Token) Mint(to freyr.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("token: negative amount")
	}
	balance, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, balance.Add(balance, amount)); err != nil {
		return err
	}
	if err := t.supply.Add(amount); err != nil {
		return err
	}
	t.logTransfer(freyr.Address{}, to, amount)
	return nil
}

func (t *Token) move(from, to freyr.Address, amount *big.Int) (bool, error) {
	fromBalance, err := t.balances.Get(from)
	if err != nil {
		return false, err
	}
	if fromBalance.Cmp(amount) < 0 {
		return false, nil
	}
	if err := t.balances.Set(from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return false, err
	}
	toBalance, err := t.balances.Get(to)
	if err != nil {
		return false, err
	}
	if err := t.balances.Set(to, toBalance.Add(toBalance, amount)); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Token) logTransfer(from, to freyr.Address, amount *big.Int) {
	if t.sink == nil || amount.Sign() == 0 {
		return
	}
	t.sink.LogTransfer(&event.Transfer{
		Token:     t.ctx.Address(),
		Sender:    from,
		Recipient: to,
		Amount:    new(big.Int).Set(amount),
	})
}
