// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the terminal failure kinds of ledger operations.
// A revert aborts the whole operation with no state retained; it is part of
// the ledger contract, unlike infrastructure errors.
package reverts

import (
	"errors"
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Revert kinds raised by ledger entry points.
var (
	ErrInvalidAmount  = New("invalid amount")
	ErrTransferFailed = New("transfer failed")
	ErrNotStaking     = New("not staking")
	ErrNoBalance      = New("no staking balance")
	ErrNoRewards      = New("no rewards to claim")
	ErrUnauthorized   = New("unauthorized")
)

// IsRevertErr reports whether err carries a revert kind.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
