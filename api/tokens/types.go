// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/freyrlabs/freyr/freyr"
)

// Token is the JSON form of a ledger asset.
type Token struct {
	Address     freyr.Address        `json:"address"`
	Name        string               `json:"name"`
	Symbol      string               `json:"symbol"`
	TotalSupply math.HexOrDecimal256 `json:"totalSupply"`
}

// Balance is an account's holding of one asset.
type Balance struct {
	Balance math.HexOrDecimal256 `json:"balance"`
}

// Allowance is the amount a spender may move on an owner's behalf.
type Allowance struct {
	Allowance math.HexOrDecimal256 `json:"allowance"`
}

// ApproveRequest sets a spender allowance over the owner's balance.
type ApproveRequest struct {
	Owner   freyr.Address         `json:"owner"`
	Spender freyr.Address         `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

// TransferRequest moves tokens between accounts.
type TransferRequest struct {
	From   freyr.Address         `json:"from"`
	To     freyr.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}
