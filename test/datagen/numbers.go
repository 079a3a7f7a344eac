// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"
	mathrand "math/rand/v2"

	"github.com/freyrlabs/freyr/freyr"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

func RandUint64() uint64 {
	return mathrand.Uint64() //#nosec G404
}

// RandAmount returns a random whole-token amount in [1, max] at the reward
// scale.
func RandAmount(max int64) *big.Int {
	n := big.NewInt(1 + mathrand.Int64N(max)) //#nosec G404
	return n.Mul(n, freyr.RewardScale)
}
