// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/freyrlabs/freyr/freyr"
)

func RandomHash() freyr.Bytes32 {
	var b32 freyr.Bytes32

	rand.Read(b32[:]) //#nosec G104
	return b32
}

func RandAddress() (addr freyr.Address) {
	rand.Read(addr[:]) //#nosec G104
	return
}
