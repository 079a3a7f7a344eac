// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/memdb"
	"github.com/freyrlabs/freyr/slot"
	"github.com/freyrlabs/freyr/state"
)

func newTestContext(t *testing.T) *slot.Context {
	db, err := memdb.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	st.NewCheckpoint()
	return slot.NewContext(freyr.BytesToAddress([]byte("contract")), st)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	cell := slot.NewUint256(ctx, freyr.Blake2b([]byte("cell")))

	v, err := cell.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int64())

	cell.Set(big.NewInt(100))
	require.NoError(t, cell.Add(big.NewInt(50)))
	require.NoError(t, cell.Sub(big.NewInt(30)))

	v, err = cell.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(120), v.Int64())
}

func TestAddressCell(t *testing.T) {
	ctx := newTestContext(t)
	cell := slot.NewAddress(ctx, freyr.Blake2b([]byte("owner")))

	got, err := cell.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	owner := freyr.BytesToAddress([]byte("owner-addr"))
	cell.Set(&owner)

	got, err = cell.Get()
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	cell.Set(nil)
	got, err = cell.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	balances := slot.NewMapping[freyr.Address, *big.Int](ctx, freyr.Blake2b([]byte("balances")))

	alice := freyr.BytesToAddress([]byte("alice"))

	// missing entry reads as an allocated zero
	v, err := balances.Get(alice)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(0), v.Int64())

	require.NoError(t, balances.Set(alice, big.NewInt(42)))

	v, err = balances.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int64())

	has, err := balances.Has(alice)
	require.NoError(t, err)
	assert.True(t, has)

	balances.Clear(alice)
	has, err = balances.Has(alice)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMappingStructValues(t *testing.T) {
	type entry struct {
		Amount *big.Int
		Flag   bool
	}

	ctx := newTestContext(t)
	m := slot.NewMapping[freyr.Address, *entry](ctx, freyr.Blake2b([]byte("entries")))

	key := freyr.BytesToAddress([]byte("key"))
	require.NoError(t, m.Set(key, &entry{Amount: big.NewInt(7), Flag: true}))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Amount.Int64())
	assert.True(t, got.Flag)
}

func TestAddressSet(t *testing.T) {
	ctx := newTestContext(t)
	set := slot.NewAddressSet(ctx, freyr.Blake2b([]byte("members")))

	a := freyr.BytesToAddress([]byte{1})
	b := freyr.BytesToAddress([]byte{2})
	c := freyr.BytesToAddress([]byte{3})

	for _, addr := range []freyr.Address{a, b, c} {
		added, err := set.Add(addr)
		require.NoError(t, err)
		assert.True(t, added)
	}

	// duplicate add is refused
	added, err := set.Add(b)
	require.NoError(t, err)
	assert.False(t, added)

	n, err := set.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	members, err := set.All()
	require.NoError(t, err)
	assert.Equal(t, []freyr.Address{a, b, c}, members)

	// removing the head swaps the tail into its place
	removed, err := set.Remove(a)
	require.NoError(t, err)
	assert.True(t, removed)

	members, err = set.All()
	require.NoError(t, err)
	assert.Equal(t, []freyr.Address{c, b}, members)

	has, err := set.Contains(a)
	require.NoError(t, err)
	assert.False(t, has)

	// removing a non-member is refused
	removed, err = set.Remove(a)
	require.NoError(t, err)
	assert.False(t, removed)

	// re-add goes to the tail, exactly once
	added, err = set.Add(a)
	require.NoError(t, err)
	assert.True(t, added)

	members, err = set.All()
	require.NoError(t, err)
	assert.Equal(t, []freyr.Address{c, b, a}, members)

	_, err = set.At(3)
	assert.Error(t, err)

	got, err := set.At(0)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestAddressSetRemoveLast(t *testing.T) {
	ctx := newTestContext(t)
	set := slot.NewAddressSet(ctx, freyr.Blake2b([]byte("members")))

	a := freyr.BytesToAddress([]byte{1})
	b := freyr.BytesToAddress([]byte{2})

	_, err := set.Add(a)
	require.NoError(t, err)
	_, err = set.Add(b)
	require.NoError(t, err)

	// removing the tail needs no swap
	removed, err := set.Remove(b)
	require.NoError(t, err)
	assert.True(t, removed)

	members, err := set.All()
	require.NoError(t, err)
	assert.Equal(t, []freyr.Address{a}, members)

	// drain to empty and rebuild
	_, err = set.Remove(a)
	require.NoError(t, err)
	n, err := set.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	added, err := set.Add(b)
	require.NoError(t, err)
	assert.True(t, added)
	members, err = set.All()
	require.NoError(t, err)
	assert.Equal(t, []freyr.Address{b}, members)
}
