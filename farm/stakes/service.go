// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakes manages per-account staking records, the staker member set,
// and the global staked total.
package stakes

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/slot"
)

var (
	slotTotalStaked = nameToSlot("total-staked")
	slotRecords     = nameToSlot("staker-records")
	slotMembers     = nameToSlot("staker-members")
)

func nameToSlot(name string) freyr.Bytes32 {
	return freyr.BytesToBytes32([]byte(name))
}

// Service owns the stake ledger state: address → record, the member set,
// and the staked total. Invariant: the total equals the sum of all record
// balances, and every account with a positive balance is a member exactly
// once. The facade preserves it by pairing record and total mutations.
type Service struct {
	records *slot.Mapping[freyr.Address, *Staker]
	members *slot.AddressSet
	total   *slot.Uint256
}

// New creates the service over the contract context.
func New(ctx *slot.Context) *Service {
	return &Service{
		records: slot.NewMapping[freyr.Address, *Staker](ctx, slotRecords),
		members: slot.NewAddressSet(ctx, slotMembers),
		total:   slot.NewUint256(ctx, slotTotalStaked),
	}
}

// GetStaker returns the record of addr. An account never seen yields an
// empty record with allocated amounts.
func (s *Service) GetStaker(addr freyr.Address) (*Staker, error) {
	rec, err := s.records.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staker record")
	}
	return rec.init(), nil
}

// SetStaker persists the record of addr.
func (s *Service) SetStaker(addr freyr.Address, rec *Staker) error {
	if err := s.records.Set(addr, rec); err != nil {
		return errors.Wrap(err, "failed to set staker record")
	}
	return nil
}

// Join appends addr to the member set.
func (s *Service) Join(addr freyr.Address) error {
	added, err := s.members.Add(addr)
	if err != nil {
		return errors.Wrap(err, "failed to join member set")
	}
	if !added {
		return errors.New("already a member")
	}
	return nil
}

// Leave removes addr from the member set, swapping the tail member into
// its position.
func (s *Service) Leave(addr freyr.Address) error {
	removed, err := s.members.Remove(addr)
	if err != nil {
		return errors.Wrap(err, "failed to leave member set")
	}
	if !removed {
		return errors.New("not a member")
	}
	return nil
}

// IsMember reports membership of addr.
func (s *Service) IsMember(addr freyr.Address) (bool, error) {
	return s.members.Contains(addr)
}

// Members returns a snapshot of the member set, in current set order.
func (s *Service) Members() ([]freyr.Address, error) {
	return s.members.All()
}

// MemberCount returns the member set size.
func (s *Service) MemberCount() (uint64, error) {
	return s.members.Len()
}

// TotalStaked returns the staked total.
func (s *Service) TotalStaked() (*big.Int, error) {
	return s.total.Get()
}

// AddTotal credits amount to the staked total.
func (s *Service) AddTotal(amount *big.Int) error {
	return s.total.Add(amount)
}

// SubTotal debits amount from the staked total.
func (s *Service) SubTotal(amount *big.Int) error {
	return s.total.Sub(amount)
}
