package state

import (
	"github.com/entropyio/evmlite/common"
	"github.com/holiman/uint256"
)

// journalEntry is a modification entry in the state change journal that can be
// reverted on demand.
type journalEntry interface {
	// revert undoes the changes introduced by this journal entry.
	revert(*StateDB)
}

// journal contains the list of state modifications applied since the last
// snapshot was taken. Frames that fail are rolled back through it.
type journal struct {
	entries   []journalEntry
	snapshots []int // journal length at each snapshot
}

func newJournal() *journal {
	return &journal{
		entries:   make([]journalEntry, 0, 64),
		snapshots: make([]int, 0, 8),
	}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

func (j *journal) snapshot() int {
	id := len(j.snapshots)
	j.snapshots = append(j.snapshots, len(j.entries))
	return id
}

// revertToSnapshot undoes, newest first, every entry recorded after snapshot id
// and forgets that snapshot and all later ones.
func (j *journal) revertToSnapshot(s *StateDB, id int) {
	if id < 0 || id >= len(j.snapshots) {
		return
	}
	idx := j.snapshots[id]
	for i := len(j.entries) - 1; i >= idx; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:idx]
	j.snapshots = j.snapshots[:id]
}

func (j *journal) length() int {
	return len(j.entries)
}

type (
	// accountChange records the prior account (nil when absent) at an address
	// that was created, replaced or destroyed.
	accountChange struct {
		address common.Address
		prev    *Account
	}
	balanceChange struct {
		address common.Address
		prev    uint256.Int
	}
	nonceChange struct {
		address common.Address
		prev    uint64
	}
	codeChange struct {
		address common.Address
		prev    []byte
	}
	storageChange struct {
		address common.Address
		key     common.Hash
		prev    uint256.Int
	}
	storageReset struct {
		address common.Address
		prev    Storage
	}
)

func (ch accountChange) revert(s *StateDB) {
	if ch.prev == nil {
		delete(s.accounts, ch.address)
		return
	}
	s.accounts[ch.address] = ch.prev
}

func (ch balanceChange) revert(s *StateDB) {
	if acc := s.accounts[ch.address]; acc != nil {
		acc.Balance = ch.prev
	}
}

func (ch nonceChange) revert(s *StateDB) {
	if acc := s.accounts[ch.address]; acc != nil {
		acc.Nonce = ch.prev
	}
}

func (ch codeChange) revert(s *StateDB) {
	if acc := s.accounts[ch.address]; acc != nil {
		acc.Code = ch.prev
	}
}

func (ch storageChange) revert(s *StateDB) {
	if acc := s.accounts[ch.address]; acc != nil {
		acc.Storage.Set(ch.key, ch.prev)
	}
}

func (ch storageReset) revert(s *StateDB) {
	if acc := s.accounts[ch.address]; acc != nil {
		acc.Storage = ch.prev
	}
}
