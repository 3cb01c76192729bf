// Package state implements the global account state shared by every frame of
// one top-level invocation.
package state

import (
	"sort"

	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/logger"
	"github.com/holiman/uint256"
	"github.com/op/go-logging"
)

var log = logger.NewLogger("[state]")

// StateDB is an in-memory, journaled mapping from address to Account. It is
// handed by reference down the call tree; execution is single threaded so no
// locking is done. Reads of a missing account return zero values.
type StateDB struct {
	accounts map[common.Address]*Account
	journal  *journal
}

// New creates an empty state.
func New() *StateDB {
	return &StateDB{
		accounts: make(map[common.Address]*Account),
		journal:  newJournal(),
	}
}

// Exist reports whether the given account address exists in the state.
func (s *StateDB) Exist(addr common.Address) bool {
	return s.accounts[addr] != nil
}

// CreateAccount installs a fresh empty account at addr, replacing any
// existing one.
func (s *StateDB) CreateAccount(addr common.Address) *Account {
	s.journal.append(accountChange{address: addr, prev: s.accounts[addr]})
	acc := NewAccount()
	s.accounts[addr] = acc
	return acc
}

// SetAccount installs acc at addr as is. Used to seed state before execution.
func (s *StateDB) SetAccount(addr common.Address, acc *Account) {
	if acc.Storage == nil {
		acc.Storage = make(Storage)
	}
	s.journal.append(accountChange{address: addr, prev: s.accounts[addr]})
	s.accounts[addr] = acc
}

func (s *StateDB) getOrCreate(addr common.Address) *Account {
	if acc := s.accounts[addr]; acc != nil {
		return acc
	}
	return s.CreateAccount(addr)
}

// GetBalance retrieves the balance from the given address or 0 if object not found
func (s *StateDB) GetBalance(addr common.Address) uint256.Int {
	if acc := s.accounts[addr]; acc != nil {
		return acc.Balance
	}
	return uint256.Int{}
}

// SetBalance sets the balance of addr, creating the account if needed.
func (s *StateDB) SetBalance(addr common.Address, amount uint256.Int) {
	acc := s.getOrCreate(addr)
	s.journal.append(balanceChange{address: addr, prev: acc.Balance})
	acc.Balance = amount
}

// AddBalance adds amount to the account associated with addr.
func (s *StateDB) AddBalance(addr common.Address, amount uint256.Int) {
	acc := s.getOrCreate(addr)
	s.journal.append(balanceChange{address: addr, prev: acc.Balance})
	acc.Balance.Add(&acc.Balance, &amount)
}

// SubBalance subtracts amount from the account associated with addr. The
// caller checks solvency first (see chain.CanTransfer).
func (s *StateDB) SubBalance(addr common.Address, amount uint256.Int) {
	acc := s.getOrCreate(addr)
	s.journal.append(balanceChange{address: addr, prev: acc.Balance})
	acc.Balance.Sub(&acc.Balance, &amount)
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if acc := s.accounts[addr]; acc != nil {
		return acc.Nonce
	}
	return 0
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	acc := s.getOrCreate(addr)
	s.journal.append(nonceChange{address: addr, prev: acc.Nonce})
	acc.Nonce = nonce
}

// GetCode returns the code at addr, or nil for a missing account.
func (s *StateDB) GetCode(addr common.Address) []byte {
	if acc := s.accounts[addr]; acc != nil {
		return acc.Code
	}
	return nil
}

func (s *StateDB) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

func (s *StateDB) SetCode(addr common.Address, code []byte) {
	acc := s.getOrCreate(addr)
	s.journal.append(codeChange{address: addr, prev: acc.Code})
	acc.Code = code
}

// GetState reads one storage slot of addr; missing accounts and keys read zero.
func (s *StateDB) GetState(addr common.Address, key common.Hash) uint256.Int {
	if acc := s.accounts[addr]; acc != nil {
		return acc.Storage.Get(key)
	}
	return uint256.Int{}
}

// SetState writes one storage slot of addr; a zero value deletes the slot.
func (s *StateDB) SetState(addr common.Address, key common.Hash, value uint256.Int) {
	acc := s.getOrCreate(addr)
	s.journal.append(storageChange{address: addr, key: key, prev: acc.Storage.Get(key)})
	acc.Storage.Set(key, value)
}

// GetStorage returns a copy of the full storage of addr.
func (s *StateDB) GetStorage(addr common.Address) Storage {
	if acc := s.accounts[addr]; acc != nil {
		return acc.Storage.Copy()
	}
	return make(Storage)
}

// SetStorage replaces the full storage of addr with a copy of storage.
func (s *StateDB) SetStorage(addr common.Address, storage Storage) {
	acc := s.getOrCreate(addr)
	s.journal.append(storageReset{address: addr, prev: acc.Storage})
	acc.Storage = storage.Copy()
}

// SelfDestruct removes the account at addr. It reports whether one existed.
func (s *StateDB) SelfDestruct(addr common.Address) bool {
	acc := s.accounts[addr]
	if acc == nil {
		return false
	}
	s.journal.append(accountChange{address: addr, prev: acc})
	delete(s.accounts, addr)
	return true
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	return s.journal.snapshot()
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	before := s.journal.length()
	s.journal.revertToSnapshot(s, revid)
	if log.IsEnabledFor(logging.DEBUG) {
		log.Debugf("reverted snapshot %d, undid %d changes", revid, before-s.journal.length())
	}
}

// Addresses returns the addresses of all accounts in ascending order.
func (s *StateDB) Addresses() []common.Address {
	addrs := make([]common.Address, 0, len(s.accounts))
	for addr := range s.accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return string(addrs[i][:]) < string(addrs[j][:])
	})
	return addrs
}

// Copy creates a deep, independent copy of the state. The journal is not
// carried over.
func (s *StateDB) Copy() *StateDB {
	cpy := New()
	for addr, acc := range s.accounts {
		cpy.accounts[addr] = acc.Copy()
	}
	return cpy
}

// Dump returns the serialisable form of every account.
func (s *StateDB) Dump() map[common.Address]DumpAccount {
	dump := make(map[common.Address]DumpAccount, len(s.accounts))
	for addr, acc := range s.accounts {
		dump[addr] = acc.dump()
	}
	return dump
}
