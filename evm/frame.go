package evm

import (
	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/state"
	"github.com/holiman/uint256"
)

// storageScope is the storage SLOAD and SSTORE of one frame act on.
type storageScope interface {
	Get(key common.Hash) uint256.Int
	Set(key common.Hash, value uint256.Int)
	Copy() state.Storage
	Replace(src state.Storage)
}

// accountStorage routes a frame's storage to an account in the global state,
// so writes are journaled and rolled back with the frame.
type accountStorage struct {
	db   *state.StateDB
	addr common.Address
}

func (s accountStorage) Get(key common.Hash) uint256.Int {
	return s.db.GetState(s.addr, key)
}

func (s accountStorage) Set(key common.Hash, value uint256.Int) {
	s.db.SetState(s.addr, key, value)
}

func (s accountStorage) Copy() state.Storage {
	return s.db.GetStorage(s.addr)
}

func (s accountStorage) Replace(src state.Storage) {
	s.db.SetStorage(s.addr, src)
}

// ScopeContext contains the things that are per-frame, such as stack and
// memory, but not transients like pc.
type ScopeContext struct {
	Memory *Memory
	Stack  *Stack
	Code   []byte
	Tx     TxContext
	Block  BlockContext

	storage   storageScope
	jumpdests bitvec // lazily analysed

	returnData     []byte // return value of the last sub-call
	returnDataSize uint64
	logs           []*Log // newest first

	readOnly   bool
	isSubCall  bool
	isDelegate bool
	memLimit   uint64
}

func (s *ScopeContext) validJumpdest(dest *uint256.Int) bool {
	if s.jumpdests == nil {
		s.jumpdests = codeBitmap(s.Code)
	}
	return validJumpdest(s.Code, s.jumpdests, dest)
}

// memoryRange validates a memory region given as stack words. A zero size is
// always valid and touches nothing.
func (s *ScopeContext) memoryRange(offset, size uint256.Int) (uint64, uint64, error) {
	if size.IsZero() {
		return 0, 0, nil
	}
	if !offset.IsUint64() || !size.IsUint64() {
		return 0, 0, ErrMemoryLimit
	}
	off, sz := offset.Uint64(), size.Uint64()
	if end := off + sz; end < off || end > s.memLimit {
		return 0, 0, ErrMemoryLimit
	}
	return off, sz, nil
}

// memoryRead returns a copy of the region, expanding memory to cover it.
func (s *ScopeContext) memoryRead(offset, size uint256.Int) ([]byte, error) {
	off, sz, err := s.memoryRange(offset, size)
	if err != nil {
		return nil, err
	}
	return s.Memory.GetCopy(off, sz), nil
}

// memoryWrite stores value, right-padded or truncated to size, at offset.
func (s *ScopeContext) memoryWrite(offset, size uint256.Int, value []byte) error {
	off, sz, err := s.memoryRange(offset, size)
	if err != nil || sz == 0 {
		return err
	}
	if uint64(len(value)) > sz {
		value = value[:sz]
	}
	s.Memory.Set(off, common.RightPadBytes(value, int(sz)))
	return nil
}

// address is the executing account, the zero address when unknown.
func (s *ScopeContext) address() common.Address {
	return addressOrZero(s.Tx.To)
}

// creator is the account CREATE derives addresses from: the executing
// account, or the sender of a top-level frame without one.
func (s *ScopeContext) creator() common.Address {
	if s.Tx.To != nil {
		return *s.Tx.To
	}
	return addressOrZero(s.Tx.From)
}

func (s *ScopeContext) addLog(l *Log) {
	s.logs = append([]*Log{l}, s.logs...)
}

// getData returns a slice from the data based on the start and size and pads
// up to size with zero's.
func getData(data []byte, start uint64, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length || end < start {
		end = length
	}
	return common.RightPadBytes(data[start:end], int(size))
}

// dataOffset clamps a stack word used as an offset into call data or code.
func dataOffset(w uint256.Int) uint64 {
	off, overflow := w.Uint64WithOverflow()
	if overflow {
		return ^uint64(0)
	}
	return off
}
