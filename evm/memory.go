package evm

import (
	"github.com/holiman/uint256"
)

// Memory implements a simple byte-addressed memory model for the evm. It grows
// in 32-byte words on every access past its end and is zero filled.
type Memory struct {
	store []byte
}

// NewMemory returns a new, empty memory model.
func NewMemory() *Memory {
	return &Memory{}
}

// Resize grows the memory so that it covers size bytes, rounded up to a
// whole word. It never shrinks.
func (m *Memory) Resize(size uint64) {
	if size == 0 {
		return
	}
	words := (size + 31) / 32
	if newSize := words * 32; uint64(len(m.store)) < newSize {
		m.store = append(m.store, make([]byte, newSize-uint64(len(m.store)))...)
	}
}

// Set writes value at offset, expanding as needed. Empty writes are no-ops.
func (m *Memory) Set(offset uint64, value []byte) {
	if len(value) == 0 {
		return
	}
	m.Resize(offset + uint64(len(value)))
	copy(m.store[offset:], value)
}

// Set32 sets the 32 bytes starting at offset to the value of val, left-padded
// with zeroes.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	m.Resize(offset + 32)
	b32 := val.Bytes32()
	copy(m.store[offset:], b32[:])
}

// SetByte writes a single byte at offset.
func (m *Memory) SetByte(offset uint64, b byte) {
	m.Resize(offset + 1)
	m.store[offset] = b
}

// GetCopy returns size bytes starting at offset as a new slice, expanding the
// memory to cover the range. A zero size returns nil and leaves memory as is.
func (m *Memory) GetCopy(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	m.Resize(offset + size)
	cpy := make([]byte, size)
	copy(cpy, m.store[offset:offset+size])
	return cpy
}

// Len returns the length of the backing slice
func (m *Memory) Len() int {
	return len(m.store)
}

// Data returns the backing slice
func (m *Memory) Data() []byte {
	return m.store
}
