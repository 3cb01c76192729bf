package evm

import (
	"github.com/holiman/uint256"
)

// bitvec is a bit vector which maps bytes in a program.
// An unset bit means the byte is an opcode, a set bit means
// it's data (i.e. argument of PUSHxx).
type bitvec []byte

func (bits bitvec) set1(pos uint64) {
	bits[pos/8] |= 1 << (pos % 8)
}

func (bits bitvec) setN(flag uint16, pos uint64) {
	a := flag << (pos % 8)
	bits[pos/8] |= byte(a)
	if b := byte(a >> 8); b != 0 {
		bits[pos/8+1] |= b
	}
}

// codeSegment checks if the position is in a code segment.
func (bits *bitvec) codeSegment(pos uint64) bool {
	return (((*bits)[pos/8] >> (pos % 8)) & 1) == 0
}

// codeBitmap collects data locations in code.
func codeBitmap(code []byte) bitvec {
	// The bitmap is 4 bytes longer than necessary, in case the code
	// ends with a PUSH32, the algorithm will set bits on the
	// bitvector outside the bounds of the actual code.
	bits := make(bitvec, len(code)/8+1+4)
	return codeBitmapInternal(code, bits)
}

func codeBitmapInternal(code, bits bitvec) bitvec {
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])
		pc++
		if !op.IsPush() {
			continue
		}
		numbytes := uint64(op.PushSize())
		for ; numbytes >= 8; numbytes -= 8 {
			bits.setN(0xff, pc)
			pc += 8
		}
		for ; numbytes > 0; numbytes-- {
			bits.set1(pc)
			pc++
		}
	}
	return bits
}

// validJumpdest reports whether dest is a JUMPDEST opcode that is not part
// of a PUSH immediate.
func validJumpdest(code []byte, bits bitvec, dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	// PC cannot go beyond len(code) and certainly can't be bigger than 63bits.
	// Don't bother checking for JUMPDEST in that case.
	if overflow || udest >= uint64(len(code)) {
		return false
	}
	// Only JUMPDESTs allowed for destinations
	if OpCode(code[udest]) != JUMPDEST {
		return false
	}
	return bits.codeSegment(udest)
}
