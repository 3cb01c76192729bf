package evm

import (
	"fmt"
	"strings"

	"github.com/entropyio/evmlite/common"
)

// Instruction is one decoded opcode with its immediate, if any.
type Instruction struct {
	PC  uint64
	Op  OpCode
	Arg []byte // PUSH immediate, right-padded when cut short by the end of code
}

func (ins Instruction) String() string {
	if len(ins.Arg) == 0 {
		return fmt.Sprintf("%05d: %v", ins.PC, ins.Op)
	}
	return fmt.Sprintf("%05d: %v 0x%s", ins.PC, ins.Op, common.Bytes2Hex(ins.Arg))
}

// Disassemble decodes code the way the interpreter walks it.
func Disassemble(code []byte) []Instruction {
	var out []Instruction
	for pc := uint64(0); pc < uint64(len(code)); pc++ {
		op := OpCode(code[pc])
		ins := Instruction{PC: pc, Op: op}
		if op.IsPush() {
			size := uint64(op.PushSize())
			start, end := pc+1, pc+1+size
			if start > uint64(len(code)) {
				start = uint64(len(code))
			}
			if end > uint64(len(code)) {
				end = uint64(len(code))
			}
			ins.Arg = common.RightPadBytes(common.CopyBytes(code[start:end]), int(size))
			pc += size
		}
		out = append(out, ins)
	}
	return out
}

// DisassembleString renders code one instruction per line.
func DisassembleString(code []byte) string {
	var b strings.Builder
	for _, ins := range Disassemble(code) {
		b.WriteString(ins.String())
		b.WriteByte('\n')
	}
	return b.String()
}
