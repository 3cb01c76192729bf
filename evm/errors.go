package evm

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// List evm execution errors. None of them escapes the interpreter as a Go
// error: they end the frame with Success == false and are kept on Result.Err.
var (
	ErrExecutionReverted   = errors.New("execution reverted")
	ErrWriteProtection     = errors.New("write protection")
	ErrMemoryLimit         = errors.New("memory limit exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance for transfer")
	ErrContractCollision   = errors.New("contract address collision")
	ErrStaticCallSSTORE    = errors.New("static call target contains SSTORE")
)

// ErrInvalidJump wraps an invalid jump destination.
type ErrInvalidJump struct {
	dest uint256.Int
}

func (e *ErrInvalidJump) Error() string {
	return fmt.Sprintf("invalid jump destination %v", e.dest.Hex())
}

// ErrInvalidOpCode wraps an evm error when an invalid opcode is encountered.
type ErrInvalidOpCode struct {
	opcode OpCode
}

func (e *ErrInvalidOpCode) Error() string { return fmt.Sprintf("invalid opcode: %s", e.opcode) }

// Opcode returns the offending opcode.
func (e *ErrInvalidOpCode) Opcode() OpCode { return e.opcode }
