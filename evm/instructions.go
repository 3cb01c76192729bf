package evm

import (
	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/common/math"
	"github.com/entropyio/evmlite/config"
	"github.com/holiman/uint256"
)

// Operands are popped top first: for binary operations a is the top of the
// stack and b the item below it.

func binaryOp(f func(a, b uint256.Int) uint256.Int) executionFunc {
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		a, b := scope.Stack.pop(), scope.Stack.pop()
		scope.Stack.push(f(a, b))
		return nil, nil
	}
}

func compareOp(f func(a, b uint256.Int) bool) executionFunc {
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		a, b := scope.Stack.pop(), scope.Stack.pop()
		scope.Stack.pushBool(f(a, b))
		return nil, nil
	}
}

var (
	opAdd        = binaryOp(math.Add)
	opMul        = binaryOp(math.Mul)
	opSub        = binaryOp(math.Sub)
	opDiv        = binaryOp(math.Div)
	opSdiv       = binaryOp(math.SDiv)
	opMod        = binaryOp(math.Mod)
	opSmod       = binaryOp(math.SMod)
	opExp        = binaryOp(math.Exp)
	opSignExtend = binaryOp(math.SignExtend)
	opAnd        = binaryOp(math.And)
	opOr         = binaryOp(math.Or)
	opXor        = binaryOp(math.Xor)
	opByte       = binaryOp(math.Byte)
	opSHL        = binaryOp(math.Shl)
	opSHR        = binaryOp(math.Shr)
	opSAR        = binaryOp(math.Sar)

	opLt  = compareOp(math.Lt)
	opGt  = compareOp(math.Gt)
	opSlt = compareOp(math.Slt)
	opSgt = compareOp(math.Sgt)
	opEq  = compareOp(math.Eq)
)

func opAddmod(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	scope.Stack.push(math.AddMod(x, y, z))
	return nil, nil
}

func opMulmod(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	scope.Stack.push(math.MulMod(x, y, z))
	return nil, nil
}

func opIszero(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.pushBool(math.IsZero(scope.Stack.pop()))
	return nil, nil
}

func opNot(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(math.Not(scope.Stack.pop()))
	return nil, nil
}

func opKeccak256(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	data, err := scope.memoryRead(offset, size)
	if err != nil {
		return nil, err
	}
	var hash uint256.Int
	hash.SetBytes32(interpreter.Keccak256(data))
	scope.Stack.push(hash)
	return nil, nil
}

func opAddress(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(addressWord(scope.Tx.To))
	return nil, nil
}

func opBalance(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.pop()
	scope.Stack.push(interpreter.StateDB.GetBalance(common.WordToAddress(&slot)))
	return nil, nil
}

func opOrigin(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(addressWord(scope.Tx.Origin))
	return nil, nil
}

func opCaller(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(addressWord(scope.Tx.From))
	return nil, nil
}

func opCallValue(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(wordOrZero(scope.Tx.Value))
	return nil, nil
}

func opCallDataLoad(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.pop()
	var v uint256.Int
	v.SetBytes32(getData(scope.Tx.Data, dataOffset(x), 32))
	scope.Stack.push(v)
	return nil, nil
}

func opCallDataSize(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(*uint256.NewInt(uint64(len(scope.Tx.Data))))
	return nil, nil
}

// copyToMemory implements the CALLDATACOPY family: memOffset, dataOffset and
// length are popped, and the source is zero-padded past its end.
func copyToMemory(scope *ScopeContext, src []byte) error {
	var (
		memOffset  = scope.Stack.pop()
		dataOff    = scope.Stack.pop()
		length     = scope.Stack.pop()
		_, sz, err = scope.memoryRange(memOffset, length)
	)
	if err != nil || sz == 0 {
		return err
	}
	return scope.memoryWrite(memOffset, length, getData(src, dataOffset(dataOff), sz))
}

func opCallDataCopy(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, copyToMemory(scope, scope.Tx.Data)
}

func opReturnDataSize(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(*uint256.NewInt(uint64(len(scope.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, copyToMemory(scope, scope.returnData)
}

func opCodeSize(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(*uint256.NewInt(uint64(len(scope.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, copyToMemory(scope, scope.Code)
}

func opExtCodeSize(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.pop()
	size := interpreter.StateDB.GetCodeSize(common.WordToAddress(&slot))
	scope.Stack.push(*uint256.NewInt(uint64(size)))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	a := scope.Stack.pop()
	code := interpreter.StateDB.GetCode(common.WordToAddress(&a))
	return nil, copyToMemory(scope, code)
}

// opExtCodeHash pushes keccak256 of the account's code, or zero for an
// account that does not exist.
func opExtCodeHash(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.pop()
	address := common.WordToAddress(&slot)
	var hash uint256.Int
	if interpreter.StateDB.Exist(address) {
		hash.SetBytes32(interpreter.Keccak256(interpreter.StateDB.GetCode(address)))
	}
	scope.Stack.push(hash)
	return nil, nil
}

func opGasprice(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(wordOrZero(scope.Tx.GasPrice))
	return nil, nil
}

// opBlockhash has no chain history to consult and always yields zero.
func opBlockhash(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.pop()
	scope.Stack.push(uint256.Int{})
	return nil, nil
}

func opCoinbase(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(addressWord(scope.Block.Coinbase))
	return nil, nil
}

func opTimestamp(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(wordOrZero(scope.Block.Timestamp))
	return nil, nil
}

func opNumber(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(wordOrZero(scope.Block.Number))
	return nil, nil
}

func opDifficulty(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(wordOrZero(scope.Block.Difficulty))
	return nil, nil
}

func opGasLimit(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(wordOrZero(scope.Block.GasLimit))
	return nil, nil
}

func opChainID(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(wordOrZero(scope.Block.ChainID))
	return nil, nil
}

func opSelfBalance(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(interpreter.StateDB.GetBalance(scope.address()))
	return nil, nil
}

func opBaseFee(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(wordOrZero(scope.Block.BaseFee))
	return nil, nil
}

func opPop(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.pop()
	return nil, nil
}

func opMload(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset := scope.Stack.pop()
	data, err := scope.memoryRead(offset, *uint256.NewInt(32))
	if err != nil {
		return nil, err
	}
	var v uint256.Int
	v.SetBytes32(data)
	scope.Stack.push(v)
	return nil, nil
}

func opMstore(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	mStart, val := scope.Stack.pop(), scope.Stack.pop()
	off, _, err := scope.memoryRange(mStart, *uint256.NewInt(32))
	if err != nil {
		return nil, err
	}
	scope.Memory.Set32(off, &val)
	return nil, nil
}

func opMstore8(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	off, val := scope.Stack.pop(), scope.Stack.pop()
	offset, _, err := scope.memoryRange(off, *uint256.NewInt(1))
	if err != nil {
		return nil, err
	}
	scope.Memory.SetByte(offset, byte(val.Uint64()))
	return nil, nil
}

func opSload(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	loc := scope.Stack.pop()
	scope.Stack.push(scope.storage.Get(common.WordToHash(&loc)))
	return nil, nil
}

// opSstore writes one storage slot; a zero value removes the key.
func opSstore(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	loc, val := scope.Stack.pop(), scope.Stack.pop()
	scope.storage.Set(common.WordToHash(&loc), val)
	return nil, nil
}

func opJump(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	pos := scope.Stack.pop()
	if !scope.validJumpdest(&pos) {
		return nil, &ErrInvalidJump{dest: pos}
	}
	*pc = pos.Uint64() - 1 // pc will be increased by the interpreter loop
	return nil, nil
}

// opJumpi jumps when the condition is exactly one, or any non-zero value
// under config.Rules.JumpiNonZero.
func opJumpi(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	pos, cond := scope.Stack.pop(), scope.Stack.pop()
	jump := cond.IsUint64() && cond.Uint64() == 1
	if interpreter.rules.JumpiNonZero {
		jump = !cond.IsZero()
	}
	if !jump {
		return nil, nil
	}
	if !scope.validJumpdest(&pos) {
		return nil, &ErrInvalidJump{dest: pos}
	}
	*pc = pos.Uint64() - 1 // pc will be increased by the interpreter loop
	return nil, nil
}

func opJumpdest(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opPc(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(*uint256.NewInt(*pc))
	return nil, nil
}

func opMsize(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(*uint256.NewInt(uint64(scope.Memory.Len())))
	return nil, nil
}

// opGas reports an unlimited budget; no gas is ever charged.
func opGas(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(config.UnlimitedGas)
	return nil, nil
}

func opReturn(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	ret, err := scope.memoryRead(offset, size)
	if err != nil {
		return nil, err
	}
	if scope.isSubCall {
		scope.returnDataSize = uint64(len(ret))
	}
	return ret, nil
}

func opRevert(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	ret, err := opReturn(pc, interpreter, scope)
	if err != nil {
		return nil, err
	}
	return ret, ErrExecutionReverted
}

func opStop(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

// opSelfdestruct moves the executing account's balance to the beneficiary and
// removes the account. The beneficiary's code and storage are untouched.
func opSelfdestruct(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	var (
		db          = interpreter.StateDB
		slot        = scope.Stack.pop()
		beneficiary = common.WordToAddress(&slot)
	)
	if scope.Tx.To == nil {
		// Nothing to destroy; the beneficiary is still touched.
		db.AddBalance(beneficiary, uint256.Int{})
		return nil, nil
	}
	self := *scope.Tx.To
	if beneficiary != self {
		db.AddBalance(beneficiary, db.GetBalance(self))
	}
	db.SelfDestruct(self)
	return nil, nil
}

func opPush0(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.push(uint256.Int{})
	return nil, nil
}

// make push instruction function. An immediate cut short by the end of the
// code is right-padded with zero bytes.
func makePush(size uint64) executionFunc {
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		var (
			codeLen = uint64(len(scope.Code))
			start   = *pc + 1
			end     = start + size
		)
		if start > codeLen {
			start = codeLen
		}
		if end > codeLen {
			end = codeLen
		}
		var integer uint256.Int
		integer.SetBytes(common.RightPadBytes(scope.Code[start:end], int(size)))
		scope.Stack.push(integer)
		*pc += size
		return nil, nil
	}
}

// make dup instruction function
func makeDup(size int) executionFunc {
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.dup(size)
		return nil, nil
	}
}

// make swap instruction function
func makeSwap(size int) executionFunc {
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.swap(size)
		return nil, nil
	}
}

// make log instruction function
func makeLog(size int) executionFunc {
	return func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
		mStart, mSize := scope.Stack.pop(), scope.Stack.pop()
		topics := make([]uint256.Int, size)
		for i := 0; i < size; i++ {
			topics[i] = scope.Stack.pop()
		}
		d, err := scope.memoryRead(mStart, mSize)
		if err != nil {
			return nil, err
		}
		l := &Log{Data: d, Topics: topics}
		if scope.Tx.To != nil {
			addr := *scope.Tx.To
			l.Address = &addr
		}
		scope.addLog(l)
		return nil, nil
	}
}
