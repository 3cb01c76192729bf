package evm

import (
	"bytes"

	"github.com/entropyio/evmlite/chain"
	"github.com/entropyio/evmlite/common"
	"github.com/holiman/uint256"
	"github.com/op/go-logging"
)

// settle records a finished sub-call on its caller.
func (in *Interpreter) settle(scope *ScopeContext, child *Result) {
	scope.returnData = child.ReturnValue
	scope.returnDataSize = child.ReturnDataSize
	if child.Success && in.rules.PropagateLogs && len(child.Logs) > 0 {
		logs := make([]*Log, 0, len(child.Logs)+len(scope.logs))
		logs = append(logs, child.Logs...)
		scope.logs = append(logs, scope.logs...)
	}
}

// copyReturn writes min(len(ret), retSize) bytes of ret to memory after
// expanding it to cover the whole return region.
func copyReturn(scope *ScopeContext, retOffset, retSize uint256.Int, ret []byte) error {
	off, sz, err := scope.memoryRange(retOffset, retSize)
	if err != nil || sz == 0 {
		return err
	}
	scope.Memory.Resize(off + sz)
	if uint64(len(ret)) > sz {
		ret = ret[:sz]
	}
	scope.Memory.Set(off, ret)
	return nil
}

func failed(err error) *Result {
	return &Result{Success: false, Err: err}
}

// Call executes the code of addr with input as call data and value moved
// from the caller. An address without an account runs empty code and
// succeeds.
func (in *Interpreter) Call(caller *ScopeContext, addr common.Address, input []byte, value uint256.Int) *Result {
	var (
		db       = in.StateDB
		from     = caller.address()
		snapshot = db.Snapshot()
	)
	if !chain.Fund(db, from, addr, value) {
		db.RevertToSnapshot(snapshot)
		return failed(ErrInsufficientBalance)
	}
	tx := TxContext{
		To:       &addr,
		From:     caller.Tx.To,
		Origin:   caller.Tx.Origin,
		GasPrice: caller.Tx.GasPrice,
		Value:    &value,
		Data:     input,
	}
	ret := in.run(db.GetCode(addr), tx, caller.Block, frameOpts{
		storage:   in.storageFor(&addr),
		readOnly:  caller.readOnly,
		isSubCall: true,
	})
	if !ret.Success {
		db.RevertToSnapshot(snapshot)
	}
	return ret
}

// DelegateCall executes the code of addr in the context of the caller: same
// executing address, caller, value and a working copy of the caller's storage,
// which the caller adopts on success.
func (in *Interpreter) DelegateCall(caller *ScopeContext, addr common.Address, input []byte) *Result {
	tx := TxContext{
		To:       caller.Tx.To,
		From:     caller.Tx.From,
		Origin:   caller.Tx.Origin,
		GasPrice: caller.Tx.GasPrice,
		Value:    caller.Tx.Value,
		Data:     input,
		Nonce:    caller.Tx.Nonce,
	}
	ret := in.run(in.StateDB.GetCode(addr), tx, caller.Block, frameOpts{
		storage:    caller.storage.Copy(),
		readOnly:   caller.readOnly,
		isSubCall:  true,
		isDelegate: true,
	})
	if ret.Success {
		caller.storage.Replace(ret.Storage)
	}
	return ret
}

// StaticCall executes the code of addr without value. In scan mode a target
// whose code contains the SSTORE byte anywhere is refused without running; in
// strict mode the target runs read-only.
func (in *Interpreter) StaticCall(caller *ScopeContext, addr common.Address, input []byte) *Result {
	code := in.StateDB.GetCode(addr)
	if !in.rules.StrictStatic && bytes.IndexByte(code, byte(SSTORE)) >= 0 {
		if log.IsEnabledFor(logging.DEBUG) {
			log.Debugf("staticcall to %v refused: code contains SSTORE", addr)
		}
		return failed(ErrStaticCallSSTORE)
	}
	var zero uint256.Int
	tx := TxContext{
		To:       &addr,
		From:     caller.Tx.To,
		Origin:   caller.Tx.Origin,
		GasPrice: caller.Tx.GasPrice,
		Value:    &zero,
		Data:     input,
	}
	return in.run(code, tx, caller.Block, frameOpts{
		storage:   in.storageFor(&addr),
		readOnly:  caller.readOnly || in.rules.StrictStatic,
		isSubCall: true,
	})
}

// Create deploys a contract whose init code is run with the new address as
// executing account. The address derives from the creating account and its
// nonce, which is bumped whether or not the creation succeeds; the return
// value of the init code becomes the account's code.
func (in *Interpreter) Create(caller *ScopeContext, initCode []byte, value uint256.Int) (common.Address, *Result) {
	var (
		db      = in.StateDB
		creator = caller.creator()
		nonce   = db.GetNonce(creator)
	)
	// A top-level frame may start from a transaction nonce ahead of the state.
	if nonce < caller.Tx.Nonce {
		nonce = caller.Tx.Nonce
	}
	address := in.CreateAddress(creator, nonce)
	defer db.SetNonce(creator, nonce+1)

	snapshot := db.Snapshot()
	if db.GetCodeSize(address) > 0 || db.GetNonce(address) > 0 {
		return address, failed(ErrContractCollision)
	}
	// A pre-funded address keeps its balance.
	balance := db.GetBalance(address)
	db.CreateAccount(address)
	db.SetNonce(address, 1)
	if !balance.IsZero() {
		db.SetBalance(address, balance)
	}
	if !chain.Fund(db, caller.address(), address, value) {
		db.RevertToSnapshot(snapshot)
		return address, failed(ErrInsufficientBalance)
	}
	if len(initCode) == 0 {
		return address, &Result{Success: true, State: db}
	}
	tx := TxContext{
		To:       &address,
		From:     caller.Tx.To,
		Origin:   caller.Tx.Origin,
		GasPrice: caller.Tx.GasPrice,
		Value:    &value,
	}
	ret := in.run(initCode, tx, caller.Block, frameOpts{
		storage:  in.storageFor(&address),
		readOnly: caller.readOnly,
	})
	if !ret.Success {
		db.RevertToSnapshot(snapshot)
		return address, ret
	}
	db.SetCode(address, ret.ReturnValue)
	return address, ret
}

func opCall(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	// Pop gas. The actual gas is unlimited and ignored.
	stack.pop()
	addr, value := stack.pop(), stack.pop()
	inOffset, inSize, retOffset, retSize := stack.pop(), stack.pop(), stack.pop(), stack.pop()
	if scope.readOnly && !value.IsZero() {
		return nil, ErrWriteProtection
	}
	args, err := scope.memoryRead(inOffset, inSize)
	if err != nil {
		return nil, err
	}
	ret := interpreter.Call(scope, common.WordToAddress(&addr), args, value)
	interpreter.settle(scope, ret)
	stack.pushBool(ret.Success)
	return nil, copyReturn(scope, retOffset, retSize, ret.ReturnValue)
}

func opDelegateCall(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	stack.pop()
	addr := stack.pop()
	inOffset, inSize, retOffset, retSize := stack.pop(), stack.pop(), stack.pop(), stack.pop()
	args, err := scope.memoryRead(inOffset, inSize)
	if err != nil {
		return nil, err
	}
	ret := interpreter.DelegateCall(scope, common.WordToAddress(&addr), args)
	interpreter.settle(scope, ret)
	stack.pushBool(ret.Success)
	return nil, copyReturn(scope, retOffset, retSize, ret.ReturnValue)
}

func opStaticCall(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	stack.pop()
	addr := stack.pop()
	inOffset, inSize, retOffset, retSize := stack.pop(), stack.pop(), stack.pop(), stack.pop()
	args, err := scope.memoryRead(inOffset, inSize)
	if err != nil {
		return nil, err
	}
	ret := interpreter.StaticCall(scope, common.WordToAddress(&addr), args)
	interpreter.settle(scope, ret)
	stack.pushBool(ret.Success)
	return nil, copyReturn(scope, retOffset, retSize, ret.ReturnValue)
}

func opCreate(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error) {
	value, offset, size := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	input, err := scope.memoryRead(offset, size)
	if err != nil {
		return nil, err
	}
	addr, ret := interpreter.Create(scope, input, value)
	if ret.Success {
		scope.returnData = nil
		scope.Stack.push(addr.Word())
	} else {
		scope.returnData = ret.ReturnValue
		scope.Stack.push(uint256.Int{})
	}
	if ret.Success && interpreter.rules.PropagateLogs && len(ret.Logs) > 0 {
		scope.logs = append(append([]*Log{}, ret.Logs...), scope.logs...)
	}
	return nil, nil
}
