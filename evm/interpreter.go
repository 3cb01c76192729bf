package evm

import (
	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/common/crypto"
	"github.com/entropyio/evmlite/config"
	"github.com/entropyio/evmlite/logger"
	"github.com/entropyio/evmlite/state"
	"github.com/op/go-logging"
)

var log = logger.NewLogger("[evm]")

// Interpreter runs bytecode frames against one global state. It is not safe
// for concurrent use; one top-level invocation owns it for its lifetime.
type Interpreter struct {
	StateDB *state.StateDB

	// Keccak256 backs KECCAK256 and EXTCODEHASH.
	Keccak256 func(data ...[]byte) []byte
	// CreateAddress derives the address of a contract created by CREATE.
	CreateAddress func(creator common.Address, nonce uint64) common.Address

	rules config.Rules
	table *JumpTable
	depth int
}

// NewInterpreter returns an interpreter over db. A nil db starts from an empty
// state and a nil cfg uses config.Default.
func NewInterpreter(db *state.StateDB, cfg *config.Config) *Interpreter {
	if db == nil {
		db = state.New()
	}
	return &Interpreter{
		StateDB:       db,
		Keccak256:     crypto.Keccak256,
		CreateAddress: crypto.CreateAddress,
		rules:         cfg.Rules(),
		table:         &instructionSet,
	}
}

// Rules returns the resolved configuration the interpreter runs with.
func (in *Interpreter) Rules() config.Rules {
	return in.rules
}

// Execute runs code as one frame. Failures are reported through the result,
// never as a panic or error: state changes made by a failed frame are
// reverted, and its stack, logs and return value are still surfaced.
//
// isSubCall makes RETURN and REVERT report their size in the result.
// isDelegateCall runs the frame on a private copy of the executing account's
// storage and surfaces it as Result.Storage.
func (in *Interpreter) Execute(code []byte, tx TxContext, block BlockContext, isSubCall, isDelegateCall bool) *Result {
	storage := in.storageFor(tx.To)
	if isDelegateCall {
		storage = storage.Copy()
	}
	return in.run(code, tx, block, frameOpts{
		storage:    storage,
		isSubCall:  isSubCall,
		isDelegate: isDelegateCall,
	})
}

// Execute runs code with the default configuration against db.
func Execute(code []byte, tx TxContext, block BlockContext, db *state.StateDB, isSubCall, isDelegateCall bool) *Result {
	return NewInterpreter(db, nil).Execute(code, tx, block, isSubCall, isDelegateCall)
}

// storageFor picks the storage a frame executing at addr works on: the
// account's own storage when it exists in state, a fresh frame-local one
// otherwise.
func (in *Interpreter) storageFor(addr *common.Address) storageScope {
	if addr != nil && in.StateDB.Exist(*addr) {
		return accountStorage{db: in.StateDB, addr: *addr}
	}
	return make(state.Storage)
}

type frameOpts struct {
	storage    storageScope
	readOnly   bool
	isSubCall  bool
	isDelegate bool
}

// run executes the loop over the code for one frame.
func (in *Interpreter) run(code []byte, tx TxContext, block BlockContext, opts frameOpts) *Result {
	scope := &ScopeContext{
		Memory:     NewMemory(),
		Stack:      newstack(),
		Code:       code,
		Tx:         tx,
		Block:      block,
		storage:    opts.storage,
		readOnly:   opts.readOnly,
		isSubCall:  opts.isSubCall,
		isDelegate: opts.isDelegate,
		memLimit:   in.rules.MaxMemory,
	}
	snapshot := in.StateDB.Snapshot()

	in.depth++
	defer func() { in.depth-- }()

	var (
		pc    = uint64(0) // program counter
		res   []byte      // result of the opcode execution function
		err   error
		debug = log.IsEnabledFor(logging.DEBUG)
	)
	if debug {
		log.Debugf("enter frame depth=%d to=%v code=%d bytes readOnly=%v delegate=%v", in.depth, tx.To, len(code), opts.readOnly, opts.isDelegate)
	}
	// The loop runs until a halting opcode, an error, or the end of the code,
	// which acts as an implicit STOP.
	for pc < uint64(len(code)) {
		op := OpCode(code[pc])
		operation := in.table[op]
		if operation == nil {
			err = &ErrInvalidOpCode{opcode: op}
			break
		}
		if debug {
			in.trace(pc, op, operation, scope)
		}
		if operation.writes && scope.readOnly {
			err = ErrWriteProtection
			break
		}
		res, err = operation.execute(&pc, in, scope)
		if err != nil || operation.halts {
			break
		}
		pc++
	}

	result := &Result{
		Success:        err == nil,
		Err:            err,
		Stack:          scope.Stack.Data(),
		Logs:           scope.logs,
		ReturnValue:    res,
		ReturnDataSize: scope.returnDataSize,
	}
	if err != nil {
		in.StateDB.RevertToSnapshot(snapshot)
		if debug {
			log.Debugf("frame failed depth=%d pc=%d: %v", in.depth, pc, err)
		}
	} else if !opts.isDelegate {
		result.State = in.StateDB
	}
	if opts.isDelegate {
		result.Storage = scope.storage.Copy()
	}
	return result
}

func (in *Interpreter) trace(pc uint64, op OpCode, operation *operation, scope *ScopeContext) {
	log.Debugf("depth=%d pc=%05d op=%-14v stack=%v", in.depth, pc, op, scope.Stack)
	if have := scope.Stack.len(); have < operation.minStack {
		log.Debugf("%v wants %d operands, %d present; missing ones read as zero", op, operation.minStack, have)
	}
}
