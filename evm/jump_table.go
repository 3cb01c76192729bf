package evm

type executionFunc func(pc *uint64, interpreter *Interpreter, scope *ScopeContext) ([]byte, error)

type operation struct {
	// execute is the operation function
	execute executionFunc
	// minStack tells how many stack items are read
	minStack int

	halts  bool // indicates whether the operation should halt further execution
	writes bool // determines whether this a state modifying operation
}

// JumpTable contains the EVM opcodes supported at a given fork.
type JumpTable [256]*operation

var instructionSet = newInstructionSet()

// newInstructionSet returns the supported opcodes. Undefined entries,
// INVALID (0xfe) among them, end the frame with ErrInvalidOpCode.
func newInstructionSet() JumpTable {
	tbl := JumpTable{
		STOP: {
			execute:  opStop,
			minStack: minStack(0, 0),
			halts:    true,
		},
		ADD:        {execute: opAdd, minStack: minStack(2, 1)},
		MUL:        {execute: opMul, minStack: minStack(2, 1)},
		SUB:        {execute: opSub, minStack: minStack(2, 1)},
		DIV:        {execute: opDiv, minStack: minStack(2, 1)},
		SDIV:       {execute: opSdiv, minStack: minStack(2, 1)},
		MOD:        {execute: opMod, minStack: minStack(2, 1)},
		SMOD:       {execute: opSmod, minStack: minStack(2, 1)},
		ADDMOD:     {execute: opAddmod, minStack: minStack(3, 1)},
		MULMOD:     {execute: opMulmod, minStack: minStack(3, 1)},
		EXP:        {execute: opExp, minStack: minStack(2, 1)},
		SIGNEXTEND: {execute: opSignExtend, minStack: minStack(2, 1)},
		LT:         {execute: opLt, minStack: minStack(2, 1)},
		GT:         {execute: opGt, minStack: minStack(2, 1)},
		SLT:        {execute: opSlt, minStack: minStack(2, 1)},
		SGT:        {execute: opSgt, minStack: minStack(2, 1)},
		EQ:         {execute: opEq, minStack: minStack(2, 1)},
		ISZERO:     {execute: opIszero, minStack: minStack(1, 1)},
		AND:        {execute: opAnd, minStack: minStack(2, 1)},
		OR:         {execute: opOr, minStack: minStack(2, 1)},
		XOR:        {execute: opXor, minStack: minStack(2, 1)},
		NOT:        {execute: opNot, minStack: minStack(1, 1)},
		BYTE:       {execute: opByte, minStack: minStack(2, 1)},
		SHL:        {execute: opSHL, minStack: minStack(2, 1)},
		SHR:        {execute: opSHR, minStack: minStack(2, 1)},
		SAR:        {execute: opSAR, minStack: minStack(2, 1)},
		KECCAK256:  {execute: opKeccak256, minStack: minStack(2, 1)},

		ADDRESS:        {execute: opAddress, minStack: minStack(0, 1)},
		BALANCE:        {execute: opBalance, minStack: minStack(1, 1)},
		ORIGIN:         {execute: opOrigin, minStack: minStack(0, 1)},
		CALLER:         {execute: opCaller, minStack: minStack(0, 1)},
		CALLVALUE:      {execute: opCallValue, minStack: minStack(0, 1)},
		CALLDATALOAD:   {execute: opCallDataLoad, minStack: minStack(1, 1)},
		CALLDATASIZE:   {execute: opCallDataSize, minStack: minStack(0, 1)},
		CALLDATACOPY:   {execute: opCallDataCopy, minStack: minStack(3, 0)},
		CODESIZE:       {execute: opCodeSize, minStack: minStack(0, 1)},
		CODECOPY:       {execute: opCodeCopy, minStack: minStack(3, 0)},
		GASPRICE:       {execute: opGasprice, minStack: minStack(0, 1)},
		EXTCODESIZE:    {execute: opExtCodeSize, minStack: minStack(1, 1)},
		EXTCODECOPY:    {execute: opExtCodeCopy, minStack: minStack(4, 0)},
		RETURNDATASIZE: {execute: opReturnDataSize, minStack: minStack(0, 1)},
		RETURNDATACOPY: {execute: opReturnDataCopy, minStack: minStack(3, 0)},
		EXTCODEHASH:    {execute: opExtCodeHash, minStack: minStack(1, 1)},

		BLOCKHASH:   {execute: opBlockhash, minStack: minStack(1, 1)},
		COINBASE:    {execute: opCoinbase, minStack: minStack(0, 1)},
		TIMESTAMP:   {execute: opTimestamp, minStack: minStack(0, 1)},
		NUMBER:      {execute: opNumber, minStack: minStack(0, 1)},
		DIFFICULTY:  {execute: opDifficulty, minStack: minStack(0, 1)},
		GASLIMIT:    {execute: opGasLimit, minStack: minStack(0, 1)},
		CHAINID:     {execute: opChainID, minStack: minStack(0, 1)},
		SELFBALANCE: {execute: opSelfBalance, minStack: minStack(0, 1)},
		BASEFEE:     {execute: opBaseFee, minStack: minStack(0, 1)},

		POP:      {execute: opPop, minStack: minStack(1, 0)},
		MLOAD:    {execute: opMload, minStack: minStack(1, 1)},
		MSTORE:   {execute: opMstore, minStack: minStack(2, 0)},
		MSTORE8:  {execute: opMstore8, minStack: minStack(2, 0)},
		SLOAD:    {execute: opSload, minStack: minStack(1, 1)},
		SSTORE:   {execute: opSstore, minStack: minStack(2, 0), writes: true},
		JUMP:     {execute: opJump, minStack: minStack(1, 0)},
		JUMPI:    {execute: opJumpi, minStack: minStack(2, 0)},
		PC:       {execute: opPc, minStack: minStack(0, 1)},
		MSIZE:    {execute: opMsize, minStack: minStack(0, 1)},
		GAS:      {execute: opGas, minStack: minStack(0, 1)},
		JUMPDEST: {execute: opJumpdest, minStack: minStack(0, 0)},
		PUSH0:    {execute: opPush0, minStack: minStack(0, 1)},

		CREATE: {
			execute:  opCreate,
			minStack: minStack(3, 1),
			writes:   true,
		},
		CALL:         {execute: opCall, minStack: minStack(7, 1)},
		DELEGATECALL: {execute: opDelegateCall, minStack: minStack(6, 1)},
		STATICCALL:   {execute: opStaticCall, minStack: minStack(6, 1)},
		RETURN: {
			execute:  opReturn,
			minStack: minStack(2, 0),
			halts:    true,
		},
		REVERT: {
			execute:  opRevert,
			minStack: minStack(2, 0),
			halts:    true,
		},
		SELFDESTRUCT: {
			execute:  opSelfdestruct,
			minStack: minStack(1, 0),
			halts:    true,
			writes:   true,
		},
	}

	for i := 0; i < 32; i++ {
		tbl[PUSH1+OpCode(i)] = &operation{
			execute:  makePush(uint64(i + 1)),
			minStack: minStack(0, 1),
		}
	}
	for i := 1; i <= 16; i++ {
		tbl[DUP1+OpCode(i-1)] = &operation{
			execute:  makeDup(i),
			minStack: minDupStack(i),
		}
		tbl[SWAP1+OpCode(i-1)] = &operation{
			execute:  makeSwap(i),
			minStack: minSwapStack(i),
		}
	}
	for i := 0; i <= 4; i++ {
		tbl[LOG0+OpCode(i)] = &operation{
			execute:  makeLog(i),
			minStack: minStack(2+i, 0),
			writes:   true,
		}
	}
	return tbl
}
