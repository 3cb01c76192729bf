package evm

// Operand counts of the stack shaping opcodes. The interpreter never rejects
// a short stack; the counts drive the debug trace only.

func minSwapStack(n int) int {
	return minStack(n+1, n+1)
}

func minDupStack(n int) int {
	return minStack(n, n+1)
}

func minStack(pops, _ int) int {
	return pops
}
