package evm

import (
	"strings"

	"github.com/entropyio/evmlite/common/math"
	"github.com/holiman/uint256"
)

// Stack is the operand stack of one frame. Reading below the bottom is not an
// error: a missing operand reads as zero.
type Stack struct {
	data []uint256.Int // bottom first
}

func newstack() *Stack {
	return &Stack{data: make([]uint256.Int, 0, 16)}
}

func (st *Stack) push(d uint256.Int) {
	st.data = append(st.data, d)
}

func (st *Stack) pushBool(b bool) {
	st.push(math.Bool(b))
}

// pop removes the top item, or yields zero on an empty stack.
func (st *Stack) pop() (ret uint256.Int) {
	if len(st.data) == 0 {
		return ret
	}
	ret = st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return ret
}

// back returns the n'th item counted from the top (0 = top), or zero.
func (st *Stack) back(n int) uint256.Int {
	if n >= len(st.data) {
		return uint256.Int{}
	}
	return st.data[len(st.data)-1-n]
}

// dup pushes a copy of the n'th item from the top (1 = top).
func (st *Stack) dup(n int) {
	st.push(st.back(n - 1))
}

// swap exchanges the top with the n'th item below it. Missing entries are
// materialised as zeros at the bottom so the exchange is always defined.
func (st *Stack) swap(n int) {
	if missing := n + 1 - len(st.data); missing > 0 {
		st.data = append(make([]uint256.Int, missing, missing+len(st.data)), st.data...)
	}
	top := len(st.data) - 1
	st.data[top], st.data[top-n] = st.data[top-n], st.data[top]
}

func (st *Stack) len() int {
	return len(st.data)
}

// Data returns a copy of the items, top first.
func (st *Stack) Data() []uint256.Int {
	out := make([]uint256.Int, len(st.data))
	for i := range st.data {
		out[i] = st.data[len(st.data)-1-i]
	}
	return out
}

// String renders the stack top first.
func (st *Stack) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, item := range st.Data() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.Hex())
	}
	b.WriteString("]")
	return b.String()
}
