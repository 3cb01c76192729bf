// Package math provides the 256-bit word arithmetic of the virtual machine.
//
// Every function is pure and total: operands are taken by value, the result is
// returned by value and nothing ever panics. Arithmetic wraps modulo 2^256 and
// division by zero yields zero.
package math

import "github.com/holiman/uint256"

// MaxWord is 2^256 - 1.
var MaxWord = func() uint256.Int {
	var w uint256.Int
	w.SetAllOne()
	return w
}()

func Add(a, b uint256.Int) (z uint256.Int) {
	z.Add(&a, &b)
	return z
}

func Mul(a, b uint256.Int) (z uint256.Int) {
	z.Mul(&a, &b)
	return z
}

// Sub returns a-b, wrapping to 2^256-(b-a) on underflow.
func Sub(a, b uint256.Int) (z uint256.Int) {
	z.Sub(&a, &b)
	return z
}

// Div is unsigned floor division; a zero divisor yields zero.
func Div(a, b uint256.Int) (z uint256.Int) {
	z.Div(&a, &b)
	return z
}

// Mod is the unsigned remainder; a zero divisor yields zero.
func Mod(a, b uint256.Int) (z uint256.Int) {
	z.Mod(&a, &b)
	return z
}

// SDiv divides two's-complement operands, truncating toward zero.
// A zero divisor yields zero.
func SDiv(a, b uint256.Int) (z uint256.Int) {
	z.SDiv(&a, &b)
	return z
}

// SMod is the two's-complement remainder; the sign follows the dividend.
func SMod(a, b uint256.Int) (z uint256.Int) {
	z.SMod(&a, &b)
	return z
}

// AddMod computes (a+b) mod n without intermediate overflow; n == 0 yields zero.
func AddMod(a, b, n uint256.Int) (z uint256.Int) {
	if n.IsZero() {
		return z
	}
	z.AddMod(&a, &b, &n)
	return z
}

// MulMod computes (a*b) mod n without intermediate overflow; n == 0 yields zero.
func MulMod(a, b, n uint256.Int) (z uint256.Int) {
	if n.IsZero() {
		return z
	}
	z.MulMod(&a, &b, &n)
	return z
}

// Exp returns base^exponent mod 2^256.
func Exp(base, exponent uint256.Int) (z uint256.Int) {
	z.Exp(&base, &exponent)
	return z
}

// SignExtend treats v as a (k+1)-byte two's-complement integer and extends its
// sign bit over the full word. k >= 31 leaves v unchanged.
func SignExtend(k, v uint256.Int) (z uint256.Int) {
	z.ExtendSign(&v, &k)
	return z
}

func Lt(a, b uint256.Int) bool  { return a.Lt(&b) }
func Gt(a, b uint256.Int) bool  { return a.Gt(&b) }
func Slt(a, b uint256.Int) bool { return a.Slt(&b) }
func Sgt(a, b uint256.Int) bool { return a.Sgt(&b) }
func Eq(a, b uint256.Int) bool  { return a.Eq(&b) }

func IsZero(a uint256.Int) bool { return a.IsZero() }

// IsNegative reports whether the top bit of a is set.
func IsNegative(a uint256.Int) bool { return a.Sign() < 0 }

func And(a, b uint256.Int) (z uint256.Int) {
	z.And(&a, &b)
	return z
}

func Or(a, b uint256.Int) (z uint256.Int) {
	z.Or(&a, &b)
	return z
}

func Xor(a, b uint256.Int) (z uint256.Int) {
	z.Xor(&a, &b)
	return z
}

// Not is the full-width complement, 2^256 - 1 - a.
func Not(a uint256.Int) (z uint256.Int) {
	z.Not(&a)
	return z
}

// Byte returns byte i of the big-endian form of v, where i == 0 is the most
// significant byte. i >= 32 yields zero.
func Byte(i, v uint256.Int) uint256.Int {
	v.Byte(&i)
	return v
}

// Shl shifts v left by shift bits; shifts of 256 or more yield zero.
func Shl(shift, v uint256.Int) (z uint256.Int) {
	if !shift.LtUint64(256) {
		return z
	}
	z.Lsh(&v, uint(shift.Uint64()))
	return z
}

// Shr shifts v right by shift bits with zero fill; shifts of 256 or more yield zero.
func Shr(shift, v uint256.Int) (z uint256.Int) {
	if !shift.LtUint64(256) {
		return z
	}
	z.Rsh(&v, uint(shift.Uint64()))
	return z
}

// Sar shifts v right by shift bits, replicating the sign bit. Shifts of 256 or
// more yield zero for a non-negative v and all ones for a negative v.
func Sar(shift, v uint256.Int) (z uint256.Int) {
	if !shift.LtUint64(256) {
		if IsNegative(v) {
			z.SetAllOne()
		}
		return z
	}
	z.SRsh(&v, uint(shift.Uint64()))
	return z
}

// Bool maps a predicate onto the 1/0 words comparison opcodes push.
func Bool(b bool) (z uint256.Int) {
	if b {
		z.SetOne()
	}
	return z
}
