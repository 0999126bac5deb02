package machine

// addResult computes x+y mod 2^32 along with the add flag semantics from
// spec.md §4.4/§8: carry is unsigned overflow of the 33-bit sum, overflow
// is the two's-complement signed-overflow rule, zero/negative read the
// signed result.
func addResult(x, y uint32) (result uint32, carry, overflow, zero, negative bool) {
	sum := uint64(x) + uint64(y)
	result = uint32(sum)
	carry = sum > 0xFFFFFFFF

	xSign, ySign, rSign := x>>31 == 1, y>>31 == 1, result>>31 == 1
	overflow = (xSign == ySign) && (rSign != xSign)
	zero = result == 0
	negative = rSign
	return
}

// subResult computes dst-src mod 2^32. carry is the unsigned borrow flag
// (dst < src), stated directly by spec.md §8's testable property; overflow
// reuses addResult's signed-overflow rule over (dst, -src), the standard
// add-the-negation technique for subtraction.
func subResult(dst, src uint32) (result uint32, carry, overflow, zero, negative bool) {
	result = dst - src
	carry = dst < src

	_, _, overflow, _, _ = addResult(dst, -src)
	zero = result == 0
	negative = result>>31 == 1
	return
}

// bitwiseFlags derives the zero/negative flags shared by and/or/xor/not.
func bitwiseFlags(result uint32) (zero, negative bool) {
	return result == 0, result>>31 == 1
}
