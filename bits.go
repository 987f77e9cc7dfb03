package quadworld

import "math/bits"

// Uint128 is a 128-bit unsigned integer represented as two 64-bit halves,
// used for Morton (Z-order) indices and for Range2D.Area. Go has no native
// 128-bit integer type, so the halves are carried explicitly the way a
// systems-language port of this core would carry a (hi, lo) pair.
type Uint128 struct {
	Hi, Lo uint64
}

// TrailingZeros32 returns the number of trailing zero bits in v, or 0 when
// v is zero (the caller must gate on v == 0 separately; this differs from
// LeadingZeros, which returns the full width for zero input).
func TrailingZeros32(v uint32) int {
	if v == 0 {
		return 0
	}
	return bits.TrailingZeros32(v)
}

// TrailingZeros64 is TrailingZeros32's 64-bit counterpart.
func TrailingZeros64(v uint64) int {
	if v == 0 {
		return 0
	}
	return bits.TrailingZeros64(v)
}

// TrailingZeros128 treats (hi, lo) as a 128-bit unsigned integer.
func TrailingZeros128(hi, lo uint64) int {
	if lo != 0 {
		return bits.TrailingZeros64(lo)
	}
	if hi != 0 {
		return 64 + bits.TrailingZeros64(hi)
	}
	return 0
}

// LeadingZeros32 returns the number of leading zero bits in v, returning 32
// for a zero input.
func LeadingZeros32(v uint32) int { return bits.LeadingZeros32(v) }

// LeadingZeros64 is LeadingZeros32's 64-bit counterpart, returning 64 for 0.
func LeadingZeros64(v uint64) int { return bits.LeadingZeros64(v) }

// LeadingZeros128 treats (hi, lo) as a 128-bit unsigned integer, returning
// 128 for a zero input.
func LeadingZeros128(hi, lo uint64) int {
	if hi != 0 {
		return bits.LeadingZeros64(hi)
	}
	return 64 + bits.LeadingZeros64(lo)
}

// NextPow2 returns the smallest power of two >= v, saturating to 2^63 if v
// would otherwise overflow a uint64.
func NextPow2(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	if v > uint64(1)<<63 {
		return uint64(1) << 63
	}
	if v == uint64(1)<<63 {
		return v
	}
	return uint64(1) << bits.Len64(v-1)
}

// PrevPow2 returns the largest power of two <= v; PrevPow2(0) == 0.
func PrevPow2(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	return uint64(1) << (63 - bits.LeadingZeros64(v))
}

// Pow2 returns 2^n for n in [0, 64]. Pow2(64) returns 0 by convention, used
// by callers as an unsigned-overflow marker when height is 64.
func Pow2(n uint) uint64 {
	if n >= 64 {
		return 0
	}
	return uint64(1) << n
}

// MinByteCount returns the number of significant bytes in v (0 for v == 0).
func MinByteCount(v uint64) int {
	if v == 0 {
		return 0
	}
	return (bits.Len64(v) + 7) / 8
}

// dilate32 spreads the 32 bits of v across the even bit positions (0, 2, 4,
// ..., 62) of a 64-bit result, via the classic mask-and-shift ladder.
func dilate32(v uint32) uint64 {
	x := uint64(v)
	x = (x | (x << 16)) & 0x0000FFFF0000FFFF
	x = (x | (x << 8)) & 0x00FF00FF00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F0F0F0F0F
	x = (x | (x << 2)) & 0x3333333333333333
	x = (x | (x << 1)) & 0x5555555555555555
	return x
}

// undilate32 is the exact inverse of dilate32: it extracts the 32 bits held
// at the even positions of x, discarding whatever occupies the odd ones.
func undilate32(x uint64) uint32 {
	x &= 0x5555555555555555
	x = (x | (x >> 1)) & 0x3333333333333333
	x = (x | (x >> 2)) & 0x0F0F0F0F0F0F0F0F
	x = (x | (x >> 4)) & 0x00FF00FF00FF00FF
	x = (x | (x >> 8)) & 0x0000FFFF0000FFFF
	x = (x | (x >> 16)) & 0x00000000FFFFFFFF
	return uint32(x)
}

// Interleave produces the 128-bit Morton (Z-order) index for (x, y): bit 2k
// of the result is bit k of x, and bit 2k+1 is bit k of y. The low 32 bits
// of each coordinate dilate into the low 64 result bits and the high 32
// bits dilate into the high 64 result bits, since 2*32 lands exactly on the
// 64-bit halfway point.
func Interleave(x, y uint64) Uint128 {
	xLoDilated := dilate32(uint32(x))
	xHiDilated := dilate32(uint32(x >> 32))
	yLoDilated := dilate32(uint32(y))
	yHiDilated := dilate32(uint32(y >> 32))
	return Uint128{
		Hi: xHiDilated | (yHiDilated << 1),
		Lo: xLoDilated | (yLoDilated << 1),
	}
}

// Deinterleave is the exact inverse of Interleave.
func Deinterleave(z Uint128) (x, y uint64) {
	xLo := undilate32(z.Lo)
	xHi := undilate32(z.Hi)
	yLo := undilate32(z.Lo >> 1)
	yHi := undilate32(z.Hi >> 1)
	x = uint64(xLo) | (uint64(xHi) << 32)
	y = uint64(yLo) | (uint64(yHi) << 32)
	return x, y
}

// bitPair extracts the 2-bit quadrant selector at bit position 2*level of
// z, where level 0 is the least-significant pair. Quadtree descent reads
// these from the most-significant pair down to the least.
func bitPair(z Uint128, level int) uint8 {
	pos := uint(2 * level)
	switch {
	case pos < 63:
		return uint8((z.Lo >> pos) & 0b11)
	case pos == 63:
		lo := (z.Lo >> 63) & 1
		hi := z.Hi & 1
		return uint8(lo | (hi << 1))
	default:
		return uint8((z.Hi >> (pos - 64)) & 0b11)
	}
}

// Unsign reinterprets the signed integer i, taken as a b-bit field, as an
// unsigned value whose strict ordering matches i's signed ordering: the
// sign bit is flipped and anything outside the low b bits is zeroed.
func Unsign(i int64, b uint) uint64 {
	u := uint64(i)
	signBit := uint64(1) << (b - 1)
	u ^= signBit
	if b < 64 {
		u &= (uint64(1) << b) - 1
	}
	return u
}

// Sign is the inverse of Unsign: for b < 64 the result is sign-extended
// after the sign bit is flipped back.
func Sign(u uint64, b uint) int64 {
	signBit := uint64(1) << (b - 1)
	v := u ^ signBit
	if b < 64 {
		v &= (uint64(1) << b) - 1
		if v&signBit != 0 {
			v |= ^uint64(0) << b
		}
	}
	return int64(v)
}

// Mul64x64To128 returns the full 128-bit product of a and b.
func Mul64x64To128(a, b uint64) Uint128 {
	hi, lo := bits.Mul64(a, b)
	return Uint128{Hi: hi, Lo: lo}
}

// --- Fixed-width endian (de)serialisation ---

func putUint16(buf []byte, v uint16, big bool) {
	if big {
		buf[0] = byte(v >> 8)
		buf[1] = byte(v)
	} else {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
	}
}

func getUint16(buf []byte, big bool) uint16 {
	if big {
		return uint16(buf[0])<<8 | uint16(buf[1])
	}
	return uint16(buf[0]) | uint16(buf[1])<<8
}

func putUint32(buf []byte, v uint32, big bool) {
	if big {
		buf[0] = byte(v >> 24)
		buf[1] = byte(v >> 16)
		buf[2] = byte(v >> 8)
		buf[3] = byte(v)
	} else {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
	}
}

func getUint32(buf []byte, big bool) uint32 {
	if big {
		return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

func putUint64(buf []byte, v uint64, big bool) {
	if big {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> uint(56-8*i))
		}
	} else {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> uint(8*i))
		}
	}
}

func getUint64(buf []byte, big bool) uint64 {
	var v uint64
	if big {
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(buf[i])
		}
	} else {
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(buf[i])
		}
	}
	return v
}

func putInt64(buf []byte, v int64, big bool) { putUint64(buf, uint64(v), big) }
func getInt64(buf []byte, big bool) int64    { return int64(getUint64(buf, big)) }

func putInt32(buf []byte, v int32, big bool) { putUint32(buf, uint32(v), big) }
func getInt32(buf []byte, big bool) int32    { return int32(getUint32(buf, big)) }

func putInt16(buf []byte, v int16, big bool) { putUint16(buf, uint16(v), big) }
func getInt16(buf []byte, big bool) int16    { return int16(getUint16(buf, big)) }

// EncodeUint64 renders v as 8 little-endian bytes; used as the default
// Encode function for DynamicArray[uint64] (the occupancy bitset).
func EncodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	putUint64(buf, v, false)
	return buf
}
