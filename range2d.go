package quadworld

// Coord is a single axis coordinate in world space. The world is addressed
// by signed integers; Unsign/Sign (bits.go) map a b-bit-wide Coord into the
// unsigned space the Morton interleave operates on.
type Coord = int64

// Vec2 is an integer 2D point in world space.
type Vec2 struct {
	X, Y Coord
}

// Add returns the component-wise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns the component-wise difference v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Range2D is an axis-aligned rectangle with both corners inclusive: it
// covers every point (x, y) with Min.X <= x <= Max.X and Min.Y <= y <=
// Max.Y. A single point is a valid (and the smallest possible) Range2D.
// The zero value, Range2D{}, is the canonical empty rectangle returned by
// Overlap when two ranges share no point.
type Range2D struct {
	Min, Max Vec2
}

// NewRange2D builds the inclusive rectangle [minX, maxX] x [minY, maxY],
// swapping each axis's bounds if given in the wrong order.
func NewRange2D(minX, minY, maxX, maxY Coord) Range2D {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Range2D{Min: Vec2{minX, minY}, Max: Vec2{maxX, maxY}}
}

// RangeFromCenter builds a w x h rectangle centred on (x, y). An odd size
// is split evenly around the centre cell; an even size is split
// asymmetrically, with w/2 cells below x and w/2-1 above it (likewise for
// h), so the result is deterministic and round-trips through
// encode/decode the same way every time.
func RangeFromCenter(x, y Coord, w, h uint64) Range2D {
	return Range2D{
		Min: Vec2{x - Coord(w/2), y - Coord(h/2)},
		Max: Vec2{x + Coord((w-1)/2), y + Coord((h-1)/2)},
	}
}

// RangeFromCenterSquare builds a square rectangle of side 2*radius+1
// centred on (x, y).
func RangeFromCenterSquare(x, y Coord, radius Coord) Range2D {
	return NewRange2D(x-radius, y-radius, x+radius, y+radius)
}

// Width returns Max.X - Min.X + 1, computed in the unsigned domain so a
// world spanning the full signed-64 range (height 64) "overflows" to 0
// rather than panicking — the same convention Pow2(64) uses (bits.go).
func (r Range2D) Width() uint64 { return uint64(r.Max.X) - uint64(r.Min.X) + 1 }

// Height returns Max.Y - Min.Y + 1, with the same unsigned-overflow
// convention as Width.
func (r Range2D) Height() uint64 { return uint64(r.Max.Y) - uint64(r.Min.Y) + 1 }

// halfOf returns half of a side length given in Width/Height's
// overflow-to-0 convention: an actual width of 0 means the full 2^64-wide
// world, whose half is exactly 2^63 — representable as a uint64, unlike
// the width itself. Every other width is even by construction (callers
// only ever split a power-of-two-sided node), so plain division suffices.
func halfOf(side uint64) uint64 {
	if side == 0 {
		return uint64(1) << 63
	}
	return side / 2
}

// sideAtMost reports whether an actual side length is less than or equal
// to threshold, both given in Width/Height's overflow-to-0 convention (0
// meaning 2^64, the largest possible side).
func sideAtMost(side, threshold uint64) bool {
	if threshold == 0 {
		return true
	}
	if side == 0 {
		return false
	}
	return side <= threshold
}

// Contains reports whether the point p lies within r, both corners
// inclusive.
func (r Range2D) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsRange reports whether r fully encloses other.
func (r Range2D) ContainsRange(other Range2D) bool {
	return other.Min.X >= r.Min.X && other.Max.X <= r.Max.X &&
		other.Min.Y >= r.Min.Y && other.Max.Y <= r.Max.Y
}

// Overlaps reports whether r and other share at least one point, both
// corners inclusive on both rectangles.
func (r Range2D) Overlaps(other Range2D) bool {
	return r.Min.X <= other.Max.X && other.Min.X <= r.Max.X &&
		r.Min.Y <= other.Max.Y && other.Min.Y <= r.Max.Y
}

// Overlap returns the intersection of r and other, and whether it is
// non-empty. With no intersection, it returns the canonical empty
// rectangle (the zero value) and false.
func (r Range2D) Overlap(other Range2D) (Range2D, bool) {
	if !r.Overlaps(other) {
		return Range2D{}, false
	}
	return Range2D{
		Min: Vec2{maxCoord(r.Min.X, other.Min.X), maxCoord(r.Min.Y, other.Min.Y)},
		Max: Vec2{minCoord(r.Max.X, other.Max.X), minCoord(r.Max.Y, other.Max.Y)},
	}, true
}

// Combine returns the smallest Range2D covering both r and other.
func (r Range2D) Combine(other Range2D) Range2D {
	return Range2D{
		Min: Vec2{minCoord(r.Min.X, other.Min.X), minCoord(r.Min.Y, other.Min.Y)},
		Max: Vec2{maxCoord(r.Max.X, other.Max.X), maxCoord(r.Max.Y, other.Max.Y)},
	}
}

// Quadrant identifies one of the four children of a branch node, in the
// same order a QuadtreeNode's Children array uses: BL (-X-Y), BR (+X-Y),
// TL (-X+Y), TR (+X+Y).
type Quadrant uint8

const (
	QuadBL Quadrant = iota
	QuadBR
	QuadTL
	QuadTR
)

// SplitIntoQuarters divides r into its four equal quadrants, ordered
// QuadBL, QuadBR, QuadTL, QuadTR. r's width and height must both be even
// and >= 2; callers only ever call this on a node whose extent is a power
// of two greater than 1.
func (r Range2D) SplitIntoQuarters() [4]Range2D {
	halfW := Coord(halfOf(r.Width()))
	halfH := Coord(halfOf(r.Height()))
	loMaxX, hiMinX := r.Min.X+halfW-1, r.Min.X+halfW
	loMaxY, hiMinY := r.Min.Y+halfH-1, r.Min.Y+halfH
	return [4]Range2D{
		QuadBL: {Min: Vec2{r.Min.X, r.Min.Y}, Max: Vec2{loMaxX, loMaxY}},
		QuadBR: {Min: Vec2{hiMinX, r.Min.Y}, Max: Vec2{r.Max.X, loMaxY}},
		QuadTL: {Min: Vec2{r.Min.X, hiMinY}, Max: Vec2{loMaxX, r.Max.Y}},
		QuadTR: {Min: Vec2{hiMinX, hiMinY}, Max: Vec2{r.Max.X, r.Max.Y}},
	}
}

// QuadrantOf returns which of r's four quarters contains p. p must lie
// within r.
func (r Range2D) QuadrantOf(p Vec2) Quadrant {
	halfW := Coord(halfOf(r.Width()))
	halfH := Coord(halfOf(r.Height()))
	hi := p.X >= r.Min.X+halfW
	top := p.Y >= r.Min.Y+halfH
	switch {
	case !hi && !top:
		return QuadBL
	case hi && !top:
		return QuadBR
	case !hi && top:
		return QuadTL
	default:
		return QuadTR
	}
}

// Area returns the exact area of r as a Uint128, since a world rectangle
// can be as wide as 2^64 on a side and overflow a uint64 product.
func (r Range2D) Area() Uint128 {
	return Mul64x64To128(r.Width(), r.Height())
}

func minCoord(a, b Coord) Coord {
	if a < b {
		return a
	}
	return b
}

func maxCoord(a, b Coord) Coord {
	if a > b {
		return a
	}
	return b
}
