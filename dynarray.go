package quadworld

import (
	"math/bits"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// ArrayModification records one logged write to a DynamicArray: a
// consumer (the renderer handoff, a mirrored replica) replays it as
// "slot Index now holds Value". One record is appended per Set or Append
// call and two per Swap call (one for each slot); Remove does not log,
// since a removal is visible to a
// mirror only indirectly (through Compress reassigning the slot via a
// later Set), matching the modification log's published (index, value)
// shape.
type ArrayModification[T any] struct {
	Index Int
	Value T
}

// Int is the index type used throughout DynamicArray; a plain alias keeps
// call sites readable without committing to int vs int64 prematurely.
type Int = int

// chunkPoolKey identifies one chunk pool: chunks are interchangeable only
// between arrays with the same element type and chunk length.
type chunkPoolKey struct {
	elem     any // a nil *T, whose dynamic type identifies T
	chunkLen int
}

var chunkPools sync.Map // map[chunkPoolKey]*sync.Pool, keyed by element type and chunk length

func chunkPoolFor[T any](chunkLen int) *sync.Pool {
	key := chunkPoolKey{elem: (*T)(nil), chunkLen: chunkLen}
	if p, ok := chunkPools.Load(key); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{
		New: func() any {
			s := make([]T, chunkLen)
			return &s
		},
	}
	actual, _ := chunkPools.LoadOrStore(key, p)
	return actual.(*sync.Pool)
}

// DynamicArray is a chunked, pool-backed, append-only-growable array of T.
// Storage is rented in ChunkLen-sized slices from a process-wide sync.Pool
// keyed by element type and chunk length, the way Sneller's vm allocator rents fixed-size
// pages rather than growing one contiguous slice (vm/malloc.go). Elements
// are addressed by stable index: once assigned, an index never moves, even
// across Remove, so external references (a quadtree leaf's data index)
// stay valid for the container's lifetime.
type DynamicArray[T any] struct {
	cfg    DynamicArrayConfig[T]
	chunks [][]T
	length int

	occupied *DynamicArray[uint64] // nil unless cfg.StoreOccupied
	freeHint int                   // word index to resume the free-bit scan from

	mods               []ArrayModification[T] // nil unless cfg.StoreModifications
	modificationLength int                     // length visible as of the last ClearModifications
}

// NewDynamicArray constructs an empty DynamicArray[T] with the given
// configuration. A zero-valued ChunkLen falls back to DefaultChunkLen.
func NewDynamicArray[T any](cfg DynamicArrayConfig[T]) *DynamicArray[T] {
	if cfg.ChunkLen <= 0 {
		cfg.ChunkLen = DefaultChunkLen
	}
	da := &DynamicArray[T]{cfg: cfg}
	if cfg.StoreOccupied {
		occChunkLen := cfg.ChunkLen / 64
		if occChunkLen <= 0 {
			occChunkLen = 1
		}
		da.occupied = NewDynamicArray[uint64](DynamicArrayConfig[uint64]{
			ChunkLen: occChunkLen,
			Encode:   EncodeUint64,
		})
	}
	if cfg.StoreModifications {
		da.mods = make([]ArrayModification[T], 0, cfg.ChunkLen)
	}
	return da
}

// Len returns the number of slots ever assigned, including removed ones;
// it is not the number of live elements (use ForEachOccupied or Stats-style
// callers to count those).
func (da *DynamicArray[T]) Len() int { return da.length }

// ModificationLength returns the logical length that was in effect as of
// the last ClearModifications call (or construction, if never cleared).
// Any index referenced by a pending modification is guaranteed to lie
// within [0, ModificationLength()), letting a draining reader size its own
// mirror exactly once per drain.
func (da *DynamicArray[T]) ModificationLength() int { return da.modificationLength }

func (da *DynamicArray[T]) chunkLen() int { return da.cfg.ChunkLen }

func (da *DynamicArray[T]) ensureChunk(chunkIdx int) {
	for len(da.chunks) <= chunkIdx {
		pool := chunkPoolFor[T](da.chunkLen())
		s := pool.Get().(*[]T)
		da.chunks = append(da.chunks, *s)
	}
}

func (da *DynamicArray[T]) locate(i int) (chunkIdx, offset int) {
	return i / da.chunkLen(), i % da.chunkLen()
}

// Get returns the element stored at i. It returns a DeletedElement error
// if the occupancy bitset is enabled and i's bit is clear.
func (da *DynamicArray[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= da.length {
		return zero, newError(InvalidIndex, "DynamicArray.Get", "index out of range")
	}
	if da.occupied != nil && !da.isOccupied(i) {
		return zero, newError(DeletedElement, "DynamicArray.Get", "slot has been removed")
	}
	ci, off := da.locate(i)
	return da.chunks[ci][off], nil
}

// Set assigns value to slot i, growing the array (and allocating
// intervening slots with zero values) if i >= Len(). Intervening slots are
// left unoccupied; only i itself is marked occupied. When the modification
// log is enabled, a record is appended.
func (da *DynamicArray[T]) Set(i int, value T) error {
	if i < 0 {
		return newError(InvalidIndex, "DynamicArray.Set", "negative index")
	}
	if i >= da.length {
		da.growTo(i + 1)
	}
	ci, off := da.locate(i)
	da.chunks[ci][off] = value
	if da.occupied != nil {
		da.setOccupied(i, true)
	}
	if da.cfg.StoreModifications {
		da.mods = append(da.mods, ArrayModification[T]{Index: i, Value: value})
	}
	return nil
}

// Append assigns value to the next never-assigned index (ignoring any free
// slots reclaimed by Remove) and returns that index. Prefer AppendFirstFree
// to reuse reclaimed slots when the occupancy bitset is enabled.
func (da *DynamicArray[T]) Append(value T) int {
	i := da.length
	_ = da.Set(i, value)
	return i
}

func (da *DynamicArray[T]) growTo(newLen int) {
	need := (newLen + da.chunkLen() - 1) / da.chunkLen()
	da.ensureChunk(need - 1)
	da.length = newLen
}

// Remove clears slot i's occupancy bit. It does not append to the
// modification log: a removal only becomes visible to a log consumer
// indirectly, when Compress later reassigns the slot through a Set.
// Requires the occupancy bitset; returns StoredVacanciesDisabled otherwise.
// If shrink is true and i is the highest-indexed slot, the array contracts
// to the new highest live index (or empties entirely if none remains),
// returning reclaimed chunks to the pool. The value at i itself is left
// untouched.
func (da *DynamicArray[T]) Remove(i int, shrink bool) error {
	if da.occupied == nil {
		return newError(StoredVacanciesDisabled, "DynamicArray.Remove", "store_occupied is off")
	}
	if i < 0 || i >= da.length {
		return newError(InvalidIndex, "DynamicArray.Remove", "index out of range")
	}
	da.setOccupied(i, false)
	if wi := i / 64; wi < da.freeHint {
		da.freeHint = wi
	}
	if shrink && i == da.length-1 {
		da.shrinkToLastLive()
	}
	return nil
}

// shrinkToLastLive scans the occupancy words from the highest downward,
// skipping all-zero words; the first non-zero word found fixes the new
// length at one past its highest set bit. If every word is zero, the array
// is cleared outright.
func (da *DynamicArray[T]) shrinkToLastLive() {
	totalWords := (da.length + 63) / 64
	for wi := totalWords - 1; wi >= 0; wi-- {
		w, err := da.occupied.Get(wi)
		if err != nil {
			w = 0
		}
		if w == 0 {
			continue
		}
		lastBit := 63 - bits.LeadingZeros64(w)
		da.shrinkTo(wi*64 + lastBit + 1)
		return
	}
	da.Clear()
}

func (da *DynamicArray[T]) shrinkTo(newLen int) {
	if newLen >= da.length {
		return
	}
	neededChunks := (newLen + da.chunkLen() - 1) / da.chunkLen()
	if neededChunks < len(da.chunks) {
		pool := chunkPoolFor[T](da.chunkLen())
		for ci := neededChunks; ci < len(da.chunks); ci++ {
			cc := da.chunks[ci]
			var zero T
			for j := range cc {
				cc[j] = zero
			}
			pool.Put(&cc)
		}
		da.chunks = da.chunks[:neededChunks]
	}
	da.length = newLen
	if newWordHint := newLen / 64; da.freeHint > newWordHint {
		da.freeHint = newWordHint
	}
}

// RemoveEnd truncates the array to length i, returning any now-unused
// chunks to the pool. i must lie within [0, Len()].
func (da *DynamicArray[T]) RemoveEnd(i int) error {
	if i < 0 || i > da.length {
		return newError(InvalidIndex, "DynamicArray.RemoveEnd", "index out of range")
	}
	var zero T
	for j := i; j < da.length; j++ {
		ci, off := da.locate(j)
		da.chunks[ci][off] = zero
		if da.occupied != nil {
			da.setOccupied(j, false)
		}
	}
	da.shrinkTo(i)
	return nil
}

// Swap exchanges the values stored at a and b. Both indices must already
// be occupied (or, with the occupancy bitset disabled, within range). The
// modification log records both slots' new values after the exchange, not
// their old ones.
func (da *DynamicArray[T]) Swap(a, b int) error {
	av, err := da.Get(a)
	if err != nil {
		return err
	}
	bv, err := da.Get(b)
	if err != nil {
		return err
	}
	ca, oa := da.locate(a)
	cb, ob := da.locate(b)
	da.chunks[ca][oa] = bv
	da.chunks[cb][ob] = av
	if da.cfg.StoreModifications {
		da.mods = append(da.mods,
			ArrayModification[T]{Index: a, Value: bv},
			ArrayModification[T]{Index: b, Value: av},
		)
	}
	return nil
}

// AppendFirstFree writes value into the lowest-indexed free (removed or
// never-assigned) slot, growing the array only if none exists, and
// returns that index. This mirrors the free-bit scan in Sneller's
// vm/malloc.go: scan the occupancy words with bits.TrailingZeros64 to find
// the first zero bit rather than linearly probing element by element. With
// the occupancy bitset disabled, this is equivalent to Append.
func (da *DynamicArray[T]) AppendFirstFree(value T) int {
	if da.occupied == nil {
		return da.Append(value)
	}
	if i, ok := da.findFreeBit(); ok {
		_ = da.Set(i, value)
		return i
	}
	return da.Append(value)
}

func (da *DynamicArray[T]) findFreeBit() (int, bool) {
	words := da.occupied.Len()
	if da.length == 0 {
		return 0, false
	}
	liveWords := (da.length + 63) / 64
	for wi := da.freeHint; wi < liveWords && wi < words; wi++ {
		w, err := da.occupied.Get(wi)
		if err != nil {
			w = 0
		}
		if w == ^uint64(0) {
			continue
		}
		bitIdx := bits.TrailingZeros64(^w)
		idx := wi*64 + bitIdx
		if idx >= da.length {
			continue
		}
		da.freeHint = wi
		return idx, true
	}
	da.freeHint = liveWords
	return 0, false
}

func (da *DynamicArray[T]) isOccupied(i int) bool {
	wi, bi := i/64, uint(i%64)
	w, err := da.occupied.Get(wi)
	if err != nil {
		return false
	}
	return w&(uint64(1)<<bi) != 0
}

func (da *DynamicArray[T]) setOccupied(i int, occupied bool) {
	wi, bi := i/64, uint(i%64)
	var w uint64
	if wi < da.occupied.Len() {
		w, _ = da.occupied.Get(wi)
	}
	if occupied {
		w |= uint64(1) << bi
	} else {
		w &^= uint64(1) << bi
	}
	_ = da.occupied.Set(wi, w)
}

// ForEachOccupied calls fn once for every index whose occupancy bit is
// set, in ascending order, stopping early if fn returns false. With the
// occupancy bitset disabled, every assigned index is considered occupied.
func (da *DynamicArray[T]) ForEachOccupied(fn func(i int, v T) bool) {
	for i := 0; i < da.length; i++ {
		if da.occupied != nil && !da.isOccupied(i) {
			continue
		}
		ci, off := da.locate(i)
		if !fn(i, da.chunks[ci][off]) {
			return
		}
	}
}

// EnsureCapacity preallocates enough chunks to hold at least n elements
// without exposing them as readable: Len() and occupancy are unaffected,
// only the backing chunks are rented ahead of time.
func (da *DynamicArray[T]) EnsureCapacity(n int) {
	if n <= 0 {
		return
	}
	need := (n + da.chunkLen() - 1) / da.chunkLen()
	da.ensureChunk(need - 1)
}

// Sort reorders the array's elements in place over indices [0, Len()) using
// a merge sort over a copied buffer with an equal-sized scratch slice, so that less(a, b) holds for every adjacent pair
// afterward. Behaviour is undefined if the array has removed (non-occupied)
// holes within that range.
func (da *DynamicArray[T]) Sort(less func(a, b T) bool) {
	n := da.length
	if n < 2 {
		return
	}
	buf := make([]T, n)
	for i := 0; i < n; i++ {
		buf[i], _ = da.Get(i)
	}
	scratch := make([]T, n)
	mergeSort(buf, scratch, less)
	for i, v := range buf {
		_ = da.Set(i, v)
	}
}

func mergeSort[T any](data, scratch []T, less func(a, b T) bool) {
	n := len(data)
	if n < 2 {
		return
	}
	mid := n / 2
	mergeSort(data[:mid], scratch[:mid], less)
	mergeSort(data[mid:], scratch[mid:], less)
	copy(scratch, data)
	i, j, k := 0, mid, 0
	for i < mid && j < n {
		if less(scratch[j], scratch[i]) {
			data[k] = scratch[j]
			j++
		} else {
			data[k] = scratch[i]
			i++
		}
		k++
	}
	for i < mid {
		data[k] = scratch[i]
		i++
		k++
	}
	for j < n {
		data[k] = scratch[j]
		j++
		k++
	}
}

// GetModifications copies the modification log accumulated since
// construction or the last ClearModifications into dst (reusing its
// backing array when it has enough capacity) and returns the resulting
// slice. Requires the modification log; returns StoredModificationsDisabled
// otherwise.
func (da *DynamicArray[T]) GetModifications(dst []ArrayModification[T]) ([]ArrayModification[T], error) {
	if !da.cfg.StoreModifications {
		return nil, newError(StoredModificationsDisabled, "DynamicArray.GetModifications", "store_modifications is off")
	}
	dst = append(dst[:0], da.mods...)
	return dst, nil
}

// ClearModifications discards the accumulated modification log and records
// the array's current length as ModificationLength, so a reader that just
// drained the log can size its own mirror exactly once.
func (da *DynamicArray[T]) ClearModifications() {
	if da.cfg.StoreModifications {
		da.mods = da.mods[:0]
	}
	da.modificationLength = da.length
}

// Hash returns the BLAKE2b-256 digest of Encode(v) for every occupied
// element, XORed together so the result is independent of traversal
// order — any subset of elements can be rehashed and XORed back out
// without recomputing the whole array. Requires cfg.Encode to be set.
func (da *DynamicArray[T]) Hash() ([32]byte, error) {
	var acc [32]byte
	if da.cfg.Encode == nil {
		return acc, newError(InvalidNodeType, "DynamicArray.Hash", "no Encode function configured")
	}
	da.ForEachOccupied(func(i int, v T) bool {
		h := blake2b.Sum256(da.cfg.Encode(v))
		for b := 0; b < 32; b++ {
			acc[b] ^= h[b]
		}
		return true
	})
	return acc, nil
}

// Clear resets the array to empty: length, occupancy, the modification
// log, and ModificationLength are all reset, and every rented chunk is
// returned to its pool. After Clear the DynamicArray may be reused as if
// newly constructed.
func (da *DynamicArray[T]) Clear() {
	pool := chunkPoolFor[T](da.chunkLen())
	for _, c := range da.chunks {
		cc := c
		var zero T
		for j := range cc {
			cc[j] = zero
		}
		pool.Put(&cc)
	}
	da.chunks = nil
	da.length = 0
	da.freeHint = 0
	if da.occupied != nil {
		da.occupied.Clear()
	}
	if da.cfg.StoreModifications {
		da.mods = da.mods[:0]
	}
	da.modificationLength = 0
}
