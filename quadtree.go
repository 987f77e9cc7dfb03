package quadworld

import (
	"math"

	"github.com/google/uuid"
)

// Stats is a read-only snapshot of a Quadtree's size, supplementing the
// point/range API for diagnostics (not part of the renderer handoff).
type Stats struct {
	NodeCount  int
	DataCount  int
	MaxDepth   int
	TreeHeight int
}

// Quadtree is a region quadtree over a world rectangle symmetric about the
// origin with side 2^height, storing one T per leaf cell. Nodes and
// tile data each live in their own pool-backed DynamicArray and are
// addressed by stable index rather than pointer, so the tree can serialise,
// soft-delete, and content-hash uniformly with the rest of the package.
type Quadtree[T Tile] struct {
	// InstanceID distinguishes one live tree/handoff pairing from another
	// when a host keeps more than one world loaded at once.
	InstanceID uuid.UUID

	cfg     QuadtreeConfig
	world   Range2D
	height  int
	default_ T

	nodes *DynamicArray[QuadtreeNode]
	data  *DynamicArray[T]

	rootIndex int64
}

// worldForHeight returns the world rectangle a tree of the given height
// covers: symmetric about the origin with side 2^height. Height 64 uses
// the full signed-64 range, since 2^63 itself cannot be represented as an
// inclusive Coord bound.
func worldForHeight(height int) Range2D {
	if height >= 64 {
		return Range2D{Min: Vec2{math.MinInt64, math.MinInt64}, Max: Vec2{math.MaxInt64, math.MaxInt64}}
	}
	half := Coord(Pow2(uint(height - 1)))
	return Range2D{Min: Vec2{-half, -half}, Max: Vec2{half - 1, half - 1}}
}

// NewQuadtree constructs an empty Quadtree of the given height (number of
// subdivision levels from root to a unit cell, so the world is
// 2^height x 2^height) with every cell initially holding def. height must
// lie in [2, MaxHeight]; otherwise construction fails.
func NewQuadtree[T Tile](height int, def T, opts ...QuadtreeOption) (*Quadtree[T], error) {
	if height < 2 || height > MaxHeight {
		return nil, newError(InvalidIndex, "NewQuadtree", "height must be within [2, 64]")
	}
	cfg := defaultQuadtreeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	qt := &Quadtree[T]{
		InstanceID: uuid.New(),
		cfg:        cfg,
		world:      worldForHeight(height),
		height:     height,
		default_:   def,
	}
	qt.nodes = NewDynamicArray[QuadtreeNode](DynamicArrayConfig[QuadtreeNode]{
		ChunkLen:           cfg.ChunkLen,
		StoreOccupied:      true,
		StoreModifications: cfg.StoreModifications,
		Encode:             encodeQuadNode,
	})
	qt.data = NewDynamicArray[T](DynamicArrayConfig[T]{
		ChunkLen:           cfg.ChunkLen,
		StoreOccupied:      true,
		StoreModifications: cfg.StoreModifications,
		Encode: func(t T) []byte {
			return t.Serialize(false)
		},
	})
	qt.data.Append(def) // data index 0: the default value, never freed.
	qt.rootIndex = int64(qt.nodes.Append(Leaf(0)))
	return qt, nil
}

// Dimensions returns the world rectangle this tree covers.
func (qt *Quadtree[T]) Dimensions() Range2D { return qt.world }

// Height returns the tree's maximum subdivision depth.
func (qt *Quadtree[T]) Height() int { return qt.height }

// GetLength returns the current length (including holes) of the
// underlying tree and data arrays.
func (qt *Quadtree[T]) GetLength() (treeLength, dataLength int) {
	return qt.nodes.Len(), qt.data.Len()
}

// gridCoords unsigns p's coordinates into the [0, 2^height) addressing
// space the Morton interleave operates on, or reports that p lies outside
// the world.
func (qt *Quadtree[T]) gridCoords(p Vec2) (gx, gy uint64, ok bool) {
	if !qt.world.Contains(p) {
		return 0, 0, false
	}
	return Unsign(p.X, uint(qt.height)), Unsign(p.Y, uint(qt.height)), true
}

// internData returns the data index holding a value equal to tile,
// reusing an existing entry if one is live (data is deduplicated by value)
// or allocating a fresh slot otherwise.
func (qt *Quadtree[T]) internData(tile T) int64 {
	found := NoIndex
	qt.data.ForEachOccupied(func(i int, v T) bool {
		if v == tile {
			found = int64(i)
			return false
		}
		return true
	})
	if found != NoIndex {
		return found
	}
	return int64(qt.data.AppendFirstFree(tile))
}

// Set stores tile at the leaf cell containing p, splitting branches along
// the way as needed. Returns OutOfRange if p lies outside the world rect.
func (qt *Quadtree[T]) Set(p Vec2, tile T) error {
	gx, gy, ok := qt.gridCoords(p)
	if !ok {
		return newError(OutOfRange, "Quadtree.Set", "point outside world bounds")
	}
	z := Interleave(gx, gy)
	idx := qt.rootIndex
	for level := qt.height - 1; level >= 0; level-- {
		q := Quadrant(bitPair(z, level))
		idx = qt.descendOrSplit(idx, q)
	}
	return qt.writeLeaf(idx, tile)
}

// descendOrSplit returns the child index of q under the node at idx,
// converting a leaf into a branch first if necessary. A split leaf's four
// new children all inherit its existing data index directly (the value is
// already deduplicated at that slot, so no rescan or new allocation is
// needed just to propagate it downward).
func (qt *Quadtree[T]) descendOrSplit(idx int64, q Quadrant) int64 {
	node, err := qt.nodes.Get(int(idx))
	if err != nil {
		panic("quadworld: descendOrSplit on a removed node: " + err.Error())
	}
	if node.Kind == NodeLeaf {
		var children [4]int64
		for i := range children {
			children[i] = int64(qt.nodes.AppendFirstFree(Leaf(node.DataIndex)))
		}
		node = Branch(children)
		_ = qt.nodes.Set(int(idx), node)
	}
	return node.Children[q]
}

func (qt *Quadtree[T]) writeLeaf(idx int64, tile T) error {
	node, err := qt.nodes.Get(int(idx))
	if err != nil {
		return wrapError(InvalidIndex, "Quadtree.writeLeaf", "node missing", err)
	}
	if node.Kind != NodeLeaf {
		return newError(InvalidNodeType, "Quadtree.writeLeaf", "expected a leaf after full descent")
	}
	di := qt.internData(tile)
	return qt.nodes.Set(int(idx), Leaf(di))
}

// Get returns the tile stored at p and whether the cell differs from the
// tree's default. Returns OutOfRange if p lies outside the world rect.
func (qt *Quadtree[T]) Get(p Vec2) (T, bool, error) {
	var zero T
	gx, gy, ok := qt.gridCoords(p)
	if !ok {
		return zero, false, newError(OutOfRange, "Quadtree.Get", "point outside world bounds")
	}
	z := Interleave(gx, gy)
	idx := qt.rootIndex
	var node QuadtreeNode
	var err error
	for level := qt.height - 1; level >= 0; level-- {
		node, err = qt.nodes.Get(int(idx))
		if err != nil {
			return zero, false, wrapError(InvalidIndex, "Quadtree.Get", "node missing", err)
		}
		if node.Kind == NodeLeaf {
			break
		}
		q := Quadrant(bitPair(z, level))
		idx = node.Children[q]
	}
	if node.Kind != NodeLeaf {
		node, err = qt.nodes.Get(int(idx))
		if err != nil {
			return zero, false, wrapError(InvalidIndex, "Quadtree.Get", "node missing", err)
		}
	}
	tile, gerr := qt.data.Get(int(node.DataIndex))
	if gerr != nil {
		return qt.default_, false, nil
	}
	return tile, node.DataIndex != 0, nil
}

// SetRange assigns tile uniformly across every leaf cell overlapping r,
// collapsing any subtree fully covered by r into a single leaf rather than
// visiting every individual cell — the whole point of a region quadtree
// over a plain grid. A range disjoint from the world is a silent no-op.
func (qt *Quadtree[T]) SetRange(r Range2D, tile T) error {
	overlap, ok := r.Overlap(qt.world)
	if !ok {
		return nil
	}
	qt.setRange(qt.rootIndex, qt.world, overlap, tile)
	return nil
}

func (qt *Quadtree[T]) setRange(idx int64, nodeRange, target Range2D, tile T) {
	if target.ContainsRange(nodeRange) {
		qt.collapseToLeaf(idx, tile)
		return
	}
	node, err := qt.nodes.Get(int(idx))
	if err != nil {
		return
	}
	if node.Kind == NodeLeaf {
		var children [4]int64
		for i := range children {
			children[i] = int64(qt.nodes.AppendFirstFree(Leaf(node.DataIndex)))
		}
		node = Branch(children)
		_ = qt.nodes.Set(int(idx), node)
	}
	quarters := nodeRange.SplitIntoQuarters()
	for i, child := range node.Children {
		childRange := quarters[i]
		if ov, ok := target.Overlap(childRange); ok {
			qt.setRange(child, childRange, ov, tile)
		}
	}
}

// collapseToLeaf replaces the subtree at idx with a single leaf holding
// tile's deduplicated data index. It only detaches the old subtree's node
// indices immediately (nodes are never shared, so that is always safe);
// any data slot the old subtree referenced is reclaimed later by Compress's
// reachability sweep, since a value-deduplicated index might still be live
// elsewhere in the tree.
func (qt *Quadtree[T]) collapseToLeaf(idx int64, tile T) {
	node, err := qt.nodes.Get(int(idx))
	if err == nil && node.Kind == NodeBranch {
		for _, c := range node.Children {
			qt.freeSubtreeNodes(c)
		}
	}
	di := qt.internData(tile)
	_ = qt.nodes.Set(int(idx), Leaf(di))
}

// freeSubtreeNodes marks every node index under idx (idx included) as
// removed, without touching the data array — see collapseToLeaf.
func (qt *Quadtree[T]) freeSubtreeNodes(idx int64) {
	node, err := qt.nodes.Get(int(idx))
	if err != nil {
		return
	}
	if node.Kind == NodeBranch {
		for _, c := range node.Children {
			qt.freeSubtreeNodes(c)
		}
	}
	_ = qt.nodes.Remove(int(idx), false)
}

// Clear resets the tree to a single leaf covering the whole world and
// holding the default value. Both underlying arrays are cleared, returning
// their chunks to the pool, before the root and default entries are
// re-added at index 0.
func (qt *Quadtree[T]) Clear() {
	qt.nodes.Clear()
	qt.data.Clear()
	qt.data.Append(qt.default_)
	qt.rootIndex = int64(qt.nodes.Append(Leaf(0)))
}

// GetSubset descends from the real root into whichever single child
// wholly contains window, stopping once the current node's range is no
// larger than 2^maxDepth on a side, the current node is a leaf, or no
// child wholly contains window. It returns a copy of that node and the
// range it covers; it never mutates the tree.
func (qt *Quadtree[T]) GetSubset(window Range2D, maxDepth int) (QuadtreeNode, Range2D) {
	idx := qt.rootIndex
	nodeRange := qt.world
	minSide := Pow2(uint(maxDepth))
	for {
		node, err := qt.nodes.Get(int(idx))
		if err != nil {
			return Leaf(0), nodeRange
		}
		if node.Kind == NodeLeaf {
			return node, nodeRange
		}
		if sideAtMost(nodeRange.Width(), minSide) && sideAtMost(nodeRange.Height(), minSide) {
			return node, nodeRange
		}
		quarters := nodeRange.SplitIntoQuarters()
		next := NoIndex
		var nextRange Range2D
		for i, qr := range quarters {
			if qr.ContainsRange(window) {
				next = node.Children[i]
				nextRange = qr
				break
			}
		}
		if next == NoIndex {
			return node, nodeRange
		}
		idx, nodeRange = next, nextRange
	}
}

// Walk visits every live node in pre-order, branches before their
// children, supplementing GetSubset for callers that want the whole tree
// rather than one bounded-depth window (e.g. the SVG exporter). Return
// false from fn to stop early.
func (qt *Quadtree[T]) Walk(fn func(r Range2D, node QuadtreeNode) bool) {
	qt.walk(qt.rootIndex, qt.world, fn)
}

func (qt *Quadtree[T]) walk(idx int64, r Range2D, fn func(Range2D, QuadtreeNode) bool) bool {
	node, err := qt.nodes.Get(int(idx))
	if err != nil {
		return true
	}
	if !fn(r, node) {
		return false
	}
	if node.Kind == NodeBranch {
		quarters := r.SplitIntoQuarters()
		for i, c := range node.Children {
			if !qt.walk(c, quarters[i], fn) {
				return false
			}
		}
	}
	return true
}

// Compress collapses any branch whose four children are all leaves
// holding content-identical tiles into a single leaf, then performs a
// reachability sweep that frees any node or data slot no longer reachable
// from the root — recovering the garbage SetRange and Set leave behind
// when they replace a subtree's value without immediately freeing the old
// one (see collapseToLeaf). Data index 0, the default value, is never
// freed regardless of reachability.
func (qt *Quadtree[T]) Compress() error {
	qt.collapseUniform(qt.rootIndex)
	reachableNodes := make(map[int64]bool)
	reachableData := map[int64]bool{0: true}
	qt.markReachable(qt.rootIndex, reachableNodes, reachableData)
	qt.nodes.ForEachOccupied(func(i int, _ QuadtreeNode) bool {
		if !reachableNodes[int64(i)] {
			_ = qt.nodes.Remove(i, false)
		}
		return true
	})
	qt.data.ForEachOccupied(func(i int, _ T) bool {
		if !reachableData[int64(i)] {
			_ = qt.data.Remove(i, false)
		}
		return true
	})
	return nil
}

func (qt *Quadtree[T]) collapseUniform(idx int64) {
	node, err := qt.nodes.Get(int(idx))
	if err != nil || node.Kind != NodeBranch {
		return
	}
	for _, c := range node.Children {
		qt.collapseUniform(c)
	}
	node, err = qt.nodes.Get(int(idx))
	if err != nil || node.Kind != NodeBranch {
		return
	}
	var firstData int64 = NoIndex
	uniform := true
	for _, c := range node.Children {
		cn, gerr := qt.nodes.Get(int(c))
		if gerr != nil || cn.Kind != NodeLeaf {
			uniform = false
			break
		}
		if firstData == NoIndex {
			firstData = cn.DataIndex
		} else if cn.DataIndex != firstData {
			uniform = false
			break
		}
	}
	if !uniform {
		return
	}
	for _, c := range node.Children {
		qt.freeSubtreeNodes(c)
	}
	_ = qt.nodes.Set(int(idx), Leaf(firstData))
}

func (qt *Quadtree[T]) markReachable(idx int64, nodes, data map[int64]bool) {
	nodes[idx] = true
	node, err := qt.nodes.Get(int(idx))
	if err != nil {
		return
	}
	switch node.Kind {
	case NodeLeaf:
		data[node.DataIndex] = true
	case NodeBranch:
		for _, c := range node.Children {
			qt.markReachable(c, nodes, data)
		}
	}
}

// Stats returns a read-only snapshot of the tree's current size.
func (qt *Quadtree[T]) Stats() Stats {
	s := Stats{TreeHeight: qt.height}
	qt.statsWalk(qt.rootIndex, 0, &s, make(map[int64]bool))
	return s
}

func (qt *Quadtree[T]) statsWalk(idx int64, depth int, s *Stats, seenData map[int64]bool) {
	node, err := qt.nodes.Get(int(idx))
	if err != nil {
		return
	}
	s.NodeCount++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	switch node.Kind {
	case NodeLeaf:
		if node.DataIndex != 0 && !seenData[node.DataIndex] {
			seenData[node.DataIndex] = true
			s.DataCount++
		}
	case NodeBranch:
		for _, c := range node.Children {
			qt.statsWalk(c, depth+1, s, seenData)
		}
	}
}
