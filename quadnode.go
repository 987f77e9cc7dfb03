package quadworld

// NodeKind distinguishes the two shapes a QuadtreeNode can take. The wire
// values are 0 = Branch, 1 = Leaf.
type NodeKind uint32

const (
	// NodeBranch holds four child indices into the tree's own node array.
	NodeBranch NodeKind = iota
	// NodeLeaf holds a single data index. A Quadtree's unwritten cells
	// reference data index 0 (the default value), not NoIndex.
	NodeLeaf
)

// NoIndex marks an absent child or data reference (the zero value is a
// valid index, so an out-of-band sentinel is needed rather than 0).
const NoIndex int64 = -1

// quadNodeEncodedLen is the fixed width of one QuadtreeNode on disk: a
// 4-byte tag followed by four 8-byte int64 fields (36 bytes total). A
// leaf only populates the first of the four 8-byte fields; the remaining
// 24 bytes are zero-initialised padding.
const quadNodeEncodedLen = 36

// QuadtreeNode is a single node of the region quadtree's node array: a
// tagged union of Leaf (a data reference) and Branch (four children),
// addressed by stable index rather than pointer so the owning tree can
// serialise, pool, and soft-delete nodes uniformly.
type QuadtreeNode struct {
	Kind NodeKind

	// DataIndex is valid only when Kind == NodeLeaf: the index into the
	// tree's data DynamicArray. Quadtree never writes NoIndex here.
	DataIndex int64

	// Children is valid only when Kind == NodeBranch, ordered QuadBL,
	// QuadBR, QuadTL, QuadTR (matching Quadrant and Range2D.SplitIntoQuarters).
	Children [4]int64
}

// Leaf constructs a NodeLeaf referencing dataIndex.
func Leaf(dataIndex int64) QuadtreeNode {
	return QuadtreeNode{Kind: NodeLeaf, DataIndex: dataIndex}
}

// Branch constructs a NodeBranch with the given four children.
func Branch(children [4]int64) QuadtreeNode {
	return QuadtreeNode{Kind: NodeBranch, Children: children}
}

// Child returns the child index for q. Panics if n is not a branch — this
// is an internal invariant violation, never a caller data-entry mistake.
func (n QuadtreeNode) Child(q Quadrant) int64 {
	if n.Kind != NodeBranch {
		panic("quadworld: Child called on a non-branch node")
	}
	return n.Children[q]
}

// Empty reports whether n is a leaf whose data reference is NoIndex. A
// Quadtree's default-valued cells reference data index 0, so Empty is false
// for them.
func (n QuadtreeNode) Empty() bool {
	return n.Kind == NodeLeaf && n.DataIndex == NoIndex
}

// encode renders n into the fixed quadNodeEncodedLen-byte wire format, big
// controlling byte order exactly as serialize.go's header flag dictates.
func (n QuadtreeNode) encode(big bool) []byte {
	buf := make([]byte, quadNodeEncodedLen)
	putUint32(buf[0:4], uint32(n.Kind), big)
	switch n.Kind {
	case NodeLeaf:
		putInt64(buf[4:12], n.DataIndex, big)
	case NodeBranch:
		for i, c := range n.Children {
			putInt64(buf[4+8*i:12+8*i], c, big)
		}
	}
	return buf
}

// decodeQuadtreeNode is the exact inverse of encode. It returns
// MalformedFile if buf is short or its tag is unrecognised.
func decodeQuadtreeNode(buf []byte, big bool) (QuadtreeNode, error) {
	if len(buf) < quadNodeEncodedLen {
		return QuadtreeNode{}, newError(MalformedFile, "decodeQuadtreeNode", "truncated node record")
	}
	switch NodeKind(getUint32(buf[0:4], big)) {
	case NodeLeaf:
		return QuadtreeNode{Kind: NodeLeaf, DataIndex: getInt64(buf[4:12], big)}, nil
	case NodeBranch:
		var n QuadtreeNode
		n.Kind = NodeBranch
		for i := range n.Children {
			n.Children[i] = getInt64(buf[4+8*i:12+8*i], big)
		}
		return n, nil
	default:
		return QuadtreeNode{}, newError(MalformedFile, "decodeQuadtreeNode", "unrecognised node tag")
	}
}

// encodeQuadNode renders n to little-endian bytes; matches the
// DynamicArrayConfig[QuadtreeNode].Encode signature so the tree's node
// array can compute a content Hash.
func encodeQuadNode(n QuadtreeNode) []byte { return n.encode(false) }
