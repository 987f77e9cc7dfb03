package quadworld

import (
	"io"
)

// headerLen is the fixed size of a save file's header: a 4-byte tree
// height, a 4-byte tile width, and an 8-byte node count.
const headerLen = 4 + 4 + 8

// Serialize renders qt to its binary save format: a fixed 16-byte header
// (height, the tile payload's fixed width, and the node count) followed by
// the full node array at quadNodeEncodedLen bytes per record, followed by
// the full data array written densely from index 0, each record exactly
// EncodedLen() bytes with no separating index or length field — a reader
// recovers the data array's own length from how many such records remain
// before EOF. Dead slots (cleared occupancy on either array) are still
// written in place so that surviving indices keep their positions across a
// save/load round trip; their byte content is unspecified. big selects the
// byte order used for every multi-byte field, header included.
func (qt *Quadtree[T]) Serialize(big bool) []byte {
	tileLen := qt.default_.EncodedLen()
	treeLength := qt.nodes.Len()
	dataLength := qt.data.Len()

	out := make([]byte, 0, headerLen+treeLength*quadNodeEncodedLen+dataLength*tileLen)

	var hdr [headerLen]byte
	putUint32(hdr[0:4], uint32(qt.height), big)
	putUint32(hdr[4:8], uint32(tileLen), big)
	putUint64(hdr[8:16], uint64(treeLength), big)
	out = append(out, hdr[:]...)

	for i := 0; i < treeLength; i++ {
		node, err := qt.nodes.Get(i)
		if err != nil {
			node = Leaf(0)
		}
		out = append(out, node.encode(big)...)
	}

	var zero T
	for i := 0; i < dataLength; i++ {
		tile, err := qt.data.Get(i)
		if err != nil {
			tile = zero
		}
		payload := tile.Serialize(big)
		out = append(out, payload...)
	}

	return out
}

// DeserializeQuadtree reads a save file produced by Serialize, reconstructing
// a Quadtree[T] with the original height, node layout, and tile contents.
// Endianness is not recorded in the file; the caller must pass the same big
// value used to produce it. decode reconstructs each T from its
// EncodedLen()-byte record (a *TileRegistry[T]'s Decode method, or any
// compatible TileDecoder, satisfies this).
func DeserializeQuadtree[T Tile](r io.Reader, big bool, decode TileDecoder[T], opts ...QuadtreeOption) (*Quadtree[T], error) {
	const op = "DeserializeQuadtree"

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, wrapError(MalformedFile, op, "failed to read header", err)
	}
	height := int(getUint32(header[0:4], big))
	tileLen := int(getUint32(header[4:8], big))
	treeLength := int(getUint64(header[8:16], big))

	if height < 2 || height > MaxHeight {
		return nil, newError(MalformedFile, op, "header height out of range")
	}
	if tileLen <= 0 {
		return nil, newError(MalformedFile, op, "header tile width must be positive")
	}
	if treeLength < 0 {
		return nil, newError(MalformedFile, op, "header node count is negative")
	}

	var zero T
	qt, err := NewQuadtree[T](height, zero, opts...)
	if err != nil {
		return nil, err
	}
	qt.nodes.Clear()
	qt.data.Clear()

	nodeBuf := make([]byte, quadNodeEncodedLen)
	qt.nodes.EnsureCapacity(treeLength)
	for i := 0; i < treeLength; i++ {
		if _, err := io.ReadFull(r, nodeBuf); err != nil {
			return nil, wrapError(MalformedFile, op, "failed to read node record", err)
		}
		node, derr := decodeQuadtreeNode(nodeBuf, big)
		if derr != nil {
			return nil, derr
		}
		_ = qt.nodes.Set(i, node)
	}
	qt.rootIndex = 0

	payload := make([]byte, tileLen)
	qt.data.EnsureCapacity(treeLength)
	dataLength := 0
	for {
		_, err := io.ReadFull(r, payload)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return nil, newError(MalformedFile, op, "truncated tile record")
		}
		if err != nil {
			return nil, wrapError(MalformedFile, op, "failed to read tile record", err)
		}
		tile, derr := decode(payload, big)
		if derr != nil {
			return nil, wrapError(MalformedFile, op, "failed to decode tile payload", derr)
		}
		_ = qt.data.Set(dataLength, tile)
		dataLength++
	}

	if dataLength > 0 {
		if def, derr := qt.data.Get(0); derr == nil {
			qt.default_ = def
		}
	}

	return qt, nil
}
