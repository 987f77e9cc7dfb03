package demo

import "github.com/phanxgames/quadworld"

// GroundTile is the concrete Tile payload the demo stores in its
// Quadtree: a tileset GID plus the same GID-packed flip flags the
// teacher's tilemap.go uses for its Tiled-compatible layer data.
type GroundTile struct {
	GID   uint32
	FlipH bool
	FlipV bool
	FlipD bool
}

const (
	groundTileTag byte = 1

	flagFlipH uint32 = 1 << 31
	flagFlipV uint32 = 1 << 30
	flagFlipD uint32 = 1 << 29
	flagMask  uint32 = flagFlipH | flagFlipV | flagFlipD
)

// Serialize packs the tile into 5 bytes: the groundTileTag byte that
// TileRegistry.Decode dispatches on, then the raw GID with the flip bits
// folded back in, matching tilemap.go's on-wire GID convention.
func (t GroundTile) Serialize(big bool) []byte {
	gid := t.GID &^ flagMask
	if t.FlipH {
		gid |= flagFlipH
	}
	if t.FlipV {
		gid |= flagFlipV
	}
	if t.FlipD {
		gid |= flagFlipD
	}
	buf := make([]byte, 5)
	buf[0] = groundTileTag
	if big {
		buf[1] = byte(gid >> 24)
		buf[2] = byte(gid >> 16)
		buf[3] = byte(gid >> 8)
		buf[4] = byte(gid)
	} else {
		buf[1] = byte(gid)
		buf[2] = byte(gid >> 8)
		buf[3] = byte(gid >> 16)
		buf[4] = byte(gid >> 24)
	}
	return buf
}

// EncodedLen reports GroundTile's fixed on-wire width.
func (t GroundTile) EncodedLen() int { return 5 }

// DecodeGroundTile is the GroundTile TileDecoder, registered under
// groundTileTag in NewGroundTileRegistry. It receives the 4 GID bytes that
// follow the tag byte.
func DecodeGroundTile(buf []byte, big bool) (GroundTile, error) {
	if len(buf) < 4 {
		return GroundTile{}, quadworld.NewError(quadworld.MalformedFile, "demo.DecodeGroundTile", "truncated tile record")
	}
	var gid uint32
	if big {
		gid = uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	} else {
		gid = uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	}
	return GroundTile{
		GID:   gid &^ flagMask,
		FlipH: gid&flagFlipH != 0,
		FlipV: gid&flagFlipV != 0,
		FlipD: gid&flagFlipD != 0,
	}, nil
}

// NewGroundTileRegistry returns a TileRegistry ready to decode GroundTile
// save files.
func NewGroundTileRegistry() *quadworld.TileRegistry[GroundTile] {
	reg := quadworld.NewTileRegistry[GroundTile]()
	reg.Register(groundTileTag, DecodeGroundTile)
	return reg
}
