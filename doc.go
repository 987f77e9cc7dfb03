// Package quadworld is a region quadtree for an "infinite" 2D tile world.
//
// It compresses uniform rectangular regions into single leaves, streams
// incremental edits to a render thread through a small handoff protocol,
// and serialises to and from a compact binary format. The tree and its two
// backing arrays (nodes and tile data) are addressed by stable index
// rather than pointer, so outstanding indices survive soft deletes and a
// reader can mirror only what changed since its last drain.
//
// Full documentation, tutorials, and examples are available at:
//
// https://github.com/phanxgames/quadworld
//
// # Quick start
//
//	qt, err := quadworld.NewQuadtree[MyTile](6, MyTile{})
//	if err != nil {
//		// height out of [2, 64]
//	}
//	qt.Set(quadworld.Vec2{X: 0, Y: 0}, MyTile{GID: 4})
//	tile, occupied, err := qt.Get(quadworld.Vec2{X: 0, Y: 0})
package quadworld
