package quadworld

import "golang.org/x/crypto/blake2b"

// Tile is the contract a concrete tile payload type must satisfy to be
// stored in a Quadtree[T]. It is deliberately minimal: comparable so
// DynamicArray content-equality and the tree's data array can use Go's
// built-in equality, and Serialize/EncodedLen so the tree can persist and
// content-hash it without reflection. Decoding is the inverse operation
// but is not a Tile method — Go generics make a self-describing
// "construct a T from bytes" method awkward, so decoding is supplied
// externally as a plain function (see TileDecoder), the same way the tree
// itself never constructs a T on its own.
type Tile interface {
	comparable

	// Serialize renders the tile to its canonical byte form, always
	// exactly EncodedLen() bytes long. big selects the byte order,
	// matching the encoding flag of the containing save file.
	Serialize(big bool) []byte

	// EncodedLen returns the fixed number of bytes Serialize always
	// produces for this tile kind.
	EncodedLen() int
}

// TileDecoder reconstructs a T from its serialized bytes, the inverse of
// Tile.Serialize, with the same endianness flag.
type TileDecoder[T Tile] func(buf []byte, big bool) (T, error)

// ContentHash returns the BLAKE2b-256 digest of t's serialized form, for
// any caller wanting to compare tiles by content rather than by Go
// equality. With big == false it equals the per-element digest
// DynamicArray.Hash computes for a Quadtree's data array, whose Encode is
// Serialize(false).
func ContentHash[T Tile](t T, big bool) [32]byte {
	return blake2b.Sum256(t.Serialize(big))
}

// TileRegistry dispatches decoding across several concrete encodings that
// share one save file's tile kind, keyed by a leading tag byte each
// registered decoder is responsible for interpreting consistently with
// its own Serialize implementation. This is a one-byte specialisation of a
// string-keyed registry: since every tile in a file already shares one
// fixed encoded width, a single tag byte carved out of that width is
// enough to identify its kind, and avoids a variable-length id colliding
// with the fixed-width wire contract. The tree itself has no notion of a
// registry — this is an out-of-core-scope collaborator, shipped here as a
// usable default.
type TileRegistry[T Tile] struct {
	decoders map[byte]TileDecoder[T]
}

// NewTileRegistry constructs an empty TileRegistry.
func NewTileRegistry[T Tile]() *TileRegistry[T] {
	return &TileRegistry[T]{decoders: make(map[byte]TileDecoder[T])}
}

// Register associates tag with decoder. A later call with the same tag
// replaces the previous decoder (idempotent overwrite, the caller's
// choice).
func (r *TileRegistry[T]) Register(tag byte, decoder TileDecoder[T]) {
	r.decoders[tag] = decoder
}

// Decode reads buf[0] as a type tag, dispatches to the matching registered
// decoder with buf[1:], and returns MalformedFile if no decoder is
// registered for that tag or buf is empty.
func (r *TileRegistry[T]) Decode(buf []byte, big bool) (T, error) {
	var zero T
	if len(buf) < 1 {
		return zero, newError(MalformedFile, "TileRegistry.Decode", "empty tile record")
	}
	decoder, ok := r.decoders[buf[0]]
	if !ok {
		return zero, newError(MalformedFile, "TileRegistry.Decode", "no decoder registered for tile tag")
	}
	return decoder(buf[1:], big)
}
