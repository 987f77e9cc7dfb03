package quadworld

import (
	"bytes"
	"testing"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	for _, big := range []bool{true, false} {
		qt, err := NewQuadtree[testTile](5, testTile{V: 0})
		if err != nil {
			t.Fatal(err)
		}
		if err := qt.Set(Vec2{1, 1}, testTile{V: 11}); err != nil {
			t.Fatal(err)
		}
		if err := qt.Set(Vec2{-1, -1}, testTile{V: 22}); err != nil {
			t.Fatal(err)
		}

		data := qt.Serialize(big)

		got, err := DeserializeQuadtree[testTile](bytes.NewReader(data), big, decodeTestTile)
		if err != nil {
			t.Fatalf("big=%v: DeserializeQuadtree: %v", big, err)
		}

		mustEqual(t, got.Height(), qt.Height(), "height preserved")

		for _, p := range []Vec2{{0, 0}, {1, 1}, {-1, -1}} {
			wantTile, wantOccupied, werr := qt.Get(p)
			gotTile, gotOccupied, gerr := got.Get(p)
			if werr != nil || gerr != nil {
				t.Fatalf("big=%v: Get(%v): want err %v, got err %v", big, p, werr, gerr)
			}
			if wantOccupied != gotOccupied || wantTile.V != gotTile.V {
				t.Fatalf("big=%v: Get(%v): want (%v,%v), got (%v,%v)", big, p, wantTile, wantOccupied, gotTile, gotOccupied)
			}
		}
	}
}

func TestSerializeFileSizeMatchesFormula(t *testing.T) {
	qt, _ := NewQuadtree[testTile](5, testTile{})
	_ = qt.Set(Vec2{1, 1}, testTile{V: 1})
	_ = qt.Set(Vec2{2, 2}, testTile{V: 2})

	data := qt.Serialize(false)
	treeLength, dataLength := qt.GetLength()
	want := headerLen + treeLength*quadNodeEncodedLen + dataLength*testTile{}.EncodedLen()
	mustEqual(t, len(data), want, "serialized file size")
}

func TestDeserializeRejectsTruncatedHeader(t *testing.T) {
	_, err := DeserializeQuadtree[testTile](bytes.NewReader([]byte{1, 2, 3}), false, decodeTestTile)
	if err == nil {
		t.Fatal("expected an error for a truncated header")
	}
}

func TestDeserializeRejectsBadHeight(t *testing.T) {
	var hdr [headerLen]byte
	putUint32(hdr[0:4], 200, false) // height far out of [2, 64]
	putUint32(hdr[4:8], 4, false)
	putUint64(hdr[8:16], 0, false)
	_, err := DeserializeQuadtree[testTile](bytes.NewReader(hdr[:]), false, decodeTestTile)
	if err == nil {
		t.Fatal("expected an error for an out-of-range header height")
	}
}
