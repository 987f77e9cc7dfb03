package quadworld

import "testing"

func TestQuadtreeNodeEncodeDecodeLeaf(t *testing.T) {
	for _, big := range []bool{true, false} {
		n := Leaf(12345)
		buf := n.encode(big)
		mustEqual(t, len(buf), quadNodeEncodedLen, "encoded leaf length")
		got, err := decodeQuadtreeNode(buf, big)
		if err != nil {
			t.Fatal(err)
		}
		mustEqual(t, got.Kind, NodeLeaf, "decoded kind")
		mustEqual(t, got.DataIndex, int64(12345), "decoded data index")
	}
}

func TestQuadtreeNodeEncodeDecodeBranch(t *testing.T) {
	n := Branch([4]int64{1, 2, 3, 4})
	buf := n.encode(true)
	got, err := decodeQuadtreeNode(buf, true)
	if err != nil {
		t.Fatal(err)
	}
	mustEqual(t, got.Kind, NodeBranch, "decoded kind")
	mustEqual(t, got.Children, [4]int64{1, 2, 3, 4}, "decoded children")
}

func TestQuadtreeNodeTagWireValues(t *testing.T) {
	// The wire contract fixes 0 = Branch, 1 = Leaf.
	mustEqual(t, uint32(NodeBranch), uint32(0), "NodeBranch wire value")
	mustEqual(t, uint32(NodeLeaf), uint32(1), "NodeLeaf wire value")
}

func TestQuadtreeNodeDecodeRejectsTruncated(t *testing.T) {
	if _, err := decodeQuadtreeNode(make([]byte, 10), false); err == nil {
		t.Fatal("expected an error decoding a truncated node record")
	}
}

func TestQuadtreeNodeChildPanicsOnLeaf(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Child to panic when called on a leaf")
		}
	}()
	Leaf(0).Child(QuadBL)
}
