package quadworld

import (
	"testing"
	"time"
)

func TestHandoffTickThenDrain(t *testing.T) {
	qt, err := NewQuadtree[testTile](5, testTile{})
	if err != nil {
		t.Fatal(err)
	}
	h := NewHandoff[testTile](HandoffConfig{LockTimeout: 50 * time.Millisecond})

	if err := qt.Set(Vec2{0, 0}, testTile{V: 1}); err != nil {
		t.Fatal(err)
	}
	if err := h.Tick(qt); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	nodeMods, dataMods, ok, err := h.Drain()
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if !ok {
		t.Fatal("expected Drain to report available changes")
	}
	if len(nodeMods) == 0 && len(dataMods) == 0 {
		t.Fatal("expected at least one modification after a Set + Tick")
	}
}

func TestHandoffDrainTimesOutWithNothingPending(t *testing.T) {
	h := NewHandoff[testTile](HandoffConfig{LockTimeout: 10 * time.Millisecond})
	_, _, ok, err := h.Drain()
	if ok {
		t.Fatal("expected Drain to report no changes pending")
	}
	if err == nil {
		t.Fatal("expected a LockTimeout error")
	} else if e, isErr := err.(*Error); !isErr || e.Kind != LockTimeout {
		t.Fatalf("expected LockTimeout, got %v", err)
	}
}

// TestHandoffReplayIntoMirrorMatchesSource drives a handoff across several
// logic ticks, replays every drained modification into a pair of
// standalone mirror arrays exactly the way demo/main.go's render side
// does (Set(m.Index, m.Value), nothing else), and checks the mirror's
// content hash against the source tree's own arrays — not just that a
// drain happened, but that what it carried reproduces the source state.
func TestHandoffReplayIntoMirrorMatchesSource(t *testing.T) {
	qt, err := NewQuadtree[testTile](6, testTile{})
	if err != nil {
		t.Fatal(err)
	}
	h := NewHandoff[testTile](HandoffConfig{LockTimeout: 50 * time.Millisecond})

	nodeMirror := NewDynamicArray[QuadtreeNode](DynamicArrayConfig[QuadtreeNode]{
		ChunkLen:      4,
		StoreOccupied: true,
		Encode:        encodeQuadNode,
	})
	dataMirror := NewDynamicArray[testTile](DynamicArrayConfig[testTile]{
		ChunkLen:      4,
		StoreOccupied: true,
		Encode:        func(t testTile) []byte { return t.Serialize(false) },
	})

	writes := []Vec2{{1, 1}, {-3, 2}, {5, -5}, {0, 0}}
	for i, p := range writes {
		if err := qt.Set(p, testTile{V: uint32(i + 1)}); err != nil {
			t.Fatalf("Set(%v): %v", p, err)
		}
		if err := h.Tick(qt); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		nodeMods, dataMods, ok, err := h.Drain()
		if err != nil {
			t.Fatalf("Drain: %v", err)
		}
		if !ok {
			t.Fatal("expected Drain to report available changes")
		}
		for _, m := range dataMods {
			if err := dataMirror.Set(m.Index, m.Value); err != nil {
				t.Fatalf("dataMirror.Set: %v", err)
			}
		}
		for _, m := range nodeMods {
			if err := nodeMirror.Set(m.Index, m.Value); err != nil {
				t.Fatalf("nodeMirror.Set: %v", err)
			}
		}
	}

	wantNodeHash, err := qt.nodes.Hash()
	if err != nil {
		t.Fatalf("source node Hash: %v", err)
	}
	gotNodeHash, err := nodeMirror.Hash()
	if err != nil {
		t.Fatalf("mirror node Hash: %v", err)
	}
	mustEqual(t, gotNodeHash, wantNodeHash, "node array hash after replay")

	wantDataHash, err := qt.data.Hash()
	if err != nil {
		t.Fatalf("source data Hash: %v", err)
	}
	gotDataHash, err := dataMirror.Hash()
	if err != nil {
		t.Fatalf("mirror data Hash: %v", err)
	}
	mustEqual(t, gotDataHash, wantDataHash, "data array hash after replay")
}

func TestHandoffTickWithNoChangesIsNoop(t *testing.T) {
	qt, _ := NewQuadtree[testTile](5, testTile{})
	h := NewHandoff[testTile](HandoffConfig{LockTimeout: 10 * time.Millisecond})
	qt.nodes.ClearModifications()
	qt.data.ClearModifications()
	if err := h.Tick(qt); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	_, _, ok, _ := h.Drain()
	if ok {
		t.Fatal("expected Drain to find nothing pending after a no-op Tick")
	}
}
