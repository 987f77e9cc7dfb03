package quadworld

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteSVGProducesWellFormedDocument(t *testing.T) {
	qt, _ := NewQuadtree[testTile](4, testTile{})
	_ = qt.Set(Vec2{0, 0}, testTile{V: 1})

	var buf bytes.Buffer
	style := SVGStyle[testTile]{
		Fill:      func(t testTile) string { return "#000000" },
		EmptyFill: "#ffffff",
		Stroke:    "#cccccc",
	}
	if err := qt.WriteSVG(&buf, style); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") {
		t.Fatal("expected document to start with an <svg> tag")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Fatal("expected document to end with </svg>")
	}
	if !strings.Contains(out, "<rect") {
		t.Fatal("expected at least one <rect> for the occupied leaf")
	}
}

func TestWriteSVGDrawsBranchOutlines(t *testing.T) {
	qt, _ := NewQuadtree[testTile](4, testTile{})
	_ = qt.Set(Vec2{0, 0}, testTile{V: 1})
	_ = qt.Set(Vec2{-5, -5}, testTile{V: 2})

	var buf bytes.Buffer
	style := SVGStyle[testTile]{
		Fill:         func(t testTile) string { return "#000000" },
		BranchStroke: "#ff00ff",
	}
	if err := qt.WriteSVG(&buf, style); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	if !strings.Contains(buf.String(), "#ff00ff") {
		t.Fatal("expected a branch outline drawn with BranchStroke's color")
	}
}

func TestWriteSVGSkipsEmptyLeavesWithoutEmptyFill(t *testing.T) {
	qt, _ := NewQuadtree[testTile](4, testTile{})
	var buf bytes.Buffer
	style := SVGStyle[testTile]{Fill: func(t testTile) string { return "#000" }}
	if err := qt.WriteSVG(&buf, style); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<rect") {
		t.Fatal("expected no rects for an all-default tree with no EmptyFill")
	}
}
