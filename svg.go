package quadworld

import (
	"fmt"
	"io"
)

// SVGStyle controls how WriteSVG renders a tree: Fill is called for each
// occupied leaf to choose its fill color, and EmptyFill (if non-empty) is
// used for empty leaves; empty leaves with no EmptyFill are not drawn,
// only their occupied siblings are. BranchStroke, if non-empty, outlines
// every branch's own rectangle in addition to its descendants' leaves.
type SVGStyle[T Tile] struct {
	Fill         func(t T) string
	EmptyFill    string
	Stroke       string
	BranchStroke string
}

// WriteSVG renders qt as an SVG document to w, one <rect> per drawn leaf
// (occupied leaves, plus empty leaves when EmptyFill is set) and per branch
// when BranchStroke is set, built on top of Walk rather than GetSubset since a save-file
// preview wants the whole tree, not one bounded-depth window.
func (qt *Quadtree[T]) WriteSVG(w io.Writer, style SVGStyle[T]) error {
	if _, err := fmt.Fprintf(w, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"%d %d %d %d\">\n",
		qt.world.Min.X, qt.world.Min.Y, qt.world.Width(), qt.world.Height()); err != nil {
		return wrapError(MalformedFile, "Quadtree.WriteSVG", "failed to write header", err)
	}

	var writeErr error
	qt.Walk(func(r Range2D, node QuadtreeNode) bool {
		if writeErr != nil {
			return false
		}
		if node.Kind != NodeLeaf {
			if style.BranchStroke != "" {
				_, writeErr = fmt.Fprintf(w, "  <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"none\" stroke=\"%s\"/>\n",
					r.Min.X, r.Min.Y, r.Width(), r.Height(), style.BranchStroke)
			}
			return writeErr == nil
		}
		var fill string
		switch {
		case node.DataIndex == 0:
			if style.EmptyFill == "" {
				return true
			}
			fill = style.EmptyFill
		default:
			t, err := qt.data.Get(int(node.DataIndex))
			if err != nil {
				return true
			}
			if style.Fill == nil {
				return true
			}
			fill = style.Fill(t)
		}
		stroke := style.Stroke
		if stroke == "" {
			stroke = "none"
		}
		_, writeErr = fmt.Fprintf(w, "  <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\" stroke=\"%s\"/>\n",
			r.Min.X, r.Min.Y, r.Width(), r.Height(), fill, stroke)
		return writeErr == nil
	})
	if writeErr != nil {
		return wrapError(MalformedFile, "Quadtree.WriteSVG", "failed to write rect", writeErr)
	}

	if _, err := io.WriteString(w, "</svg>\n"); err != nil {
		return wrapError(MalformedFile, "Quadtree.WriteSVG", "failed to write footer", err)
	}
	return nil
}
