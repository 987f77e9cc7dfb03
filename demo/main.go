// Command demo is a minimal ebiten front end for a quadworld.Quadtree: it
// owns the tree on the logic side, drives a quadworld.Handoff once per
// update, and renders whatever the render side last drained from it.
package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/quadworld"
	"github.com/phanxgames/quadworld/demo"
)

const (
	screenWidth  = 960
	screenHeight = 640
	tileSize     = 8
)

// mirrorTile is what the render side keeps per occupied data index: just
// enough to pick a fill color without re-decoding the tile's GID every
// frame.
type mirrorTile struct {
	color color.RGBA
}

// game is the ebiten.Game implementation. It owns the quadtree and ticks
// the handoff once per Update, then paints the mirrored node/data arrays
// once per Draw.
type game struct {
	qt     *quadworld.Quadtree[demo.GroundTile]
	handoff *quadworld.Handoff[demo.GroundTile]
	camera  *demo.Camera

	// nodeMirror/dataMirror are the render side's own copy of the tree's
	// node and data arrays, replayed from the modification logs Drain
	// returns rather than read directly from qt — the whole point of the
	// handoff is that the render side never reads qt's node or data arrays
	// (Draw only asks qt for its fixed world rectangle).
	nodeMirror []quadworld.QuadtreeNode
	dataMirror []mirrorTile

	frame int
}

func newGame() *game {
	qt, err := quadworld.NewQuadtree[demo.GroundTile](8, demo.GroundTile{})
	if err != nil {
		log.Fatalf("quadworld.NewQuadtree: %v", err)
	}
	g := &game{
		qt:      qt,
		handoff: quadworld.NewHandoff[demo.GroundTile](quadworld.HandoffConfig{}),
		camera:  demo.NewCamera(),
	}
	g.camera.ZoomTo(4, 1.5)
	g.seed()
	return g
}

// seed paints a small checkerboard so the demo has something to render
// without requiring interactive input.
func (g *game) seed() {
	for y := int64(-16); y < 16; y++ {
		for x := int64(-16); x < 16; x++ {
			if (x+y)%2 != 0 {
				continue
			}
			gid := uint32(1)
			if (x/4+y/4)%2 == 0 {
				gid = 2
			}
			_ = g.qt.Set(quadworld.Vec2{X: x, Y: y}, demo.GroundTile{GID: gid})
		}
	}
}

func (g *game) Update() error {
	g.frame++
	g.camera.Update(1.0 / 60.0)

	if g.frame%30 == 0 {
		if err := g.qt.Compress(); err != nil {
			return fmt.Errorf("compress: %w", err)
		}
	}
	if err := g.handoff.Tick(g.qt); err != nil {
		return fmt.Errorf("handoff tick: %w", err)
	}
	g.drain()
	return nil
}

// drain pulls whatever changed since the last frame and replays it into
// the render-side mirror arrays, growing them as needed. It never reads
// from g.qt.
func (g *game) drain() {
	nodeMods, dataMods, ok, err := g.handoff.Drain()
	if err != nil || !ok {
		return
	}
	for _, m := range dataMods {
		for len(g.dataMirror) <= m.Index {
			g.dataMirror = append(g.dataMirror, mirrorTile{})
		}
		g.dataMirror[m.Index] = mirrorTile{color: gidColor(m.Value.GID)}
	}
	for _, m := range nodeMods {
		for len(g.nodeMirror) <= m.Index {
			g.nodeMirror = append(g.nodeMirror, quadworld.QuadtreeNode{})
		}
		g.nodeMirror[m.Index] = m.Value
	}
}

func gidColor(gid uint32) color.RGBA {
	if gid == 2 {
		return color.RGBA{60, 140, 60, 255}
	}
	return color.RGBA{90, 90, 160, 255}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 24, 255})

	world := g.qt.Dimensions()
	g.walkMirror(int64(g.rootIndex()), world, screen)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("frame %d  zoom %.2f", g.frame, g.camera.Scale), 8, 8)
}

// rootIndex mirrors the tree's own root, which is always index 0 by
// construction (Quadtree never reassigns its root during a resize, only a
// fresh Clear/New).
func (g *game) rootIndex() int { return 0 }

func (g *game) walkMirror(idx int64, r quadworld.Range2D, screen *ebiten.Image) {
	if idx < 0 || int(idx) >= len(g.nodeMirror) {
		return
	}
	node := g.nodeMirror[idx]
	switch node.Kind {
	case quadworld.NodeLeaf:
		if node.DataIndex == 0 || int(node.DataIndex) >= len(g.dataMirror) {
			return
		}
		g.drawRect(screen, r, g.dataMirror[node.DataIndex].color)
	case quadworld.NodeBranch:
		quarters := r.SplitIntoQuarters()
		for i, c := range node.Children {
			g.walkMirror(c, quarters[i], screen)
		}
	}
}

func (g *game) drawRect(screen *ebiten.Image, r quadworld.Range2D, col color.RGBA) {
	scale := g.camera.Scale
	x := (float64(r.Min.X)*tileSize-g.camera.X)*scale + screenWidth/2
	y := (float64(r.Min.Y)*tileSize-g.camera.Y)*scale + screenHeight/2
	w := float64(r.Width()) * tileSize * scale
	h := float64(r.Height()) * tileSize * scale
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), col, false)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("quadworld demo")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
