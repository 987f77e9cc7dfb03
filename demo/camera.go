package demo

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera drives the demo's view into the world. The teacher's own Camera
// type (camera.go) exposes raw ScaleX/ScaleY/X/Y fields for a host
// application to animate externally; gween is exactly that external
// driver, used here to glide the camera toward a target pan/zoom instead
// of snapping to it.
type Camera struct {
	X, Y  float64
	Scale float64

	panX, panY *gween.Tween
	zoom       *gween.Tween
}

// NewCamera creates a camera centred at the origin with no zoom applied.
func NewCamera() *Camera {
	return &Camera{Scale: 1}
}

// PanTo starts a tween from the camera's current position to (x, y) over
// durationSeconds, eased in/out.
func (c *Camera) PanTo(x, y float64, durationSeconds float32) {
	c.panX = gween.New(float32(c.X), float32(x), durationSeconds, ease.InOutQuad)
	c.panY = gween.New(float32(c.Y), float32(y), durationSeconds, ease.InOutQuad)
}

// ZoomTo starts a tween from the camera's current scale to target over
// durationSeconds, eased in/out.
func (c *Camera) ZoomTo(target float64, durationSeconds float32) {
	c.zoom = gween.New(float32(c.Scale), float32(target), durationSeconds, ease.InOutQuad)
}

// Update advances any in-flight tweens by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.panX != nil {
		x, finished := c.panX.Update(dt)
		c.X = float64(x)
		if finished {
			c.panX = nil
		}
	}
	if c.panY != nil {
		y, finished := c.panY.Update(dt)
		c.Y = float64(y)
		if finished {
			c.panY = nil
		}
	}
	if c.zoom != nil {
		s, finished := c.zoom.Update(dt)
		c.Scale = float64(s)
		if finished {
			c.zoom = nil
		}
	}
}
