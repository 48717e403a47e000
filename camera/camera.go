// Package camera provides a 2D camera system for viewport control.
package camera

// Camera controls the viewport into a bounded simulation world.
// Supports pan and zoom; the view center never leaves the world box.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen or terminal cells)
	ViewportW, ViewportH float32

	// World dimensions
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera that fits the whole world into the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   8.0,
	}
	c.updateMinZoom()
	c.Fit()
	return c
}

// FitZoom returns the largest zoom at which the whole world is visible.
func (c *Camera) FitZoom() float32 {
	if c.WorldW <= 0 || c.WorldH <= 0 {
		return 1
	}
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// updateMinZoom lets the user zoom out to half the fit level.
func (c *Camera) updateMinZoom() {
	c.MinZoom = c.FitZoom() / 2
}

// Fit centers the world and zooms so all of it is visible.
func (c *Camera) Fit() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.FitZoom()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// SetWorld updates the world size after a resize and keeps the center inside it.
func (c *Camera) SetWorld(worldW, worldH float32) {
	if worldW <= 0 || worldH <= 0 {
		return
	}
	c.WorldW = worldW
	c.WorldH = worldH
	c.updateMinZoom()
	c.X = clamp(c.X, 0, worldW)
	c.Y = clamp(c.Y, 0, worldH)
}

// Pan moves the camera by the given delta in screen pixels.
// The center is clamped to the world box.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.WorldW)
	c.Y = clamp(c.Y+dy/c.Zoom, 0, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the world point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X = clamp(c.X+wx-nx, 0, c.WorldW)
	c.Y = clamp(c.Y+wy-ny, 0, c.WorldH)
}

// Reset returns the camera to the fitted view.
func (c *Camera) Reset() {
	c.Fit()
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
// Returns (minX, minY, maxX, maxY) in world coordinates.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
