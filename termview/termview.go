// Package termview renders the simulation on a terminal character grid.
package termview

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/amoeba/camera"
	"github.com/pthm-cable/amoeba/components"
	"github.com/pthm-cable/amoeba/systems"
)

// Glyphs used on the grid.
const (
	GlyphOutline  = '#'
	GlyphCentroid = '+'
	GlyphFood     = 'o'
)

// View draws snapshots onto a tcell screen. Terminal cells are about twice
// as tall as they are wide, so the camera works in half-row units.
type View struct {
	screen tcell.Screen
	cam    *camera.Camera

	hudStyle tcell.Style
}

// New creates a view fitted to the current screen size.
func New(screen tcell.Screen, worldW, worldH float64) *View {
	cols, rows := screen.Size()
	return &View{
		screen:   screen,
		cam:      camera.New(float32(cols), float32(rows*2), float32(worldW), float32(worldH)),
		hudStyle: tcell.StyleDefault.Foreground(tcell.ColorYellow),
	}
}

// Camera returns the view camera.
func (v *View) Camera() *camera.Camera { return v.cam }

// Resize refits the camera after the terminal or the world changes size.
func (v *View) Resize(worldW, worldH float64) {
	cols, rows := v.screen.Size()
	v.cam.Resize(float32(cols), float32(rows*2))
	v.cam.SetWorld(float32(worldW), float32(worldH))
	v.cam.Fit()
}

// Draw renders one frame.
func (v *View) Draw(s systems.Snapshot) {
	v.screen.Clear()

	for _, f := range s.Foods {
		v.plot(f.Pos.X, f.Pos.Y, GlyphFood, style(f.Color))
	}

	for _, b := range s.Bodies {
		st := style(b.Color)
		n := len(b.Outline)
		for i := 0; i < n; i++ {
			a, c := b.Outline[i], b.Outline[(i+1)%n]
			v.line(a.X, a.Y, c.X, c.Y, st)
		}
		v.plot(b.Centroid.X, b.Centroid.Y, GlyphCentroid, st)
	}

	v.text(0, 0, fmt.Sprintf("tick %d  bodies %d  food %d  %.1f°C  [q] quit",
		s.Tick, len(s.Bodies), len(s.Foods), s.Temperature), v.hudStyle)

	v.screen.Show()
}

// cell maps a world point to a grid cell.
func (v *View) cell(wx, wy float64) (int, int) {
	sx, sy := v.cam.WorldToScreen(float32(wx), float32(wy))
	return int(math.Floor(float64(sx))), int(math.Floor(float64(sy) / 2))
}

func (v *View) plot(wx, wy float64, r rune, st tcell.Style) {
	x, y := v.cell(wx, wy)
	cols, rows := v.screen.Size()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return
	}
	v.screen.SetContent(x, y, r, nil, st)
}

// line steps from one world point to the other one cell at a time.
func (v *View) line(x0, y0, x1, y1 float64, st tcell.Style) {
	cx0, cy0 := v.cell(x0, y0)
	cx1, cy1 := v.cell(x1, y1)
	steps := max(abs(cx1-cx0), abs(cy1-cy0), 1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		v.plot(x0+(x1-x0)*t, y0+(y1-y0)*t, GlyphOutline, st)
	}
}

func (v *View) text(x, y int, s string, st tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, st)
		x++
	}
}

// HandleEvent processes one terminal event and reports whether the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event, worldW, worldH float64) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case '+', '=':
				v.cam.ZoomBy(1.25)
			case '-':
				v.cam.ZoomBy(0.8)
			case 'f':
				v.cam.Fit()
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
		v.Resize(worldW, worldH)
	}
	return false
}

// Run draws frames from step at the given rate until the user quits or ctx
// is cancelled. step advances the simulation and returns the frame to draw.
func (v *View) Run(ctx context.Context, fps int, step func() systems.Snapshot) error {
	if fps <= 0 {
		fps = 30
	}
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go v.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	s := step()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if v.HandleEvent(ev, s.Width, s.Height) {
				return nil
			}
		case <-ticker.C:
			s = step()
			v.Draw(s)
		}
	}
}

func style(c components.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
