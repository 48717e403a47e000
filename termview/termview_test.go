package termview

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/amoeba/systems"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(80, 30)
	t.Cleanup(s.Fini)
	return s
}

func snapshot(t *testing.T) systems.Snapshot {
	t.Helper()
	w, err := systems.NewWorld(800, 600, systems.DefaultWorldParams(), &systems.SequenceRand{Values: []float64{0.5}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	w.AddFood(r2.Vec{X: 100, Y: 100})
	return w.Snapshot()
}

// count returns how many grid cells below the HUD row hold r.
func count(s tcell.Screen, r rune) int {
	cols, rows := s.Size()
	n := 0
	for y := 1; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if c, _, _, _ := s.GetContent(x, y); c == r {
				n++
			}
		}
	}
	return n
}

func TestDrawPlotsBodiesAndFood(t *testing.T) {
	screen := newScreen(t)
	v := New(screen, 800, 600)

	v.Draw(snapshot(t))

	if count(screen, GlyphFood) != 1 {
		t.Errorf("expected one food glyph, got %d", count(screen, GlyphFood))
	}
	if fx, fy := v.cell(100, 100); fy == 0 {
		t.Fatalf("food cell (%d,%d) is hidden under the HUD", fx, fy)
	} else if c, _, _, _ := screen.GetContent(fx, fy); c != GlyphFood {
		t.Errorf("food cell (%d,%d) holds %q", fx, fy, c)
	}
	if count(screen, GlyphCentroid) != 1 {
		t.Errorf("expected one centroid glyph, got %d", count(screen, GlyphCentroid))
	}
	if n := count(screen, GlyphOutline); n < 8 {
		t.Errorf("outline drew only %d cells", n)
	}

	// The body sits in the middle of an 800x600 world: centroid near the
	// middle column.
	cols, _ := screen.Size()
	x, y := v.cell(400, 300)
	if c, _, _, _ := screen.GetContent(x, y); c != GlyphCentroid {
		t.Errorf("centroid cell (%d,%d) holds %q", x, y, c)
	}
	if x < cols/2-2 || x > cols/2+2 {
		t.Errorf("centroid column %d not near the center of %d", x, cols)
	}

	// HUD on the first row.
	if c, _, _, _ := screen.GetContent(0, 0); c != 't' {
		t.Errorf("HUD missing, got %q", c)
	}
}

func TestPlotClipsOffscreen(t *testing.T) {
	screen := newScreen(t)
	v := New(screen, 800, 600)
	v.cam.SetZoom(4)

	// Must not panic on points far outside the grid.
	v.plot(-1000, -1000, 'x', tcell.StyleDefault)
	v.plot(5000, 5000, 'x', tcell.StyleDefault)
	if count(screen, 'x') != 0 {
		t.Error("offscreen points should be clipped")
	}
}

func TestHandleEvent(t *testing.T) {
	screen := newScreen(t)
	v := New(screen, 800, 600)

	if v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 800, 600) {
		t.Error("'x' should not quit")
	}

	z := v.cam.Zoom
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone), 800, 600)
	if v.cam.Zoom <= z {
		t.Errorf("'+' did not zoom in: %v -> %v", z, v.cam.Zoom)
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone), 800, 600)
	if v.cam.Zoom != z {
		t.Errorf("'f' did not refit: %v", v.cam.Zoom)
	}

	if !v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), 800, 600) {
		t.Error("'q' should quit")
	}
	if !v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), 800, 600) {
		t.Error("Esc should quit")
	}
}

func TestResizeRefits(t *testing.T) {
	screen := newScreen(t)
	v := New(screen, 800, 600)

	screen.SetSize(160, 60)
	v.HandleEvent(tcell.NewEventResize(160, 60), 1600, 1200)

	if v.cam.ViewportW != 160 || v.cam.ViewportH != 120 {
		t.Errorf("viewport = %vx%v", v.cam.ViewportW, v.cam.ViewportH)
	}
	if v.cam.WorldW != 1600 || v.cam.X != 800 {
		t.Errorf("world %v center %v", v.cam.WorldW, v.cam.X)
	}
}
