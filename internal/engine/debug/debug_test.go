package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAxesGeometry(t *testing.T) {
	g := AxesGeometry(1.5)

	if g.VertexCount() != AxesVertexCount {
		t.Fatalf("expected %d vertices, got %d", AxesVertexCount, g.VertexCount())
	}
	if len(g.Colors) != AxesVertexCount {
		t.Errorf("expected %d colors, got %d", AxesVertexCount, len(g.Colors))
	}
	if g.Positions[1] != (mgl32.Vec3{1.5, 0, 0}) {
		t.Errorf("expected X axis end (1.5,0,0), got %v", g.Positions[1])
	}
	if g.Positions[5] != (mgl32.Vec3{0, 0, 1.5}) {
		t.Errorf("expected Z axis end (0,0,1.5), got %v", g.Positions[5])
	}
	if g.Colors[3] != AxisColorY {
		t.Errorf("expected Y axis green, got %v", g.Colors[3])
	}
	if err := g.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "meshview")
	sc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue (GL order)
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("expected file in %s, got %s", dir, path)
	}
	if !strings.HasPrefix(filepath.Base(path), "meshview_2024-01-02_03-04-05") {
		t.Errorf("unexpected filename %s", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open screenshot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode screenshot: %v", err)
	}

	top := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	if top != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("expected blue on top after flip, got %v", top)
	}
}

func TestCaptureFromPixels_SizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "x")
	if _, err := sc.CaptureFromPixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
}
