package viewer

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshview/pkg/mesh"
)

// fakeRenderer records every call the viewer makes.
type fakeRenderer struct {
	nextHandle  MaterialHandle
	nextTexture uint32

	created    []MaterialSpec
	recompiled map[MaterialHandle][]MaterialSpec
	released   []Texture
	draws      int
	lastScene  *RenderScene
	width      int
	height     int

	failCreate    bool
	failRecompile bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{recompiled: make(map[MaterialHandle][]MaterialSpec)}
}

func (r *fakeRenderer) CreateMaterial(spec MaterialSpec) (MaterialHandle, error) {
	if r.failCreate {
		return 0, errors.New("compile failed")
	}
	r.nextHandle++
	r.created = append(r.created, spec)
	return r.nextHandle, nil
}

func (r *fakeRenderer) RecompileMaterial(h MaterialHandle, spec MaterialSpec) error {
	if r.failRecompile {
		return errors.New("compile failed")
	}
	r.recompiled[h] = append(r.recompiled[h], spec)
	return nil
}

func (r *fakeRenderer) CreateTexture(img image.Image) (Texture, error) {
	r.nextTexture++
	b := img.Bounds()
	return Texture{ID: r.nextTexture, Width: b.Dx(), Height: b.Dy()}, nil
}

func (r *fakeRenderer) CreateCubeTexture(faces [6]image.Image) (Texture, error) {
	r.nextTexture++
	b := faces[0].Bounds()
	return Texture{ID: r.nextTexture, Cube: true, Width: b.Dx(), Height: b.Dy()}, nil
}

func (r *fakeRenderer) ReleaseTexture(t Texture) {
	r.released = append(r.released, t)
}

func (r *fakeRenderer) Draw(scene *RenderScene, cam Camera) {
	r.draws++
	r.lastScene = scene
}

func (r *fakeRenderer) Resize(width, height int) {
	r.width, r.height = width, height
}

// fakeCamera is a camera with a fixed view matrix.
type fakeCamera struct {
	view   mgl32.Mat4
	aspect float32
}

func (c *fakeCamera) ViewMatrix() mgl32.Mat4       { return c.view }
func (c *fakeCamera) ProjectionMatrix() mgl32.Mat4 { return mgl32.Ident4() }
func (c *fakeCamera) Position() mgl32.Vec3         { return c.view.Inv().Col(3).Vec3() }
func (c *fakeCamera) SetViewport(w, h int)         { c.aspect = float32(w) / float32(h) }

func newFakeCamera() *fakeCamera {
	return &fakeCamera{view: mgl32.Translate3D(0, 0, -5)}
}

// testContext builds a context with observed logging.
func testContext(t *testing.T, opts Options) (*Context, *fakeRenderer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	opts.Logger = zap.New(core)

	r := newFakeRenderer()
	ctx, err := NewContext(opts, r, newFakeCamera())
	require.NoError(t, err)
	return ctx, r, logs
}

func defaultOptions() Options {
	return Options{
		Displacement: true,
		Shading:      ShadingFlat,
		OverlayScale: 0.1,
		Toggles:      Toggles{Axes: true, Wireframe: true, Normals: false},
	}
}

// triangleMesh returns a non-indexed mesh with one triangle per part.
func triangleMesh(name string, parts int) *mesh.Mesh {
	m := &mesh.Mesh{Name: name}
	for i := 0; i < parts; i++ {
		off := float32(i)
		m.Parts = append(m.Parts, &mesh.Part{
			Name: name,
			Geometry: &mesh.Geometry{
				Positions: []mgl32.Vec3{{off, 0, 0}, {off + 1, 0, 0}, {off, 1, 0}},
				Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
				UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
			},
		})
	}
	return m
}

// quadMesh returns a two-triangle quad with duplicated corner vertices.
func quadMesh(name string) *mesh.Mesh {
	p := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	uv := []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 0}, {1, 1}, {0, 1}}
	n := make([]mgl32.Vec3, 6)
	for i := range n {
		n[i] = mgl32.Vec3{0, 0, 1}
	}
	return &mesh.Mesh{Name: name, Parts: []*mesh.Part{{Name: "quad", Geometry: &mesh.Geometry{Positions: p, Normals: n, UVs: uv}}}}
}
