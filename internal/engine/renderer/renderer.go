// Package renderer draws the viewer scene with OpenGL 4.1 core.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
	"github.com/Faultbox/meshview/pkg/mesh"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
}

// DefaultClearColor is a dark blue-gray background.
var DefaultClearColor = [4]float32{0.1, 0.1, 0.15, 1.0}

// Renderer implements viewer.Renderer on the current OpenGL context.
type Renderer struct {
	config Config
	log    *zap.Logger

	programs   map[viewer.MaterialHandle]*program
	nextHandle viewer.MaterialHandle

	buffers map[*mesh.Geometry]*meshBuffers
	frame   uint64
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		programs: make(map[viewer.MaterialHandle]*program),
		buffers:  make(map[*mesh.Geometry]*meshBuffers),
	}
	if r.config.ClearColor == ([4]float32{}) {
		r.config.ClearColor = DefaultClearColor
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	c := r.config.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Close releases every program and buffer.
func (r *Renderer) Close() {
	r.log.Info("closing renderer",
		zap.Int("programs", len(r.programs)),
		zap.Int("buffers", len(r.buffers)))
	for h, p := range r.programs {
		p.prog.Delete()
		delete(r.programs, h)
	}
	for g, b := range r.buffers {
		b.delete()
		delete(r.buffers, g)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Draw renders the scene: opaque drawables first, then blended ones with
// depth writes off. Buffers of geometry no longer in the scene are freed.
func (r *Renderer) Draw(scene *viewer.RenderScene, cam viewer.Camera) {
	r.frame++
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	frame := frameUniforms{
		view:       cam.ViewMatrix(),
		projection: cam.ProjectionMatrix(),
		model:      mgl32.Ident4(),
	}
	frame.normal = normalMatrix(frame.view.Mul4(frame.model))

	opaque, blended := scene.Partition()
	for _, d := range opaque {
		r.drawOne(d, frame)
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, d := range blended {
		r.drawOne(d, frame)
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	gl.BindVertexArray(0)
	r.sweep()
}

func (r *Renderer) drawOne(d *viewer.Drawable, frame frameUniforms) {
	if d.Geometry == nil || d.Geometry.VertexCount() == 0 {
		return
	}
	p, ok := r.programs[d.Material.Handle]
	if !ok {
		r.log.Warn("drawable uses unknown material", zap.String("drawable", d.Name), zap.Stringer("material", d.Material.Kind))
		return
	}

	p.prog.Use()
	p.uploadFrame(frame)
	if d.Material.Dirty || !p.uploaded {
		p.uploadMaterial(d.Material)
		d.Material.Dirty = false
	}
	p.bindTextures()

	state := pipelineFor(p.spec)
	state.apply()
	defer state.reset()

	b := r.buffersFor(d.Geometry)
	b.draw(state.primitive)
}

// ReadPixels returns the default framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
