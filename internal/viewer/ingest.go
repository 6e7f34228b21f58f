package viewer

import (
	"errors"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/mesh"
)

// ErrUnknownFileType is returned for dropped files that are neither a mesh
// nor an image.
var ErrUnknownFileType = errors.New("unknown file type")

// ErrNoTextureTarget is returned for dropped images when no sampler uniform
// is configured to receive them.
var ErrNoTextureTarget = errors.New("no texture target uniform")

// MeshDecoder parses raw mesh file bytes.
type MeshDecoder interface {
	Decode(name string, data []byte) (*mesh.Mesh, error)
}

// MeshDecoderFunc adapts a function to MeshDecoder.
type MeshDecoderFunc func(name string, data []byte) (*mesh.Mesh, error)

// Decode calls f.
func (f MeshDecoderFunc) Decode(name string, data []byte) (*mesh.Mesh, error) {
	return f(name, data)
}

// TextureDecoder decodes image bytes and cube map directories.
type TextureDecoder interface {
	Decode(name string, data []byte) (image.Image, error)
	DecodeCube(dir string) ([6]image.Image, error)
}

type defaultTextureDecoder struct{}

func (defaultTextureDecoder) Decode(name string, data []byte) (image.Image, error) {
	return texture.Decode(name, data)
}

func (defaultTextureDecoder) DecodeCube(dir string) ([6]image.Image, error) {
	return texture.LoadCubeFaces(dir, ".jpg")
}

// Bridge turns dropped files into viewer updates. Decoding runs on background
// goroutines; results are applied on the main thread through the context's
// event queue. Each request is tagged with a generation and a completion
// whose generation is no longer current is discarded.
//
// DropFile and LoadEnvironmentMap must be called from the main thread.
type Bridge struct {
	ctx    *Context
	log    *zap.Logger
	meshes MeshDecoder
	images TextureDecoder

	// TextureTarget is the sampler uniform receiving dropped images.
	TextureTarget string
	// OnMeshLoaded runs on the main thread after a mesh replaces the scene.
	// source is the name the mesh was dropped with.
	OnMeshLoaded func(source string, m *mesh.Mesh)

	texGen map[string]uint64
	envGen uint64

	wg sync.WaitGroup
}

// NewBridge creates a bridge using the OBJ and image decoders.
func NewBridge(ctx *Context, textureTarget string) *Bridge {
	return &Bridge{
		ctx:           ctx,
		log:           ctx.log.Named("ingest"),
		meshes:        MeshDecoderFunc(formats.ParseOBJ),
		images:        defaultTextureDecoder{},
		TextureTarget: textureTarget,
		texGen:        make(map[string]uint64),
	}
}

// SetMeshDecoder replaces the mesh decoder.
func (b *Bridge) SetMeshDecoder(d MeshDecoder) { b.meshes = d }

// SetTextureDecoder replaces the image decoder.
func (b *Bridge) SetTextureDecoder(d TextureDecoder) { b.images = d }

// MeshGeneration returns the generation of the latest mesh request.
func (b *Bridge) MeshGeneration() uint64 { return b.ctx.MeshGeneration() }

// DropFile dispatches a dropped file by extension and content: ".obj" files
// load as the mesh, images go to the texture target, anything else is
// logged and rejected with ErrUnknownFileType.
func (b *Bridge) DropFile(name string, data []byte) error {
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case ext == ".obj":
		b.loadMesh(name, data)
		return nil
	case ext == ".tga" || filetype.IsImage(data):
		if b.TextureTarget == "" {
			b.log.Warn("dropped image ignored", zap.String("file", name), zap.Error(ErrNoTextureTarget))
			return ErrNoTextureTarget
		}
		b.loadTexture(name, data, b.TextureTarget)
		return nil
	}

	kind, _ := filetype.Match(data)
	b.log.Warn("unknown file type",
		zap.String("file", name),
		zap.String("extension", ext),
		zap.String("mime", kind.MIME.Value))
	return ErrUnknownFileType
}

func (b *Bridge) loadMesh(name string, data []byte) {
	gen := b.ctx.nextMeshGeneration()
	b.log.Debug("decoding mesh", zap.String("file", name), zap.Uint64("generation", gen))

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		m, err := b.meshes.Decode(filepath.Base(name), data)
		if err != nil {
			b.log.Error("cannot decode mesh", zap.String("file", name), zap.Error(err))
			return
		}

		b.ctx.events.Post(func() {
			if b.ctx.loadMeshGeneration(m, gen) && b.OnMeshLoaded != nil {
				b.OnMeshLoaded(name, m)
			}
		})
	}()
}

func (b *Bridge) loadTexture(name string, data []byte, uniform string) {
	b.texGen[uniform]++
	gen := b.texGen[uniform]

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		img, err := b.images.Decode(name, data)
		if err != nil {
			b.log.Error("cannot decode texture", zap.String("file", name), zap.Error(err))
			return
		}

		b.ctx.events.Post(func() {
			if gen != b.texGen[uniform] {
				b.log.Info("discarding stale texture", zap.String("file", name), zap.String("uniform", uniform))
				return
			}
			tex, err := b.ctx.renderer.CreateTexture(img)
			if err != nil {
				b.log.Error("cannot upload texture", zap.String("file", name), zap.Error(err))
				return
			}
			b.ctx.SetTexture(uniform, tex)
			b.log.Info("texture loaded",
				zap.String("file", name),
				zap.String("uniform", uniform),
				zap.Int("width", tex.Width),
				zap.Int("height", tex.Height))
		})
	}()
}

// LoadEnvironmentMap decodes posx/negx/posy/negy/posz/negz.jpg from dir and
// installs them as the environment cube map.
func (b *Bridge) LoadEnvironmentMap(dir string) {
	b.envGen++
	gen := b.envGen

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		faces, err := b.images.DecodeCube(dir)
		if err != nil {
			b.log.Error("cannot load environment map", zap.String("dir", dir), zap.Error(err))
			return
		}

		b.ctx.events.Post(func() {
			if gen != b.envGen {
				b.log.Info("discarding stale environment map", zap.String("dir", dir))
				return
			}
			tex, err := b.ctx.renderer.CreateCubeTexture(faces)
			if err != nil {
				b.log.Error("cannot upload environment map", zap.String("dir", dir), zap.Error(err))
				return
			}
			b.ctx.SetEnvironmentMap(tex)
			b.log.Info("environment map loaded", zap.String("dir", dir))
		})
	}()
}

// Wait blocks until every in-flight decode has posted its result.
func (b *Bridge) Wait() {
	b.wg.Wait()
}
