package viewer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer is the rendering context the viewer drives.
// All methods are called from the main thread.
type Renderer interface {
	CreateMaterial(spec MaterialSpec) (MaterialHandle, error)
	// RecompileMaterial replaces the program behind h. Compiled program
	// state of the old program is discarded.
	RecompileMaterial(h MaterialHandle, spec MaterialSpec) error
	CreateTexture(img image.Image) (Texture, error)
	// CreateCubeTexture builds a cube map from faces in +X, -X, +Y, -Y, +Z, -Z order.
	CreateCubeTexture(faces [6]image.Image) (Texture, error)
	ReleaseTexture(t Texture)
	Draw(scene *RenderScene, cam Camera)
	Resize(width, height int)
}

// Camera provides the matrices the render loop needs.
type Camera interface {
	// ViewMatrix is the inverse of the camera's world matrix.
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	Position() mgl32.Vec3
}
