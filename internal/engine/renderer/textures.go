package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/viewer"
)

// CreateTexture uploads img as a mipmapped, repeating 2D texture.
// Rows are flipped so UV (0,0) is the bottom-left corner of the image.
func (r *Renderer) CreateTexture(img image.Image) (viewer.Texture, error) {
	if img == nil {
		return viewer.Texture{}, errors.New("nil image")
	}
	rgba := texture.FlipVertical(texture.ToRGBA(img))
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	if w == 0 || h == 0 {
		return viewer.Texture{}, fmt.Errorf("empty image %dx%d", w, h)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.log.Debug("texture uploaded", zap.Uint32("id", id), zap.Int("width", w), zap.Int("height", h))
	return viewer.Texture{ID: id, Width: w, Height: h}, nil
}

// CreateCubeTexture uploads six square faces as a cube map.
func (r *Renderer) CreateCubeTexture(faces [6]image.Image) (viewer.Texture, error) {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	size := 0
	for i, face := range faces {
		if face == nil {
			gl.DeleteTextures(1, &id)
			return viewer.Texture{}, fmt.Errorf("%w: %s", texture.ErrMissingCubeFace, texture.CubeFaces[i])
		}
		rgba := texture.ToRGBA(face)
		size = rgba.Bounds().Dx()
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8,
			int32(size), int32(rgba.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	r.log.Debug("cube map uploaded", zap.Uint32("id", id), zap.Int("size", size))
	return viewer.Texture{ID: id, Cube: true, Width: size, Height: size}, nil
}

// ReleaseTexture deletes the GL texture.
func (r *Renderer) ReleaseTexture(t viewer.Texture) {
	if !t.Valid() {
		return
	}
	id := t.ID
	gl.DeleteTextures(1, &id)
}
