// Package texture provides image decoding for material textures.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Texture decoding errors.
var (
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrMissingCubeFace  = errors.New("missing cube map face")
)

// CubeFaces lists cube map face names in GL face order
// (+X, -X, +Y, -Y, +Z, -Z).
var CubeFaces = [6]string{"posx", "negx", "posy", "negy", "posz", "negz"}

// Decode decodes an image from raw bytes. The file name selects TGA, which
// has no magic number; other formats are sniffed from the data.
func Decode(name string, data []byte) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, name, err)
	}
	return img, nil
}

// LoadCubeFaces loads the six faces of a cube map from dir. Faces are named
// posx, negx, posy, negy, posz, negz with the given extension (".jpg" when
// empty). All faces must be square and the same size.
func LoadCubeFaces(dir, ext string) ([6]image.Image, error) {
	var faces [6]image.Image
	if ext == "" {
		ext = ".jpg"
	}

	for i, face := range CubeFaces {
		path := filepath.Join(dir, face+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return faces, fmt.Errorf("%w: %s", ErrMissingCubeFace, path)
			}
			return faces, fmt.Errorf("reading cube face: %w", err)
		}
		img, err := Decode(path, data)
		if err != nil {
			return faces, err
		}
		faces[i] = img
	}

	size := faces[0].Bounds().Size()
	for i, img := range faces {
		s := img.Bounds().Size()
		if s.X != s.Y || s != size {
			return faces, fmt.Errorf("%w: cube face %s is %dx%d, expected %dx%d",
				ErrUnsupportedImage, CubeFaces[i], s.X, s.Y, size.X, size.X)
		}
	}
	return faces, nil
}

// Solid returns a 1x1 image of a single color.
func Solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

// DefaultDiffuse is the placeholder diffuse texture (#cccccc) so untextured
// meshes are not drawn black.
func DefaultDiffuse() *image.RGBA {
	return Solid(color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff})
}

// ToRGBA converts any image.Image to *image.RGBA with origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// FlipVertical returns a copy of img with rows in reverse order, matching
// OpenGL's bottom-up texture origin.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	stride := img.Stride
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*stride : y*stride+b.Dx()*4]
		dst := out.Pix[(b.Dy()-1-y)*stride:]
		copy(dst, src)
	}
	return out
}
