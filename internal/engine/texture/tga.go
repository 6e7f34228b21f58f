package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes a TGA image file.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10) TGA
// files at 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("%w: TGA data too short", ErrUnsupportedImage)
	}

	// TGA header
	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupportedImage)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: TGA type %d", ErrUnsupportedImage, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: TGA bit depth %d", ErrUnsupportedImage, bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: TGA has zero size", ErrUnsupportedImage)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: TGA data truncated", ErrUnsupportedImage)
	}

	d := &tgaDecoder{
		img:           image.NewRGBA(image.Rect(0, 0, width, height)),
		pixels:        data[offset:],
		width:         width,
		height:        height,
		bytesPerPixel: bpp / 8,
		// bit 5 of the descriptor marks top-to-bottom row order
		topToBottom: descriptor&0x20 != 0,
	}

	if imageType == TGATypeUncompressed {
		if len(d.pixels) < width*height*d.bytesPerPixel {
			return nil, fmt.Errorf("%w: TGA pixel data truncated", ErrUnsupportedImage)
		}
		for i := 0; i < width*height; i++ {
			d.put(i, d.read())
		}
		return d.img, nil
	}

	d.decodeRLE()
	return d.img, nil
}

type tgaDecoder struct {
	img           *image.RGBA
	pixels        []byte
	pos           int
	width, height int
	bytesPerPixel int
	topToBottom   bool
}

// read consumes one BGR(A) pixel.
func (d *tgaDecoder) read() color.RGBA {
	p := d.pixels[d.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bytesPerPixel == 4 {
		c.A = p[3]
	}
	d.pos += d.bytesPerPixel
	return c
}

func (d *tgaDecoder) canRead() bool {
	return d.pos+d.bytesPerPixel <= len(d.pixels)
}

// put stores the pixel with linear index i, flipping bottom-up files.
func (d *tgaDecoder) put(i int, c color.RGBA) {
	x, y := i%d.width, i/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

// decodeRLE decodes RLE packets. Truncated data leaves the remaining pixels
// transparent.
func (d *tgaDecoder) decodeRLE() {
	total := d.width * d.height
	i := 0
	for i < total && d.pos < len(d.pixels) {
		packet := d.pixels[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// run of one repeated pixel
			if !d.canRead() {
				return
			}
			c := d.read()
			for n := 0; n < count && i < total; n++ {
				d.put(i, c)
				i++
			}
			continue
		}

		for n := 0; n < count && i < total; n++ {
			if !d.canRead() {
				return
			}
			d.put(i, d.read())
			i++
		}
	}
}
