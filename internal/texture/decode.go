// Package texture decodes image files and owns every texture uploaded from disk.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"wildfox-engine/internal/gpu"
)

// ErrDecode is wrapped by every decoder failure.
var ErrDecode = errors.New("texture: decode failed")

// Decoder turns encoded file bytes into pixels.
type Decoder interface {
	Decode(data []byte) (gpu.Image, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte) (gpu.Image, error)

func (f DecoderFunc) Decode(data []byte) (gpu.Image, error) { return f(data) }

// ImageDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP. Grayscale sources keep one
// channel, opaque sources three, everything else four. FlipVertical puts the first row
// at the bottom, which is what GL texture coordinates expect.
type ImageDecoder struct {
	FlipVertical bool
}

func (d ImageDecoder) Decode(data []byte) (gpu.Image, error) {
	if !filetype.IsImage(data) {
		return gpu.Image{}, fmt.Errorf("%w: not an image", ErrDecode)
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		kind, _ := filetype.Match(data)
		return gpu.Image{}, fmt.Errorf("%w: %s: %v", ErrDecode, kind.Extension, err)
	}
	channels := channelsOf(src)
	rgba := clone.AsRGBA(src)
	if d.FlipVertical {
		rgba = transform.FlipV(rgba)
	}
	img := pack(rgba, channels)
	if !img.Valid() {
		return gpu.Image{}, fmt.Errorf("%w: %s: empty image", ErrDecode, format)
	}
	return img, nil
}

func channelsOf(src image.Image) int {
	switch src.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.YCbCr, *image.CMYK:
		return 3
	}
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// pack copies the first n channels of every RGBA pixel into a tight buffer.
func pack(rgba *image.RGBA, n int) gpu.Image {
	b := rgba.Bounds()
	w, h := b.Dx(), b.Dy()
	out := gpu.Image{Width: w, Height: h, Channels: n, Pixels: make([]byte, 0, w*h*n)}
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		if n == 4 {
			out.Pixels = append(out.Pixels, row...)
			continue
		}
		for x := 0; x < w; x++ {
			out.Pixels = append(out.Pixels, row[x*4:x*4+n]...)
		}
	}
	return out
}

// ToRGBA expands any channel count back to an RGBA image.
func ToRGBA(img gpu.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		px := img.Pixels[i*img.Channels : (i+1)*img.Channels]
		d := out.Pix[i*4 : i*4+4]
		switch img.Channels {
		case 1:
			d[0], d[1], d[2], d[3] = px[0], px[0], px[0], 255
		case 2:
			d[0], d[1], d[2], d[3] = px[0], px[0], px[0], px[1]
		case 3:
			d[0], d[1], d[2], d[3] = px[0], px[1], px[2], 255
		default:
			copy(d, px)
		}
	}
	return out
}

// VerticalStrip stacks six cubemap faces top to bottom in +X, -X, +Y, -Y, +Z, -Z order.
// Faces that differ in size from the first are scaled to match.
func VerticalStrip(faces [6]gpu.Image) (gpu.Image, error) {
	w, h := faces[0].Width, faces[0].Height
	if w <= 0 || h <= 0 {
		return gpu.Image{}, fmt.Errorf("%w: empty cubemap face", ErrDecode)
	}
	strip := image.NewRGBA(image.Rect(0, 0, w, h*6))
	for i, f := range faces {
		if !f.Valid() {
			return gpu.Image{}, fmt.Errorf("%w: cubemap face %d", ErrDecode, i)
		}
		dst := image.Rect(0, i*h, w, (i+1)*h)
		src := ToRGBA(f)
		if f.Width == w && f.Height == h {
			draw.Draw(strip, dst, src, image.Point{}, draw.Src)
			continue
		}
		draw.BiLinear.Scale(strip, dst, src, src.Bounds(), draw.Src, nil)
	}
	return gpu.Image{Pixels: strip.Pix, Width: w, Height: h * 6, Channels: 4}, nil
}
