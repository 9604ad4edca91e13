// Package pixel turns a raw decoded pixel buffer into the plane layout the
// AVIF encoder consumes.
//
// Two source layouts are recognised, purely from the buffer length:
//   - one 8-bit sample per pixel  → Monochrome (single luma plane)
//   - three packed 8-bit samples  → Chroma444 (Y, Cb, Cr at full resolution)
//
// Everything else, including 4-sample RGBA buffers, is a ShapeError.
package pixel

import (
	"fmt"
	"image"
	"image/color"
)

// Layout identifies the plane layout of an adapted image.
type Layout int

const (
	// Monochrome is a single luma plane with no chroma.
	Monochrome Layout = iota + 1
	// Chroma444 is luma plus two full-resolution chroma planes.
	Chroma444
)

func (l Layout) String() string {
	switch l {
	case Monochrome:
		return "monochrome"
	case Chroma444:
		return "yuv444"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ShapeError reports a pixel buffer whose length matches none of the
// supported layouts for the declared dimensions.
type ShapeError struct {
	Width  uint32
	Height uint32
	Len    int
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("pixel: %dx%d image with %d bytes: %s", e.Width, e.Height, e.Len, e.Reason)
}

// Image is a codec-ready image. It owns its planes.
type Image struct {
	layout Layout
	w, h   int
	gray   *image.Gray
	ycc    *image.YCbCr
}

// maxInt guards the int conversion of 64-bit sizes on 32-bit platforms.
const maxInt = int(^uint(0) >> 1)

// Adapt classifies pix against width×height and builds the matching Image.
// pix is not retained.
func Adapt(width, height uint32, pix []byte) (*Image, error) {
	if width == 0 || height == 0 {
		return nil, &ShapeError{Width: width, Height: height, Len: len(pix), Reason: "zero dimension"}
	}

	area := uint64(width) * uint64(height)
	n := uint64(len(pix))

	switch {
	case n == area:
		return newMonochrome(int(width), int(height), pix), nil
	case area <= uint64(maxInt)/3 && n == area*3:
		return newChroma444(int(width), int(height), pix), nil
	case area <= uint64(maxInt)/4 && n == area*4:
		return nil, &ShapeError{Width: width, Height: height, Len: len(pix),
			Reason: "4 samples per pixel; alpha layouts are not supported"}
	default:
		return nil, &ShapeError{Width: width, Height: height, Len: len(pix),
			Reason: fmt.Sprintf("want %d (luma) or %d (packed RGB) bytes", area, area*3)}
	}
}

func newMonochrome(w, h int, pix []byte) *Image {
	g := image.NewGray(image.Rect(0, 0, w, h))
	copy(g.Pix, pix)
	return &Image{layout: Monochrome, w: w, h: h, gray: g}
}

func newChroma444(w, h int, pix []byte) *Image {
	ycc := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio444)

	// 4:4:4 planes share one stride, so a single index walks Y, Cb and Cr.
	for i, j := 0, 0; i < w*h; i, j = i+1, j+3 {
		ycc.Y[i], ycc.Cb[i], ycc.Cr[i] = color.RGBToYCbCr(pix[j], pix[j+1], pix[j+2])
	}
	return &Image{layout: Chroma444, w: w, h: h, ycc: ycc}
}

// Layout reports which variant the image is.
func (m *Image) Layout() Layout { return m.layout }

func (m *Image) Width() int  { return m.w }
func (m *Image) Height() int { return m.h }

// Planes returns the number of stored planes: 1 for Monochrome, 3 otherwise.
func (m *Image) Planes() int {
	if m.layout == Monochrome {
		return 1
	}
	return 3
}

// Luma returns the Y plane, tightly packed (stride == width).
func (m *Image) Luma() []byte {
	if m.layout == Monochrome {
		return m.gray.Pix
	}
	return m.ycc.Y
}

// Chroma returns the Cb and Cr planes. Both are nil for Monochrome.
func (m *Image) Chroma() (cb, cr []byte) {
	if m.layout == Monochrome {
		return nil, nil
	}
	return m.ycc.Cb, m.ycc.Cr
}

// Image exposes the planes as a standard library image:
// *image.Gray for Monochrome, *image.YCbCr (4:4:4) for Chroma444.
func (m *Image) Image() image.Image {
	if m.layout == Monochrome {
		return m.gray
	}
	return m.ycc
}
