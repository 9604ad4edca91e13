// Package source decodes image files into the raw pixel buffers the pixel
// adapter accepts: one byte per pixel for grey content, packed RGB for
// everything else.
package source

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Raw is a decoded image flattened to 8-bit samples.
type Raw struct {
	Width  uint32
	Height uint32
	// Pix holds Width*Height luma bytes or Width*Height*3 packed RGB bytes.
	Pix []byte
	// Format is the source format name (png, jpeg, webp, ...).
	Format string
	// HadAlpha is set when translucent pixels were flattened onto Background.
	HadAlpha bool
	// SourceWidth and SourceHeight are the decoded size before any resize.
	SourceWidth, SourceHeight int
}

// Gray reports whether Pix holds one sample per pixel.
func (r Raw) Gray() bool {
	return uint64(len(r.Pix)) == uint64(r.Width)*uint64(r.Height)
}

// Options control how a file is turned into a Raw.
type Options struct {
	// MaxWidth downscales wider images, keeping the aspect ratio. 0 disables.
	MaxWidth int
	// Background replaces transparency. Defaults to white.
	Background color.Color
}

// Load opens path, applies EXIF orientation and converts the result.
func Load(path string, opts Options) (Raw, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return Raw{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	raw, err := FromImage(img, opts)
	if err != nil {
		return Raw{}, err
	}
	raw.Format = FormatOf(path)
	return raw, nil
}

// FromImage converts a decoded image.
func FromImage(img image.Image, opts Options) (Raw, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Raw{}, fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())
	}

	if opts.MaxWidth > 0 && b.Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}

	var raw Raw
	if g, ok := img.(*image.Gray); ok {
		raw = fromGray(g)
	} else {
		raw = fromColor(img, opts.Background)
	}
	raw.SourceWidth, raw.SourceHeight = b.Dx(), b.Dy()
	return raw, nil
}

func fromColor(img image.Image, bg color.Color) Raw {
	nrgba := imaging.Clone(img)
	hadAlpha := !opaque(nrgba)
	if hadAlpha {
		if bg == nil {
			bg = color.White
		}
		canvas := imaging.New(nrgba.Rect.Dx(), nrgba.Rect.Dy(), bg)
		nrgba = imaging.Overlay(canvas, nrgba, image.Pt(0, 0), 1.0)
	}

	raw := packNRGBA(nrgba)
	raw.HadAlpha = hadAlpha
	return raw
}

func fromGray(g *image.Gray) Raw {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := g.PixOffset(g.Rect.Min.X, g.Rect.Min.Y+y)
		copy(pix[y*w:(y+1)*w], g.Pix[off:off+w])
	}
	return Raw{Width: uint32(w), Height: uint32(h), Pix: pix}
}

// packNRGBA drops alpha. Images whose pixels are all neutral grey are
// emitted as luma so they take the monochrome path.
func packNRGBA(img *image.NRGBA) Raw {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	neutral := true
	for y := 0; y < h && neutral; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			if row[i] != row[i+1] || row[i] != row[i+2] {
				neutral = false
				break
			}
		}
	}

	raw := Raw{Width: uint32(w), Height: uint32(h)}
	if neutral {
		raw.Pix = make([]byte, w*h)
		for y := 0; y < h; y++ {
			row := img.Pix[y*img.Stride:]
			for x := 0; x < w; x++ {
				raw.Pix[y*w+x] = row[x*4]
			}
		}
		return raw
	}

	raw.Pix = make([]byte, w*h*3)
	j := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			raw.Pix[j], raw.Pix[j+1], raw.Pix[j+2] = row[x*4], row[x*4+1], row[x*4+2]
			j += 3
		}
	}
	return raw
}

func opaque(img *image.NRGBA) bool {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xff {
				return false
			}
		}
	}
	return true
}

// Extensions lists the file extensions Load can decode.
var Extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// FormatOf normalises a file extension to a format name.
func FormatOf(path string) string {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return format
}
