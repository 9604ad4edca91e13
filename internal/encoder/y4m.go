package encoder

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mbenoukaiss/shrink/internal/pixel"
)

// y4mColorspace maps a layout to the YUV4MPEG2 C tag avifenc understands.
// Cmono keeps the stream 4:0:0, so no chroma planes are written or encoded.
func y4mColorspace(l pixel.Layout) (string, error) {
	switch l {
	case pixel.Monochrome:
		return "Cmono", nil
	case pixel.Chroma444:
		return "C444", nil
	default:
		return "", fmt.Errorf("no y4m colorspace for layout %v", l)
	}
}

// writeY4M writes img as a single full-range YUV4MPEG2 frame.
func writeY4M(w io.Writer, img *pixel.Image) error {
	cs, err := y4mColorspace(img.Layout())
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "YUV4MPEG2 W%d H%d F25:1 Ip A1:1 %s XCOLORRANGE=FULL\nFRAME\n",
		img.Width(), img.Height(), cs)

	bw.Write(img.Luma())
	if cb, cr := img.Chroma(); cb != nil {
		bw.Write(cb)
		bw.Write(cr)
	}
	return bw.Flush()
}
