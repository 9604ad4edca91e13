package pixel

import (
	"errors"
	"image"
	"strings"
	"testing"
)

func TestAdapt_Monochrome(t *testing.T) {
	for _, d := range [][2]uint32{{1, 1}, {2, 2}, {7, 3}, {64, 1}} {
		w, h := d[0], d[1]
		pix := make([]byte, w*h)
		for i := range pix {
			pix[i] = uint8(i * 37)
		}

		img, err := Adapt(w, h, pix)
		if err != nil {
			t.Fatalf("%dx%d: %v", w, h, err)
		}
		if img.Layout() != Monochrome {
			t.Errorf("%dx%d: layout %v, want monochrome", w, h, img.Layout())
		}
		if img.Planes() != 1 {
			t.Errorf("%dx%d: planes %d", w, h, img.Planes())
		}
		if cb, cr := img.Chroma(); cb != nil || cr != nil {
			t.Errorf("%dx%d: monochrome image has chroma planes", w, h)
		}
		if _, ok := img.Image().(*image.Gray); !ok {
			t.Errorf("%dx%d: image type %T", w, h, img.Image())
		}
		luma := img.Luma()
		if len(luma) != len(pix) {
			t.Fatalf("%dx%d: luma len %d", w, h, len(luma))
		}
		for i := range pix {
			if luma[i] != pix[i] {
				t.Fatalf("%dx%d: luma[%d] = %d, want %d", w, h, i, luma[i], pix[i])
			}
		}
	}
}

func TestAdapt_Chroma444(t *testing.T) {
	for _, d := range [][2]uint32{{1, 1}, {3, 2}, {16, 9}} {
		w, h := d[0], d[1]
		pix := make([]byte, w*h*3)
		for i := range pix {
			pix[i] = uint8(i * 13)
		}

		img, err := Adapt(w, h, pix)
		if err != nil {
			t.Fatalf("%dx%d: %v", w, h, err)
		}
		if img.Layout() != Chroma444 {
			t.Fatalf("%dx%d: layout %v, want yuv444", w, h, img.Layout())
		}
		if img.Planes() != 3 {
			t.Errorf("%dx%d: planes %d", w, h, img.Planes())
		}
		if img.Width() != int(w) || img.Height() != int(h) {
			t.Errorf("dims %dx%d, want %dx%d", img.Width(), img.Height(), w, h)
		}

		area := int(w * h)
		cb, cr := img.Chroma()
		if len(img.Luma()) != area || len(cb) != area || len(cr) != area {
			t.Errorf("%dx%d: plane sizes y=%d cb=%d cr=%d, want %d each",
				w, h, len(img.Luma()), len(cb), len(cr), area)
		}

		ycc, ok := img.Image().(*image.YCbCr)
		if !ok {
			t.Fatalf("image type %T", img.Image())
		}
		if ycc.SubsampleRatio != image.YCbCrSubsampleRatio444 {
			t.Errorf("subsample ratio %v", ycc.SubsampleRatio)
		}
	}
}

func TestAdapt_ColorConversion(t *testing.T) {
	// white, black, red
	pix := []byte{255, 255, 255, 0, 0, 0, 255, 0, 0}
	img, err := Adapt(3, 1, pix)
	if err != nil {
		t.Fatal(err)
	}
	y := img.Luma()
	cb, cr := img.Chroma()

	if y[0] != 255 || cb[0] != 128 || cr[0] != 128 {
		t.Errorf("white: got %d,%d,%d", y[0], cb[0], cr[0])
	}
	if y[1] != 0 || cb[1] != 128 || cr[1] != 128 {
		t.Errorf("black: got %d,%d,%d", y[1], cb[1], cr[1])
	}
	if cr[2] <= 128 || cb[2] >= 128 {
		t.Errorf("red: cb=%d cr=%d, want cb<128<cr", cb[2], cr[2])
	}
}

func TestAdapt_DoesNotRetainSource(t *testing.T) {
	pix := []byte{10, 20, 30, 40}
	img, err := Adapt(2, 2, pix)
	if err != nil {
		t.Fatal(err)
	}
	pix[0] = 99
	if img.Luma()[0] != 10 {
		t.Error("adapted image aliases the source buffer")
	}
}

func TestAdapt_ShapeErrors(t *testing.T) {
	tests := []struct {
		name   string
		w, h   uint32
		n      int
		reason string
	}{
		{"zero width", 0, 4, 0, "zero dimension"},
		{"zero height", 4, 0, 12, "zero dimension"},
		{"empty buffer", 2, 2, 0, "want 4"},
		{"short luma", 2, 2, 3, "want 4"},
		{"between layouts", 2, 2, 8, "want 4"},
		{"truncated rgb", 2, 2, 11, "want 4"},
		{"oversized rgb", 2, 2, 13, "want 4"},
		{"rgba", 2, 2, 16, "alpha"},
		{"rgba 1x1", 1, 1, 4, "alpha"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Adapt(tt.w, tt.h, make([]byte, tt.n))
			if img != nil {
				t.Error("image returned alongside error")
			}
			var se *ShapeError
			if !errors.As(err, &se) {
				t.Fatalf("error %v, want *ShapeError", err)
			}
			if se.Len != tt.n || se.Width != tt.w || se.Height != tt.h {
				t.Errorf("error fields %+v", se)
			}
			if !strings.Contains(se.Reason, tt.reason) {
				t.Errorf("reason %q, want it to mention %q", se.Reason, tt.reason)
			}
		})
	}
}

func TestAdapt_HugeDimensions(t *testing.T) {
	_, err := Adapt(1<<31, 1<<31, make([]byte, 16))
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("error %v, want *ShapeError", err)
	}
}

func TestLayoutString(t *testing.T) {
	if Monochrome.String() != "monochrome" || Chroma444.String() != "yuv444" {
		t.Errorf("got %q, %q", Monochrome, Chroma444)
	}
	if Layout(0).String() != "layout(0)" {
		t.Errorf("got %q", Layout(0))
	}
}
