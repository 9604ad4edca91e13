package encoder

import (
	"encoding/binary"
	"errors"
	"testing"
)

func box(typ string, payload ...[]byte) []byte {
	var body []byte
	for _, p := range payload {
		body = append(body, p...)
	}
	b := binary.BigEndian.AppendUint32(nil, uint32(8+len(body)))
	b = append(b, typ...)
	return append(b, body...)
}

func fullBox(typ string, payload ...[]byte) []byte {
	return box(typ, append([][]byte{{0, 0, 0, 0}}, payload...)...)
}

func avifFile(brand string, props ...[]byte) []byte {
	ftyp := box("ftyp", []byte(brand), []byte{0, 0, 0, 0}, []byte("mif1"))
	meta := fullBox("meta",
		fullBox("hdlr", make([]byte, 20)),
		box("iprp", box("ipco", props...)),
	)
	return append(append(ftyp, meta...), box("mdat", []byte{1, 2, 3})...)
}

func ispe(w, h uint32) []byte {
	return fullBox("ispe", binary.BigEndian.AppendUint32(binary.BigEndian.AppendUint32(nil, w), h))
}

func TestReadHeader(t *testing.T) {
	tests := []struct {
		name  string
		props [][]byte
		want  Header
	}{
		{
			name: "monochrome",
			props: [][]byte{
				ispe(7, 3),
				fullBox("pixi", []byte{1, 8}),
				box("av1C", []byte{0x81, 0x00, 0x1c, 0x00}),
			},
			want: Header{Width: 7, Height: 3, Channels: 1, Depth: 8, Monochrome: true},
		},
		{
			name: "chroma444 first property wins",
			props: [][]byte{
				ispe(640, 480),
				fullBox("pixi", []byte{3, 8, 8, 8}),
				box("av1C", []byte{0x81, 0x20, 0x00, 0x00}),
				ispe(1, 1),
			},
			want: Header{Width: 640, Height: 480, Channels: 3, Depth: 8},
		},
		{
			name: "no pixi",
			props: [][]byte{
				box("av1C", []byte{0x81, 0x00, 0x1c, 0x00}),
				ispe(2, 2),
			},
			want: Header{Width: 2, Height: 2, Channels: 1, Monochrome: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadHeader(avifFile("avif", tt.props...))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadHeader_Rejects(t *testing.T) {
	good := avifFile("avif", ispe(1, 1), box("av1C", []byte{0x81, 0, 0, 0}))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"foreign brand", avifFile("heic", ispe(1, 1), box("av1C", []byte{0x81, 0, 0, 0}))},
		{"truncated", good[:len(good)-2]},
		{"oversized box", append(binary.BigEndian.AppendUint32(nil, 1<<20), "ftypavif"...)},
		{"no av1C", avifFile("avif", ispe(1, 1))},
		{"short ispe", avifFile("avif", fullBox("ispe", []byte{0, 1}), box("av1C", []byte{0x81, 0, 0, 0}))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadHeader(tt.data); err == nil {
				t.Error("accepted")
			}
		})
	}

	if _, err := ReadHeader(avifFile("heic")); !errors.Is(err, ErrNotAVIF) {
		t.Errorf("foreign brand: %v, want ErrNotAVIF", err)
	}
}
