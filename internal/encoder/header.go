package encoder

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Header is what an AVIF file declares about its image in the item
// properties. Only the first property of each kind is read, which for
// files this package writes (no alpha or auxiliary items) is the image.
type Header struct {
	Width      int  // ispe
	Height     int  // ispe
	Channels   int  // pixi num_channels
	Depth      int  // pixi bits per channel
	Monochrome bool // av1C mono_chrome
}

var (
	ErrNotAVIF         = errors.New("not an AVIF file")
	errTruncated       = errors.New("truncated box")
	errMissingProperty = errors.New("missing item property")
)

// ReadHeader walks the ISOBMFF boxes of data down to meta/iprp/ipco and
// decodes the ispe, pixi and av1C properties.
func ReadHeader(data []byte) (Header, error) {
	var h Header

	ftyp, err := findBox(data, "ftyp")
	if err != nil {
		return h, err
	}
	if !avifBrand(ftyp) {
		return h, ErrNotAVIF
	}

	meta, err := findBox(data, "meta")
	if err != nil {
		return h, err
	}
	if len(meta) < 4 {
		return h, errTruncated
	}
	iprp, err := findBox(meta[4:], "iprp")
	if err != nil {
		return h, err
	}
	ipco, err := findBox(iprp, "ipco")
	if err != nil {
		return h, err
	}

	var seenIspe, seenPixi, seenAv1C bool
	err = walkBoxes(ipco, func(typ string, body []byte) error {
		switch {
		case typ == "ispe" && !seenIspe:
			if len(body) < 12 {
				return errTruncated
			}
			h.Width = int(binary.BigEndian.Uint32(body[4:]))
			h.Height = int(binary.BigEndian.Uint32(body[8:]))
			seenIspe = true
		case typ == "pixi" && !seenPixi:
			if len(body) < 5 || len(body) < 5+int(body[4]) {
				return errTruncated
			}
			h.Channels = int(body[4])
			if h.Channels > 0 {
				h.Depth = int(body[5])
			}
			seenPixi = true
		case typ == "av1C" && !seenAv1C:
			if len(body) < 4 {
				return errTruncated
			}
			h.Monochrome = body[2]&0x10 != 0
			seenAv1C = true
		}
		return nil
	})
	if err != nil {
		return h, err
	}
	if !seenIspe || !seenAv1C {
		return h, fmt.Errorf("%w: ispe or av1C", errMissingProperty)
	}
	if !seenPixi {
		// pixi is optional in older writers; av1C still tells mono from colour.
		h.Channels = 3
		if h.Monochrome {
			h.Channels = 1
		}
	}
	return h, nil
}

func avifBrand(ftyp []byte) bool {
	if len(ftyp) < 8 {
		return false
	}
	if isAvif(ftyp[:4]) {
		return true
	}
	for i := 8; i+4 <= len(ftyp); i += 4 {
		if isAvif(ftyp[i : i+4]) {
			return true
		}
	}
	return false
}

func isAvif(brand []byte) bool {
	s := string(brand)
	return s == "avif" || s == "avis"
}

func findBox(b []byte, want string) ([]byte, error) {
	var found []byte
	err := walkBoxes(b, func(typ string, body []byte) error {
		if typ == want && found == nil {
			found = body
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: no %s box", ErrNotAVIF, want)
	}
	return found, nil
}

// walkBoxes calls fn with the type and payload of each box in b.
func walkBoxes(b []byte, fn func(typ string, body []byte) error) error {
	for len(b) > 0 {
		if len(b) < 8 {
			return errTruncated
		}
		size := uint64(binary.BigEndian.Uint32(b))
		hdr := uint64(8)
		switch size {
		case 0:
			size = uint64(len(b))
		case 1:
			if len(b) < 16 {
				return errTruncated
			}
			size = binary.BigEndian.Uint64(b[8:])
			hdr = 16
		}
		if size < hdr || size > uint64(len(b)) {
			return errTruncated
		}
		if err := fn(string(b[4:8]), b[hdr:size]); err != nil {
			return err
		}
		b = b[size:]
	}
	return nil
}
