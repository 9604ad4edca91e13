// Package encoder compresses adapted images to AVIF and hands the result
// back as an Output that can be drained in caller-sized chunks.
//
// Encoding shells out to libavif's avifenc, fed a raw YUV4MPEG2 frame on
// stdin, so no CGO is required and every libavif knob (speed, quality,
// pixel format, thread count) is set explicitly per call. Every call is
// independent and single-threaded; callers fan out across images.
package encoder

import (
	"context"
	"fmt"

	"github.com/mbenoukaiss/shrink/internal/pixel"
)

// EncodeError reports a failed compression step.
type EncodeError struct {
	Reason string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("avif encode: %s: %v", e.Reason, e.Err)
	}
	return "avif encode: " + e.Reason
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Encode compresses img with the fixed policy: quality as given (clamped to
// 0–100), alpha quality 50, best or fast speed, one thread.
func Encode(img *pixel.Image, quality int, preferQuality bool) (*Output, error) {
	return EncodeWith(img, ParamsFor(quality, preferQuality))
}

// EncodeWith compresses img with explicit parameters.
func EncodeWith(img *pixel.Image, p Params) (*Output, error) {
	return EncodeContext(context.Background(), img, p)
}

// EncodeContext is EncodeWith with cancellation; a cancelled ctx kills the
// running encoder process.
func EncodeContext(ctx context.Context, img *pixel.Image, p Params) (*Output, error) {
	if img == nil {
		return nil, &EncodeError{Reason: "nil image"}
	}
	if err := p.validate(); err != nil {
		return nil, &EncodeError{Reason: "invalid parameters", Err: err}
	}

	data, err := runAvifenc(ctx, img, p)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &EncodeError{Reason: "encoder produced no data"}
	}
	return newOutput(data), nil
}
