package encoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/mbenoukaiss/shrink/internal/pixel"
)

// BinaryName is the libavif command-line encoder looked up in PATH.
// Install: brew install libavif / apt install libavif-bin (1.0 or newer).
const BinaryName = "avifenc"

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

type executable struct {
	name string
	once sync.Once
	path string
	err  error
}

func (b *executable) resolve() (string, error) {
	b.once.Do(func() {
		b.path, b.err = exec.LookPath(b.name)
	})
	return b.path, b.err
}

var avifenc = &executable{name: BinaryName}

// UseBinary points the encoder at a specific avifenc executable instead of
// the one in PATH. It must be called before the first encode.
func UseBinary(path string) {
	if path == "" {
		path = BinaryName
	}
	avifenc = &executable{name: path}
}

// Available reports whether an avifenc executable can be found.
func Available() bool {
	_, err := avifenc.resolve()
	return err == nil
}

// encoderArgs turns p into avifenc flags. The y4m input already fixes the
// pixel format, --yuv repeats it so the command line is self-describing.
func encoderArgs(p Params, l pixel.Layout, dst string) []string {
	yuv := "444"
	if l == pixel.Monochrome {
		yuv = "400"
	}
	return []string{
		"--qcolor", strconv.Itoa(p.Quality),
		"--qalpha", strconv.Itoa(p.AlphaQuality),
		"--speed", strconv.Itoa(int(p.Speed)),
		"--jobs", strconv.Itoa(p.Threads),
		"--yuv", yuv,
		"--cicp", "1/13/6", // BT.709 primaries, sRGB transfer, BT.601 matrix (JFIF)
		"--stdin",
		dst,
	}
}

// runAvifenc pipes img to avifenc and returns the encoded file.
func runAvifenc(ctx context.Context, img *pixel.Image, p Params) ([]byte, error) {
	path, err := avifenc.resolve()
	if err != nil {
		return nil, &EncodeError{Reason: BinaryName + " not available", Err: err}
	}

	var in bytes.Buffer
	in.Grow(img.Width()*img.Height()*img.Planes() + 64)
	if err := writeY4M(&in, img); err != nil {
		return nil, &EncodeError{Reason: "y4m input", Err: err}
	}

	id := tempCounter.Add(1)
	dstFile, err := os.CreateTemp("", fmt.Sprintf("shrink_%d_*.avif", id))
	if err != nil {
		return nil, &EncodeError{Reason: "create temp", Err: err}
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	cmd := exec.CommandContext(ctx, path, encoderArgs(p, img.Layout(), dstPath)...)
	cmd.Stdin = &in
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &EncodeError{Reason: "cancelled", Err: ctxErr}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("%w: %s", err, bytes.TrimSpace(out))
		}
		return nil, &EncodeError{Reason: BinaryName + " failed", Err: err}
	}

	data, err := os.ReadFile(dstPath)
	if err != nil {
		return nil, &EncodeError{Reason: "read output", Err: err}
	}
	return data, nil
}
