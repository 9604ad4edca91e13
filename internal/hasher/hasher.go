// Package hasher derives content hashes for encoded AVIF payloads.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// NameLen is the number of hex chars embedded in output filenames.
const NameLen = 8

// ContentHash returns xxHash64 of data as big-endian hex, truncated to hexLen
// characters when 0 < hexLen < 16.
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// ContentHashReader hashes everything r yields. Used to verify files on disk
// without loading them whole.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64(), hexLen), nil
}

// Stream accumulates a hash over chunks as they are written out.
type Stream struct {
	d *xxhash.Digest
}

func NewStream() *Stream { return &Stream{d: xxhash.New()} }

func (s *Stream) Write(p []byte) (int, error) { return s.d.Write(p) }

// Sum returns the hash of everything written so far.
func (s *Stream) Sum(hexLen int) string { return format(s.d.Sum64(), hexLen) }

func format(v uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, v))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
