package encoder

import "io"

// Optimized is the read side shared by compressed images: the whole payload
// on demand, or successive chunks through a cursor.
type Optimized interface {
	Full() []byte
	Take(n int) []byte
	Remaining() int
}

// CursorState describes how far an Output has been consumed.
type CursorState int

const (
	Fresh CursorState = iota
	Partial
	Exhausted
)

func (s CursorState) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Partial:
		return "partial"
	default:
		return "exhausted"
	}
}

// Output is a finished AVIF payload plus a read cursor.
//
// The cursor only moves forward and never passes the end of the data. An
// Output is not safe for concurrent use; Full may be called from anywhere
// as long as nobody modifies the returned slice.
type Output struct {
	data     []byte
	consumed int
}

var (
	_ Optimized = (*Output)(nil)
	_ io.Reader = (*Output)(nil)
)

func newOutput(data []byte) *Output {
	return &Output{data: data}
}

// Full returns the complete payload regardless of the cursor.
// The slice must not be modified.
func (o *Output) Full() []byte {
	return o.data[:len(o.data):len(o.data)]
}

// Len is the total payload size.
func (o *Output) Len() int { return len(o.data) }

// Take returns up to n bytes from the cursor and advances past them.
// Fewer than n bytes are returned near the end; none once exhausted.
func (o *Output) Take(n int) []byte {
	if n <= 0 {
		return o.data[o.consumed:o.consumed:o.consumed]
	}
	if rem := o.Remaining(); n > rem {
		n = rem
	}
	start := o.consumed
	end := start + n
	o.consumed = end
	return o.data[start:end:end]
}

// Remaining is the number of bytes Take has not yet returned.
func (o *Output) Remaining() int {
	return len(o.data) - o.consumed
}

// State reports the cursor position as Fresh, Partial or Exhausted.
func (o *Output) State() CursorState {
	switch {
	case o.consumed == len(o.data):
		return Exhausted
	case o.consumed == 0:
		return Fresh
	default:
		return Partial
	}
}

// Read implements io.Reader on top of Take.
func (o *Output) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if o.Remaining() == 0 {
		return 0, io.EOF
	}
	return copy(p, o.Take(len(p))), nil
}
