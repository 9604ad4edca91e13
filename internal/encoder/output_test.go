package encoder

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
)

func makeOutput(n int) *Output {
	data := make([]byte, n)
	for i := range data {
		data[i] = uint8(i)
	}
	return newOutput(data)
}

func TestOutput_TakeSequence(t *testing.T) {
	o := makeOutput(10)
	if o.State() != Fresh || o.Remaining() != 10 {
		t.Fatalf("fresh output: state %v remaining %d", o.State(), o.Remaining())
	}

	steps := []struct {
		n         int
		wantLen   int
		remaining int
		state     CursorState
	}{
		{3, 3, 7, Partial},
		{0, 0, 7, Partial},
		{-4, 0, 7, Partial},
		{5, 5, 2, Partial},
		{8, 2, 0, Exhausted},
		{1, 0, 0, Exhausted},
	}
	next := 0
	for i, s := range steps {
		got := o.Take(s.n)
		if len(got) != s.wantLen {
			t.Fatalf("step %d: Take(%d) returned %d bytes, want %d", i, s.n, len(got), s.wantLen)
		}
		for _, b := range got {
			if b != uint8(next) {
				t.Fatalf("step %d: byte %d, want %d", i, b, next)
			}
			next++
		}
		if o.Remaining() != s.remaining {
			t.Errorf("step %d: remaining %d, want %d", i, o.Remaining(), s.remaining)
		}
		if o.State() != s.state {
			t.Errorf("step %d: state %v, want %v", i, o.State(), s.state)
		}
	}
}

func TestOutput_OversizedTakeDoesNotUnderflow(t *testing.T) {
	o := makeOutput(7)
	o.Take(4)
	got := o.Take(100)
	if len(got) != 3 {
		t.Fatalf("got %d bytes, want 3", len(got))
	}
	if o.Remaining() != 0 {
		t.Fatalf("remaining %d after exhaustion", o.Remaining())
	}
	for i := 0; i < 3; i++ {
		if len(o.Take(5)) != 0 || o.Remaining() != 0 {
			t.Fatal("exhausted output moved")
		}
	}
}

func TestOutput_ChunkSumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		size := rng.Intn(300)
		o := makeOutput(size)

		var requested, returned int
		var got []byte
		for k := rng.Intn(20) + 1; k > 0; k-- {
			n := rng.Intn(64)
			requested += n
			chunk := o.Take(n)
			if len(chunk) > n {
				t.Fatalf("trial %d: Take(%d) returned %d bytes", trial, n, len(chunk))
			}
			returned += len(chunk)
			got = append(got, chunk...)
			if o.Remaining() != size-returned {
				t.Fatalf("trial %d: remaining %d, want %d", trial, o.Remaining(), size-returned)
			}
		}

		want := requested
		if size < want {
			want = size
		}
		if returned != want {
			t.Fatalf("trial %d: returned %d, want min(%d, %d)", trial, returned, requested, size)
		}
		if !bytes.Equal(got, o.Full()[:returned]) {
			t.Fatalf("trial %d: chunks do not reassemble the prefix", trial)
		}
	}
}

func TestOutput_FullIsCursorIndependent(t *testing.T) {
	o := makeOutput(16)
	want := append([]byte(nil), o.Full()...)

	for _, n := range []int{1, 5, 0, 20, 3} {
		o.Take(n)
		if !bytes.Equal(o.Full(), want) {
			t.Fatalf("Full changed after Take(%d)", n)
		}
		if o.Len() != len(want) {
			t.Fatalf("Len %d", o.Len())
		}
	}
}

func TestOutput_FullCannotGrowIntoData(t *testing.T) {
	o := makeOutput(4)
	chunk := o.Take(2)
	_ = append(chunk, 0xff)
	if o.Full()[2] != 2 {
		t.Error("appending to a chunk overwrote the payload")
	}
}

func TestOutput_Read(t *testing.T) {
	o := makeOutput(1000)
	o.Take(10)

	got, err := io.ReadAll(o)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, o.Full()[10:]) {
		t.Fatalf("read %d bytes, want the 990-byte tail", len(got))
	}
	if n, err := o.Read(make([]byte, 8)); n != 0 || err != io.EOF {
		t.Errorf("read after exhaustion: %d, %v", n, err)
	}
	if n, err := o.Read(nil); n != 0 || err != nil {
		t.Errorf("empty read: %d, %v", n, err)
	}
}
