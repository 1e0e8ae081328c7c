package delay

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-delayfx/dsp/core"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New[float64](size); !errors.Is(err, core.ErrInvalidCapacity) {
			t.Fatalf("New(%d) error = %v, want ErrInvalidCapacity", size, err)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New[float32](16)
	if err != nil {
		t.Fatal(err)
	}

	if d.Cap() != 16 {
		t.Fatalf("Cap: got %d want 16", d.Cap())
	}
	if d.Len() != 0 || d.ReadIndex() != 0 || d.WriteIndex() != 0 {
		t.Fatalf("fresh line: len=%d read=%d write=%d", d.Len(), d.ReadIndex(), d.WriteIndex())
	}
}

// --- stream mode ---

func TestPushPopFIFO(t *testing.T) {
	d, err := New[float64](4)
	if err != nil {
		t.Fatal(err)
	}

	d.Push(1)
	d.Push(2)
	d.Push(3)
	if d.Len() != 3 {
		t.Fatalf("Len: got %d want 3", d.Len())
	}

	for _, want := range []float64{1, 2, 3} {
		got, ok := d.Pop()
		if !ok || got != want {
			t.Fatalf("Pop: got (%v, %v) want (%v, true)", got, ok, want)
		}
	}

	if _, ok := d.Pop(); ok {
		t.Fatal("Pop on empty line reported ok")
	}
	if d.ReadIndex() != 3 || d.WriteIndex() != 3 {
		t.Fatalf("empty Pop moved cursors: read=%d write=%d", d.ReadIndex(), d.WriteIndex())
	}
}

func TestPushDropsOldestWhenFull(t *testing.T) {
	for _, capacity := range []int{1, 2, 3, 5, 8, 13} {
		d, err := New[float64](capacity)
		if err != nil {
			t.Fatal(err)
		}

		pushed := 0
		for n := 0; n < 3*capacity+2; n++ {
			d.Push(float64(n))
			pushed++

			if d.Len() > d.Cap() {
				t.Fatalf("cap=%d: Len %d exceeds Cap", capacity, d.Len())
			}

			want := min(pushed, capacity)
			if d.Len() != want {
				t.Fatalf("cap=%d after %d pushes: Len=%d want %d", capacity, pushed, d.Len(), want)
			}

			// Get(0..Len-1) returns the most recent samples, oldest first.
			first := pushed - d.Len()
			for k := 0; k < d.Len(); k++ {
				if got := d.Get(k); got != float64(first+k) {
					t.Fatalf("cap=%d after %d pushes: Get(%d)=%v want %v",
						capacity, pushed, k, got, float64(first+k))
				}
			}
		}
	}
}

func TestPutPeekDoNotAdvance(t *testing.T) {
	d, err := New[float64](4)
	if err != nil {
		t.Fatal(err)
	}

	d.Put(7)
	d.Put(9)
	if d.WriteIndex() != 0 || d.Len() != 0 {
		t.Fatalf("Put advanced: write=%d len=%d", d.WriteIndex(), d.Len())
	}
	if got := d.Peek(); got != 9 {
		t.Fatalf("Peek: got %v want 9", got)
	}
	if d.ReadIndex() != 0 {
		t.Fatalf("Peek advanced read cursor to %d", d.ReadIndex())
	}
}

func TestGetWrapsOffsets(t *testing.T) {
	d, err := New[float64](4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		d.Push(float64(i))
	}

	tests := []struct {
		offset int
		want   float64
	}{
		{0, 0}, {3, 3}, {4, 0}, {9, 1}, {-1, 3}, {-6, 2}, {math.MinInt + 1, 1},
	}
	for _, tc := range tests {
		if got := d.Get(tc.offset); got != tc.want {
			t.Fatalf("Get(%d): got %v want %v", tc.offset, got, tc.want)
		}
	}
}

func TestSetIndicesWrapAndDeriveLen(t *testing.T) {
	d, err := New[float64](8)
	if err != nil {
		t.Fatal(err)
	}

	d.SetWriteIndex(11)
	if d.WriteIndex() != 3 {
		t.Fatalf("WriteIndex: got %d want 3", d.WriteIndex())
	}

	d.SetReadIndex(d.WriteIndex() - 5)
	if d.ReadIndex() != 6 {
		t.Fatalf("ReadIndex: got %d want 6", d.ReadIndex())
	}
	if d.Len() != 5 {
		t.Fatalf("Len: got %d want 5", d.Len())
	}
}

func TestReadWrite(t *testing.T) {
	d, err := New[float64](8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		d.Write(float64(i))
	}
	// delay=1 => most recently written (7)
	if got := d.Read(1); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	// delay=3 => 3 samples back from write head
	if got := d.Read(3); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := New[float64](4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		d.Push(float64(i))
	}
	// buffer should contain [8, 9, 6, 7], writePos=2
	if got := d.Read(1); got != 9 {
		t.Fatalf("got %v want 9", got)
	}
	if got := d.Read(4); got != 6 {
		t.Fatalf("got %v want 6", got)
	}
}

func TestReset(t *testing.T) {
	d, err := New[float64](4)
	if err != nil {
		t.Fatal(err)
	}

	d.Push(1)
	d.Push(2)
	d.SetReadIndex(3)
	d.Reset()

	if d.Len() != 0 || d.ReadIndex() != 0 || d.WriteIndex() != 0 {
		t.Fatalf("after reset: len=%d read=%d write=%d", d.Len(), d.ReadIndex(), d.WriteIndex())
	}
	if d.Cap() != 4 {
		t.Fatalf("Reset changed capacity to %d", d.Cap())
	}
	for i := 0; i < 4; i++ {
		if got := d.Get(i); got != 0 {
			t.Fatalf("after reset Get(%d): got %v want 0", i, got)
		}
	}
}

// --- fractional reads ---

// fillRamp fills a delay line with a linear ramp [0, 1, 2, ..., size-1].
func fillRamp(d *Line[float64]) {
	for i := 0; i < d.Cap(); i++ {
		d.Push(float64(i))
	}
}

func TestGetFractionalIntegerIsExact(t *testing.T) {
	d, err := New[float64](16)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < d.Cap(); i++ {
		d.Push(math.Sin(float64(i) * 0.37))
	}

	for k := -20; k < 40; k++ {
		if got, want := d.GetFractional(float64(k)), d.Get(k); got != want {
			t.Fatalf("GetFractional(%d)=%v want Get(%d)=%v", k, got, k, want)
		}
	}
}

func TestGetFractionalMidpointIsMean(t *testing.T) {
	d, err := New[float64](16)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < d.Cap(); i++ {
		d.Push(math.Cos(float64(i) * 0.9))
	}

	for k := 0; k < d.Cap(); k++ {
		want := 0.5 * (d.Get(k) + d.Get(k+1))
		if got := d.GetFractional(float64(k) + 0.5); !approxEqual(got, want, 1e-12) {
			t.Fatalf("GetFractional(%v)=%v want %v", float64(k)+0.5, got, want)
		}
	}
}

func TestGetFractionalFloat32(t *testing.T) {
	d, err := New[float32](4)
	if err != nil {
		t.Fatal(err)
	}
	d.Push(1)
	d.Push(3)

	if got := d.GetFractional(0.5); got != 2 {
		t.Fatalf("got %v want 2", got)
	}
}

func TestGetFractionalWrapsAcrossEnd(t *testing.T) {
	d, err := New[float64](4)
	if err != nil {
		t.Fatal(err)
	}
	fillRamp(d) // [0 1 2 3], read at 0

	// Between Get(3)=3 and Get(4)=Get(0)=0.
	if got := d.GetFractional(3.25); !approxEqual(got, 2.25, 1e-12) {
		t.Fatalf("got %v want 2.25", got)
	}
	// Negative offsets are taken modulo capacity first.
	if got := d.GetFractional(-0.5); !approxEqual(got, 1.5, 1e-12) {
		t.Fatalf("got %v want 1.5", got)
	}
	if got := d.GetFractional(1e9 + 1.5); !approxEqual(got, 1.5, 1e-6) {
		t.Fatalf("large offset got %v want 1.5", got)
	}
}

func TestGetFractionalNonFinite(t *testing.T) {
	d, err := New[float64](4)
	if err != nil {
		t.Fatal(err)
	}
	d.Push(5)
	d.Push(6)

	for _, off := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := d.GetFractional(off); got != 5 {
			t.Fatalf("GetFractional(%v)=%v want Peek()=5", off, got)
		}
	}
}

func TestReadFractionalLinearRamp(t *testing.T) {
	d, err := New[float64](32)
	if err != nil {
		t.Fatal(err)
	}

	fillRamp(d)
	// With a linear ramp, linear interpolation is exact.
	got := d.ReadFractional(5.5)

	want := float64(d.Cap()) - 5.5 // 26.5
	if !approxEqual(got, want, 1e-10) {
		t.Fatalf("got %v want %v", got, want)
	}
	if d.ReadFractional(1) != d.Read(1) {
		t.Fatal("ReadFractional(1) must equal Read(1)")
	}
}

func TestGetCubicRamp(t *testing.T) {
	d, err := New[float64](32)
	if err != nil {
		t.Fatal(err)
	}

	fillRamp(d)
	if got := d.GetCubic(5.5); !approxEqual(got, 5.5, 1e-10) {
		t.Fatalf("got %v want 5.5", got)
	}
	if got := d.GetCubic(7); got != 7 {
		t.Fatalf("integer offset got %v want 7", got)
	}
}

func TestFractionalDCPreservation(t *testing.T) {
	d, err := New[float64](32)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < d.Cap(); i++ {
		d.Push(42.0)
	}

	if got := d.GetFractional(5.3); !approxEqual(got, 42.0, 1e-9) {
		t.Fatalf("linear DC: got %v want 42", got)
	}
	if got := d.GetCubic(5.3); !approxEqual(got, 42.0, 1e-9) {
		t.Fatalf("cubic DC: got %v want 42", got)
	}
}

func TestFractionalSineQuality(t *testing.T) {
	freq := 0.02
	size := 256

	d, err := New[float64](size)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < size; i++ {
		d.Push(math.Sin(2 * math.Pi * freq * float64(i)))
	}

	delay := 20.37
	want := math.Sin(2 * math.Pi * freq * (float64(size) - delay))

	if got := d.ReadFractional(delay); math.Abs(got-want) > 0.01 {
		t.Fatalf("linear sine: got %v want %v", got, want)
	}

	d.SetReadIndex(d.WriteIndex())
	if got := d.GetCubic(float64(size) - delay); math.Abs(got-want) > 1e-4 {
		t.Fatalf("cubic sine: got %v want %v", got, want)
	}
}

// --- benchmarks ---

func BenchmarkPush(b *testing.B) {
	d, _ := New[float64](1024)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Push(float64(i))
	}
}

func BenchmarkGetFractional(b *testing.B) {
	d, _ := New[float64](1024)
	fillRamp(d)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.GetFractional(100.37)
	}
}

func BenchmarkGetCubic(b *testing.B) {
	d, _ := New[float64](1024)
	fillRamp(d)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.GetCubic(100.37)
	}
}
