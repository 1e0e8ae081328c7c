package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delayfx/dsp/core"
	"github.com/cwbudde/algo-delayfx/dsp/interp"
)

// Sample is the element constraint of a [Line].
type Sample interface {
	interp.Float
}

// Line is a circular delay line.
type Line[T Sample] struct {
	buffer []T
	read   int
	write  int
	size   int
}

// New returns a delay line of fixed capacity.
func New[T Sample](capacity int) (*Line[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("delay capacity %d: %w", capacity, core.ErrInvalidCapacity)
	}
	return &Line[T]{buffer: make([]T, capacity)}, nil
}

// Cap returns the fixed store size.
func (d *Line[T]) Cap() int {
	return len(d.buffer)
}

// Len returns the number of samples logically stored.
func (d *Line[T]) Len() int {
	return d.size
}

// ReadIndex returns the read cursor.
func (d *Line[T]) ReadIndex() int { return d.read }

// WriteIndex returns the write cursor.
func (d *Line[T]) WriteIndex() int { return d.write }

// SetReadIndex moves the read cursor to i modulo Cap. Negative values are
// allowed, so callers can pass WriteIndex()-delay directly.
func (d *Line[T]) SetReadIndex(i int) {
	d.read = d.wrap(i)
	d.size = d.wrap(d.write - d.read)
}

// SetWriteIndex moves the write cursor to i modulo Cap.
func (d *Line[T]) SetWriteIndex(i int) {
	d.write = d.wrap(i)
	d.size = d.wrap(d.write - d.read)
}

// Reset zeroes the store and both cursors without reallocating.
func (d *Line[T]) Reset() {
	clear(d.buffer)
	d.read = 0
	d.write = 0
	d.size = 0
}

// Put writes the current write slot without advancing.
func (d *Line[T]) Put(v T) {
	d.buffer[d.write] = v
}

// Peek reads the current read slot without advancing.
func (d *Line[T]) Peek() T {
	return d.buffer[d.read]
}

// Push writes one sample and advances the write cursor. On a full line the
// oldest sample is dropped and the read cursor advances too.
func (d *Line[T]) Push(v T) {
	d.buffer[d.write] = v
	d.write++
	if d.write == len(d.buffer) {
		d.write = 0
	}

	if d.size == len(d.buffer) {
		d.read = d.write
		return
	}
	d.size++
}

// Write is an alias for Push.
func (d *Line[T]) Write(v T) { d.Push(v) }

// Pop reads the oldest sample and advances the read cursor.
// It reports false and leaves the cursors alone when the line is empty.
func (d *Line[T]) Pop() (T, bool) {
	if d.size == 0 {
		var zero T
		return zero, false
	}

	v := d.buffer[d.read]
	d.read++
	if d.read == len(d.buffer) {
		d.read = 0
	}
	d.size--
	return v, true
}

// Get reads offset slots after the read cursor without advancing.
func (d *Line[T]) Get(offset int) T {
	return d.buffer[d.wrap(d.read+d.wrap(offset))]
}

// GetFractional reads at a fractional offset from the read cursor, blending
// Get(floor(offset)) and Get(floor(offset)+1) linearly. Integer offsets return
// Get(offset) exactly. NaN or infinite offsets read offset 0.
func (d *Line[T]) GetFractional(offset float64) T {
	return d.fractionalAt(d.read, offset, interp.Linear)
}

// GetCubic is GetFractional with 4-point Hermite interpolation. It reads one
// extra neighbour on each side.
func (d *Line[T]) GetCubic(offset float64) T {
	return d.fractionalAt(d.read, offset, interp.Hermite)
}

// Read reads an integer delay in samples behind the write cursor.
// Read(1) is the most recently pushed sample.
func (d *Line[T]) Read(delay int) T {
	return d.buffer[d.wrap(d.write-d.wrap(delay))]
}

// ReadFractional reads a fractional delay behind the write cursor with linear
// interpolation. ReadFractional(1) equals Read(1).
func (d *Line[T]) ReadFractional(delay float64) T {
	return d.fractionalAt(d.write, -delay, interp.Linear)
}

func (d *Line[T]) fractionalAt(base int, offset float64, mode interp.Mode) T {
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return d.buffer[base]
	}

	n := float64(len(d.buffer))
	pos := math.Mod(offset, n)
	if pos < 0 {
		pos += n
	}
	if pos >= n {
		pos = 0
	}

	i := int(pos)
	frac := pos - float64(i)
	x0 := d.buffer[d.wrap(base+i)]
	if frac == 0 {
		return x0
	}

	x1 := d.buffer[d.wrap(base+i+1)]
	if mode == interp.Hermite {
		xm1 := d.buffer[d.wrap(base+i-1)]
		x2 := d.buffer[d.wrap(base+i+2)]
		return interp.Hermite4(T(frac), xm1, x0, x1, x2)
	}
	return interp.Linear2(T(frac), x0, x1)
}

func (d *Line[T]) wrap(i int) int {
	n := len(d.buffer)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
