// Package delay provides a fixed-capacity circular sample store.
//
// [Line] keeps independent read and write cursors over a contiguous slice.
// Every offset, positive or negative, is reduced modulo the capacity before
// indexing, so no operation can touch memory outside the store and every
// operation is O(1).
//
// Two access styles share one store:
//
//   - Stream mode: [Line.Push] and [Line.Pop] advance the cursors. Push drops
//     the oldest sample when the line is full, advancing the read cursor
//     together with the write cursor, so [Line.Len] never exceeds [Line.Cap]
//     and Get(0..Cap-1) always returns the Cap most recent samples, oldest first.
//   - Probe mode: [Line.Put], [Line.Peek], [Line.Get] and the fractional
//     readers never move a cursor.
//
// Effects reposition the read cursor relative to the write cursor with
// [Line.SetReadIndex] (for example SetReadIndex(WriteIndex()-d)) and then read
// with Peek or GetFractional.
package delay
