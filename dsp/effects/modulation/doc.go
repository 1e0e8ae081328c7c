// Package modulation provides LFO-driven delay effects.
//
// Included processors:
//   - Vibrato: Wet-only modulated delay, pitch wobble without a dry blend.
package modulation
