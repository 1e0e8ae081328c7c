// Package spectrum turns complex FFT bins into the real-valued curves used to
// inspect delay effects: magnitude (linear and dB), phase and group delay.
//
// It does not run an FFT itself; see measure/response for that.
package spectrum
