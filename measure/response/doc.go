// Package response measures the impulse and frequency response of a block
// processor such as a comb filter or a vibrato.
//
// A unit impulse is driven through the processor block by block, the result is
// transformed with algo-fft, and the bins are summarised with dsp/spectrum.
// RT60 estimates the -60 dB decay time of a feedback comb from its impulse
// response with Schroeder backward integration.
package response
