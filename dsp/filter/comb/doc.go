// Package comb provides a multi-channel feedforward (FIR) / feedback (IIR)
// comb filter built on [delay.Line].
//
// For a delay of d samples and gain g:
//
//	FIR: y[n] = x[n] + g*x[n-d]
//	IIR: y[n] = x[n] + g*y[n-d]
//
// The FIR form is always stable. The IIR form is stable only for |g| < 1;
// gain is validated as g >= 0 but the upper bound is left to the caller.
package comb
