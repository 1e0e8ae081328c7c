// Command delayfx runs a comb filter or a vibrato over a WAV file.
//
// Usage:
//
//	delayfx [flags]
//
// The output is a WAV file, or a text file with one column per channel when
// the -out path ends in .txt. With -response the frequency response of the
// configured effect is printed instead of, or in addition to, processing.
//
// Examples:
//
//	delayfx -in voice.wav -out echo.wav -comb IIR,0.5,0.6,0.25
//	delayfx -in voice.wav -out wobble.wav -effect vibrato -rate 6 -depth 0.003
//	delayfx -in voice.wav -out samples.txt -type FIR -delay 0.01
//	delayfx -preset room.json -response
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
