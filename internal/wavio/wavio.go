// Package wavio converts between WAV files and the channel-major [][]float64
// blocks processed by the effects, plus a plain-text column dump.
package wavio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// ErrEmpty is returned for files or buffers without any frames.
var ErrEmpty = errors.New("wavio: no audio frames")

// Audio is a de-interleaved PCM signal.
type Audio struct {
	SampleRate int
	Channels   [][]float64
}

// Frames returns the per-channel sample count.
func (a *Audio) Frames() int {
	if a == nil || len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Read decodes a WAV file.
func Read(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Decode reads a WAV stream into normalised float channels.
func Decode(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("wavio: invalid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, errors.New("wavio: invalid wav buffer")
	}
	if buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("wavio: invalid sample rate: %d", buf.Format.SampleRate)
	}

	numCh := buf.Format.NumChannels
	frames := len(buf.Data) / numCh
	if frames == 0 {
		return nil, ErrEmpty
	}

	a := &Audio{SampleRate: buf.Format.SampleRate, Channels: make([][]float64, numCh)}
	for ch := range a.Channels {
		a.Channels[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < numCh; ch++ {
			a.Channels[ch][i] = float64(buf.Data[i*numCh+ch])
		}
	}
	return a, nil
}

// Write encodes a as 16-bit PCM, creating parent directories as needed.
func Write(path string, a *Audio) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Encode(f, a); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Encode writes a as 16-bit PCM. Samples outside [-1, 1] are clipped.
func Encode(w io.WriteSeeker, a *Audio) error {
	if a == nil || a.Frames() == 0 {
		return ErrEmpty
	}
	if a.SampleRate <= 0 {
		return fmt.Errorf("wavio: invalid sample rate: %d", a.SampleRate)
	}

	numCh := len(a.Channels)
	frames := a.Frames()
	data := make([]float32, frames*numCh)
	for ch, samples := range a.Channels {
		if len(samples) != frames {
			return fmt.Errorf("wavio: channel %d has %d frames, want %d", ch, len(samples), frames)
		}
		for i, v := range samples {
			data[i*numCh+ch] = float32(max(-1, min(1, v)))
		}
	}

	enc := wav.NewEncoder(w, a.SampleRate, 16, numCh, 1)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  a.SampleRate,
			NumChannels: numCh,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// WriteText writes one line per frame with one space-separated column per
// channel.
func WriteText(w io.Writer, channels [][]float64) error {
	bw := bufio.NewWriter(w)
	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
	}

	line := make([]byte, 0, 32*len(channels))
	for i := 0; i < frames; i++ {
		line = line[:0]
		for ch, samples := range channels {
			if ch > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendFloat(line, samples[i], 'g', -1, 64)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
