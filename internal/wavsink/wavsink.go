// Package wavsink drains Monitor audio into a mono WAV file, off the
// audio thread. A Sink is driven by the control layer's poll loop —
// it never touches a queue head itself.
package wavsink

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Sink appends float32 samples to a mono WAV file at a fixed sample
// rate until Close finalizes the header.
type Sink struct {
	file    *os.File
	enc     *wav.Encoder
	intBuf  *audio.IntBuffer
	samples []int
}

// Create opens path for writing and starts a mono WAV encoder at
// sampleRate, 16-bit PCM.
func Create(path string, sampleRate int) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wavsink: create %s: %w", path, err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	return &Sink{
		file: f,
		enc:  enc,
		intBuf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		},
	}, nil
}

// Write appends samples (in [-1, 1]) to the file, converting to
// 16-bit PCM.
func (s *Sink) Write(samples []float32) error {
	if cap(s.samples) < len(samples) {
		s.samples = make([]int, len(samples))
	}
	s.samples = s.samples[:len(samples)]
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		s.samples[i] = int(v * 32767)
	}
	s.intBuf.Data = s.samples
	if err := s.enc.Write(s.intBuf); err != nil {
		return fmt.Errorf("wavsink: write: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the underlying file.
func (s *Sink) Close() error {
	if err := s.enc.Close(); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("wavsink: finalize: %w", err)
	}
	return s.file.Close()
}
