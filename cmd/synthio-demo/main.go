// Command synthio-demo opens an audio output device, wires up the
// default monosynth patch, and plays a short fixed note sequence
// through it — a headless proof that the core renders real audio.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/internal/config"
	"github.com/wrenaudio/synthio/internal/control"
	"github.com/wrenaudio/synthio/internal/wavsink"
)

func main() {
	if err := run(); err != nil {
		log.Error("synthio-demo: fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = pflag.StringP("config", "c", "", "path to a YAML config file (optional)")
		duration   = pflag.DurationP("duration", "d", 3*time.Second, "how long to play")
		recordPath = pflag.StringP("record", "r", "", "path to write a .wav recording (optional)")
	)
	pflag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *recordPath != "" {
		cfg.RecordPath = *recordPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Info("synthio-demo: starting", "sample_rate", cfg.SampleRate, "node_capacity", cfg.NodeCapacity)

	eng, w := control.NewEngine(cfg.SampleRate, cfg.NodeCapacity)

	var sink *wavsink.Sink
	if cfg.RecordPath != "" {
		s, err := wavsink.Create(cfg.RecordPath, int(cfg.SampleRate))
		if err != nil {
			return err
		}
		sink = s
		defer func() {
			if err := sink.Close(); err != nil {
				log.Error("synthio-demo: closing recording", "error", err)
			}
		}()
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("synthio-demo: portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	var ts uint64
	chunkNs := uint64(buffer.NSamplesPerChunk) * uint64(1e9/cfg.SampleRate)

	// The callback only renders and copies to the device buffer — no
	// file I/O on the audio thread. A recording tap, if any, drains the
	// Monitor node's accumulated audio from the control side instead.
	callback := func(out []float32) {
		for i := 0; i < len(out); i += buffer.NSamplesPerChunk {
			rendered := w.Work(ts)
			ts += chunkNs
			copy(out[i:], rendered[0].Get()[:])
		}
	}

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(cfg.SampleRate), buffer.NSamplesPerChunk, callback)
	if err != nil {
		return fmt.Errorf("synthio-demo: open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("synthio-demo: start stream: %w", err)
	}
	defer stream.Stop()

	var stopRecording, recordingDone chan struct{}
	if sink != nil {
		stopRecording = make(chan struct{})
		recordingDone = make(chan struct{})
		go recordMonitor(eng.Core, sink, stopRecording, recordingDone)
	}

	eng.Midi.DispatchMidi(eng.Core, []byte{0x90, 69, 100}, ts)
	time.Sleep(*duration * 3 / 4)
	eng.Midi.DispatchMidi(eng.Core, []byte{0x80, 69, 0}, ts)
	time.Sleep(*duration / 4)

	if sink != nil {
		close(stopRecording)
		<-recordingDone
	}

	n := eng.Core.PollRx()
	log.Info("synthio-demo: stopped", "return_queue_items", n)
	return nil
}

// recordMonitor periodically drains eng.Core's Monitor queue and
// writes whatever has accumulated to sink, entirely off the audio
// thread. It drains one last time after stop is closed so buffers the
// Monitor shipped since the last tick aren't lost, then closes done. A
// Monitor buffer that is still only partly filled is never shipped, so
// it is not written.
func recordMonitor(c *control.Core, sink *wavsink.Sink, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	var buf []float32
	drain := func() {
		buf = c.PollMonitor(buf[:0])
		if len(buf) > 0 {
			if err := sink.Write(buf); err != nil {
				log.Error("synthio-demo: writing recording", "error", err)
			}
		}
	}

	for {
		select {
		case <-ticker.C:
			drain()
		case <-stop:
			drain()
			return
		}
	}
}
