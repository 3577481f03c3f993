package control_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrenaudio/synthio/dsp"
	"github.com/wrenaudio/synthio/internal/control"
)

func TestInitMonosynthBuildsARunnablePatch(t *testing.T) {
	eng, w := control.NewEngine(44100, 32)
	eng.Core.PollRx()

	out := w.Work(0)
	require.NotEmpty(t, out)
	require.NotNil(t, eng.Midi)
}

func TestDispatchMidiNoteOnReachesReceivers(t *testing.T) {
	eng, w := control.NewEngine(44100, 32)
	eng.Core.PollRx()

	eng.Midi.DispatchMidi(eng.Core, []byte{0x90, 69, 100}, 0)
	w.Work(1)
	eng.Core.PollRx()

	out := w.Work(2)
	require.NotEmpty(t, out[0].Get())

	// The default patch's note receivers are NotePitch (id 1) and ADSR
	// (id 10); both must have seen the note-on for A4.
	ctrlOut := make([]float32, 1)
	w.Graph().GetModule(1).Process(nil, ctrlOut, nil, nil)
	require.InDelta(t, math.Log2(440), float64(ctrlOut[0]), 1e-4)

	env, ok := w.Graph().GetModule(10).(*dsp.ADSR)
	require.True(t, ok)
	env.Process([]float32{0, 0, 0, 0}, ctrlOut, nil, nil)
	require.Greater(t, ctrlOut[0], float32(-24))
}

func TestDispatchMidiCutoffCCSendsSetParam(t *testing.T) {
	eng, w := control.NewEngine(44100, 32)
	eng.Core.PollRx()

	eng.Midi.DispatchMidi(eng.Core, []byte{0xb0, 1, 64}, 5)
	w.Work(6)
	n := eng.Core.PollRx()
	require.Equal(t, 1, n)
}

func TestPollMonitorReturnsRenderedAudio(t *testing.T) {
	eng, w := control.NewEngine(44100, 64)
	eng.Core.PollRx()

	eng.Midi.DispatchMidi(eng.Core, []byte{0x90, 69, 100}, 0)
	var ts uint64
	const chunkNs = uint64(64) * (1_000_000_000 / 44100)
	for i := 0; i < 100; i++ {
		ts += chunkNs
		w.Work(ts)
		eng.Core.PollRx()
	}

	got := eng.Core.PollMonitor(nil)
	require.NotEmpty(t, got)
}
