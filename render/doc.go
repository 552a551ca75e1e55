// SPDX-License-Identifier: EPL-2.0

// Package render is the real-time synthesis engine. An Engine owns a fixed
// pool of voices and a bounded command queue: control goroutines enqueue
// note and controller commands, and the render goroutine drains them at the
// start of every block before mixing the active voices.
//
//	e := render.NewEngine(render.DefaultConfig())
//	e.Load(sf)
//	_ = e.NoteOn(60, 100)
//	n := e.RenderBlock(left, right)
//
// # Threads
//
// Two kinds of goroutines use an Engine:
//   - Control goroutines call NoteOn, NoteOff, ControlChange, PitchBend,
//     ChannelPressure, KeyPressure, AllNotesOff, SetGain, SetPan and
//     SelectPreset. Each call validates its arguments and pushes one command
//     onto the queue; several control goroutines may call at once.
//   - One render goroutine calls RenderBlock or ReadSamples. It is the only
//     reader of the queue and the only owner of the voices.
//
// Load swaps the SoundFont atomically. The render goroutine picks it up at
// the next block, silences every voice and selects the same preset handle
// in the new font, falling back to the first preset.
//
// # Configuration
//
// Config sizes everything once in NewEngine:
//
//	e := render.NewEngine(render.Config{
//		SampleRate: 48000,
//		Voices:     128,
//		QueueSize:  512,
//		BlockSize:  256,
//	}, render.WithLogger(log.Default()))
//
// Zero fields take the DefaultConfig values; QueueSize is rounded up to a
// power of two. The logger only sees control path events such as Load and
// dropped commands.
//
// # Voice Allocation
//
// A note-on takes a free voice when there is one. Otherwise the quietest
// voice is stolen, and among equally quiet voices the oldest. A voice that
// has not rendered yet is ranked by the level its attenuation heads for.
// Starting a voice with an exclusive class ends the other voices of that
// class on the same engine.
//
// # Stop and Start
//
// Stop may be called from any goroutine. The next block ends every voice and
// renders silence, and note-ons are ignored until Start. Controller state is
// still applied while stopped.
//
// # Error Handling
//
// Control methods return:
//   - ErrOutOfRange: a key, velocity, controller or gain outside its range
//   - ErrQueueFull: the render goroutine is not draining fast enough; the
//     command is dropped and counted by DroppedCommands
//   - ErrClosed: Close was called
//
// # Performance
//
// RenderBlock does not allocate and never logs. Voices, the command ring and
// the mixing buffers are allocated in NewEngine.
//
// The engine also implements audio.Source, producing interleaved stereo, so
// it can feed an audio device or any audio.Source consumer.
package render
