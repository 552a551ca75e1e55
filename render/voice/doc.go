// SPDX-License-Identifier: EPL-2.0

// Package voice renders a single sounding layer of a note: generator
// layering, modulator evaluation, envelopes, LFOs, sample interpolation and
// a low-pass filter.
//
// A Voice is designed for the render thread. Start and Render never
// allocate, so a pool of voices can be reused for every note.
package voice
