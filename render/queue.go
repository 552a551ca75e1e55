// SPDX-License-Identifier: EPL-2.0

package render

import (
	"sync"
	"sync/atomic"
)

type opcode uint8

const (
	opNone opcode = iota
	opSelectPreset
	opNoteOn
	opNoteOff
	opControlChange
	opPitchBend
	opChannelPressure
	opKeyPressure
	opAllNotesOff
	opSetGain
	opSetPan
)

// command is a fixed-size control message. Only the fields an opcode needs
// are set.
type command struct {
	op   opcode
	a, b int32
	f    float64
}

// ring is a bounded single-consumer queue. Producers serialize on mu; the
// consumer only touches atomics.
type ring struct {
	mu   sync.Mutex
	buf  []command
	mask uint64
	head atomic.Uint64
	tail atomic.Uint64
}

func newRing(size int) *ring {
	return &ring{buf: make([]command, size), mask: uint64(size - 1)}
}

func (r *ring) push(c command) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		return false
	}
	r.buf[tail&r.mask] = c
	r.tail.Store(tail + 1)
	return true
}

func (r *ring) pop() (command, bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		return command{}, false
	}
	c := r.buf[head&r.mask]
	r.head.Store(head + 1)
	return c, true
}

func (r *ring) len() int {
	return int(r.tail.Load() - r.head.Load())
}
