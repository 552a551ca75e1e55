// SPDX-License-Identifier: EPL-2.0

// Package chunk walks RIFF containers lazily and bounds-checked.
//
// Chunks are views into the caller's buffer; nothing is copied. A length
// field that points outside its enclosing range stops only the walk over that
// range, so damaged tails can be detected without losing earlier siblings.
package chunk
