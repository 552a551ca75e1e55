// SPDX-License-Identifier: EPL-2.0

// Package writer builds SF2 files from samples, instruments and presets.
package writer
