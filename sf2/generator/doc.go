// SPDX-License-Identifier: EPL-2.0

// Package generator defines the SF2 generator operators: their indices, value
// kinds, defaults, and whether they may appear at preset level.
package generator
