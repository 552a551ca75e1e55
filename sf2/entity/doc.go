// SPDX-License-Identifier: EPL-2.0

// Package entity decodes the fixed-layout records stored in SF2 leaf chunks.
//
// Every pdta table ends with a terminal record. Table keeps that record
// reachable through At but leaves it out of Len and Items, so a file with N
// raw presets reports N-1.
package entity
