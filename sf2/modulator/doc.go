// SPDX-License-Identifier: EPL-2.0

// Package modulator decodes SF2 modulator source operators and provides the
// default modulator set along with the identity rules used to layer
// modulators from instrument and preset zones.
//
// A modulator contributes
//
//	Transform(source) * Transform(amountSource) * amount
//
// to its destination generator, in that generator's native units.
package modulator
