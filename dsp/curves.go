// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

// Curve selects the shape used to map a MIDI controller value onto [0, 1].
type Curve uint8

const (
	CurveLinear Curve = iota
	CurveConcave
	CurveConvex
	CurveSwitched
	numCurves
)

const controllerSize = 128

// curveTables holds ascending curves; descending lookups mirror the index.
var curveTables [numCurves][controllerSize]float64

func initCurves() {
	for i := range controllerSize {
		x := float64(i)
		curveTables[CurveLinear][i] = x / controllerSize

		if i == controllerSize-1 {
			curveTables[CurveConcave][i] = 1
		} else {
			curveTables[CurveConcave][i] = -40.0 / 96.0 * math.Log10((127-x)/127)
		}

		if i == 0 {
			curveTables[CurveConvex][i] = 0
		} else {
			curveTables[CurveConvex][i] = 1 - (-40.0 / 96.0 * math.Log10(x/127))
		}

		if i < controllerSize/2 {
			curveTables[CurveSwitched][i] = 0
		} else {
			curveTables[CurveSwitched][i] = 1
		}
	}
}

// ControllerTransform maps a 7-bit controller value through curve. When
// descending is set the curve runs from 1 down to 0; bipolar rescales the
// result into [-1, 1].
func ControllerTransform(curve Curve, descending, bipolar bool, value int) float64 {
	if curve >= numCurves {
		curve = CurveLinear
	}
	i := Clamp(value, 0, controllerSize-1)
	if descending {
		i = controllerSize - 1 - i
	}
	v := curveTables[curve][i]
	if bipolar {
		return 2*v - 1
	}
	return v
}

// ControllerTransform14 is ControllerTransform for 14-bit sources such as the
// pitch wheel. Linear curves keep the full resolution; the others use the
// 7-bit tables.
func ControllerTransform14(curve Curve, descending, bipolar bool, value int) float64 {
	value = Clamp(value, 0, 16383)
	if curve != CurveLinear {
		return ControllerTransform(curve, descending, bipolar, value>>7)
	}
	v := float64(value) / 16384
	if descending {
		v = float64(16383-value) / 16384
	}
	if bipolar {
		return 2*v - 1
	}
	return v
}
