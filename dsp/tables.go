// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

const (
	panSize         = 1001
	sineSize        = 4096
	centsScaleSize  = 2401
	centsCycle      = 1200
	attenuationSize = MaxAttenuationTable + 1
	cubicSize       = 1024
)

var (
	panTable          [panSize]float64
	sineTable         [sineSize]float64
	centsScaleTable   [centsScaleSize]float64
	centsPartialTable [centsCycle]float64
	power2Table       [centsCycle]float64
	attenuationTable  [attenuationSize]float64
	cubicTable        [cubicSize][4]float64
)

func init() {
	for i := range panSize {
		panTable[i] = math.Sin(float64(i) * (math.Pi / 2) / (panSize - 1))
	}

	for i := range sineSize {
		sineTable[i] = math.Sin(float64(i) * (math.Pi / 2) / sineSize)
	}

	for i := range centsScaleSize {
		centsScaleTable[i] = math.Pow(2, float64(i-1200)/1200)
	}

	for i := range centsCycle {
		power2Table[i] = math.Pow(2, float64(i)/1200)
		centsPartialTable[i] = 6.875 * power2Table[i]
	}

	for i := range attenuationSize {
		attenuationTable[i] = math.Pow(10, -float64(i)/200)
	}

	for i := range cubicSize {
		x := float64(i) / cubicSize
		x2 := x * x
		x3 := x2 * x
		cubicTable[i] = [4]float64{
			-0.5*x3 + x2 - 0.5*x,
			1.5*x3 - 2.5*x2 + 1,
			-1.5*x3 + 2*x2 + 0.5*x,
			0.5*x3 - 0.5*x2,
		}
	}

	initCurves()
}
