package vmath

import "math"

// SinLUT and CosLUT hold one full rotation sampled at LUTSize points, Q32.32
var (
	SinLUT [LUTSize]int64
	CosLUT [LUTSize]int64
)

// RadToRot converts Q32.32 radians to rotation units (Scale = 2pi)
var RadToRot = FromFloat(1.0 / (2.0 * math.Pi))

func init() {
	for i := 0; i < LUTSize; i++ {
		rad := 2.0 * math.Pi * float64(i) / LUTSize
		SinLUT[i] = int64(math.Sin(rad) * ScaleF)
		CosLUT[i] = int64(math.Cos(rad) * ScaleF)
	}
}
