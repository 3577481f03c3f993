package dsp

import "math"

// log2 and exp2 are float32 wrappers around the stdlib float64 forms;
// every module here works in log2-frequency or log2-amplitude space so
// these two get called on nearly every chunk boundary.
func log2(x float32) float32 {
	return float32(math.Log2(float64(x)))
}

func exp2(x float32) float32 {
	return float32(math.Exp2(float64(x)))
}
