// Package dsp holds the small numeric primitives the synthesizer is
// built from: a biquad bandpass resonator, a feedback comb, smoothstep
// shaping, and in-place effect passes over float32 sample slices.
package dsp

import "math"

// Lerp linearly interpolates a..b with t clamped to [0, 1].
func Lerp(a, b, t float32) float32 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}

// Smoothstep is the cubic ease x²(3-2x) over x clamped to [0, 1].
func Smoothstep(x float32) float32 {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	return x * x * (3 - 2*x)
}

// EnvelopeAR is an attack/release amplitude envelope over normalized
// segment time t in [0, 1]. Smoothstep in, flat sustain, smoothstep out.
func EnvelopeAR(t, attack, sustain, release float32) float32 {
	switch {
	case t < attack:
		return Smoothstep(t / maxf(attack, 1e-6))
	case t > 1-release:
		return sustain * Smoothstep((1-t)/maxf(release, 1e-6))
	default:
		return sustain
	}
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cosf(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func tanhf(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}

func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
