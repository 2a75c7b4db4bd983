package dsp

import "math"

// Biquad is a two-pole filter in transposed direct form II. The zero
// value passes input through unchanged.
type Biquad struct {
	b0, b1, b2 float32
	a1, a2     float32
	z1, z2     float32
}

// NewBiquad returns an identity filter.
func NewBiquad() Biquad {
	return Biquad{b0: 1}
}

// Reset clears the delay memory without touching the coefficients.
// Called at segment boundaries so resonance cannot ring across pauses.
func (f *Biquad) Reset() {
	f.z1 = 0
	f.z2 = 0
}

// SetBandpass retunes to a constant-skirt bandpass at freqHz with
// sharpness q. Frequency is clamped to [40 Hz, 0.45*sampleRate] and q
// kept positive, so coefficients stay finite for any input.
func (f *Biquad) SetBandpass(sampleRate, freqHz, q float32) {
	freq := Clamp(freqHz, 40, sampleRate*0.45) / sampleRate
	w0 := 2 * float32(math.Pi) * freq
	alpha := sinf(w0) / (2 * maxf(q, 0.001))

	// peak gain = Q
	a0 := 1 + alpha
	f.b0 = alpha / a0
	f.b1 = 0
	f.b2 = -alpha / a0
	f.a1 = -2 * cosf(w0) / a0
	f.a2 = (1 - alpha) / a0
}

// Process advances the filter by one sample.
func (f *Biquad) Process(x float32) float32 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}
