package dsp

import "math"

// AppendCrossfade joins seg onto dst with an equal-power crossfade over
// up to overlap samples. This is what keeps phoneme boundaries from
// clicking; a plain append is only used when dst is still empty.
func AppendCrossfade(dst, seg []float32, overlap int) []float32 {
	if len(seg) == 0 {
		return dst
	}
	if len(dst) == 0 || overlap == 0 {
		return append(dst, seg...)
	}

	n := overlap
	if n > len(dst) {
		n = len(dst)
	}
	if n > len(seg) {
		n = len(seg)
	}
	start := len(dst) - n
	for i := 0; i < n; i++ {
		a := float32(i) / float32(max(n, 1))
		fadeOut := sqrtf(1 - a)
		fadeIn := sqrtf(a)
		dst[start+i] = dst[start+i]*fadeOut + seg[i]*fadeIn
	}
	return append(dst, seg[n:]...)
}

// ApplySegmentEdges fades both ends of a segment with smoothstep ramps
// of edge samples so the crossfade never sees a hard discontinuity.
func ApplySegmentEdges(samples []float32, edge int) {
	if len(samples) == 0 || edge == 0 {
		return
	}
	if edge > len(samples)/2 {
		edge = len(samples) / 2
	}
	for i := 0; i < edge; i++ {
		samples[i] *= Smoothstep(float32(i) / float32(max(edge, 1)))
	}
	start := len(samples) - edge
	for i := 0; i < edge; i++ {
		samples[start+i] *= Smoothstep(float32(edge-i) / float32(max(edge, 1)))
	}
}

// Normalize scales so the peak hits volume. Only ever attenuates; quiet
// material is left quiet rather than amplified into the noise floor.
func Normalize(samples []float32, volume float32) {
	peak := float32(0.00001)
	for _, s := range samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	gain := volume / peak
	if gain > 1 {
		gain = 1
	}
	for i := range samples {
		samples[i] *= gain
	}
}

// ApplySoftLimiter runs samples through a driven tanh, normalized so
// unity input maps back to unity.
func ApplySoftLimiter(samples []float32, drive float32) {
	k := maxf(drive, 1)
	norm := tanhf(k)
	for i, s := range samples {
		samples[i] = tanhf(s*k) / norm
	}
}

// ClampPeak hard-limits every sample to ±maxAbs.
func ClampPeak(samples []float32, maxAbs float32) {
	lim := Clamp(maxAbs, 0, 1)
	for i, s := range samples {
		samples[i] = Clamp(s, -lim, lim)
	}
}

// ApplyDistortion is tanh waveshaping with drive scaled by amount.
func ApplyDistortion(samples []float32, amount float32) {
	drive := 1 + amount*12
	if drive > 30 {
		drive = 30
	}
	for i, s := range samples {
		samples[i] = tanhf(Clamp(s*drive, -3, 3))
	}
}

// ApplyReverb mixes the comb's wet signal against the dry input.
func ApplyReverb(samples []float32, mix float32, comb *Comb) {
	wet := Clamp(mix, 0, 0.95)
	dry := 1 - wet
	for i, s := range samples {
		samples[i] = s*dry + comb.Process(s)*wet
	}
}

// ApplyLowpass is a one-pole RC lowpass.
func ApplyLowpass(samples []float32, sampleRate, cutoffHz float32) {
	cutoff := Clamp(cutoffHz, 400, sampleRate*0.45)
	rc := 1 / (2 * float32(math.Pi) * cutoff)
	dt := 1 / sampleRate
	alpha := dt / (rc + dt)
	y := float32(0)
	for i, s := range samples {
		y += alpha * (s - y)
		samples[i] = y
	}
}

// ApplyHighpass is a one-pole RC highpass.
func ApplyHighpass(samples []float32, sampleRate, cutoffHz float32) {
	cutoff := Clamp(cutoffHz, 10, sampleRate*0.45)
	rc := 1 / (2 * float32(math.Pi) * cutoff)
	dt := 1 / sampleRate
	alpha := rc / (rc + dt)
	y := float32(0)
	x1 := float32(0)
	for i, x := range samples {
		y = alpha * (y + x - x1)
		x1 = x
		samples[i] = y
	}
}

// ApplyTransientGuard clamps the per-sample delta. Anti-click safety
// net behind everything the crossfades miss.
func ApplyTransientGuard(samples []float32, maxDelta float32) {
	limit := Clamp(maxDelta, 0.005, 1)
	prev := float32(0)
	for i, s := range samples {
		prev += Clamp(s-prev, -limit, limit)
		samples[i] = prev
	}
}

// RemoveDCOffset is a one-pole highpass integrator at a fixed pole.
func RemoveDCOffset(samples []float32) {
	const r = 0.995
	x1 := float32(0)
	y1 := float32(0)
	for i, s := range samples {
		y := s - x1 + r*y1
		x1 = s
		y1 = y
		samples[i] = y
	}
}

// SoftNoiseGate ramps out samples below threshold linearly instead of
// cutting them, so the gate itself cannot click.
func SoftNoiseGate(samples []float32, threshold float32) {
	t := maxf(threshold, 1e-6)
	for i, s := range samples {
		a := float32(math.Abs(float64(s)))
		if a < t {
			samples[i] = s * (a / t)
		}
	}
}

// ApplyFadeEdges smoothsteps the very start and end of the whole buffer.
func ApplyFadeEdges(samples []float32, fadeIn, fadeOut int) {
	if len(samples) == 0 {
		return
	}
	in := fadeIn
	if in > len(samples) {
		in = len(samples)
	}
	for i := 0; i < in; i++ {
		samples[i] *= Smoothstep(float32(i) / float32(max(in, 1)))
	}
	out := fadeOut
	if out > len(samples) {
		out = len(samples)
	}
	start := len(samples) - out
	for i := 0; i < out; i++ {
		samples[start+i] *= Smoothstep(float32(out-i) / float32(max(out, 1)))
	}
}

// ExpDecay is e^(-t*rate), used for burst and tap envelopes.
func ExpDecay(t, rate float32) float32 {
	return expf(-(t * rate))
}
