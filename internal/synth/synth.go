// Package synth renders phoneme sequences into mono PCM using a
// source-filter model: a glottal pulse oscillator pushed through three
// bandpass resonators tuned to vowel formants, followed by a
// post-processing chain. A Synthesizer is built fresh per utterance and
// never reused.
package synth

import (
	"math"
	"math/rand/v2"

	"github.com/hollowline/vox-core/internal/dsp"
	"github.com/hollowline/vox-core/internal/phonetic"
)

// joinFadeSamples is the crossfade overlap between adjacent segments.
const joinFadeSamples = 192

// Synthesizer carries the continuity state that makes consecutive
// phonemes join without clicks: oscillator phase, the previous vowel's
// formants for coarticulation, pitch drift, resonator and noise memory.
type Synthesizer struct {
	params Params
	rng    *rand.Rand

	glottalPhase float32
	prevFormants *[3]float32
	pitchDriftHz float32

	f1, f2, f3 dsp.Biquad

	reverb *dsp.Comb

	noiseFast float32
	noiseSlow float32
}

// New builds a synthesizer for one utterance. A nil RNG gets a randomly
// seeded one; pass a seeded RNG for reproducible output.
func New(params Params, rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	reverbLen := float32(SampleRate) * 0.085
	return &Synthesizer{
		params: params,
		rng:    rng,
		f1:     dsp.NewBiquad(),
		f2:     dsp.NewBiquad(),
		f3:     dsp.NewBiquad(),
		reverb: dsp.NewComb(int(reverbLen), 0.72),
	}
}

func (s *Synthesizer) clearFilters() {
	s.f1.Reset()
	s.f2.Reset()
	s.f3.Reset()
}

// Synthesize renders the phoneme sequence into mono samples at
// SampleRate. It never fails: every numeric input is clamped where it
// is used, and the output is peak-clamped to ±0.98.
func (s *Synthesizer) Synthesize(phonemes []phonetic.Phoneme) []float32 {
	var samples []float32

	for idx, p := range phonemes {
		switch p.Kind {
		case phonetic.KindPause, phonetic.KindBreath:
			s.clearFilters()
			seg := silence(phonemeSeconds(p, s.params.Speed))
			samples = dsp.AppendCrossfade(samples, seg, joinFadeSamples)

		case phonetic.KindVowel:
			durS := phonemeSeconds(p, s.params.Speed)
			next := lookaheadFormants(phonemes, idx)
			seg := s.synthVowel(p, durS, next)
			dsp.ApplySegmentEdges(seg, 36)
			samples = dsp.AppendCrossfade(samples, seg, joinFadeSamples)
			s.prevFormants = p.Formants

		case phonetic.KindConsonant:
			s.clearFilters()
			durS := phonemeSeconds(p, s.params.Speed)
			next := lookaheadFormants(phonemes, idx)
			seg := s.synthConsonant(p, durS, next)
			dsp.ApplySegmentEdges(seg, 24)
			samples = dsp.AppendCrossfade(samples, seg, joinFadeSamples)
		}
	}

	// tail so reverb and fades have room to die out
	samples = append(samples, silence(tailSeconds(s.params))...)

	if s.params.Distortion > 0.02 {
		dsp.ApplyDistortion(samples, s.params.Distortion)
	}
	if s.params.ReverbMix > 0.001 {
		dsp.ApplyReverb(samples, s.params.ReverbMix, s.reverb)
	}

	dsp.ApplyLowpass(samples, SampleRate, 6800)
	dsp.ApplyHighpass(samples, SampleRate, 38)
	dsp.ApplyTransientGuard(samples, 0.075)
	dsp.RemoveDCOffset(samples)
	dsp.SoftNoiseGate(samples, 0.0015)
	dsp.ApplyFadeEdges(samples, 160, 2400)
	dsp.Normalize(samples, s.params.Volume)
	dsp.ApplySoftLimiter(samples, 1.05)
	dsp.ClampPeak(samples, 0.98)
	return samples
}

// glottalPulse advances the phase accumulator one sample and returns a
// Rosenberg-style pulse: smoothstep rise over the first 40% of the
// cycle, smoothstep fall over the next 40%, closed for the rest, plus a
// faint second-harmonic buzz.
func (s *Synthesizer) glottalPulse(f0 float32) float32 {
	inc := f0 / SampleRate
	if inc > 0.45 {
		inc = 0.45
	}
	s.glottalPhase += inc
	if s.glottalPhase >= 1 {
		s.glottalPhase -= float32(math.Floor(float64(s.glottalPhase)))
	}
	t := s.glottalPhase

	var y float32
	switch {
	case t < 0.4:
		y = dsp.Smoothstep(t / 0.4)
	case t < 0.8:
		y = 1 - dsp.Smoothstep((t-0.4)/0.4)
	default:
		y = 0
	}

	buzz := float32(math.Sin(2*math.Pi*float64(t))) * 0.08
	return (y + buzz) * 0.9
}

// coloredNoise is white noise smoothed by two one-pole lowpasses with
// different time constants, mixed fast-heavy. Feeds breath, whisper and
// frication layers.
func (s *Synthesizer) coloredNoise(fast, slow float32) float32 {
	white := s.randRange(-1, 1)
	s.noiseFast = dsp.Lerp(s.noiseFast, white, dsp.Clamp(fast, 0.001, 1))
	s.noiseSlow = dsp.Lerp(s.noiseSlow, white, dsp.Clamp(slow, 0.001, 1))
	return dsp.Clamp(s.noiseFast*0.72+s.noiseSlow*0.28, -1, 1)
}

func (s *Synthesizer) randRange(lo, hi float32) float32 {
	return lo + float32(s.rng.Float64())*(hi-lo)
}

// lookaheadFormants finds the next vowel's formants within the next
// three phonemes, for coarticulation pull.
func lookaheadFormants(phonemes []phonetic.Phoneme, idx int) *[3]float32 {
	end := idx + 4
	if end > len(phonemes) {
		end = len(phonemes)
	}
	for j := idx + 1; j < end; j++ {
		if phonemes[j].Kind == phonetic.KindVowel && phonemes[j].Formants != nil {
			return phonemes[j].Formants
		}
	}
	return nil
}

func silence(seconds float32) []float32 {
	n := int(seconds * SampleRate)
	if n < 1 {
		n = 1
	}
	return make([]float32, n)
}
