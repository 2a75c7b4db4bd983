package synth

import (
	"math"

	"github.com/hollowline/vox-core/internal/dsp"
	"github.com/hollowline/vox-core/internal/phonetic"
)

// synthVowel renders one vowel segment. The formant targets are blended
// from the previous vowel (decaying over the first quarter of the
// segment) and tugged toward the next upcoming vowel, so formants glide
// instead of jumping. Creepiness widens resonator Q and shifts F1/F2
// asymmetrically.
func (s *Synthesizer) synthVowel(p phonetic.Phoneme, durS float32, next *[3]float32) []float32 {
	n := int(durS * SampleRate)
	if n < 1 {
		n = 1
	}
	out := make([]float32, 0, n)

	target := [3]float32{500, 1500, 2500}
	if p.Formants != nil {
		target = *p.Formants
	}

	prev := target
	if s.prevFormants != nil {
		prev = *s.prevFormants
	}
	nxt := target
	if next != nil {
		nxt = *next
	}

	creep := dsp.Clamp(s.params.Creepiness, 0, 1)
	creepShift := 1 + s.randRange(-0.5, 0.5)*0.12*creep

	// Q rises with creepiness: sharper, weirder resonances
	q1 := 10 + creep*6
	q2 := 12 + creep*7
	q3 := 9 + creep*5

	// retune smoothly over the first quarter of the segment
	rampN := int(float32(n) * 0.25)

	for i := 0; i < n; i++ {
		t := float32(i) / float32(n)

		f := [3]float32{
			dsp.Lerp(prev[0], target[0], t*1.4)*0.75 + dsp.Lerp(target[0], nxt[0], t*0.9)*0.25,
			dsp.Lerp(prev[1], target[1], t*1.4)*0.75 + dsp.Lerp(target[1], nxt[1], t*0.9)*0.25,
			dsp.Lerp(prev[2], target[2], t*1.4)*0.75 + dsp.Lerp(target[2], nxt[2], t*0.9)*0.25,
		}

		// asymmetric shift between F1 and F2 is what reads as "wrong"
		f1 := f[0] * (creepShift * (1 + 0.04*creep))
		f2 := f[1] * (creepShift * (1 - 0.03*creep))
		f3 := f[2] * (1 + s.randRange(-0.01, 0.01)*creep)

		if i < rampN {
			a := float32(i) / float32(max(rampN, 1))
			s.f1.SetBandpass(SampleRate, dsp.Lerp(prev[0], f1, a), q1)
			s.f2.SetBandpass(SampleRate, dsp.Lerp(prev[1], f2, a), q2)
			s.f3.SetBandpass(SampleRate, dsp.Lerp(prev[2], f3, a), q3)
		} else {
			s.f1.SetBandpass(SampleRate, f1, q1)
			s.f2.SetBandpass(SampleRate, f2, q2)
			s.f3.SetBandpass(SampleRate, f3, q3)
		}

		// pitch: prosody * vibrato, plus slow drift and shimmer
		basePitch := s.params.PitchHz * p.PitchMod
		vibRate := 4 + 6*creep
		vibDepth := 0.006 + 0.015*creep
		sec := float64(i) / SampleRate
		vib := float32(math.Sin(2 * math.Pi * float64(vibRate) * sec))

		// smoothed micro-instability keeps the tone from going static
		// without turning into harsh buzz
		targetDrift := s.randRange(-1, 1) * (0.25 + 0.95*creep)
		s.pitchDriftHz = dsp.Lerp(s.pitchDriftHz, targetDrift, 0.015)
		shimmer := float32(math.Sin(2*math.Pi*11.5*sec)) * (0.08 + 0.20*creep)
		f0 := basePitch*(1+vib*vibDepth) + s.pitchDriftHz + shimmer
		if f0 < 40 {
			f0 = 40
		}

		src := s.glottalPulse(f0)

		breathLayer := s.coloredNoise(0.24, 0.06) * s.params.Breathiness * 0.10
		whisper := s.coloredNoise(0.30, 0.10) * s.params.WhisperMix * (0.05 + 0.06*creep)

		// source-filter: F1 carries most of the energy
		voiced := src + breathLayer
		y1 := s.f1.Process(voiced) * 0.90
		y2 := s.f2.Process(voiced) * 0.55
		y3 := s.f3.Process(voiced) * 0.28

		// whisper rides F2 mostly, a little F1
		wy := s.f2.Process(whisper)*0.55 + s.f1.Process(whisper)*0.25

		env := dsp.EnvelopeAR(t, 0.08, 1.0, 0.15)
		out = append(out, (y1+y2+y3+wy)*env)
	}

	return out
}
