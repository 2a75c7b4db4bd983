package synth

import (
	"math"

	"github.com/hollowline/vox-core/internal/dsp"
	"github.com/hollowline/vox-core/internal/phonetic"
)

// synthConsonant renders one consonant segment with a per-class recipe.
// All recipes lean on neighboring vowel formants so the consonant sits
// in the same vocal tract as its surroundings.
func (s *Synthesizer) synthConsonant(p phonetic.Phoneme, durS float32, next *[3]float32) []float32 {
	n := int(durS * SampleRate)
	if n < 1 {
		n = 1
	}
	out := make([]float32, 0, n)

	class := phonetic.FricativeUnvoiced
	if p.Consonant != nil {
		class = *p.Consonant
	}
	const noiseAmp = 0.3

	contextFormants := func(fallback [3]float32) [3]float32 {
		if next != nil {
			return *next
		}
		if s.prevFormants != nil {
			return *s.prevFormants
		}
		return fallback
	}

	switch class {
	case phonetic.PlosiveVoiced, phonetic.PlosiveUnvoiced, phonetic.Affricate:
		// silent closure, then an exponentially decaying burst
		gapN := int(float32(n) * 0.35)
		if gapN < 1 {
			gapN = 1
		}
		for i := 0; i < gapN; i++ {
			out = append(out, 0)
		}
		for i := gapN; i < n; i++ {
			t := float32(i-gapN) / float32(max(n-gapN, 1))
			decay := dsp.ExpDecay(t, 12)
			noise := s.coloredNoise(0.40, 0.16) * noiseAmp
			var voiced float32
			if class == phonetic.PlosiveVoiced {
				f0 := s.params.PitchHz * p.PitchMod
				if f0 < 50 {
					f0 = 50
				}
				voiced = s.glottalPulse(f0) * 0.4
			}
			out = append(out, (noise+voiced)*decay*0.5)
		}

	case phonetic.FricativeVoiced, phonetic.FricativeUnvoiced:
		voicedOn := class == phonetic.FricativeVoiced
		basePitch := s.params.PitchHz * p.PitchMod
		if basePitch < 60 {
			basePitch = 60
		}

		form := contextFormants([3]float32{600, 1800, 2600})
		s.f1.SetBandpass(SampleRate, form[0], 4)
		s.f2.SetBandpass(SampleRate, form[1], 3)
		s.f3.SetBandpass(SampleRate, form[2], 2.5)

		for i := 0; i < n; i++ {
			t := float32(i) / float32(n)
			env := dsp.EnvelopeAR(t, 0.15, 1.0, 0.20)

			noise := s.coloredNoise(0.35, 0.12) * noiseAmp
			hiss := s.f2.Process(noise)*0.6 + s.f3.Process(noise)*0.3 + noise*0.1

			var voiced float32
			if voicedOn {
				voiced = s.glottalPulse(basePitch) * 0.25
			}
			out = append(out, (hiss+voiced)*env*0.5)
		}

	case phonetic.Nasal:
		// muffled: lowered, low-Q resonances on a voiced source
		basePitch := s.params.PitchHz * p.PitchMod
		if basePitch < 55 {
			basePitch = 55
		}
		form := contextFormants([3]float32{300, 1200, 2400})
		f1 := form[0]
		if f1 > 400 {
			f1 = 400
		}
		s.f1.SetBandpass(SampleRate, f1, 12)
		s.f2.SetBandpass(SampleRate, form[1]*0.70, 9)
		s.f3.SetBandpass(SampleRate, form[2]*0.55, 7)

		for i := 0; i < n; i++ {
			t := float32(i) / float32(n)
			env := dsp.EnvelopeAR(t, 0.12, 1.0, 0.18)
			src := s.glottalPulse(basePitch) * 0.55
			buzz := s.f1.Process(src)*0.7 + s.f2.Process(src)*0.35
			air := s.coloredNoise(0.22, 0.08) * (0.04 * noiseAmp)
			out = append(out, (buzz+air)*env*0.32)
		}

	case phonetic.Liquid, phonetic.Lateral:
		// voiced with F2 swept linearly across the segment
		basePitch := s.params.PitchHz * p.PitchMod
		if basePitch < 55 {
			basePitch = 55
		}
		form := contextFormants([3]float32{450, 1500, 2500})

		for i := 0; i < n; i++ {
			t := float32(i) / float32(n)
			env := dsp.EnvelopeAR(t, 0.10, 1.0, 0.20)

			f2 := dsp.Lerp(form[1]*1.25, form[1]*0.90, t)
			s.f1.SetBandpass(SampleRate, form[0], 8)
			s.f2.SetBandpass(SampleRate, f2, 7)
			s.f3.SetBandpass(SampleRate, form[2], 6)

			src := s.glottalPulse(basePitch)
			y := s.f1.Process(src)*0.55 + s.f2.Process(src)*0.40 + s.f3.Process(src)*0.15
			grit := s.coloredNoise(0.28, 0.10) * (0.03 * noiseAmp)
			out = append(out, (y+grit)*env*0.36)
		}

	case phonetic.Tap:
		// very short blip with a sharp noise click
		basePitch := s.params.PitchHz * p.PitchMod
		if basePitch < 65 {
			basePitch = 65
		}
		form := contextFormants([3]float32{500, 1700, 2600})
		s.f1.SetBandpass(SampleRate, form[0], 10)
		s.f2.SetBandpass(SampleRate, form[1], 8)
		s.f3.SetBandpass(SampleRate, form[2], 7)

		for i := 0; i < n; i++ {
			t := float32(i) / float32(n)
			env := dsp.ExpDecay(t, 14)
			src := s.glottalPulse(basePitch) * 0.7
			y := s.f1.Process(src)*0.6 + s.f2.Process(src)*0.25
			click := s.coloredNoise(0.52, 0.22) * (0.08 * noiseAmp)
			out = append(out, (y+click)*env*0.28)
		}

	case phonetic.Trill:
		// voiced resonance amplitude-modulated around 25 Hz
		basePitch := s.params.PitchHz * p.PitchMod
		if basePitch < 55 {
			basePitch = 55
		}
		form := contextFormants([3]float32{450, 1400, 2400})
		s.f1.SetBandpass(SampleRate, form[0], 8)
		s.f2.SetBandpass(SampleRate, form[1], 7)
		s.f3.SetBandpass(SampleRate, form[2], 6)

		for i := 0; i < n; i++ {
			t := float32(i) / float32(n)
			env := dsp.EnvelopeAR(t, 0.10, 1.0, 0.18)

			trill := float32(math.Sin(2*math.Pi*25*float64(i)/SampleRate))*0.45 + 0.55
			src := s.glottalPulse(basePitch)
			y := s.f1.Process(src)*0.55 + s.f2.Process(src)*0.35
			air := s.coloredNoise(0.24, 0.08) * (0.04 * noiseAmp)
			out = append(out, (y+air)*env*trill*0.34)
		}
	}

	return out
}
