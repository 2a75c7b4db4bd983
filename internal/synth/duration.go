package synth

import (
	"math/rand/v2"

	"github.com/hollowline/vox-core/internal/dsp"
	"github.com/hollowline/vox-core/internal/phonetic"
)

// phonemeSeconds is the single source of truth for segment length. Both
// Synthesize and EstimateDuration go through it; if the two ever use
// different arithmetic, subtitle pacing drifts from the audio.
func phonemeSeconds(p phonetic.Phoneme, speed float32) float32 {
	if speed < 0.05 {
		speed = 0.05
	}
	switch p.Kind {
	case phonetic.KindPause:
		return 0.080 * p.Duration / speed
	case phonetic.KindBreath:
		return 0.080 * p.Duration * 0.5 / speed
	case phonetic.KindVowel:
		base := float32(0.070)
		if p.Stressed {
			base = 0.095
		}
		return base * p.Duration / speed
	case phonetic.KindConsonant:
		class := phonetic.FricativeUnvoiced
		if p.Consonant != nil {
			class = *p.Consonant
		}
		return consonantSeconds(class, p.Duration) / speed
	}
	return 0
}

// consonantSeconds: plosives and taps shortest, trills and fricatives
// longest.
func consonantSeconds(class phonetic.ConsonantClass, mult float32) float32 {
	var base float32
	switch class {
	case phonetic.PlosiveVoiced:
		base = 0.020
	case phonetic.PlosiveUnvoiced:
		base = 0.022
	case phonetic.Affricate:
		base = 0.050
	case phonetic.FricativeVoiced:
		base = 0.060
	case phonetic.FricativeUnvoiced:
		base = 0.065
	case phonetic.Nasal:
		base = 0.055
	case phonetic.Liquid:
		base = 0.045
	case phonetic.Lateral:
		base = 0.050
	case phonetic.Tap:
		base = 0.025
	case phonetic.Trill:
		base = 0.070
	}
	return base * mult
}

func tailSeconds(params Params) float32 {
	return 0.10 + dsp.Clamp(params.ReverbMix, 0, 1)*0.14
}

// EstimateDuration predicts the length of Synthesize's output without
// rendering audio, including the segment-join crossfade overlap and the
// effects tail. Used to pace subtitles.
func EstimateDuration(phonemes []phonetic.Phoneme, params Params) float32 {
	seconds := float32(0)
	for _, p := range phonemes {
		seconds += phonemeSeconds(p, params.Speed)
	}
	// every join after the first segment overlaps by the crossfade
	if len(phonemes) > 1 {
		seconds -= float32(len(phonemes)-1) * joinFadeSamples / SampleRate
	}
	return seconds + tailSeconds(params)
}

// EstimateTextDuration estimates spoken length for text under a preset.
// The mapper's pitch jitter never feeds into durations, so any RNG
// produces the same estimate.
func EstimateTextDuration(text string, preset Preset) float32 {
	params := preset.Params()
	mapper := phonetic.NewMapper(rand.New(rand.NewPCG(0, 0)))
	return EstimateDuration(mapper.MapText(text, params.Language), params)
}
