package synth

import (
	"strings"

	"github.com/hollowline/vox-core/internal/phonetic"
)

// SampleRate is the fixed output rate for all synthesized audio.
const SampleRate = 44100

// Params is the per-utterance synthesis configuration. Pitch is in Hz,
// Speed is a multiplier around 1.0, everything else sits roughly in
// [0, 1]. Values outside those ranges are clamped at the point of use.
type Params struct {
	Language phonetic.Language

	PitchHz     float32
	Speed       float32
	Breathiness float32
	Creepiness  float32
	WhisperMix  float32
	Distortion  float32
	ReverbMix   float32
	Volume      float32
}

// DefaultEnglish is the baseline voice every preset deviates from.
func DefaultEnglish() Params {
	return Params{
		Language:    phonetic.LanguageEnglish,
		PitchHz:     110,
		Speed:       1.0,
		Breathiness: 0.25,
		Creepiness:  0.45,
		WhisperMix:  0.12,
		Distortion:  0.10,
		ReverbMix:   0.28,
		Volume:      0.75,
	}
}

// Preset names one of the fixed in-game voices.
type Preset int

const (
	PresetNeutralNPC Preset = iota
	PresetHostileEntity
	PresetLostChild
	PresetCorruptedTransmission
)

func (p Preset) String() string {
	switch p {
	case PresetHostileEntity:
		return "hostile_entity"
	case PresetLostChild:
		return "lost_child"
	case PresetCorruptedTransmission:
		return "corrupted_transmission"
	default:
		return "neutral_npc"
	}
}

// Params returns the canned voice for a preset.
func (p Preset) Params() Params {
	switch p {
	case PresetHostileEntity:
		return Params{
			Language:    phonetic.LanguageEnglish,
			PitchHz:     78,
			Speed:       1.05,
			Breathiness: 0.18,
			Creepiness:  0.78,
			WhisperMix:  0.16,
			Distortion:  0.20,
			ReverbMix:   0.34,
			Volume:      0.80,
		}
	case PresetLostChild:
		return Params{
			Language:    phonetic.LanguageEnglish,
			PitchHz:     170,
			Speed:       1.10,
			Breathiness: 0.35,
			Creepiness:  0.35,
			WhisperMix:  0.10,
			Distortion:  0.06,
			ReverbMix:   0.22,
			Volume:      0.70,
		}
	case PresetCorruptedTransmission:
		return Params{
			Language:    phonetic.LanguageEnglish,
			PitchHz:     125,
			Speed:       1.35,
			Breathiness: 0.20,
			Creepiness:  0.68,
			WhisperMix:  0.14,
			Distortion:  0.14,
			ReverbMix:   0.16,
			Volume:      0.70,
		}
	default:
		return DefaultEnglish()
	}
}

// ParsePreset is lenient: unknown names fall back to the neutral NPC
// voice so a mistyped preset in dialogue data still speaks.
func ParsePreset(s string) Preset {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hostile_entity", "hostile":
		return PresetHostileEntity
	case "lost_child", "child":
		return PresetLostChild
	case "corrupted_transmission", "glitch":
		return PresetCorruptedTransmission
	default:
		return PresetNeutralNPC
	}
}
