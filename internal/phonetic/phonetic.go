// Package phonetic turns raw dialogue text into an ordered phoneme
// sequence. It is deliberately approximate: the goal is a synthetic,
// slightly wrong voice, not linguistic accuracy.
package phonetic

import "math/rand/v2"

// Language selects the grapheme-to-phoneme rule set.
type Language int

const (
	LanguageEnglish Language = iota
	LanguagePortuguese
)

func (l Language) String() string {
	switch l {
	case LanguagePortuguese:
		return "portuguese"
	default:
		return "english"
	}
}

// ParseLanguage is lenient: anything unrecognized falls back to English.
func ParseLanguage(s string) Language {
	switch s {
	case "portuguese", "pt", "pt-br":
		return LanguagePortuguese
	default:
		return LanguageEnglish
	}
}

// Kind is the acoustic category of a phoneme.
type Kind int

const (
	KindVowel Kind = iota
	KindConsonant
	KindPause
	KindBreath
)

// ConsonantClass tags how a consonant is rendered.
type ConsonantClass int

const (
	PlosiveVoiced ConsonantClass = iota
	PlosiveUnvoiced
	FricativeVoiced
	FricativeUnvoiced
	Nasal
	Liquid
	Tap
	Trill
	Lateral
	Affricate
)

// Phoneme is one unit handed to the synthesizer. Vowels always carry
// Formants; consonants always carry Consonant; pauses and breaths carry
// neither. Created once by the Mapper and read-only afterwards.
type Phoneme struct {
	Kind      Kind
	Formants  *[3]float32 // F1/F2/F3 targets in Hz, vowels only
	Consonant *ConsonantClass
	Duration  float32 // multiplier on the kind's base duration
	Stressed  bool
	PitchMod  float32
	// SourceIndex is the rune offset in the original text, diagnostics only.
	SourceIndex int
}

func pause(sourceIndex int, dur float32) Phoneme {
	return Phoneme{
		Kind:        KindPause,
		Duration:    dur,
		PitchMod:    1.0,
		SourceIndex: sourceIndex,
	}
}

func breath(sourceIndex int) Phoneme {
	return Phoneme{
		Kind:        KindBreath,
		Duration:    0.8,
		PitchMod:    1.0,
		SourceIndex: sourceIndex,
	}
}

func vowel(sourceIndex int, f [3]float32, dur, pitchMod float32, stressed bool) Phoneme {
	formants := f
	return Phoneme{
		Kind:        KindVowel,
		Formants:    &formants,
		Duration:    dur,
		Stressed:    stressed,
		PitchMod:    pitchMod,
		SourceIndex: sourceIndex,
	}
}

func consonant(sourceIndex int, class ConsonantClass, dur, pitchMod float32, stressed bool) Phoneme {
	c := class
	return Phoneme{
		Kind:        KindConsonant,
		Consonant:   &c,
		Duration:    dur,
		Stressed:    stressed,
		PitchMod:    pitchMod,
		SourceIndex: sourceIndex,
	}
}

// Mapper converts text to phonemes. It holds only the RNG used for
// per-phoneme pitch jitter, so a seeded Mapper is fully deterministic.
type Mapper struct {
	rng *rand.Rand
}

// NewMapper returns a mapper using the given RNG. A nil RNG gets a
// randomly seeded one.
func NewMapper(rng *rand.Rand) *Mapper {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Mapper{rng: rng}
}

// MapText converts text into a phoneme sequence. Total: any input,
// including empty or pure punctuation, yields a (possibly empty) slice.
func (m *Mapper) MapText(text string, lang Language) []Phoneme {
	switch lang {
	case LanguagePortuguese:
		return m.mapPortuguese(text)
	default:
		return m.mapEnglish(text)
	}
}

// jitter returns a symmetric random offset in (-amount, amount).
func (m *Mapper) jitter(amount float32) float32 {
	return (float32(m.rng.Float64())*2 - 1) * amount
}

func isSentenceEnd(ch rune) bool {
	return ch == '.' || ch == '!' || ch == '?'
}

func isPunctPause(ch rune) bool {
	return ch == ',' || ch == ';' || ch == ':'
}
