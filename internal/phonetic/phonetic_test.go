package phonetic

import (
	"math/rand/v2"
	"testing"
)

func newTestMapper() *Mapper {
	return NewMapper(rand.New(rand.NewPCG(1, 1)))
}

func checkInvariants(t *testing.T, phonemes []Phoneme) {
	t.Helper()
	for i, p := range phonemes {
		switch p.Kind {
		case KindVowel:
			if p.Formants == nil {
				t.Fatalf("phoneme %d: vowel without formants", i)
			}
			if p.Consonant != nil {
				t.Fatalf("phoneme %d: vowel with consonant class", i)
			}
		case KindConsonant:
			if p.Consonant == nil {
				t.Fatalf("phoneme %d: consonant without class", i)
			}
			if p.Formants != nil {
				t.Fatalf("phoneme %d: consonant with formants", i)
			}
		case KindPause, KindBreath:
			if p.Formants != nil || p.Consonant != nil {
				t.Fatalf("phoneme %d: pause/breath carrying acoustic data", i)
			}
		}
	}
}

func TestMapTextTotality(t *testing.T) {
	m := newTestMapper()
	inputs := []string{
		"",
		"   ",
		"...",
		",,,",
		"?!?!",
		"1234 5678",
		"@#$%^&*",
		"Hello, world!",
		"mixed 123 content!?",
		"word\nwith\nnewlines",
		"émigré naïve", // non-ASCII letters inside words
	}
	for _, lang := range []Language{LanguageEnglish, LanguagePortuguese} {
		for _, in := range inputs {
			phonemes := m.MapText(in, lang)
			checkInvariants(t, phonemes)
		}
	}
}

func TestEmptyInputYieldsNoSpeech(t *testing.T) {
	m := newTestMapper()
	for _, p := range m.MapText("", LanguageEnglish) {
		if p.Kind == KindVowel || p.Kind == KindConsonant {
			t.Fatalf("empty input produced speech phoneme %v", p.Kind)
		}
	}
}

func TestCommasProduceOnlyPauses(t *testing.T) {
	m := newTestMapper()
	phonemes := m.MapText(",,,", LanguageEnglish)
	if len(phonemes) != 3 {
		t.Fatalf("expected 3 pauses, got %d phonemes", len(phonemes))
	}
	for i, p := range phonemes {
		if p.Kind != KindPause {
			t.Fatalf("phoneme %d: expected pause, got %v", i, p.Kind)
		}
		if p.Duration != 0.75 {
			t.Fatalf("phoneme %d: expected medium pause 0.75, got %v", i, p.Duration)
		}
	}
}

func TestHelloScenario(t *testing.T) {
	m := newTestMapper()
	phonemes := m.MapText("Hello.", LanguageEnglish)
	if len(phonemes) < 4 {
		t.Fatalf("expected several phonemes, got %d", len(phonemes))
	}

	vowels := 0
	for _, p := range phonemes {
		if p.Kind == KindVowel {
			vowels++
		}
	}
	if vowels < 2 {
		t.Fatalf("expected at least 2 vowels in Hello, got %d", vowels)
	}

	last := phonemes[len(phonemes)-1]
	secondLast := phonemes[len(phonemes)-2]
	if secondLast.Kind != KindPause || secondLast.Duration < 1.0 {
		t.Fatalf("expected long sentence-end pause, got kind %v duration %v", secondLast.Kind, secondLast.Duration)
	}
	if last.Kind != KindBreath {
		t.Fatalf("expected trailing breath, got %v", last.Kind)
	}
}

func TestSentenceEndEmitsBreath(t *testing.T) {
	m := newTestMapper()
	for _, punct := range []string{".", "!", "?"} {
		phonemes := m.MapText("go"+punct, LanguageEnglish)
		last := phonemes[len(phonemes)-1]
		if last.Kind != KindBreath {
			t.Fatalf("%q: expected breath after sentence end, got %v", punct, last.Kind)
		}
	}
}

func TestDigraphPreferredOverSingles(t *testing.T) {
	m := newTestMapper()

	// "th" in "the" must match as one fricative, not plosive t + fricative h
	phonemes := m.MapText("the", LanguageEnglish)
	if phonemes[0].Kind != KindConsonant {
		t.Fatalf("expected consonant first, got %v", phonemes[0].Kind)
	}
	if *phonemes[0].Consonant != FricativeUnvoiced {
		t.Fatalf("expected th as unvoiced fricative, got %v", *phonemes[0].Consonant)
	}
	if phonemes[1].Kind != KindVowel {
		t.Fatalf("expected vowel after th, got %v", phonemes[1].Kind)
	}

	// split across words, t and h stay independent plosive/fricative
	split := m.MapText("cat hat", LanguageEnglish)
	var classes []ConsonantClass
	for _, p := range split {
		if p.Kind == KindConsonant {
			classes = append(classes, *p.Consonant)
		}
	}
	if len(classes) != 4 {
		t.Fatalf("expected c,t,h,t consonants, got %d", len(classes))
	}
	if classes[1] != PlosiveUnvoiced {
		t.Fatalf("expected word-final t as plosive, got %v", classes[1])
	}
	if classes[2] != FricativeUnvoiced {
		t.Fatalf("expected word-initial h as fricative, got %v", classes[2])
	}
}

func TestVowelDigraphCollapsesToOneNucleus(t *testing.T) {
	m := newTestMapper()
	phonemes := m.MapText("see", LanguageEnglish)
	vowels := 0
	for _, p := range phonemes {
		if p.Kind == KindVowel {
			vowels++
		}
	}
	if vowels != 1 {
		t.Fatalf("expected ee to collapse to one vowel, got %d", vowels)
	}
}

func TestSoftCAndG(t *testing.T) {
	m := newTestMapper()

	city := m.MapText("ci", LanguageEnglish)
	if city[0].Kind != KindConsonant || *city[0].Consonant != FricativeUnvoiced {
		t.Fatalf("expected soft c before i, got %+v", city[0])
	}

	gem := m.MapText("ge", LanguageEnglish)
	if gem[0].Kind != KindConsonant || *gem[0].Consonant != FricativeVoiced {
		t.Fatalf("expected soft g before e, got %+v", gem[0])
	}

	hardC := m.MapText("ca", LanguageEnglish)
	if *hardC[0].Consonant != PlosiveUnvoiced {
		t.Fatalf("expected hard c before a, got %v", *hardC[0].Consonant)
	}
}

func TestStressLengthensVowels(t *testing.T) {
	m := newTestMapper()
	phonemes := m.MapText("banana", LanguageEnglish)

	var stressedDur, unstressedDur float32
	for _, p := range phonemes {
		if p.Kind != KindVowel {
			continue
		}
		if p.Stressed {
			stressedDur = p.Duration
		} else {
			unstressedDur = p.Duration
		}
	}
	if stressedDur == 0 || unstressedDur == 0 {
		t.Fatal("expected both stressed and unstressed vowels")
	}
	if stressedDur <= unstressedDur {
		t.Fatalf("stressed vowel duration %v not greater than unstressed %v", stressedDur, unstressedDur)
	}
}

func TestStressHeuristic(t *testing.T) {
	m := newTestMapper()

	// short word: first nucleus stressed
	phonemes := m.MapText("go", LanguageEnglish)
	for _, p := range phonemes {
		if p.Kind == KindVowel && !p.Stressed {
			t.Fatal("expected single nucleus of short word stressed")
		}
	}

	// longer word: penultimate nucleus
	phonemes = m.MapText("impossible", LanguageEnglish)
	var stressFlags []bool
	for _, p := range phonemes {
		if p.Kind == KindVowel {
			stressFlags = append(stressFlags, p.Stressed)
		}
	}
	if len(stressFlags) < 3 {
		t.Fatalf("expected several nuclei, got %d", len(stressFlags))
	}
	if !stressFlags[len(stressFlags)-2] {
		t.Fatal("expected penultimate nucleus stressed")
	}
	if stressFlags[len(stressFlags)-1] {
		t.Fatal("did not expect final nucleus stressed")
	}
}

func TestPitchJitterBounded(t *testing.T) {
	m := newTestMapper()
	// single word, so the declination base is exactly 1.02
	for i := 0; i < 50; i++ {
		phonemes := m.MapText("k", LanguageEnglish)
		for _, p := range phonemes {
			if p.Kind != KindConsonant {
				continue
			}
			if p.PitchMod < 1.0 || p.PitchMod > 1.04 {
				t.Fatalf("consonant pitch mod %v outside 1.02 +/- 0.02", p.PitchMod)
			}
		}
	}
}

func TestDeclinationLowersPitchAcrossSentence(t *testing.T) {
	m := newTestMapper()
	phonemes := m.MapText("one two three four five six", LanguageEnglish)

	var first, last float32
	for _, p := range phonemes {
		if p.Kind == KindVowel && !p.Stressed {
			if first == 0 {
				first = p.PitchMod
			}
			last = p.PitchMod
		}
	}
	// jitter is +/-0.02, declination across six words spans 0.10
	if first <= last {
		t.Fatalf("expected pitch declination, first %v last %v", first, last)
	}
}

func TestUnknownRuneInWordBecomesMicroPause(t *testing.T) {
	m := newTestMapper()
	// ü is a letter, so it joins the word, but no table knows it
	phonemes := m.MapText("aüb", LanguageEnglish)
	foundMicro := false
	for _, p := range phonemes {
		if p.Kind == KindPause && p.Duration == 0.12 {
			foundMicro = true
		}
	}
	if !foundMicro {
		t.Fatal("expected a micro pause for unknown in-word rune")
	}
}

func TestDeterministicWithFixedSeed(t *testing.T) {
	a := NewMapper(rand.New(rand.NewPCG(42, 42))).MapText("Hello, world!", LanguageEnglish)
	b := NewMapper(rand.New(rand.NewPCG(42, 42))).MapText("Hello, world!", LanguageEnglish)
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].PitchMod != b[i].PitchMod {
			t.Fatalf("phoneme %d: pitch mod differs under same seed", i)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	if ParseLanguage("portuguese") != LanguagePortuguese {
		t.Fatal("expected portuguese")
	}
	if ParseLanguage("pt") != LanguagePortuguese {
		t.Fatal("expected portuguese for pt")
	}
	if ParseLanguage("klingon") != LanguageEnglish {
		t.Fatal("expected english fallback")
	}
}
