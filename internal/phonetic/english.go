package phonetic

import (
	"strings"
	"unicode"
)

func isVowelLetter(ch rune) bool {
	switch ch {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// englishVowelFormants maps a vowel token (digraph or single letter) to
// rough F1/F2/F3 targets in Hz. Intentionally approximate; uncanny is
// the goal.
func englishVowelFormants(token string) ([3]float32, bool) {
	switch token {
	// tense
	case "ee", "ea":
		return [3]float32{300, 2600, 3400}, true
	case "oo":
		return [3]float32{350, 800, 2500}, true
	case "ay", "ai":
		return [3]float32{650, 1800, 2800}, true
	case "oy", "oi":
		return [3]float32{500, 1100, 2600}, true
	case "ow", "ou":
		return [3]float32{500, 900, 2500}, true
	case "er":
		return [3]float32{450, 1350, 2500}, true

	// lax/short
	case "a":
		return [3]float32{800, 1400, 2500}, true
	case "e":
		return [3]float32{500, 2000, 2600}, true
	case "i", "y":
		return [3]float32{380, 2100, 2900}, true
	case "o":
		return [3]float32{550, 1000, 2500}, true
	case "u":
		return [3]float32{600, 1200, 2400}, true
	}
	return [3]float32{}, false
}

func englishDigraphConsonant(token string) (ConsonantClass, bool) {
	switch token {
	case "th", "sh", "ph", "wh":
		return FricativeUnvoiced, true
	case "ch":
		return Affricate, true
	case "ng":
		return Nasal, true
	}
	return 0, false
}

func englishConsonantClass(ch rune) (ConsonantClass, bool) {
	switch ch {
	case 'b', 'd', 'g':
		return PlosiveVoiced, true
	case 'p', 't', 'k', 'c', 'q':
		return PlosiveUnvoiced, true
	case 'f', 's', 'x', 'h':
		return FricativeUnvoiced, true
	case 'v', 'z', 'j':
		return FricativeVoiced, true
	case 'm', 'n':
		return Nasal, true
	case 'l':
		return Lateral, true
	case 'r', 'w':
		return Liquid, true
	}
	return 0, false
}

// englishStressIndex picks which vowel nucleus carries stress: first
// nucleus for short words, penultimate for longer ones.
func englishStressIndex(nucleusPositions []int) int {
	if len(nucleusPositions) <= 1 {
		return 0
	}
	if nucleusPositions[len(nucleusPositions)-1] <= 3 {
		return 0
	}
	return len(nucleusPositions) - 2
}

func (m *Mapper) mapEnglish(text string) []Phoneme {
	chars := []rune(text)
	out := make([]Phoneme, 0, len(chars)*2)

	wordCount := countWords(chars, func(ch rune) bool {
		return unicode.IsLetter(ch) || ch == '\''
	})

	i := 0
	wordIndex := 0
	for i < len(chars) {
		ch := chars[i]

		if unicode.IsSpace(ch) {
			out = append(out, pause(i, 0.35))
			i++
			continue
		}

		if isPunctPause(ch) {
			out = append(out, pause(i, 0.75))
			i++
			continue
		}
		if isSentenceEnd(ch) {
			out = append(out, pause(i, 1.25))
			out = append(out, breath(i))
			i++
			continue
		}

		if unicode.IsLetter(ch) || ch == '\'' {
			start := i
			for i < len(chars) && (unicode.IsLetter(chars[i]) || chars[i] == '\'') {
				i++
			}
			word := strings.ToLower(string(chars[start:i]))

			// gentle declination across the sentence; question rise is
			// carried by the '?' pause/breath pair instead.
			wordProgress := float32(wordIndex) / float32(max(wordCount-1, 1))
			wordIndex++

			out = m.mapEnglishWord([]rune(word), start, wordProgress, out)

			// inter-word gap
			out = append(out, pause(i, 0.25))
			continue
		}

		// digits, symbols: skipped rather than voiced
		i++
	}

	return out
}

func (m *Mapper) mapEnglishWord(word []rune, start int, wordProgress float32, out []Phoneme) []Phoneme {
	// vowel nuclei: maximal runs of vowel letters collapse to one
	var nuclei []int
	lastWasVowel := false
	for wi, ch := range word {
		v := isVowelLetter(ch)
		if v && !lastWasVowel {
			nuclei = append(nuclei, wi)
		}
		lastWasVowel = v
	}
	stressedNucleus := englishStressIndex(nuclei)

	basePitch := func() float32 { return 1.02 - wordProgress*0.10 }

	wi := 0
	nucleusIdx := 0
	for wi < len(word) {
		// digraph lookahead before single-character fallback
		if wi+1 < len(word) {
			token := string(word[wi : wi+2])

			if f, ok := englishVowelFormants(token); ok {
				stressed := nucleusIdx == stressedNucleus
				pitchMod := basePitch()
				if stressed {
					pitchMod += 0.06
				}
				pitchMod += m.jitter(0.02)

				dur := float32(0.95)
				if stressed {
					dur = 1.25
				}
				out = append(out, vowel(start+wi, f, dur, pitchMod, stressed))
				nucleusIdx++
				wi += 2
				continue
			}

			if cc, ok := englishDigraphConsonant(token); ok {
				stressed := nucleusIdx == stressedNucleus
				pitchMod := basePitch() + m.jitter(0.02)
				out = append(out, consonant(start+wi, cc, 0.55, pitchMod, stressed))
				wi += 2
				continue
			}
		}

		ch := word[wi]
		if f, ok := englishVowelFormants(string(ch)); ok {
			stressed := nucleusIdx == stressedNucleus
			pitchMod := basePitch()
			if stressed {
				pitchMod += 0.06
			}
			pitchMod += m.jitter(0.02)

			dur := float32(0.90)
			if stressed {
				dur = 1.15
			}
			out = append(out, vowel(start+wi, f, dur, pitchMod, stressed))
			nucleusIdx++
			wi++
			continue
		}

		cc, ok := englishConsonantClass(ch)
		// soft c/g before e/i/y
		if ch == 'c' && wi+1 < len(word) {
			switch word[wi+1] {
			case 'e', 'i', 'y':
				cc, ok = FricativeUnvoiced, true // /s/
			}
		}
		if ch == 'g' && wi+1 < len(word) {
			switch word[wi+1] {
			case 'e', 'i', 'y':
				cc, ok = FricativeVoiced, true
			}
		}

		if ok {
			stressed := nucleusIdx == stressedNucleus
			pitchMod := basePitch() + m.jitter(0.02)
			out = append(out, consonant(start+wi, cc, 0.5, pitchMod, stressed))
		} else {
			// unknown rune inside a word degrades to a micro-gap
			out = append(out, pause(start+wi, 0.12))
		}
		wi++
	}

	return out
}

func countWords(chars []rune, isWordRune func(rune) bool) int {
	inWord := false
	n := 0
	for _, ch := range chars {
		if isWordRune(ch) {
			if !inWord {
				inWord = true
				n++
			}
		} else {
			inWord = false
		}
	}
	return max(n, 1)
}
