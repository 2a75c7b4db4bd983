package phonetic

import (
	"strings"
	"unicode"
)

func ptIsVowel(ch rune) bool {
	switch ch {
	case 'a', 'ã', 'â', 'á', 'e', 'é', 'ê', 'i', 'í', 'o', 'ó', 'ô', 'u', 'ú', 'à', 'õ':
		return true
	}
	return false
}

func ptVowelFormants(ch rune) ([3]float32, bool) {
	switch ch {
	case 'a':
		return [3]float32{800, 1200, 2500}, true
	case 'ã':
		return [3]float32{820, 1250, 2550}, true
	case 'â':
		return [3]float32{600, 1150, 2500}, true
	case 'á', 'à':
		return [3]float32{800, 1200, 2500}, true
	case 'e':
		return [3]float32{450, 1950, 2600}, true
	case 'é':
		return [3]float32{550, 1900, 2700}, true
	case 'ê':
		return [3]float32{400, 2100, 2700}, true
	case 'i':
		return [3]float32{300, 2700, 3300}, true
	case 'í':
		return [3]float32{280, 2750, 3350}, true
	case 'o':
		return [3]float32{500, 900, 2500}, true
	case 'ó':
		return [3]float32{550, 950, 2500}, true
	case 'ô':
		return [3]float32{400, 800, 2500}, true
	case 'u':
		return [3]float32{350, 700, 2500}, true
	case 'ú':
		return [3]float32{330, 680, 2450}, true
	case 'õ':
		return [3]float32{450, 820, 2400}, true
	}
	return [3]float32{}, false
}

func ptConsonantClass(ch rune) (ConsonantClass, bool) {
	switch ch {
	case 'b', 'd', 'g':
		return PlosiveVoiced, true
	case 'p', 't', 'k', 'c', 'q':
		return PlosiveUnvoiced, true
	case 'f', 's', 'x', 'ç', 'h':
		return FricativeUnvoiced, true
	case 'v', 'z', 'j':
		return FricativeVoiced, true
	case 'm', 'n':
		return Nasal, true
	case 'l', 'w', 'y':
		return Liquid, true
	case 'r':
		return Tap, true
	}
	return 0, false
}

func ptDigraph(a, b rune) (ConsonantClass, bool) {
	switch {
	case a == 'n' && b == 'h':
		return Nasal, true
	case a == 'l' && b == 'h':
		return Lateral, true
	case a == 'c' && b == 'h':
		return FricativeUnvoiced, true
	case a == 'r' && b == 'r':
		return Trill, true
	case a == 's' && b == 's':
		return FricativeUnvoiced, true
	case a == 'q' && b == 'u':
		return PlosiveUnvoiced, true
	case a == 'g' && b == 'u':
		return PlosiveVoiced, true
	}
	return 0, false
}

// ptStressedSyllable: penultimate syllable, the common Portuguese case.
func ptStressedSyllable(syllables int) int {
	if syllables <= 1 {
		return 0
	}
	return syllables - 2
}

func (m *Mapper) mapPortuguese(text string) []Phoneme {
	chars := []rune(text)
	out := make([]Phoneme, 0, len(chars)*2)

	// statement vs question drives the whole declination direction
	isQuestion := strings.HasSuffix(strings.TrimRight(text, " \t\n"), "?")

	wordCount := countWords(chars, unicode.IsLetter)

	i := 0
	wordIdx := 0
	for i < len(chars) {
		ch := chars[i]

		if unicode.IsSpace(ch) {
			out = append(out, pause(i, 0.40))
			i++
			continue
		}

		if isPunctPause(ch) {
			out = append(out, pause(i, 0.8))
			i++
			continue
		}

		if isSentenceEnd(ch) {
			dur := float32(1.5)
			if ch == '.' {
				dur = 1.2
			}
			out = append(out, pause(i, dur))
			out = append(out, breath(i))
			i++
			continue
		}

		if unicode.IsLetter(ch) {
			start := i
			for i < len(chars) && unicode.IsLetter(chars[i]) {
				i++
			}
			word := []rune(strings.ToLower(string(chars[start:i])))

			wordProgress := float32(wordIdx) / float32(max(wordCount-1, 1))
			wordIdx++

			out = m.mapPortugueseWord(word, start, wordProgress, isQuestion, out)
			out = append(out, pause(i, 0.25))
			continue
		}

		i++
	}

	return out
}

func (m *Mapper) mapPortugueseWord(word []rune, start int, wordProgress float32, isQuestion bool, out []Phoneme) []Phoneme {
	// syllable count approximated by vowel clusters
	syllables := 0
	lastV := false
	for _, c := range word {
		v := ptIsVowel(c)
		if v && !lastV {
			syllables++
		}
		lastV = v
	}
	syllables = max(syllables, 1)
	stressedSyllable := ptStressedSyllable(syllables)

	basePitch := func() float32 {
		if isQuestion {
			return 1.0 + wordProgress*0.25
		}
		return 1.03 - wordProgress*0.12
	}

	currentSyllable := 0
	lastCharWasVowel := false

	wi := 0
	for wi < len(word) {
		c := word[wi]
		srcIdx := start + wi

		if wi+1 < len(word) {
			if cc, ok := ptDigraph(c, word[wi+1]); ok {
				pitchMod := basePitch() + m.jitter(0.02)
				out = append(out, consonant(srcIdx, cc, 0.6, pitchMod, currentSyllable == stressedSyllable))
				lastCharWasVowel = false
				wi += 2
				continue
			}
		}

		if f, ok := ptVowelFormants(c); ok {
			stressed := currentSyllable == stressedSyllable
			pitchMod := basePitch()
			if stressed {
				pitchMod += 0.06
			}
			pitchMod += m.jitter(0.02)

			dur := float32(0.9)
			if stressed {
				dur = 1.2
			}
			out = append(out, vowel(srcIdx, f, dur, pitchMod, stressed))

			if !lastCharWasVowel {
				currentSyllable++
			}
			lastCharWasVowel = true
			wi++
			continue
		}

		if cc, ok := ptConsonantClass(c); ok {
			// 'c' before e/i softens to /s/
			if c == 'c' && wi+1 < len(word) {
				if n := word[wi+1]; n == 'e' || n == 'i' {
					cc = FricativeUnvoiced
				}
			}
			// word-initial or post-consonant 'r' trills
			if c == 'r' && (wi == 0 || !ptIsVowel(word[wi-1])) {
				cc = Trill
			}
			// intervocalic 's' voices to /z/
			if c == 's' && wi > 0 && wi+1 < len(word) {
				if ptIsVowel(word[wi-1]) && ptIsVowel(word[wi+1]) {
					cc = FricativeVoiced
				}
			}

			pitchMod := basePitch() + m.jitter(0.02)
			out = append(out, consonant(srcIdx, cc, 0.5, pitchMod, currentSyllable == stressedSyllable))
			lastCharWasVowel = false
			wi++
			continue
		}

		out = append(out, pause(srcIdx, 0.15))
		lastCharWasVowel = false
		wi++
	}

	return out
}
