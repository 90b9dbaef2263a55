package transliteration

import (
	"strings"
)

// Script is the input script that decides which stages run.
type Script int

const (
	// ScriptArabic covers any input without a Latin letter; it goes
	// straight to the Coptic stage.
	ScriptArabic Script = iota
	// ScriptLatin inputs go through LatinToArabic first.
	ScriptLatin
)

func (s Script) String() string {
	switch s {
	case ScriptLatin:
		return "latin"
	default:
		return "arabic"
	}
}

// Transliterate converts a name to Coptic. It returns the Arabic text fed
// to the Coptic stage (the input itself for Arabic names), the Coptic
// result, and the detected script.
func Transliterate(name string) (arabic, coptic string, script Script) {
	script = DetectScript(name)
	switch script {
	case ScriptLatin:
		arabic = LatinToArabic(name)
	default:
		arabic = name
	}
	return arabic, ArabicToCoptic(arabic), script
}

// ToCoptic is Transliterate without the intermediate values.
func ToCoptic(name string) string {
	_, coptic, _ := Transliterate(name)
	return coptic
}

// DetectScript reports ScriptLatin if text holds at least one ASCII letter.
// The whole string then takes the Latin path; there is no per-rune switching.
func DetectScript(text string) Script {
	for _, r := range text {
		if isASCIILetter(r) {
			return ScriptLatin
		}
	}
	return ScriptArabic
}

func isASCIILetter(r rune) bool {
	return ('A' <= r && r <= 'Z') || ('a' <= r && r <= 'z')
}

// mapRunes looks every rune of text up with lookup, falling back to
// fallback for misses, and concatenates the results in order.
func mapRunes(text string, lookup func(rune) (string, bool), fallback func(rune) string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if v, ok := lookup(r); ok {
			b.WriteString(v)
		} else {
			b.WriteString(fallback(r))
		}
	}
	return b.String()
}
