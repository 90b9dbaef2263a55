package transliteration

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// arabicToCoptic maps Arabic letters and the short-vowel marks to Coptic.
// Several letters share a Coptic letter where Coptic has no distinct sound.
var arabicToCoptic = map[rune]string{
	'أ': "Ⲁ", 'ا': "Ⲁ", 'آ': "Ⲁ",
	'ب': "Ⲃ",
	'ة': "Ⲧ", 'ت': "Ⲧ", 'ط': "Ⲧ",
	'ث': "Ⲑ", 'ظ': "Ⲑ",
	'ج': "Ⲅ", 'غ': "Ⲅ",
	'ح': "Ϩ", 'ه': "Ϩ",
	'خ': "Ⲭ",
	'د': "Ⲇ", 'ذ': "Ⲇ", 'ض': "Ⲇ",
	'ر': "Ⲣ",
	'ز': "Ⲍ",
	'س': "Ⲥ", 'ص': "Ⲥ",
	'ش': "Ϣ",
	'ع': "Ⲁ",
	'ف': "Ϥ",
	'ق': "Ⲕ", 'ك': "Ⲕ",
	'ل': "Ⲗ",
	'م': "Ⲙ",
	'ن': "Ⲛ",
	'و': "ⲞⲨ",
	'ي': "Ⲓ", 'ى': "Ⲓ", 'ئ': "Ⲓ",
	'\u0650': "Ⲉ", // kasra
	'\u064E': "Ⲁ", // fatha
	'\u064F': "Ⲟ", // damma

	' ': " ",
}

// ArabicToCoptic converts Arabic text to Coptic letters. Runes without a
// table entry (digits, punctuation, other scripts) are kept as they are.
//
// The conversion is a single pass: feeding the output back in is not a
// no-op in general, since Coptic letters are not table keys.
func ArabicToCoptic(text string) string {
	out := mapRunes(text, func(r rune) (string, bool) {
		v, ok := arabicToCoptic[r]
		return v, ok
	}, keepRune)
	return cases.Upper(language.Und).String(out)
}

func keepRune(r rune) string { return string(r) }
