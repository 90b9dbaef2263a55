package transliteration

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// latinToArabic approximates each uppercase Latin letter (and the four
// digraphs) with an Arabic letter. X has no single-letter counterpart.
var latinToArabic = map[string]string{
	"A": "ا", "B": "ب", "C": "ك", "D": "د", "E": "ي",
	"F": "ف", "G": "ج", "H": "ه", "I": "ي", "J": "ج",
	"K": "ك", "L": "ل", "M": "م", "N": "ن", "O": "و",
	"P": "ب", "Q": "ق", "R": "ر", "S": "س", "T": "ت",
	"U": "و", "V": "ف", "W": "و", "X": "كس", "Y": "ي",
	"Z": "ز",
	"TH": "ث", "SH": "ش", "CH": "ش", "KH": "خ",
	" ": " ",
}

// digraphs are substituted in this order before the per-letter scan.
var digraphs = []string{"SH", "CH", "KH", "TH"}

// LatinToArabic converts Latin text to an approximate Arabic reading.
//
// Letters without a table entry are dropped. Digraph substitution runs
// before the per-letter scan, so the Arabic letter it inserts is itself
// looked up in the Latin table and dropped: "Shadi" yields "ادي", not "شادي".
func LatinToArabic(text string) string {
	upper := cases.Upper(language.Und).String(text)
	for _, dg := range digraphs {
		upper = strings.ReplaceAll(upper, dg, latinToArabic[dg])
	}
	return mapRunes(upper, func(r rune) (string, bool) {
		v, ok := latinToArabic[string(r)]
		return v, ok
	}, dropRune)
}

func dropRune(rune) string { return "" }
