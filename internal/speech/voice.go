package speech

import (
	"strings"

	"github.com/samber/lo"
)

// SelectVoice returns the first voice whose language tag starts with "ar"
// in any case, along with that voice's language. With no such voice it
// returns nil and FallbackLanguage.
func SelectVoice(voices []Voice) (*Voice, string) {
	v, ok := lo.Find(voices, func(v Voice) bool {
		return strings.HasPrefix(strings.ToLower(v.Language), "ar")
	})
	if !ok {
		return nil, FallbackLanguage
	}
	return &v, v.Language
}

// NewRequest builds a request for text with the voice chosen by SelectVoice
// and the default rate and pitch.
func NewRequest(text string, voices []Voice) Request {
	voice, lang := SelectVoice(voices)
	return Request{
		Text:     text,
		Voice:    voice,
		Language: lang,
		Rate:     DefaultRate,
		Pitch:    DefaultPitch,
	}
}
