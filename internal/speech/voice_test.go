package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectVoice(t *testing.T) {
	tests := []struct {
		name     string
		voices   []Voice
		wantName string
		wantLang string
	}{
		{
			name:     "no voices",
			voices:   nil,
			wantLang: "en-US",
		},
		{
			name:     "no arabic voice",
			voices:   []Voice{{Name: "English", Language: "en-gb"}, {Name: "French", Language: "fr-fr"}},
			wantLang: "en-US",
		},
		{
			name:     "lowercase arabic",
			voices:   []Voice{{Name: "English", Language: "en-gb"}, {Name: "Arabic", Language: "ar"}},
			wantName: "Arabic",
			wantLang: "ar",
		},
		{
			name:     "uppercase arabic",
			voices:   []Voice{{Name: "Egyptian", Language: "AR-EG"}},
			wantName: "Egyptian",
			wantLang: "AR-EG",
		},
		{
			name:     "mixed case arabic",
			voices:   []Voice{{Name: "Saudi", Language: "Ar-SA"}},
			wantName: "Saudi",
			wantLang: "Ar-SA",
		},
		{
			name:     "first match wins",
			voices:   []Voice{{Name: "One", Language: "ar-eg"}, {Name: "Two", Language: "ar-sa"}},
			wantName: "One",
			wantLang: "ar-eg",
		},
		{
			name:     "prefix only",
			voices:   []Voice{{Name: "Aragonese", Language: "an"}, {Name: "Armenian", Language: "hy"}},
			wantLang: "en-US",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voice, lang := SelectVoice(tt.voices)
			assert.Equal(t, tt.wantLang, lang)
			if tt.wantName == "" {
				assert.Nil(t, voice)
				return
			}
			require.NotNil(t, voice)
			assert.Equal(t, tt.wantName, voice.Name)
		})
	}
}

func TestNewRequestDefaults(t *testing.T) {
	req := NewRequest("ⲘⲒⲚⲀ", []Voice{{Name: "Arabic", Language: "ar"}})

	assert.Equal(t, "ⲘⲒⲚⲀ", req.Text)
	assert.Equal(t, 0.8, req.Rate)
	assert.Equal(t, 0.9, req.Pitch)
	assert.Equal(t, "ar", req.Language)
	require.NotNil(t, req.Voice)
	assert.Equal(t, "Arabic", req.Voice.Name)

	fallback := NewRequest("ⲘⲒⲚⲀ", nil)
	assert.Nil(t, fallback.Voice)
	assert.Equal(t, "en-US", fallback.Language)
}
