package speech

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const voicesOutput = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  ar              --/M      Arabic             sem/ar
 5  en-gb           --/M      English_(Great_Britain) gmw/en            (en 2)
 2  en-us           --/M      English_(America)  gmw/en-US            (en 3)
`

type fakeRun struct {
	out   []byte
	err   error
	name  string
	args  []string
	stdin string
}

func (f *fakeRun) run(_ context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	f.name, f.args = name, args
	if stdin != nil {
		b, _ := io.ReadAll(stdin)
		f.stdin = string(b)
	}
	return f.out, f.err
}

func newTestEngine(f *fakeRun) *ESpeakEngine {
	e := NewESpeakEngine(ESpeakConfig{Path: "/usr/bin/espeak-ng", Timeout: time.Second})
	e.run = f.run
	return e
}

func TestParseESpeakVoices(t *testing.T) {
	voices := parseESpeakVoices([]byte(voicesOutput))
	require.Len(t, voices, 4)

	assert.Equal(t, Voice{Name: "Arabic", Language: "ar", Gender: "M", Identifier: "sem/ar"}, voices[1])
	assert.Equal(t, "English (Great Britain)", voices[2].Name)
	assert.Equal(t, "gmw/en-US", voices[3].Identifier)

	assert.Empty(t, parseESpeakVoices(nil))
}

func TestESpeakVoicesFeedSelection(t *testing.T) {
	f := &fakeRun{out: []byte(voicesOutput)}
	voices, err := newTestEngine(f).Voices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"--voices"}, f.args)

	voice, lang := SelectVoice(voices)
	require.NotNil(t, voice)
	assert.Equal(t, "ar", lang)
	assert.Equal(t, "sem/ar", voice.Identifier)
}

func TestESpeakVoicesError(t *testing.T) {
	f := &fakeRun{err: errors.New("exit status 1")}
	_, err := newTestEngine(f).Voices(context.Background())
	assert.ErrorContains(t, err, "listing espeak-ng voices")
}

func TestESpeakArgs(t *testing.T) {
	req := Request{
		Text:     "ⲘⲒⲚⲀ",
		Voice:    &Voice{Name: "Arabic", Language: "ar", Identifier: "sem/ar"},
		Language: "ar",
		Rate:     DefaultRate,
		Pitch:    DefaultPitch,
	}
	assert.Equal(t, []string{"-v", "sem/ar", "-s", "140", "-p", "45", "--stdout", "--stdin"}, espeakArgs(req))

	req.Voice = nil
	req.Language = FallbackLanguage
	assert.Equal(t, []string{"-v", "en-us", "-s", "140", "-p", "45", "--stdout", "--stdin"}, espeakArgs(req))

	req.Pitch = 3
	assert.Equal(t, "99", espeakArgs(req)[5])
}

func TestESpeakSynthesize(t *testing.T) {
	f := &fakeRun{out: EncodeWAV(testAudio())}
	e := newTestEngine(f)

	audio, err := e.Synthesize(context.Background(), NewRequest("ⲘⲒⲚⲀ", nil))
	require.NoError(t, err)
	assert.Equal(t, testAudio(), audio)
	assert.Equal(t, "/usr/bin/espeak-ng", f.name)
	assert.Equal(t, "ⲘⲒⲚⲀ", f.stdin)
}

func TestESpeakSynthesizeErrors(t *testing.T) {
	e := newTestEngine(&fakeRun{})
	_, err := e.Synthesize(context.Background(), NewRequest("  ", nil))
	assert.ErrorContains(t, err, "empty")

	_, err = e.Synthesize(context.Background(), NewRequest("ⲘⲒⲚⲀ", nil))
	assert.ErrorContains(t, err, "no audio")

	e = newTestEngine(&fakeRun{out: []byte("garbage")})
	_, err = e.Synthesize(context.Background(), NewRequest("ⲘⲒⲚⲀ", nil))
	assert.ErrorIs(t, err, errNotWAV)

	e = newTestEngine(&fakeRun{err: errors.New("exit status 1")})
	_, err = e.Synthesize(context.Background(), NewRequest("ⲘⲒⲚⲀ", nil))
	assert.ErrorContains(t, err, "espeak-ng synthesis")
}

func TestESpeakAvailable(t *testing.T) {
	e := newTestEngine(&fakeRun{})
	e.lookPath = func(string) (string, error) { return "", errors.New("executable file not found in $PATH") }
	assert.ErrorIs(t, e.Available(), ErrUnsupported)

	e.lookPath = func(p string) (string, error) { return p, nil }
	assert.NoError(t, e.Available())
}
