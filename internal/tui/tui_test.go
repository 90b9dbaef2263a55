package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/copticname/internal/converter"
)

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, raw string) converter.Result {
	ret := m.Called(ctx, raw)
	return ret.Get(0).(converter.Result)
}

func (m *MockConverter) ConvertAndSpeak(ctx context.Context, raw string) (converter.Result, error) {
	ret := m.Called(ctx, raw)
	return ret.Get(0).(converter.Result), ret.Error(1)
}

func typeName(t *testing.T, m model, name string) model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)})
	return next.(model)
}

// press sends key and runs the resulting command, feeding its message back.
func press(t *testing.T, m model, key tea.KeyType) model {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	require.NotNil(t, cmd)
	next, _ = next.(model).Update(cmd())
	return next.(model)
}

func TestEnterConverts(t *testing.T) {
	conv := converter.New()
	m := typeName(t, New(context.Background(), conv), "Mina")

	m = press(t, m, tea.KeyEnter)

	require.True(t, m.done)
	assert.Equal(t, "ⲘⲒⲚⲀ", m.result.Coptic)
	assert.Contains(t, m.View(), "ⲘⲒⲚⲀ")
	assert.Contains(t, m.View(), "Arabic: مينا")
}

func TestEnterOnBlankShowsNotice(t *testing.T) {
	m := New(context.Background(), converter.New())

	m = press(t, m, tea.KeyEnter)

	assert.True(t, m.result.Empty)
	assert.Contains(t, m.View(), converter.NoticeEmptyInput)
}

func TestCtrlSSpeaks(t *testing.T) {
	conv := new(MockConverter)
	conv.On("ConvertAndSpeak", mock.Anything, "Karas").
		Return(converter.Result{Input: "Karas", Coptic: "ⲔⲀⲢⲀⲤ"}, nil).Once()

	m := typeName(t, New(context.Background(), conv), "Karas")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(model)
	require.True(t, m.speaking)
	assert.Contains(t, m.View(), "speaking...")

	next, _ = m.Update(cmd())
	m = next.(model)

	assert.False(t, m.speaking)
	assert.Equal(t, "ⲔⲀⲢⲀⲤ", m.result.Coptic)
	conv.AssertExpectations(t)
}

func TestCtrlSWithoutSpeech(t *testing.T) {
	m := typeName(t, New(context.Background(), converter.New()), "Mina")

	m = press(t, m, tea.KeyCtrlS)

	assert.Equal(t, converter.NoticeSpeechUnsupported, m.result.Notice)
	assert.Contains(t, m.View(), converter.NoticeSpeechUnsupported)
}

func TestSpeakErrorIsShown(t *testing.T) {
	conv := new(MockConverter)
	conv.On("ConvertAndSpeak", mock.Anything, "Mina").
		Return(converter.Result{Input: "Mina", Coptic: "ⲘⲒⲚⲀ"}, errors.New("audio device busy"))

	m := typeName(t, New(context.Background(), conv), "Mina")
	m = press(t, m, tea.KeyCtrlS)

	assert.Contains(t, m.View(), "audio device busy")
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := New(context.Background(), converter.New()).Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestTypingUpdatesInput(t *testing.T) {
	m := typeName(t, New(context.Background(), converter.New()), "مينا")
	assert.Equal(t, "مينا", m.input.Value())
	assert.False(t, m.done)
}
