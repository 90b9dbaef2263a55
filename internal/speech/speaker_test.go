package speech

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Name() string { return "mock" }

func (m *MockEngine) Available() error {
	ret := m.Called()
	return ret.Error(0)
}

func (m *MockEngine) Voices(ctx context.Context) ([]Voice, error) {
	ret := m.Called(ctx)
	return ret.Get(0).([]Voice), ret.Error(1)
}

func (m *MockEngine) Synthesize(ctx context.Context, req Request) (Audio, error) {
	ret := m.Called(ctx, req)
	return ret.Get(0).(Audio), ret.Error(1)
}

type MockPlayer struct {
	mock.Mock
}

func (m *MockPlayer) Play(audio Audio) error {
	ret := m.Called(audio)
	return ret.Error(0)
}

func (m *MockPlayer) Wait(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

func (m *MockPlayer) Stop() error {
	ret := m.Called()
	return ret.Error(0)
}

func (m *MockPlayer) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

var arabicVoices = []Voice{{Name: "Arabic", Language: "ar", Identifier: "sem/ar"}}

func TestSpeakerSpeak(t *testing.T) {
	engine := new(MockEngine)
	player := new(MockPlayer)
	audio := testAudio()

	engine.On("Available").Return(nil)
	engine.On("Voices", mock.Anything).Return(arabicVoices, nil)
	engine.On("Synthesize", mock.Anything, mock.MatchedBy(func(req Request) bool {
		return req.Text == "ⲘⲒⲚⲀ" && req.Language == "ar" && req.Rate == DefaultRate && req.Pitch == DefaultPitch
	})).Return(audio, nil)
	player.On("Stop").Return(nil)
	player.On("Play", audio).Return(nil)

	s := NewSpeaker(engine, player)
	require.NoError(t, s.Speak(context.Background(), "ⲘⲒⲚⲀ"))

	engine.AssertExpectations(t)
	player.AssertExpectations(t)
}

func TestSpeakerStopsPreviousPlayback(t *testing.T) {
	engine := new(MockEngine)
	player := new(MockPlayer)

	engine.On("Available").Return(nil)
	engine.On("Voices", mock.Anything).Return([]Voice{}, nil)
	engine.On("Synthesize", mock.Anything, mock.Anything).Return(testAudio(), nil)
	player.On("Stop").Return(nil)
	player.On("Play", mock.Anything).Return(nil)

	s := NewSpeaker(engine, player)
	require.NoError(t, s.Speak(context.Background(), "ⲘⲒⲚⲀ"))
	require.NoError(t, s.Speak(context.Background(), "ⲔⲀⲢⲀⲤ"))

	player.AssertNumberOfCalls(t, "Stop", 2)
	player.AssertNumberOfCalls(t, "Play", 2)
}

func TestSpeakerSupersededSpeakDoesNotPlay(t *testing.T) {
	engine := new(MockEngine)
	player := new(MockPlayer)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	engine.On("Available").Return(nil)
	engine.On("Voices", mock.Anything).Return([]Voice{}, nil)
	engine.On("Synthesize", mock.Anything, mock.MatchedBy(func(req Request) bool { return req.Text == "first" })).
		Run(func(args mock.Arguments) {
			once.Do(func() { close(started) })
			<-release
		}).
		Return(testAudio(), nil)
	engine.On("Synthesize", mock.Anything, mock.MatchedBy(func(req Request) bool { return req.Text == "second" })).
		Return(testAudio(), nil)
	player.On("Stop").Return(nil)
	player.On("Play", mock.Anything).Return(nil).Once()

	s := NewSpeaker(engine, player)

	done := make(chan error, 1)
	go func() { done <- s.Speak(context.Background(), "first") }()

	<-started
	require.NoError(t, s.Speak(context.Background(), "second"))
	close(release)
	require.NoError(t, <-done)

	player.AssertNumberOfCalls(t, "Play", 1)
}

func TestSpeakerVoiceListFailureFallsBack(t *testing.T) {
	engine := new(MockEngine)
	player := new(MockPlayer)

	engine.On("Available").Return(nil)
	engine.On("Voices", mock.Anything).Return([]Voice(nil), errors.New("no voices yet"))
	engine.On("Synthesize", mock.Anything, mock.MatchedBy(func(req Request) bool {
		return req.Voice == nil && req.Language == FallbackLanguage
	})).Return(testAudio(), nil)
	player.On("Stop").Return(nil)
	player.On("Play", mock.Anything).Return(nil)

	s := NewSpeaker(engine, player)
	require.NoError(t, s.Speak(context.Background(), "ⲘⲒⲚⲀ"))
	engine.AssertExpectations(t)
}

func TestSpeakerUnsupported(t *testing.T) {
	engine := new(MockEngine)
	engine.On("Available").Return(ErrUnsupported)

	s := NewSpeaker(engine, nil)
	assert.ErrorIs(t, s.Speak(context.Background(), "ⲘⲒⲚⲀ"), ErrUnsupported)

	_, _, err := s.Synthesize(context.Background(), "ⲘⲒⲚⲀ")
	assert.ErrorIs(t, err, ErrUnsupported)

	player := new(MockPlayer)
	player.On("Stop").Return(nil)
	s = NewSpeaker(engine, player)
	assert.ErrorIs(t, s.Speak(context.Background(), "ⲘⲒⲚⲀ"), ErrUnsupported)

	assert.ErrorIs(t, NewSpeaker(nil, nil).Available(), ErrUnsupported)
}

func TestSpeakerPlayError(t *testing.T) {
	engine := new(MockEngine)
	player := new(MockPlayer)

	engine.On("Available").Return(nil)
	engine.On("Voices", mock.Anything).Return([]Voice{}, nil)
	engine.On("Synthesize", mock.Anything, mock.Anything).Return(testAudio(), nil)
	player.On("Stop").Return(nil)
	player.On("Play", mock.Anything).Return(errors.New("device busy"))

	err := NewSpeaker(engine, player).Speak(context.Background(), "ⲘⲒⲚⲀ")
	assert.ErrorContains(t, err, "device busy")
}

func TestSpeakerSynthesizeUsesCache(t *testing.T) {
	engine := new(MockEngine)
	engine.On("Available").Return(nil)
	engine.On("Voices", mock.Anything).Return(arabicVoices, nil)
	engine.On("Synthesize", mock.Anything, mock.Anything).Return(testAudio(), nil).Once()

	s := NewSpeaker(engine, nil, WithCache(NewCache(1<<20)))

	first, req, err := s.Synthesize(context.Background(), "ⲘⲒⲚⲀ")
	require.NoError(t, err)
	assert.Equal(t, "ar", req.Language)

	second, _, err := s.Synthesize(context.Background(), "ⲘⲒⲚⲀ")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	engine.AssertNumberOfCalls(t, "Synthesize", 1)
}

func TestSpeakerClose(t *testing.T) {
	player := new(MockPlayer)
	player.On("Stop").Return(nil)
	player.On("Close").Return(nil)

	require.NoError(t, NewSpeaker(new(MockEngine), player).Close())
	player.AssertExpectations(t)
}
