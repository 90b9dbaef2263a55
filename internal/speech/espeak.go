package speech

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	espeakNormalWPM   = 175
	espeakNormalPitch = 50
	espeakMaxPitch    = 99
	maxTextSize       = 2000
)

// runFunc runs a command with stdin and returns its stdout.
type runFunc func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

// ESpeakEngine synthesizes speech with the espeak-ng command line tool.
// espeak-ng ships Arabic voices, so names get an Arabic reading when one
// is installed.
type ESpeakEngine struct {
	path        string
	timeout     time.Duration
	rateLimiter *rate.Limiter
	run         runFunc
	lookPath    func(string) (string, error)
}

// ESpeakConfig holds configuration for the espeak-ng engine.
type ESpeakConfig struct {
	// Path to the espeak-ng binary; defaults to "espeak-ng" on PATH.
	Path string

	// Timeout per synthesis call; defaults to 15s.
	Timeout time.Duration

	// RequestsPerSecond caps process spawns; defaults to 10.
	RequestsPerSecond int
}

// NewESpeakEngine creates an espeak-ng engine. It does not check that the
// binary exists; see Available.
func NewESpeakEngine(config ESpeakConfig) *ESpeakEngine {
	if config.Path == "" {
		config.Path = "espeak-ng"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 10
	}
	return &ESpeakEngine{
		path:        config.Path,
		timeout:     config.Timeout,
		rateLimiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.RequestsPerSecond),
		run:         runCommand,
		lookPath:    exec.LookPath,
	}
}

func (e *ESpeakEngine) Name() string { return "espeak-ng" }

func (e *ESpeakEngine) Available() error {
	if _, err := e.lookPath(e.path); err != nil {
		return fmt.Errorf("%w: %s not found: %v", ErrUnsupported, e.path, err)
	}
	return nil
}

// Voices lists the voices espeak-ng reports with --voices.
func (e *ESpeakEngine) Voices(ctx context.Context) ([]Voice, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.run(ctx, e.path, []string{"--voices"}, nil)
	if err != nil {
		return nil, fmt.Errorf("listing espeak-ng voices: %w", err)
	}
	return parseESpeakVoices(out), nil
}

// Synthesize renders req to PCM by running espeak-ng with --stdout and
// decoding the WAV it writes.
func (e *ESpeakEngine) Synthesize(ctx context.Context, req Request) (Audio, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Audio{}, errors.New("text cannot be empty")
	}
	if len(req.Text) > maxTextSize {
		return Audio{}, fmt.Errorf("text too long: %d bytes (max %d)", len(req.Text), maxTextSize)
	}

	if err := e.rateLimiter.Wait(ctx); err != nil {
		return Audio{}, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.run(ctx, e.path, espeakArgs(req), strings.NewReader(req.Text))
	if err != nil {
		if ctx.Err() != nil {
			return Audio{}, fmt.Errorf("espeak-ng synthesis: %w", ctx.Err())
		}
		return Audio{}, fmt.Errorf("espeak-ng synthesis: %w", err)
	}
	if len(out) == 0 {
		return Audio{}, errors.New("espeak-ng produced no audio")
	}

	audio, err := DecodeWAV(out)
	if err != nil {
		return Audio{}, fmt.Errorf("decoding espeak-ng output: %w", err)
	}
	return audio, nil
}

func espeakArgs(req Request) []string {
	voice := strings.ToLower(req.Language)
	if req.Voice != nil && req.Voice.Identifier != "" {
		voice = req.Voice.Identifier
	}

	wpm := int(espeakNormalWPM*req.Rate + 0.5)
	pitch := min(int(espeakNormalPitch*req.Pitch+0.5), espeakMaxPitch)

	return []string{
		"-v", voice,
		"-s", strconv.Itoa(wpm),
		"-p", strconv.Itoa(pitch),
		"--stdout",
		"--stdin",
	}
}

// parseESpeakVoices reads the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  ar              --/M      Arabic             sem/ar
func parseESpeakVoices(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		gender := fields[2]
		if _, g, ok := strings.Cut(gender, "/"); ok {
			gender = g
		}
		voices = append(voices, Voice{
			Name:       strings.ReplaceAll(fields[3], "_", " "),
			Language:   fields[1],
			Gender:     gender,
			Identifier: fields[4],
		})
	}
	return voices
}

func runCommand(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w, stderr: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
