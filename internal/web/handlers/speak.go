package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jusunglee/copticname/internal/converter"
	"github.com/jusunglee/copticname/internal/speech"
)

// Synthesizer renders text to audio without playing it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (speech.Audio, speech.Request, error)
}

type SpeakHandler struct {
	conv  *converter.Converter
	synth Synthesizer
	log   *slog.Logger
}

func NewSpeakHandler(conv *converter.Converter, synth Synthesizer, log *slog.Logger) *SpeakHandler {
	return &SpeakHandler{conv: conv, synth: synth, log: log}
}

// Create converts the name in a JSON body and responds with the spoken
// Coptic text as a WAV file. The text itself is in X-Coptic-Text,
// URL-encoded.
func (h *SpeakHandler) Create(w http.ResponseWriter, r *http.Request) {
	name, err := decodeName(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := h.conv.Convert(r.Context(), name)
	if res.Empty {
		writeError(w, http.StatusUnprocessableEntity, res.Notice)
		return
	}
	if res.Coptic == "" {
		writeError(w, http.StatusUnprocessableEntity, "name has no letters to speak")
		return
	}

	audio, req, err := h.synth.Synthesize(r.Context(), res.Coptic)
	if err != nil {
		if errors.Is(err, speech.ErrUnsupported) {
			writeError(w, http.StatusServiceUnavailable, converter.NoticeSpeechUnsupported)
			return
		}
		h.log.ErrorContext(r.Context(), "synthesizing speech", "coptic", res.Coptic, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	body := speech.EncodeWAV(audio)
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("X-Coptic-Text", url.QueryEscape(res.Coptic))
	w.Header().Set("X-Speech-Language", req.Language)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
