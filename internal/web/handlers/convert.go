package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jusunglee/copticname/internal/converter"
)

const maxBodyBytes = 4 << 10

type ConvertHandler struct {
	conv *converter.Converter
	log  *slog.Logger
}

func NewConvertHandler(conv *converter.Converter, log *slog.Logger) *ConvertHandler {
	return &ConvertHandler{conv: conv, log: log}
}

type nameRequest struct {
	Name string `json:"name"`
}

type convertResponse struct {
	Input  string `json:"input"`
	Script string `json:"script"`
	Arabic string `json:"arabic"`
	Coptic string `json:"coptic"`
}

func toConvertResponse(res converter.Result) convertResponse {
	return convertResponse{
		Input:  res.Input,
		Script: res.Script.String(),
		Arabic: res.Arabic,
		Coptic: res.Coptic,
	}
}

// Create converts the name in a JSON body.
func (h *ConvertHandler) Create(w http.ResponseWriter, r *http.Request) {
	name, err := decodeName(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.convert(w, r, name)
}

// Get converts the name query parameter.
func (h *ConvertHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.convert(w, r, r.URL.Query().Get("name"))
}

func (h *ConvertHandler) convert(w http.ResponseWriter, r *http.Request, name string) {
	res := h.conv.Convert(r.Context(), name)
	if res.Empty {
		writeError(w, http.StatusUnprocessableEntity, res.Notice)
		return
	}
	writeJSON(w, http.StatusOK, toConvertResponse(res))
}

func decodeName(w http.ResponseWriter, r *http.Request) (string, error) {
	var req nameRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return "", errors.New("empty body")
		}
		return "", err
	}
	return strings.TrimSpace(req.Name), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
