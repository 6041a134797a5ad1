package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/unnamed8082/speech-emotion-analysis/internal/analysis"
	"github.com/unnamed8082/speech-emotion-analysis/internal/audio"
)

// Analyzer is the use case the handlers drive. analysis.Service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, data io.Reader) (*analysis.Result, error)
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service        Analyzer
	validator      *validator.Validate
	logger         *slog.Logger
	maxUploadBytes int64
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithMaxUploadBytes sets the upload size ceiling enforced on POST /analyze.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// defaultMaxUploadBytes is the 10 MB upload ceiling.
const defaultMaxUploadBytes = 10 << 20

// NewHandlers creates a new Handlers instance.
func NewHandlers(service Analyzer, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		service:        service,
		validator:      validator.New(),
		logger:         logger,
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// uploadMeta is the validated metadata of the multipart upload.
type uploadMeta struct {
	Filename    string `validate:"required"`
	ContentType string `validate:"required,startswith=audio/"`
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Analyze handles POST /analyze requests: a multipart form with an audio
// payload in the "file" field. Validation failures return 400; decode and
// processing failures return 500. Both use the structured error shape and
// never leak decoder diagnostics to the client.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, h.sizeLimitMessage())
			return
		}
		h.logger.Warn("failed to parse multipart form",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid multipart form body")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `an audio file is required in the "file" form field`)
		return
	}
	defer func() { _ = file.Close() }()

	meta := uploadMeta{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	if err := h.validator.Struct(meta); err != nil {
		h.logger.Warn("upload rejected",
			slog.String("filename", header.Filename),
			slog.String("content_type", meta.ContentType),
		)
		writeError(w, http.StatusBadRequest, "please upload an audio file (WAV, MP3, M4A...)")
		return
	}
	if header.Size == 0 {
		writeError(w, http.StatusBadRequest, "the uploaded audio file is empty")
		return
	}
	if header.Size > h.maxUploadBytes {
		writeError(w, http.StatusBadRequest, h.sizeLimitMessage())
		return
	}

	result, err := h.service.Analyze(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, audio.ErrDecode) {
			h.logger.Warn("upload could not be decoded",
				slog.String("filename", header.Filename),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "could not decode the audio file")
			return
		}
		h.logger.Error("analysis failed",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "audio processing failed")
		return
	}

	resp := AnalyzeResponse{
		Success: true,
		Emotions: EmotionsDTO{
			Calm:    result.Risk.Scores.Calm,
			Tense:   result.Risk.Scores.Tense,
			Angry:   result.Risk.Scores.Angry,
			Excited: result.Risk.Scores.Excited,
		},
		Risk:      result.Risk.ConflictRisk,
		Duration:  result.Risk.DurationSeconds,
		Timestamp: result.Risk.Timestamp.Format("15:04:05"),
	}
	if len(result.ChartPNG) > 0 {
		resp.Chart = base64.StdEncoding.EncodeToString(result.ChartPNG)
	}
	if len(result.WaveformPNG) > 0 {
		resp.Waveform = base64.StdEncoding.EncodeToString(result.WaveformPNG)
	}

	writeJSON(w, http.StatusOK, resp)
}

// sizeLimitMessage renders the upload ceiling in whole megabytes when it is
// one, and in bytes otherwise.
func (h *Handlers) sizeLimitMessage() string {
	if h.maxUploadBytes%(1<<20) == 0 {
		return fmt.Sprintf("file exceeds the %d MB upload size limit", h.maxUploadBytes>>20)
	}
	return fmt.Sprintf("file exceeds the upload size limit of %d bytes", h.maxUploadBytes)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error:   message,
	})
}
