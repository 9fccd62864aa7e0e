package in

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	curriculumin "agencycheck/internal/modules/curriculum/port/in"
	exportdto "agencycheck/internal/modules/export/dto"
	exportin "agencycheck/internal/modules/export/port/in"
	journaldto "agencycheck/internal/modules/journal/dto"
	journalin "agencycheck/internal/modules/journal/port/in"
	"agencycheck/internal/modules/progress/dto"
	progressin "agencycheck/internal/modules/progress/port/in"
	apperrors "agencycheck/internal/platform/errors"
)

const maxBodyBytes = 1 << 20

// HTTPHandler serves the read API used by dashboards plus the two write
// paths learners and supervisors need.
type HTTPHandler struct {
	progress   progressin.Usecase
	journal    journalin.Usecase
	curriculum curriculumin.Usecase
	export     exportin.Usecase
	logger     *slog.Logger
}

func NewHTTPHandler(progress progressin.Usecase, journal journalin.Usecase, curriculum curriculumin.Usecase, export exportin.Usecase, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{progress: progress, journal: journal, curriculum: curriculum, export: export, logger: logger}
}

// Router builds the chi router. allowedOrigins feeds the CORS policy.
func (h *HTTPHandler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}).Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/curriculum", h.getCurriculum)
		r.Get("/windows", h.getWindows)
		r.Get("/formats", h.getFormats)
		r.Post("/entries", h.postEntry)
		r.Post("/entries/{entryID}/notes", h.postNote)
		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", h.getSubjects)
			r.Get("/{subjectID}/entries", h.getEntries)
			r.Get("/{subjectID}/report", h.getReport)
			r.Get("/{subjectID}/report.{format}", h.getRenderedReport)
		})
	})
	return r
}

func (h *HTTPHandler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) getCurriculum(w http.ResponseWriter, r *http.Request) {
	out, err := h.curriculum.Show(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) getWindows(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"modes": h.progress.WindowModes()})
}

func (h *HTTPHandler) getFormats(w http.ResponseWriter, r *http.Request) {
	formats, err := h.export.Formats(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, formats)
}

func (h *HTTPHandler) getSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.journal.ListSubjects(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if subjects == nil {
		subjects = []journaldto.SubjectOutput{}
	}
	respondJSON(w, http.StatusOK, subjects)
}

func (h *HTTPHandler) getEntries(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, r, fmt.Errorf("%w: limit must be a number", apperrors.ErrInvalidInput))
			return
		}
		limit = n
	}
	entries, err := h.journal.ListEntries(r.Context(), journaldto.ListEntriesInput{SubjectID: chi.URLParam(r, "subjectID"), Limit: limit})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []journaldto.EntryOutput{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *HTTPHandler) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.progress.Report(r.Context(), reportInput(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *HTTPHandler) getRenderedReport(w http.ResponseWriter, r *http.Request) {
	out, err := h.export.Render(r.Context(), exportdto.RenderInput{
		Report:  reportInput(r),
		Format:  chi.URLParam(r, "format"),
		Options: exportOptions(r),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	filename := fmt.Sprintf("%s-report.%s", chi.URLParam(r, "subjectID"), out.Extension)
	w.Header().Set("Content-Type", out.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Content)
}

func (h *HTTPHandler) postEntry(w http.ResponseWriter, r *http.Request) {
	var input journaldto.LogEntryInput
	if err := decodeJSONBody(w, r, &input); err != nil {
		h.respondError(w, r, err)
		return
	}
	out, err := h.journal.LogEntry(r.Context(), input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

type noteRequest struct {
	Role string `json:"role"`
	Note string `json:"note"`
}

func (h *HTTPHandler) postNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	out, err := h.journal.Annotate(r.Context(), journaldto.AnnotateInput{
		EntryID: chi.URLParam(r, "entryID"),
		Role:    req.Role,
		Note:    req.Note,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func reportInput(r *http.Request) dto.ReportInput {
	q := r.URL.Query()
	return dto.ReportInput{
		SubjectID:      chi.URLParam(r, "subjectID"),
		Window:         q.Get("window"),
		From:           q.Get("from"),
		To:             q.Get("to"),
		ThemePolicy:    q.Get("themePolicy"),
		CategoryPolicy: q.Get("categoryPolicy"),
		OverallPolicy:  q.Get("overallPolicy"),
	}
}

// exportOptions forwards opt.<name> query parameters to exporters.
func exportOptions(r *http.Request) map[string]string {
	options := map[string]string{}
	for key, values := range r.URL.Query() {
		if name, ok := strings.CutPrefix(key, "opt."); ok && name != "" && len(values) > 0 {
			options[name] = values[0]
		}
	}
	return options
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "request_id", chimiddleware.GetReqID(r.Context()), "err", err)
		message = http.StatusText(status)
	}
	respondJSON(w, status, errorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrInvalidWindow):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbiddenRole):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrUnknownFormat):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrImmutableEntry):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", apperrors.ErrInvalidInput)
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", apperrors.ErrInvalidInput)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			defer func() {
				level := slog.LevelInfo
				switch {
				case ww.Status() >= 500:
					level = slog.LevelError
				case ww.Status() >= 400:
					level = slog.LevelWarn
				}
				logger.LogAttrs(r.Context(), level, "request completed",
					slog.String("request_id", chimiddleware.GetReqID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", ww.Status()),
					slog.Int("bytes_out", ww.BytesWritten()),
					slog.Duration("latency", time.Since(started)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
