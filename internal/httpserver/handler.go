package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/observability"
)

// Response headers describing how a generation was served.
const (
	HeaderCache       = "X-Atelier-Cache"
	HeaderFingerprint = "X-Atelier-Fingerprint"
)

const maxBodyBytes = 1 << 20

// Handler handles HTTP requests.
type Handler struct {
	generations *domain.GenerationService
	batches     *domain.BatchCoordinator
	stats       *domain.StatsService
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	generations *domain.GenerationService,
	batches *domain.BatchCoordinator,
	stats *domain.StatsService,
) *Handler {
	return &Handler{
		generations: generations,
		batches:     batches,
		stats:       stats,
	}
}

// HandleGenerate processes a single generation request.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.GenerationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("generation request received",
		observability.String("mode", string(req.Mode)),
		observability.Int("prompt_length", len(req.Prompt)))

	result, err := h.generations.Generate(ctx, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setCacheHeaders(w, result)
	writeJSON(w, r, http.StatusOK, result)
}

// HandleRefine generates a refined version of a completed generation.
func (h *Handler) HandleRefine(w http.ResponseWriter, r *http.Request) {
	var req domain.RefineRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.GenerationID = r.PathValue("id")

	result, err := h.generations.Refine(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setCacheHeaders(w, result)
	writeJSON(w, r, http.StatusOK, result)
}

// HandleBatch processes a batch of generation requests.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req domain.BatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.batches.Execute(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// HandleHistory lists past generations, most recent first.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var query domain.HistoryQuery
	var err error
	if query.UserID, err = int64Param(q.Get("user_id"), "user_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if query.ProjectID, err = optionalInt64Param(q.Get("project_id"), "project_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if query.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		writeError(w, r, err)
		return
	}
	if query.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		writeError(w, r, err)
		return
	}
	if status := q.Get("status"); status != "" {
		switch s := domain.Status(status); s {
		case domain.StatusProcessing, domain.StatusCompleted, domain.StatusFailed:
			query.Status = fn.Some(s)
		default:
			writeError(w, r, &domain.ValidationError{Field: "status", Reason: "unknown status " + strconv.Quote(status)})
			return
		}
	}

	page, err := h.stats.History(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, page)
}

// HandleStatistics summarizes generations over a time window.
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var query domain.StatsQuery
	var err error
	if query.UserID, err = int64Param(q.Get("user_id"), "user_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if query.ProjectID, err = optionalInt64Param(q.Get("project_id"), "project_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if query.WindowDays, err = intParam(q.Get("days"), "days"); err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.stats.Summarize(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, summary)
}

// HandleGetGeneration returns one history record.
func (h *Handler) HandleGetGeneration(w http.ResponseWriter, r *http.Request) {
	record, err := h.stats.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, record)
}

// HandleParameters lists the generation modes and parameter option sets.
func (h *Handler) HandleParameters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"modes":      []domain.Mode{domain.ModeAI, domain.ModeManual},
		"parameters": domain.ParameterOptions(),
		"defaults":   domain.DefaultParameters(),
	})
}

// HandleCacheStats reports cache effectiveness.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.generations.CacheStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, stats)
}

// HandleClearCache evicts every cached result.
func (h *Handler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.generations.ClearCache(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"message":         "Cache cleared",
		"cleared_entries": cleared,
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func setCacheHeaders(w http.ResponseWriter, result *domain.GenerationResult) {
	if result == nil {
		return
	}

	if result.Cached {
		w.Header().Set(HeaderCache, "HIT")
	} else {
		w.Header().Set(HeaderCache, "MISS")
	}
	w.Header().Set(HeaderFingerprint, result.Fingerprint)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Reason: "must be an integer"}
	}
	return v, nil
}

func int64Param(raw, name string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Reason: "must be an integer"}
	}
	return v, nil
}

func optionalInt64Param(raw, name string) (fn.Option[int64], error) {
	if raw == "" {
		return fn.None[int64](), nil
	}
	v, err := int64Param(raw, name)
	if err != nil {
		return fn.None[int64](), err
	}
	return fn.Some(v), nil
}

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
	RetryCount *int   `json:"retry_count,omitempty"`
}

// writeError maps domain errors onto status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classifyError(err)

	logger := observability.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", observability.Int("status", status), observability.Error(err))
	} else {
		logger.Warn("request rejected", observability.Int("status", status), observability.Error(err))
	}

	writeJSON(w, r, status, body)
}

func classifyError(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error()}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		body.Field = validationErr.Field
		return http.StatusBadRequest, body
	}

	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound, body
	}

	var retryErr *domain.RetryError
	if errors.As(err, &retryErr) {
		count := retryErr.RetryCount
		body.RetryCount = &count
		return http.StatusBadGateway, body
	}

	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		return http.StatusBadGateway, body
	}

	return http.StatusInternalServerError, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Status is already written; just log.
		observability.FromContext(r.Context()).Error("failed to encode response", observability.Error(err))
	}
}
