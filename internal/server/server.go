package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/iwvelando/economic-loss/internal/analysis"
	"github.com/iwvelando/economic-loss/internal/cache"
	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/internal/store"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/iwvelando/economic-loss/pkg/output"
	"go.uber.org/zap"
)

// RunStore is the subset of the run history the API uses.
type RunStore interface {
	SaveRun(ctx context.Context, req analysis.Request, result *analysis.Result, inputHash string) error
	ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error)
	GetRun(ctx context.Context, id string) (*store.StoredRun, error)
	FindByInputHash(ctx context.Context, inputHash string) (*store.StoredRun, error)
}

// Options wires the handler's collaborators. Store and Cache are optional.
type Options struct {
	Logger      *zap.Logger
	Analyzer    *analysis.Analyzer
	Store       RunStore
	Cache       cache.Cache
	MaxBodySize int64
	Version     string
}

type handler struct {
	logger      *zap.Logger
	analyzer    *analysis.Analyzer
	store       RunStore
	cache       cache.Cache
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the analysis API.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	c := opts.Cache
	if c == nil {
		c = cache.NopCache{}
	}

	h := &handler{
		logger:      logger,
		analyzer:    opts.Analyzer,
		store:       opts.Store,
		cache:       c,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analysis", h.handleAnalysis)
	mux.HandleFunc("GET /api/runs", h.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.handleGetRun)
	mux.HandleFunc("GET /api/tables", h.handleTables)
	mux.HandleFunc("GET /api/version", h.handleVersion)
	return mux
}

type analysisResponse struct {
	Cached   bool            `json:"cached"`
	Saved    bool            `json:"saved"`
	Duration string          `json:"duration"`
	Report   output.Report   `json:"report"`
	CSV      string          `json:"csv"`
	Result   json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error    string         `json:"error"`
	Problems []string       `json:"problems,omitempty"`
	Report   *output.Report `json:"report,omitempty"`
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalysis"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, op, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize)})
			return
		}
		h.respondError(w, op, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to read request: %v", err)})
		return
	}

	var req analysis.Request
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.respondError(w, op, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	save, _ := strconv.ParseBool(r.URL.Query().Get("save"))
	if save && h.store == nil {
		h.respondError(w, op, http.StatusConflict, errorResponse{Error: "run storage is not enabled"})
		return
	}

	key, err := h.analyzer.CacheKey(req)
	if err != nil {
		h.respondError(w, op, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	// A cached result answers a save only when the input is already recorded.
	if cached, ok := h.lookupCache(r.Context(), key); ok {
		recorded := false
		if save {
			recorded, err = h.isRecorded(r.Context(), key)
			if err != nil {
				h.respondError(w, op, http.StatusInternalServerError, errorResponse{Error: err.Error()})
				return
			}
		}
		if !save || recorded {
			cached.Cached = true
			cached.Saved = recorded
			cached.Duration = time.Since(start).String()
			h.writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := h.analyzer.Run(r.Context(), req)
	if err != nil {
		h.respondAnalysisError(w, op, result, err)
		return
	}

	response, err := buildAnalysisResponse(result)
	if err != nil {
		h.respondError(w, op, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if encoded, err := json.Marshal(response); err == nil {
		if err := h.cache.Set(r.Context(), key, encoded); err != nil {
			h.logger.Warn("failed to cache analysis", zap.String("op", op), zap.Error(err))
		}
	}

	if save {
		if err := h.store.SaveRun(r.Context(), req, result, key); err != nil {
			h.respondError(w, op, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		response.Saved = true
	}

	response.Duration = time.Since(start).String()
	h.logger.Info("analysis served",
		zap.String("op", op),
		zap.String("runId", result.RunID),
		zap.Float64("totalEconomicLoss", result.TotalEconomicLoss),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) isRecorded(ctx context.Context, inputHash string) (bool, error) {
	_, err := h.store.FindByInputHash(ctx, inputHash)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func buildAnalysisResponse(result *analysis.Result) (analysisResponse, error) {
	report := output.NewReport(result)

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, report); err != nil {
		return analysisResponse{}, fmt.Errorf("failed to render CSV: %w", err)
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return analysisResponse{}, fmt.Errorf("failed to encode result: %w", err)
	}

	return analysisResponse{Report: report, CSV: csvBuf.String(), Result: resultJSON}, nil
}

func (h *handler) lookupCache(ctx context.Context, key string) (analysisResponse, bool) {
	data, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("cache lookup failed", zap.String("op", "server.lookupCache"), zap.Error(err))
		return analysisResponse{}, false
	}
	if !ok {
		return analysisResponse{}, false
	}
	var response analysisResponse
	if err := json.Unmarshal(data, &response); err != nil {
		h.logger.Warn("discarding unreadable cache entry", zap.String("op", "server.lookupCache"), zap.Error(err))
		return analysisResponse{}, false
	}
	return response, true
}

func (h *handler) respondAnalysisError(w http.ResponseWriter, op string, result *analysis.Result, err error) {
	var (
		validationErr *model.ValidationError
		domainErr     *model.DomainError
		numericErr    *model.NumericError
	)
	switch {
	case errors.As(err, &validationErr):
		h.respondError(w, op, http.StatusBadRequest, errorResponse{Error: err.Error(), Problems: validationErr.Problems})
	case errors.As(err, &domainErr), errors.As(err, &numericErr):
		resp := errorResponse{Error: err.Error()}
		if result != nil {
			report := output.NewReport(result)
			resp.Report = &report
		}
		h.respondError(w, op, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.respondError(w, op, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		h.respondError(w, op, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (h *handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListRuns"
	if h.store == nil {
		h.respondError(w, op, http.StatusNotFound, errorResponse{Error: "run storage is not enabled"})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.respondError(w, op, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid limit %q", raw)})
			return
		}
		limit = parsed
	}

	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		h.respondError(w, op, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (h *handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetRun"
	if h.store == nil {
		h.respondError(w, op, http.StatusNotFound, errorResponse{Error: "run storage is not enabled"})
		return
	}

	run, err := h.store.GetRun(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, op, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.respondError(w, op, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *handler) handleTables(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.analyzer.Tables().Document())
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version":       h.version,
		"tablesVersion": h.analyzer.Tables().Version(),
	})
}

func (h *handler) respondError(w http.ResponseWriter, op string, status int, resp errorResponse) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", resp.Error),
	)
	h.writeJSON(w, status, resp)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// Run serves handler on address until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, logger *zap.Logger, address string, handler http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("op", "server.Run"), zap.String("address", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down", zap.String("op", "server.Run"))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
