package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"ruleid/internal/domain"
	"ruleid/internal/identity"
	"ruleid/internal/index"
)

// Handler serves identifier derivation and resolution endpoints.
// Params: fingerprint builder, index store, metrics, and body size limit.
// Returns: HTTP handler set for the identifier API.
type Handler struct {
	builder     *identity.Builder
	store       index.Store
	logger      *slog.Logger
	metrics     *Metrics
	maxBodySize int64
}

// NewHandler creates the identifier API handler.
// Params: builder, store, logger, metrics, and max request body size.
// Returns: configured handler.
func NewHandler(builder *identity.Builder, store index.Store, logger *slog.Logger, metrics *Metrics, maxBodySize int64) *Handler {
	return &Handler{
		builder:     builder,
		store:       store,
		logger:      logger,
		metrics:     metrics,
		maxBodySize: maxBodySize,
	}
}

// Register mounts API routes under the base path.
// Params: mux and base path without trailing slash.
// Returns: routes registered side-effect.
func (h *Handler) Register(mux *http.ServeMux, basePath string) {
	basePath = strings.TrimSuffix(basePath, "/")
	mux.HandleFunc(basePath, h.handleDerive)
	mux.HandleFunc(basePath+"/batch", h.handleDeriveBatch)
	mux.HandleFunc(basePath+"/", func(writer http.ResponseWriter, request *http.Request) {
		h.handleResolve(writer, request, basePath+"/")
	})
}

// handleDerive derives and indexes the identifier for one rule.
// Params: POST request with one rule-with-location JSON body.
// Returns: JSON body with the opaque identifier string.
func (h *Handler) handleDerive(writer http.ResponseWriter, request *http.Request) {
	body, ok := h.readBody(writer, request)
	if !ok {
		return
	}

	rule, err := domain.DecodeRuleWithLocation(body)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	key, ok := h.deriveAndIndex(writer, request, rule)
	if !ok {
		return
	}
	writeJSON(writer, http.StatusOK, map[string]string{"id": key})
}

// handleDeriveBatch derives and indexes identifiers for one rule batch.
// Params: POST request with a JSON array of rules with locations.
// Returns: JSON body with opaque identifier strings in input order.
func (h *Handler) handleDeriveBatch(writer http.ResponseWriter, request *http.Request) {
	body, ok := h.readBody(writer, request)
	if !ok {
		return
	}

	rules, err := domain.DecodeRuleBatch(body)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	keys := make([]string, 0, len(rules))
	for _, rule := range rules {
		key, ok := h.deriveAndIndex(writer, request, rule)
		if !ok {
			return
		}
		keys = append(keys, key)
	}
	writeJSON(writer, http.StatusOK, map[string][]string{"ids": keys})
}

// handleResolve parses an opaque identifier and resolves it from the index.
// Params: GET request whose path suffix is the identifier string.
// Returns: indexed entry JSON, 400 for malformed keys, 404 for misses.
func (h *Handler) handleResolve(writer http.ResponseWriter, request *http.Request, prefix string) {
	if request.Method != http.MethodGet {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	key := strings.TrimPrefix(request.URL.Path, prefix)
	if key == "" {
		http.Error(writer, "identifier is required", http.StatusBadRequest)
		return
	}

	if _, err := identity.Parse(key); err != nil {
		if h.metrics != nil {
			h.metrics.parseFailures.Inc()
		}
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.store.Get(request.Context(), key)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			if h.metrics != nil {
				h.metrics.resolveMisses.Inc()
			}
			writer.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("index lookup failed", "error", err.Error())
		writer.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	writeJSON(writer, http.StatusOK, entry)
}

// deriveAndIndex derives one identifier and writes it into the index.
// Params: response writer for failure statuses and validated rule.
// Returns: stringified identifier and false when a response was written.
func (h *Handler) deriveAndIndex(writer http.ResponseWriter, request *http.Request, rule domain.RuleWithLocation) (string, bool) {
	id, err := h.builder.DeriveFromRule(rule)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return "", false
	}

	key := identity.Stringify(id)
	if err := h.store.Put(request.Context(), key, rule); err != nil {
		h.logger.Error("index put failed", "id", key, "error", err.Error())
		writer.WriteHeader(http.StatusServiceUnavailable)
		return "", false
	}
	h.metrics.observeDerivation(id.IsNative())
	return key, true
}

// readBody reads one POST body within the configured limit.
// Params: response writer for failure statuses and incoming request.
// Returns: body bytes and false when a response was written.
func (h *Handler) readBody(writer http.ResponseWriter, request *http.Request) ([]byte, bool) {
	if request.Method != http.MethodPost {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return nil, false
	}

	request.Body = http.MaxBytesReader(writer, request.Body, h.maxBodySize)
	defer request.Body.Close()
	body, err := io.ReadAll(request.Body)
	if err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// writeJSON writes one JSON response with status code.
// Params: writer, status, and payload to encode.
// Returns: response body side-effect.
func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}
