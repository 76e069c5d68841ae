package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ketanjain7981/shop-savy/pkg/httputil"

	"github.com/ketanjain7981/shop-savy/internal/tools"
)

// maxToolBodyBytes bounds a tool invocation body.
const maxToolBodyBytes = 1 << 20

// ToolsHandler exposes the tool registry over HTTP for the dialogue layer.
type ToolsHandler struct {
	registry *tools.Registry
	logger   *slog.Logger
}

// NewToolsHandler creates a new tools HTTP handler.
func NewToolsHandler(registry *tools.Registry, logger *slog.Logger) *ToolsHandler {
	return &ToolsHandler{
		registry: registry,
		logger:   logger,
	}
}

// ListTools handles GET /api/v1/tools
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"tools": h.registry.Definitions()},
	})
}

// Invoke handles POST /api/v1/tools/{name}. The request body is the tool's
// flat JSON argument bag; an empty body means no arguments.
func (h *ToolsHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxToolBodyBytes))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "unreadable request body"},
		})
		return
	}

	result, err := h.registry.Dispatch(r.Context(), name, json.RawMessage(body))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
