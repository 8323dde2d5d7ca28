// Package handler exposes chain verification over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fundwatch/internal/anchor"
	"fundwatch/pkg/platform/httputil"
	"fundwatch/pkg/requestcontext"
)

// Service defines the interface for anchor verification.
type Service interface {
	Verify(ctx context.Context, recordType string) (anchor.VerifyReport, error)
}

// Handler wires anchor endpoints to the anchor service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an anchor handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts anchor endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/anchors/{recordType}/verify", h.HandleVerify)
}

// HandleVerify handles GET /anchors/{recordType}/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordType := chi.URLParam(r, "recordType")

	report, err := h.service.Verify(ctx, recordType)
	if err != nil {
		h.logger.ErrorContext(ctx, "chain verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"record_type", recordType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if !report.OK {
		h.logger.WarnContext(ctx, "chain verification found broken links",
			"record_type", recordType,
			"errors", len(report.Errors),
		)
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
