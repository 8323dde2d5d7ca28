// Package handler wires report submission to HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fundwatch/internal/report"
	"fundwatch/pkg/platform/httputil"
	"fundwatch/pkg/requestcontext"
)

// Service defines the interface for report operations.
type Service interface {
	Submit(ctx context.Context, req report.SubmitRequest) (report.Receipt, error)
	GetByPublicID(ctx context.Context, publicID string) (report.Report, error)
}

// Handler wires report endpoints to the report service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a report handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports", h.HandleSubmit)
	r.Get("/reports/{publicID}", h.HandleStatus)
}

// HandleSubmit handles POST /reports requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[report.SubmitRequest](w, r)
	if !ok {
		return
	}

	receipt, err := h.service.Submit(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "report submission failed",
			"request_id", requestcontext.RequestID(ctx),
			"client_ip", requestcontext.ClientIP(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, receipt)
}

// statusResponse is the tracking endpoint's wire shape. Deliberately thin:
// the submitter sees progress, never audit internals.
type statusResponse struct {
	ReferenceNumber string    `json:"reference_number"`
	Status          string    `json:"status"`
	PriorityLevel   int       `json:"priority_level"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// HandleStatus handles GET /reports/{publicID} requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.GetByPublicID(r.Context(), chi.URLParam(r, "publicID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusResponse{
		ReferenceNumber: "TB-" + rep.PublicID,
		Status:          rep.Status,
		PriorityLevel:   rep.PriorityLevel,
		SubmittedAt:     rep.CreatedAt,
	})
}
