// Package handler wires the anomaly engine to HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fundwatch/internal/anomaly"
	dErrors "fundwatch/pkg/domain-errors"
	"fundwatch/pkg/platform/httputil"
	"fundwatch/pkg/requestcontext"
)

// Service defines the interface for anomaly engine operations.
type Service interface {
	Scan(ctx context.Context) (anomaly.Summary, error)
	LastSummary(ctx context.Context) (anomaly.Summary, error)
	List(ctx context.Context, filter anomaly.ListFilter) ([]anomaly.Record, error)
	MarkInvestigated(ctx context.Context, id string) error
}

// Handler wires anomaly endpoints to the anomaly service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an anomaly handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts anomaly endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/anomalies/scan", h.HandleScan)
	r.Get("/anomalies/summary", h.HandleSummary)
	r.Get("/anomalies", h.HandleList)
	r.Post("/anomalies/{id}/investigate", h.HandleInvestigate)
}

// HandleScan handles POST /anomalies/scan requests.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	summary, err := h.service.Scan(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "anomaly scan failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "anomaly scan served",
		"request_id", requestcontext.RequestID(ctx),
		"total", summary.TotalAnomalies,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// HandleSummary handles GET /anomalies/summary requests.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.LastSummary(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// anomalyResponse is the list endpoint's wire shape.
type anomalyResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"anomaly_type"`
	BudgetID      string    `json:"budget_id,omitempty"`
	ContractID    string    `json:"contract_id,omitempty"`
	PaymentID     string    `json:"payment_id,omitempty"`
	Description   string    `json:"description"`
	Severity      string    `json:"severity"`
	RuleScore     float64   `json:"rule_score"`
	MLScore       float64   `json:"ml_score"`
	CombinedScore float64   `json:"combined_score"`
	Investigated  bool      `json:"investigated"`
	CreatedAt     time.Time `json:"created_at"`
}

// HandleList handles GET /anomalies requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filter anomaly.ListFilter
	switch r.URL.Query().Get("investigated") {
	case "true":
		v := true
		filter.Investigated = &v
	case "false":
		v := false
		filter.Investigated = &v
	case "":
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "investigated must be true or false"))
		return
	}

	recs, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]anomalyResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, anomalyResponse{
			ID:            rec.ID,
			Type:          string(rec.Type),
			BudgetID:      rec.BudgetID,
			ContractID:    rec.ContractID,
			PaymentID:     rec.PaymentID,
			Description:   rec.Description,
			Severity:      string(rec.Severity),
			RuleScore:     rec.RuleScore,
			MLScore:       rec.MLScore,
			CombinedScore: rec.CombinedScore,
			Investigated:  rec.Investigated,
			CreatedAt:     rec.CreatedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleInvestigate handles POST /anomalies/{id}/investigate requests.
func (h *Handler) HandleInvestigate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.MarkInvestigated(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"investigated": true})
}
