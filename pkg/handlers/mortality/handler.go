package mortality

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/mortality-atlas/pkg/adapters"
	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/de-tools/mortality-atlas/pkg/store/snapshot"
	"github.com/rs/zerolog"
)

// Source provides the most recent report.
type Source interface {
	Latest(ctx context.Context) (domain.AggregateReport, error)
}

type Handler struct {
	source Source
}

func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.latest(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, adapters.MapMortalityReportDomainToApi(report))
}

func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	report, ok := h.latest(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, adapters.MapMortalityReportDomainToApi(report).Meta)
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) (domain.AggregateReport, bool) {
	logger := zerolog.Ctx(r.Context())

	report, err := h.source.Latest(r.Context())
	if errors.Is(err, snapshot.ErrNotFound) {
		http.Error(w, "no report has been generated yet", http.StatusNotFound)
		return report, false
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to load report snapshot")
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return report, false
	}
	return report, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
