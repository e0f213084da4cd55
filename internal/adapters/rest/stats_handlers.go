package rest

import (
	"net/http"
	"rental-dashboard/internal/contextkeys"
	"rental-dashboard/internal/core/port"
	"rental-dashboard/internal/core/port/usecases_port"
)

type StatsHandler struct {
	computeStatsUC usecases_port.ComputeStatsUseCase
	historyUC      usecases_port.GetProcessingHistoryUseCase
}

func NewStatsHandler(computeStatsUC usecases_port.ComputeStatsUseCase,
	historyUC usecases_port.GetProcessingHistoryUseCase) *StatsHandler {
	return &StatsHandler{
		computeStatsUC: computeStatsUC,
		historyUC:      historyUC,
	}
}

// GetStats обрабатывает GET /api/v1/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetStats"})

	snapshot, err := h.computeStatsUC.Execute(r.Context())
	if err != nil {
		logger.Error("Use case failed", err, nil)
		writeStoreError(w, err, "Failed to compute bot statistics")
		return
	}

	RespondWithJSON(w, http.StatusOK, toStatsResponse(snapshot))
}

// GetProcessingHistory обрабатывает GET /api/v1/stats/history?days=N
func (h *StatsHandler) GetProcessingHistory(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetProcessingHistory"})

	days, err := parseOptionalInt(r.URL.Query(), "days", 0)
	if err != nil || days < 0 {
		logger.Warn("Invalid days parameter", port.Fields{"days": r.URL.Query().Get("days")})
		WriteJSONError(w, http.StatusBadRequest, "parameter days must be a non-negative integer")
		return
	}

	history, err := h.historyUC.Execute(r.Context(), days)
	if err != nil {
		logger.Error("Use case failed", err, nil)
		writeStoreError(w, err, "Failed to load processing history")
		return
	}

	resp := ProcessingHistoryResponse{
		Days:    days,
		History: make([]DailyCountResponse, len(history)),
	}
	for i, d := range history {
		resp.History[i] = DailyCountResponse{Date: d.Date, Total: d.Total, Failed: d.Failed}
	}
	RespondWithJSON(w, http.StatusOK, resp)
}
