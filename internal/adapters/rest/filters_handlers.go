package rest

import (
	"net/http"
	"rental-dashboard/internal/contextkeys"
	usecases_port "rental-dashboard/internal/core/port/usecases_port"
)

type FilterHandler struct {
	getFilterOptionsUC usecases_port.GetFilterOptionsUseCase
}

func NewFilterHandler(getFilterOptionsUC usecases_port.GetFilterOptionsUseCase) *FilterHandler {
	return &FilterHandler{getFilterOptionsUC: getFilterOptionsUC}
}

// GetFilterOptions обрабатывает GET /api/v1/filters/options
func (h *FilterHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	options, err := h.getFilterOptionsUC.Execute(r.Context())
	if err != nil {
		logger.Error("Failed to get filter options", err, nil)
		writeStoreError(w, err, "Failed to get filter options")
		return
	}

	response := FilterOptionsResponse{
		PriceRanges:   make([]PriceRangeOptionResponse, len(options.PriceRanges)),
		PropertyTypes: options.PropertyTypes,
		MinPrice:      options.MinPrice,
		MaxPrice:      options.MaxPrice,
		Count:         options.Count,
	}
	for i, preset := range options.PriceRanges {
		response.PriceRanges[i] = PriceRangeOptionResponse{Label: preset.Label, Value: preset.Value}
	}

	RespondWithJSON(w, http.StatusOK, response)
}
