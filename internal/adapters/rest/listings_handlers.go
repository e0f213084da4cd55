package rest

import (
	"net/http"
	"rental-dashboard/internal/contextkeys"
	"rental-dashboard/internal/core/port"
	"rental-dashboard/internal/core/port/usecases_port"
)

type ListingsHandler struct {
	fetchListingsUC usecases_port.FetchListingsUseCase
}

func NewListingsHandler(fetchListingsUC usecases_port.FetchListingsUseCase) *ListingsHandler {
	return &ListingsHandler{fetchListingsUC: fetchListingsUC}
}

// GetListings обрабатывает GET /api/v1/listings
func (h *ListingsHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	req, err := parseListingsQuery(r.URL.Query())
	if err != nil {
		logger.Warn("Invalid listings query", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "GetListings",
		"page":    req.Page,
	})
	handlerLogger.Debug("Processing request to fetch listings", nil)

	page, err := h.fetchListingsUC.Execute(r.Context(), req)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		writeStoreError(w, err, "Failed to load rental posts")
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingsResponse(page))
}
