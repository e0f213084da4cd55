package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"rental-dashboard/internal/core/domain"
	"strconv"
	"strings"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// writeStoreError: недоступное хранилище - 503 (можно повторить), отклоненный запрос - 502.
func writeStoreError(w http.ResponseWriter, err error, message string) {
	qe, ok := domain.AsQueryError(err)
	switch {
	case !ok:
		WriteJSONError(w, http.StatusInternalServerError, message)
	case qe.Retryable:
		w.Header().Set("Retry-After", "5")
		WriteJSONError(w, http.StatusServiceUnavailable, message)
	default:
		WriteJSONError(w, http.StatusBadGateway, message)
	}
}

// parseOptionalInt возвращает def, если параметра нет.
func parseOptionalInt(query url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %s must be an integer", key)
	}
	return v, nil
}

func parseListingsQuery(query url.Values) (domain.ListingsRequest, error) {
	page, err := parseOptionalInt(query, "page", 1)
	if err != nil {
		return domain.ListingsRequest{}, fmt.Errorf("%w: %v", domain.ErrInvalidPage, err)
	}

	priceRange, err := domain.ParsePriceRange(query.Get("priceRange"))
	if err != nil {
		return domain.ListingsRequest{}, err
	}

	propertyType := strings.TrimSpace(query.Get("propertyType"))
	if propertyType == "" {
		propertyType = domain.PropertyTypeAll
	}

	return domain.ListingsRequest{
		Page: page,
		Filters: domain.ListingFilters{
			Price:        priceRange,
			PropertyType: propertyType,
			Search:       query.Get("search"),
		},
	}, nil
}
