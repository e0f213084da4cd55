package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// PriceRangeAll и PropertyTypeAll отключают соответствующий фильтр.
	PriceRangeAll   = "all"
	PropertyTypeAll = "all"

	PropertyTypeApartment = "apartment"
	PropertyTypeRoom      = "room"
)

// PriceRange - включающий диапазон цен. Max == nil означает "без верхней границы".
type PriceRange struct {
	Min float64
	Max *float64
}

// Contains проверяет цену на попадание в [Min, Max].
func (r PriceRange) Contains(price float64) bool {
	if math.IsNaN(price) || price < r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// String возвращает диапазон в том же виде, в каком его принимает ParsePriceRange.
func (r PriceRange) String() string {
	min := strconv.FormatFloat(r.Min, 'f', -1, 64)
	if r.Max == nil {
		return min + "+"
	}
	return min + "-" + strconv.FormatFloat(*r.Max, 'f', -1, 64)
}

// ParsePriceRange разбирает "all", "2000-4000" или "6000+".
// Возвращает nil, если фильтр по цене не нужен.
func ParsePriceRange(raw string) (*PriceRange, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, PriceRangeAll) {
		return nil, nil
	}

	if strings.HasSuffix(raw, "+") {
		min, err := parseBound(strings.TrimSuffix(raw, "+"))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPriceRange, raw, err)
		}
		return &PriceRange{Min: min}, nil
	}

	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q: expected min-max or min+", ErrInvalidPriceRange, raw)
	}
	min, err := parseBound(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPriceRange, raw, err)
	}
	max, err := parseBound(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPriceRange, raw, err)
	}
	if max < min {
		return nil, fmt.Errorf("%w: %q: max is below min", ErrInvalidPriceRange, raw)
	}
	return &PriceRange{Min: min, Max: &max}, nil
}

func parseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("bound must be a non-negative number")
	}
	return v, nil
}

// PriceRangePreset - готовый вариант фильтра для выпадающего списка.
type PriceRangePreset struct {
	Label string
	Value string
}

// PriceRangePresets - варианты из галереи объявлений (цены в шекелях).
var PriceRangePresets = []PriceRangePreset{
	{Label: "All Prices", Value: PriceRangeAll},
	{Label: "Under ₪2,000", Value: "0-2000"},
	{Label: "₪2,000 - ₪4,000", Value: "2000-4000"},
	{Label: "₪4,000 - ₪6,000", Value: "4000-6000"},
	{Label: "Over ₪6,000", Value: "6000+"},
}

// ListingFilters - параметры одного запроса к галерее. Неизменяемы в пределах запроса.
type ListingFilters struct {
	Price        *PriceRange
	PropertyType string
	Search       string
}

// ListingsRequest - полный запрос: окно выборки, фильтры и страница.
type ListingsRequest struct {
	Window   int
	Filters  ListingFilters
	Page     int
	PageSize int
}

// ListingPage - одна страница отфильтрованных объявлений.
type ListingPage struct {
	Items         []Post
	Page          int
	PageCount     int
	TotalFiltered int
}

// FilterOptions - варианты фильтров для галереи.
type FilterOptions struct {
	PriceRanges   []PriceRangePreset
	PropertyTypes []string
	MinPrice      *float64
	MaxPrice      *float64
	Count         int
}
