package usecase

import (
	"rental-dashboard/internal/core/domain"
	"strings"

	"golang.org/x/text/cases"
)

// FilterListings оставляет только объявления, подходящие под все активные фильтры.
// Порядок входной последовательности сохраняется.
func FilterListings(posts []domain.Post, filters domain.ListingFilters) []domain.Post {
	// Caser хранит состояние, поэтому свой на каждый вызов
	folder := cases.Fold()
	term := folder.String(strings.TrimSpace(filters.Search))
	propertyType := strings.TrimSpace(filters.PropertyType)

	result := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		if !post.IsListable() {
			continue
		}

		if filters.Price != nil {
			price, ok := post.Price()
			if !ok || !filters.Price.Contains(price) {
				continue
			}
		}

		if propertyType != "" && propertyType != domain.PropertyTypeAll &&
			post.ProcessedData.PropertyType != propertyType {
			continue
		}

		if term != "" &&
			!strings.Contains(folder.String(post.ProcessedData.Location), term) &&
			!strings.Contains(folder.String(post.Content), term) {
			continue
		}

		result = append(result, post)
	}
	return result
}

// Paginate возвращает страницу page (с единицы) размером size.
// Страница за пределами результата пустая, это не ошибка.
func Paginate(posts []domain.Post, page, size int) domain.ListingPage {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	total := len(posts)
	result := domain.ListingPage{
		Items:         []domain.Post{},
		Page:          page,
		PageCount:     (total + size - 1) / size,
		TotalFiltered: total,
	}

	if page > result.PageCount {
		return result
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	result.Items = posts[start:end]
	return result
}
