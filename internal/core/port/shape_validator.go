package port

import "rental-dashboard/internal/core/domain"

// ShapeValidatorPort проверяет документ на соответствие ожидаемой форме поста.
// Ошибка валидации - только предупреждение, запрос из-за неё не падает.
type ShapeValidatorPort interface {
	ValidatePost(doc domain.Document) error
}
