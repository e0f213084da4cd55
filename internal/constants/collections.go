package constants

// Коллекции хранилища документов
const (
	CollectionRentalPosts = "rental_posts"
)

// Значения по умолчанию для галереи и статистики
const (
	DefaultListingsWindow    = 50
	DefaultListingsPageSize  = 12
	DefaultStatsHistoryLimit = 100
	DefaultStatsRecentErrors = 5

	// MaxStatsRecentErrors - больше ошибок панель статистики не показывает
	MaxStatsRecentErrors = 5
)

// Версия JSON Schema документа поста
const PostSchemaVersion = 1

// Пространство имен метрик Prometheus
const MetricsNamespace = "rental_dashboard"
