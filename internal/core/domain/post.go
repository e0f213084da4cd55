package domain

import (
	"time"
)

// Имена полей документа в коллекции, которую наполняет бот.
const (
	FieldContent          = "content"
	FieldLink             = "link"
	FieldImagesLinks      = "images_links"
	FieldProcessedAt      = "processed_at"
	FieldProcessingFailed = "processing_failed"
	FieldProcessingTime   = "processing_time"
	FieldErrorMessage     = "error_message"
	FieldErrorType        = "error_type"
	FieldProcessedData    = "processed_data"

	FieldLocation      = "location"
	FieldPrice         = "price"
	FieldNumberOfRooms = "number_of_rooms"
	FieldPropertyType  = "room_or_apartment"
	FieldPhone         = "phone"
)

// Post - одна запись бота: объявление или неудачная попытка обработки.
type Post struct {
	ID               string
	Content          string
	Link             string
	ImagesLinks      []string
	ProcessedAt      time.Time // нулевое значение, если поля нет в документе
	ProcessingFailed bool
	// ProcessingTimeSeconds == nil, если время не измерялось
	ProcessingTimeSeconds *float64
	ErrorMessage          string
	ErrorType             string
	ProcessedData         *ProcessedData
}

// ProcessedData - структурированные поля, извлеченные из текста объявления.
type ProcessedData struct {
	Location      string
	Price         *float64
	NumberOfRooms *int
	PropertyType  string
	Phone         string
}

// IsListable - можно ли показывать пост в галерее объявлений.
func (p Post) IsListable() bool {
	return p.ProcessedData != nil
}

// HasProcessedAt сообщает, была ли в документе метка времени обработки.
func (p Post) HasProcessedAt() bool {
	return !p.ProcessedAt.IsZero()
}

// Price возвращает цену и признак её наличия.
func (p Post) Price() (float64, bool) {
	if p.ProcessedData == nil || p.ProcessedData.Price == nil {
		return 0, false
	}
	return *p.ProcessedData.Price, true
}
