package contracts

import (
	"rental-dashboard/internal/core/domain"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, generateKeyFromPath("schemas/rental-post/v1.json"), "RentalPostDocument/1.0.0")
	assert.Equal(t, generateKeyFromPath("schemas/v1.json"), "")
}

func TestNewPostSchemaValidator_UnknownVersion(t *testing.T) {
	_, err := NewPostSchemaValidator(99)
	assert.NotEqual(t, err, nil)
}

func TestValidatePost(t *testing.T) {
	v, err := NewPostSchemaValidator(1)
	assert.Equal(t, err, nil)

	valid := domain.Document{ID: "ok", Fields: map[string]interface{}{
		"processed_at":      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		"processing_failed": false,
		"processing_time":   2.5,
		"images_links":      []string{"a.jpg"},
		"processed_data": map[string]interface{}{
			"price":             3000,
			"room_or_apartment": "apartment",
			"phone":             nil,
		},
	}}
	assert.Equal(t, v.ValidatePost(valid), nil)

	invalid := []domain.Document{
		{ID: "no-time", Fields: map[string]interface{}{"content": "x"}},
		{ID: "negative-price", Fields: map[string]interface{}{
			"processed_at":   "2024-03-01T10:00:00Z",
			"processed_data": map[string]interface{}{"price": -1},
		}},
		{ID: "bad-images", Fields: map[string]interface{}{
			"processed_at": "2024-03-01T10:00:00Z",
			"images_links": "a.jpg",
		}},
	}
	for _, doc := range invalid {
		assert.NotEqual(t, v.ValidatePost(doc), nil)
	}
}
