package domain

import (
	"math"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestDecodePost_FullDocument(t *testing.T) {
	doc := Document{ID: "p1", Fields: map[string]interface{}{
		"content":           "Sunny 2-room apartment",
		"link":              "https://example.com/p1",
		"images_links":      []interface{}{"a.jpg", "", "b.jpg"},
		"processed_at":      "2024-03-01T10:15:00Z",
		"processing_failed": false,
		"processing_time":   1.5,
		"processed_data": map[string]interface{}{
			"location":          "Florentin",
			"price":             float64(3500),
			"number_of_rooms":   float64(2),
			"room_or_apartment": "apartment",
			"phone":             "050-0000000",
		},
	}}

	post, warnings := DecodePost(doc)

	assert.Equal(t, len(warnings), 0)
	assert.Equal(t, post.ID, "p1")
	assert.Equal(t, post.ImagesLinks, []string{"a.jpg", "b.jpg"})
	assert.Equal(t, post.ProcessedAt.Equal(time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)), true)
	assert.Equal(t, *post.ProcessingTimeSeconds, 1.5)
	assert.Equal(t, post.IsListable(), true)
	price, ok := post.Price()
	assert.Equal(t, ok, true)
	assert.Equal(t, price, float64(3500))
	assert.Equal(t, *post.ProcessedData.NumberOfRooms, 2)
	assert.Equal(t, post.ProcessedData.PropertyType, PropertyTypeApartment)
}

func TestDecodePost_MissingFieldsGetDefaults(t *testing.T) {
	post, warnings := DecodePost(Document{ID: "p2", Fields: map[string]interface{}{}})

	assert.Equal(t, post.HasProcessedAt(), false)
	assert.Equal(t, post.IsListable(), false)
	assert.Equal(t, post.ProcessingTimeSeconds == nil, true)
	assert.Equal(t, post.ImagesLinks, []string{})
	assert.Equal(t, len(warnings), 1)
	assert.Equal(t, warnings[0].Field, FieldProcessedAt)
}

func TestDecodePost_WrongTypesAreWarnings(t *testing.T) {
	doc := Document{ID: "p3", Fields: map[string]interface{}{
		"processed_at":      "yesterday",
		"processing_failed": "yes",
		"processing_time":   -3.0,
		"processed_data":    "not a map",
	}}

	post, warnings := DecodePost(doc)

	assert.Equal(t, post.ProcessingFailed, false)
	assert.Equal(t, post.ProcessingTimeSeconds == nil, true)
	assert.Equal(t, post.ProcessedData == nil, true)
	assert.Equal(t, len(warnings), 4)
}

func TestDecodePost_NegativePriceIsKept(t *testing.T) {
	doc := Document{ID: "p4", Fields: map[string]interface{}{
		"processed_at":   "2024-03-01T10:15:00Z",
		"processed_data": map[string]interface{}{"price": float64(-100)},
	}}

	post, warnings := DecodePost(doc)

	price, ok := post.Price()
	assert.Equal(t, ok, true)
	assert.Equal(t, price, float64(-100))
	assert.Equal(t, len(warnings), 1)
	assert.Equal(t, warnings[0].Field, "processed_data.price")
}

func TestDecodePost_SQLiteShapes(t *testing.T) {
	doc := Document{ID: "p5", Fields: map[string]interface{}{
		"processed_at":      float64(1709288100),
		"processing_failed": float64(1),
		"error_message":     "timeout",
	}}

	post, warnings := DecodePost(doc)

	assert.Equal(t, len(warnings), 0)
	assert.Equal(t, post.ProcessingFailed, true)
	assert.Equal(t, post.ProcessedAt.Equal(time.Unix(1709288100, 0)), true)
}

func TestDecodePost_NonFiniteNumbersAreWarnings(t *testing.T) {
	doc := Document{ID: "p6", Fields: map[string]interface{}{
		"processed_at":    "2024-03-01T10:15:00Z",
		"processing_time": "NaN",
		"processed_data": map[string]interface{}{
			"price":           "NaN",
			"number_of_rooms": "+Inf",
		},
	}}

	post, warnings := DecodePost(doc)

	assert.Equal(t, post.ProcessingTimeSeconds == nil, true)
	_, ok := post.Price()
	assert.Equal(t, ok, false)
	assert.Equal(t, post.ProcessedData.NumberOfRooms == nil, true)
	assert.Equal(t, len(warnings), 3)
}

func TestCompareValues_NonFiniteIsIncomparable(t *testing.T) {
	_, ok := CompareValues("NaN", float64(4000), KindNumber)
	assert.Equal(t, ok, false)

	_, ok = CompareValues(math.Inf(1), time.Now(), KindTime)
	assert.Equal(t, ok, false)
}

func TestShapeWarningString(t *testing.T) {
	w := ShapeWarning{DocumentID: "p7", Field: "processed_at", Reason: "missing"}
	assert.Equal(t, w.String(), "document p7: field processed_at: missing")
}

func TestDocumentLookup(t *testing.T) {
	doc := Document{ID: "x", Fields: map[string]interface{}{
		"processed_data": map[string]interface{}{"price": float64(10), "phone": nil},
	}}

	v, ok := doc.Lookup("processed_data.price")
	assert.Equal(t, ok, true)
	assert.Equal(t, v, float64(10))

	_, ok = doc.Lookup("processed_data.phone")
	assert.Equal(t, ok, false)

	_, ok = doc.Lookup("processed_data.price.value")
	assert.Equal(t, ok, false)
}
