package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Document - сырой документ хранилища: идентификатор и произвольные поля.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// ShapeWarning описывает поле документа, которое отсутствует или имеет неожиданный тип.
// Это не ошибка: для каждого такого случая есть значение по умолчанию или правило исключения.
type ShapeWarning struct {
	DocumentID string
	Field      string
	Reason     string
}

func (w ShapeWarning) String() string {
	return fmt.Sprintf("document %s: field %s: %s", w.DocumentID, w.Field, w.Reason)
}

// Lookup достает значение по пути вида "processed_data.price".
func (d Document) Lookup(path string) (interface{}, bool) {
	var current interface{} = d.Fields
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// DecodePost превращает документ в Post. Никогда не падает: отсутствующие
// или битые необязательные поля получают значения по умолчанию и попадают в warnings.
func DecodePost(doc Document) (Post, []ShapeWarning) {
	d := postDecoder{doc: doc}
	post := Post{
		ID:               doc.ID,
		Content:          d.optionalString(doc.Fields, FieldContent),
		Link:             d.optionalString(doc.Fields, FieldLink),
		ImagesLinks:      d.stringSlice(doc.Fields, FieldImagesLinks),
		ProcessingFailed: d.optionalBool(doc.Fields, FieldProcessingFailed),
		ErrorMessage:     d.optionalString(doc.Fields, FieldErrorMessage),
		ErrorType:        d.optionalString(doc.Fields, FieldErrorType),
	}

	if raw, ok := doc.Fields[FieldProcessedAt]; ok && raw != nil {
		if ts, ok := toTime(raw); ok {
			post.ProcessedAt = ts.UTC()
		} else {
			d.warn(FieldProcessedAt, "unparseable timestamp")
		}
	} else {
		d.warn(FieldProcessedAt, "missing")
	}

	if v, ok := d.optionalFloat(doc.Fields, FieldProcessingTime); ok {
		if v < 0 {
			d.warn(FieldProcessingTime, "negative value ignored")
		} else {
			post.ProcessingTimeSeconds = &v
		}
	}

	if raw, ok := doc.Fields[FieldProcessedData]; ok && raw != nil {
		data, ok := raw.(map[string]interface{})
		if !ok {
			d.warn(FieldProcessedData, "not an object")
		} else {
			post.ProcessedData = d.processedData(data)
		}
	}

	if post.ProcessingFailed && post.ErrorMessage == "" {
		d.warn(FieldErrorMessage, "missing on failed post")
	}

	return post, d.warnings
}

type postDecoder struct {
	doc      Document
	warnings []ShapeWarning
}

func (d *postDecoder) warn(field, reason string) {
	d.warnings = append(d.warnings, ShapeWarning{DocumentID: d.doc.ID, Field: field, Reason: reason})
}

func (d *postDecoder) processedData(data map[string]interface{}) *ProcessedData {
	pd := &ProcessedData{
		Location:     d.optionalString(data, FieldLocation),
		PropertyType: d.optionalString(data, FieldPropertyType),
		Phone:        d.optionalString(data, FieldPhone),
	}
	if price, ok := d.optionalFloat(data, FieldPrice); ok {
		if price < 0 {
			// цена остается "присутствующей", фильтры сравнивают её как есть
			d.warn(FieldProcessedData+"."+FieldPrice, "negative price")
		}
		pd.Price = &price
	}
	if rooms, ok := d.optionalFloat(data, FieldNumberOfRooms); ok {
		n := int(math.Round(rooms))
		pd.NumberOfRooms = &n
	}
	return pd
}

func (d *postDecoder) optionalString(m map[string]interface{}, key string) string {
	raw, ok := m[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		d.warn(key, fmt.Sprintf("expected string, got %T", raw))
		return ""
	}
	return s
}

func (d *postDecoder) optionalBool(m map[string]interface{}, key string) bool {
	raw, ok := m[key]
	if !ok || raw == nil {
		return false
	}
	switch v := raw.(type) {
	case bool:
		return v
	case int64:
		// sqlite отдает булевы значения как 0/1
		return v != 0
	case float64:
		return v != 0
	}
	d.warn(key, fmt.Sprintf("expected bool, got %T", raw))
	return false
}

func (d *postDecoder) optionalFloat(m map[string]interface{}, key string) (float64, bool) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, false
	}
	v, ok := toFloat(raw)
	if !ok {
		d.warn(key, fmt.Sprintf("expected number, got %T", raw))
		return 0, false
	}
	return v, true
}

func (d *postDecoder) stringSlice(m map[string]interface{}, key string) []string {
	raw, ok := m[key]
	if !ok || raw == nil {
		return []string{}
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	d.warn(key, fmt.Sprintf("expected array, got %T", raw))
	return []string{}
}

// toFloat не пропускает NaN и бесконечности: с ними ломаются сравнения и JSON-ответ.
func toFloat(raw interface{}) (float64, bool) {
	v, ok := anyToFloat(raw)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func anyToFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func toTime(raw interface{}) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, true
			}
		}
	case float64:
		// секунды unix
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, false
		}
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)), true
	case int64:
		return time.Unix(v, 0), true
	}
	return time.Time{}, false
}
