package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// RangeOp - оператор сравнения для диапазонного фильтра.
type RangeOp string

const (
	OpGTE RangeOp = ">="
	OpGT  RangeOp = ">"
	OpLTE RangeOp = "<="
	OpLT  RangeOp = "<"
)

// ValueKind подсказывает адаптерам, как привести JSON-значение поля для сравнения.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindBool
	KindTime
)

// EqualityFilter - условие field == value.
type EqualityFilter struct {
	Field string
	Value interface{}
}

// RangeFilter - условие field <op> value.
type RangeFilter struct {
	Field string
	Op    RangeOp
	Value interface{}
}

// SortSpec - сортировка по полю; ничьи разбиваются по id в том же направлении.
type SortSpec struct {
	Field      string
	Kind       ValueKind
	Descending bool
}

// DocumentQuery - запрос к коллекции документов.
type DocumentQuery struct {
	Collection string
	Equals     []EqualityFilter
	Ranges     []RangeFilter
	OrderBy    *SortSpec
	Limit      int // 0 - без ограничения
}

var fieldPathPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Validate проверяет имена коллекции и полей: адаптеры подставляют их прямо в запрос.
func (q DocumentQuery) Validate() error {
	if !fieldPathPattern.MatchString(q.Collection) || strings.Contains(q.Collection, ".") {
		return fmt.Errorf("invalid collection name %q", q.Collection)
	}
	for _, f := range q.Equals {
		if !fieldPathPattern.MatchString(f.Field) {
			return fmt.Errorf("invalid field path %q", f.Field)
		}
		if KindOf(f.Value) == KindTime {
			return fmt.Errorf("equality on timestamp field %q is not supported", f.Field)
		}
	}
	for _, f := range q.Ranges {
		if !fieldPathPattern.MatchString(f.Field) {
			return fmt.Errorf("invalid field path %q", f.Field)
		}
		switch f.Op {
		case OpGTE, OpGT, OpLTE, OpLT:
		default:
			return fmt.Errorf("invalid range operator %q", f.Op)
		}
	}
	if q.OrderBy != nil && !fieldPathPattern.MatchString(q.OrderBy.Field) {
		return fmt.Errorf("invalid order field %q", q.OrderBy.Field)
	}
	if q.Limit < 0 {
		return fmt.Errorf("negative limit %d", q.Limit)
	}
	return nil
}

// KindOf определяет вид значения фильтра по его Go-типу.
func KindOf(v interface{}) ValueKind {
	switch v.(type) {
	case time.Time:
		return KindTime
	case bool:
		return KindBool
	case int, int32, int64, float32, float64:
		return KindNumber
	}
	return KindText
}

// CompareValues сравнивает значение из документа со значением фильтра.
// ok == false, если значения несравнимы (поле отсутствует или тип не подходит).
func CompareValues(docValue, filterValue interface{}, kind ValueKind) (cmp int, ok bool) {
	if docValue == nil {
		return 0, false
	}
	switch kind {
	case KindTime:
		a, okA := toTime(docValue)
		b, okB := toTime(filterValue)
		if !okA || !okB {
			return 0, false
		}
		return a.Compare(b), true
	case KindNumber:
		a, okA := toFloat(docValue)
		b, okB := toFloat(filterValue)
		if !okA || !okB {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}
		return 0, true
	case KindBool:
		a, okA := docValue.(bool)
		b, okB := filterValue.(bool)
		if !okA || !okB {
			return 0, false
		}
		if a == b {
			return 0, true
		}
		if !a {
			return -1, true
		}
		return 1, true
	}
	a, okA := docValue.(string)
	b, okB := filterValue.(string)
	if !okA || !okB {
		return 0, false
	}
	return strings.Compare(a, b), true
}

// Matches применяет оператор к результату CompareValues.
func (op RangeOp) Matches(cmp int) bool {
	switch op {
	case OpGTE:
		return cmp >= 0
	case OpGT:
		return cmp > 0
	case OpLTE:
		return cmp <= 0
	case OpLT:
		return cmp < 0
	}
	return false
}
