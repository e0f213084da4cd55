package sqldoc

import (
	"fmt"
	"rental-dashboard/internal/core/domain"
	"strings"
)

// Dialect описывает различия SQL-хранилищ документов (id TEXT, data JSON).
type Dialect interface {
	Table(collection string) string
	// Field - выражение для значения поля по пути вида "processed_data.price".
	Field(path string) string
	// Typed - выражение поля path, приведенное к виду kind для сравнения.
	Typed(path string, kind domain.ValueKind) string
	// Placeholder - плейсхолдер для n-го аргумента (с единицы), уже приведенный к kind.
	Placeholder(n int, kind domain.ValueKind) string
	// Arg приводит значение фильтра к виду, который понимает драйвер.
	Arg(value interface{}, kind domain.ValueKind) interface{}
}

type queryBuilder struct {
	dialect    Dialect
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder(dialect Dialect) *queryBuilder {
	return &queryBuilder{
		dialect: dialect,
		argId:   1,
		args:    make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(field string, op string, value interface{}) {
	kind := domain.KindOf(value)
	left := qb.dialect.Typed(field, kind)
	right := qb.dialect.Placeholder(qb.argId, kind)

	qb.conditions = append(qb.conditions, fmt.Sprintf("%s %s %s", left, op, right))
	qb.args = append(qb.args, qb.dialect.Arg(value, kind))
	qb.argId++
}

// BuildSelect строит SELECT id, data ... для запроса к коллекции.
func BuildSelect(dialect Dialect, query domain.DocumentQuery) (string, []interface{}, error) {
	if err := query.Validate(); err != nil {
		return "", nil, err
	}

	qb := newQueryBuilder(dialect)
	for _, f := range query.Equals {
		qb.addCondition(f.Field, "=", f.Value)
	}
	for _, f := range query.Ranges {
		qb.addCondition(f.Field, string(f.Op), f.Value)
	}

	var sql strings.Builder
	sql.WriteString("SELECT id, data FROM ")
	sql.WriteString(dialect.Table(query.Collection))

	if len(qb.conditions) > 0 {
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(qb.conditions, " AND "))
	}

	if query.OrderBy != nil {
		direction := "ASC"
		if query.OrderBy.Descending {
			direction = "DESC"
		}
		orderExpr := dialect.Typed(query.OrderBy.Field, query.OrderBy.Kind)
		fmt.Fprintf(&sql, " ORDER BY %s %s NULLS LAST, id %s", orderExpr, direction, direction)
	}

	if query.Limit > 0 {
		fmt.Fprintf(&sql, " LIMIT %d", query.Limit)
	}

	return sql.String(), qb.args, nil
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

func toFloat64(value interface{}) interface{} {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	}
	return value
}
