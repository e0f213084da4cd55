package sqldoc

import (
	"fmt"
	"rental-dashboard/internal/core/domain"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Postgres - таблица (id TEXT, data JSONB).
type Postgres struct{}

func (Postgres) Table(collection string) string {
	return pgx.Identifier{collection}.Sanitize()
}

func (Postgres) Field(path string) string {
	return fmt.Sprintf("data #>> '{%s}'", strings.Join(splitPath(path), ","))
}

func (d Postgres) Typed(path string, kind domain.ValueKind) string {
	expr := d.Field(path)
	switch kind {
	case domain.KindTime:
		// число в поле времени - секунды unix
		return fmt.Sprintf("(CASE WHEN jsonb_typeof(data #> '{%s}') = 'number' THEN to_timestamp((%s)::double precision) ELSE (%s)::timestamptz END)",
			strings.Join(splitPath(path), ","), expr, expr)
	case domain.KindNumber:
		return "(" + expr + ")::double precision"
	case domain.KindBool:
		return "(" + expr + ")::boolean"
	}
	return "(" + expr + ")"
}

func (Postgres) Placeholder(n int, _ domain.ValueKind) string {
	return fmt.Sprintf("$%d", n)
}

func (Postgres) Arg(value interface{}, kind domain.ValueKind) interface{} {
	if kind == domain.KindNumber {
		return toFloat64(value)
	}
	return value
}

// SQLite - таблица (id TEXT, data TEXT с JSON).
type SQLite struct{}

// sqliteTimeLayout - формат, который понимает julianday().
const sqliteTimeLayout = "2006-01-02T15:04:05.000Z"

func (SQLite) Table(collection string) string {
	return `"` + collection + `"`
}

func (SQLite) Field(path string) string {
	return fmt.Sprintf("json_extract(data, '$.%s')", path)
}

func (d SQLite) Typed(path string, kind domain.ValueKind) string {
	expr := d.Field(path)
	if kind == domain.KindTime {
		// julianday(<число>) читает номер юлианского дня, поэтому секунды unix идут через 'unixepoch'
		return fmt.Sprintf("(CASE WHEN json_type(data, '$.%s') IN ('integer', 'real') THEN julianday(%s, 'unixepoch') ELSE julianday(%s) END)",
			path, expr, expr)
	}
	return expr
}

func (SQLite) Placeholder(_ int, kind domain.ValueKind) string {
	if kind == domain.KindTime {
		return "julianday(?)"
	}
	return "?"
}

func (SQLite) Arg(value interface{}, kind domain.ValueKind) interface{} {
	switch kind {
	case domain.KindTime:
		if ts, ok := value.(time.Time); ok {
			return ts.UTC().Format(sqliteTimeLayout)
		}
	case domain.KindNumber:
		return toFloat64(value)
	case domain.KindBool:
		// json_extract отдает true/false как 1/0
		if b, ok := value.(bool); ok {
			if b {
				return 1
			}
			return 0
		}
	}
	return value
}
