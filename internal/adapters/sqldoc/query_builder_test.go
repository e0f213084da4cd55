package sqldoc

import (
	"rental-dashboard/internal/core/domain"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

var since = time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)

const (
	pgProcessedAt     = `(CASE WHEN jsonb_typeof(data #> '{processed_at}') = 'number' THEN to_timestamp((data #>> '{processed_at}')::double precision) ELSE (data #>> '{processed_at}')::timestamptz END)`
	sqliteProcessedAt = `(CASE WHEN json_type(data, '$.processed_at') IN ('integer', 'real') THEN julianday(json_extract(data, '$.processed_at'), 'unixepoch') ELSE julianday(json_extract(data, '$.processed_at')) END)`
)

func recentFailedQuery() domain.DocumentQuery {
	return domain.DocumentQuery{
		Collection: "rental_posts",
		Equals:     []domain.EqualityFilter{{Field: domain.FieldProcessingFailed, Value: true}},
		Ranges:     []domain.RangeFilter{{Field: domain.FieldProcessedAt, Op: domain.OpGTE, Value: since}},
		OrderBy:    &domain.SortSpec{Field: domain.FieldProcessedAt, Kind: domain.KindTime, Descending: true},
		Limit:      5,
	}
}

func TestBuildSelect_Postgres(t *testing.T) {
	sql, args, err := BuildSelect(Postgres{}, recentFailedQuery())

	assert.Equal(t, err, nil)
	assert.Equal(t, sql, `SELECT id, data FROM "rental_posts"`+
		` WHERE (data #>> '{processing_failed}')::boolean = $1`+
		` AND `+pgProcessedAt+` >= $2`+
		` ORDER BY `+pgProcessedAt+` DESC NULLS LAST, id DESC LIMIT 5`)
	assert.Equal(t, len(args), 2)
	assert.Equal(t, args[0], true)
	assert.Equal(t, args[1], since)
}

func TestBuildSelect_PostgresNestedNumber(t *testing.T) {
	sql, args, err := BuildSelect(Postgres{}, domain.DocumentQuery{
		Collection: "rental_posts",
		Ranges:     []domain.RangeFilter{{Field: "processed_data.price", Op: domain.OpLTE, Value: 4000}},
	})

	assert.Equal(t, err, nil)
	assert.Equal(t, sql, `SELECT id, data FROM "rental_posts" WHERE (data #>> '{processed_data,price}')::double precision <= $1`)
	assert.Equal(t, args[0], float64(4000))
}

func TestBuildSelect_SQLite(t *testing.T) {
	sql, args, err := BuildSelect(SQLite{}, recentFailedQuery())

	assert.Equal(t, err, nil)
	assert.Equal(t, sql, `SELECT id, data FROM "rental_posts"`+
		` WHERE json_extract(data, '$.processing_failed') = ?`+
		` AND `+sqliteProcessedAt+` >= julianday(?)`+
		` ORDER BY `+sqliteProcessedAt+` DESC NULLS LAST, id DESC LIMIT 5`)
	assert.Equal(t, args, []interface{}{1, "2024-03-01T11:00:00.000Z"})
}

func TestBuildSelect_NoConditions(t *testing.T) {
	sql, args, err := BuildSelect(SQLite{}, domain.DocumentQuery{Collection: "rental_posts"})

	assert.Equal(t, err, nil)
	assert.Equal(t, sql, `SELECT id, data FROM "rental_posts"`)
	assert.Equal(t, len(args), 0)
}

func TestBuildSelect_RejectsInvalidQuery(t *testing.T) {
	_, _, err := BuildSelect(Postgres{}, domain.DocumentQuery{Collection: `x"; DROP TABLE y; --`})
	assert.NotEqual(t, err, nil)
}
