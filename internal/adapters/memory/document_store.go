package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"rental-dashboard/internal/core/domain"
	"sort"
	"strings"
	"sync"
)

// DocumentStore - хранилище документов в памяти с той же семантикой
// фильтров, сортировки и лимита, что и SQL-адаптеры.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.Document
}

func NewDocumentStore(collections map[string][]domain.Document) *DocumentStore {
	if collections == nil {
		collections = make(map[string][]domain.Document)
	}
	return &DocumentStore{collections: collections}
}

// LoadFromFile читает фикстуру вида {"rental_posts": [{"id": "...", ...}, ...]}.
func LoadFromFile(path string) (*DocumentStore, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents file %s: %w", path, err)
	}
	return LoadFromJSON(body)
}

func LoadFromJSON(body []byte) (*DocumentStore, error) {
	var raw map[string][]map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse documents JSON: %w", err)
	}

	collections := make(map[string][]domain.Document, len(raw))
	for name, items := range raw {
		docs := make([]domain.Document, 0, len(items))
		for i, item := range items {
			id, _ := item["id"].(string)
			if id == "" {
				id = fmt.Sprintf("%s-%d", name, i)
			}
			delete(item, "id")
			docs = append(docs, domain.Document{ID: id, Fields: item})
		}
		collections[name] = docs
	}
	return NewDocumentStore(collections), nil
}

// Add добавляет документы в коллекцию.
func (s *DocumentStore) Add(collection string, docs ...domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], docs...)
}

func (s *DocumentStore) QueryCollection(ctx context.Context, query domain.DocumentQuery) ([]domain.Document, error) {
	if err := query.Validate(); err != nil {
		return nil, domain.NewQueryError("query", query.Collection, false, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewQueryError("query", query.Collection, true, err)
	}

	s.mu.RLock()
	source := s.collections[query.Collection]
	s.mu.RUnlock()

	result := make([]domain.Document, 0, len(source))
	for _, doc := range source {
		if matches(doc, query) {
			result = append(result, doc)
		}
	}

	if query.OrderBy != nil {
		sortDocuments(result, *query.OrderBy)
	}
	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}
	return result, nil
}

func (s *DocumentStore) Close() error {
	return nil
}

func matches(doc domain.Document, query domain.DocumentQuery) bool {
	for _, f := range query.Equals {
		value, ok := doc.Lookup(f.Field)
		if !ok {
			return false
		}
		cmp, ok := domain.CompareValues(value, f.Value, domain.KindOf(f.Value))
		if !ok || cmp != 0 {
			return false
		}
	}
	for _, f := range query.Ranges {
		value, ok := doc.Lookup(f.Field)
		if !ok {
			return false
		}
		cmp, ok := domain.CompareValues(value, f.Value, domain.KindOf(f.Value))
		if !ok || !f.Op.Matches(cmp) {
			return false
		}
	}
	return true
}

// sortDocuments - документы без поля сортировки или с несравнимым значением
// уходят в конец (как NULLS LAST).
func sortDocuments(docs []domain.Document, spec domain.SortSpec) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, okA := sortKey(docs[i], spec)
		b, okB := sortKey(docs[j], spec)
		if okA != okB {
			return okA
		}

		cmp := 0
		if okA {
			cmp, _ = domain.CompareValues(a, b, spec.Kind)
		}
		if cmp == 0 {
			cmp = strings.Compare(docs[i].ID, docs[j].ID)
		}
		if spec.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

func sortKey(doc domain.Document, spec domain.SortSpec) (interface{}, bool) {
	v, ok := doc.Lookup(spec.Field)
	if !ok {
		return nil, false
	}
	if _, ok := domain.CompareValues(v, v, spec.Kind); !ok {
		return nil, false
	}
	return v, true
}
