package usecase

import (
	"context"
	"rental-dashboard/internal/core/domain"
	"rental-dashboard/internal/core/port"
)

// postReader - общий для use case'ов путь "запрос -> документы -> посты".
type postReader struct {
	store      port.DocumentStorePort
	validator  port.ShapeValidatorPort
	collection string
}

func (r postReader) read(ctx context.Context, query domain.DocumentQuery, logger port.LoggerPort) ([]domain.Post, error) {
	query.Collection = r.collection

	docs, err := r.store.QueryCollection(ctx, query)
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(docs))
	warningsCount := 0
	for _, doc := range docs {
		if r.validator != nil {
			if err := r.validator.ValidatePost(doc); err != nil {
				warningsCount++
				logger.Debug("Document does not match post schema", port.Fields{"document_id": doc.ID, "reason": err.Error()})
			}
		}

		post, warnings := domain.DecodePost(doc)
		for _, w := range warnings {
			logger.Debug("Data shape warning", port.Fields{"document_id": w.DocumentID, "warning": w.String()})
		}
		warningsCount += len(warnings)
		posts = append(posts, post)
	}

	if warningsCount > 0 {
		logger.Warn("Documents with unexpected shape were read with defaults", port.Fields{
			"documents":      len(docs),
			"shape_warnings": warningsCount,
		})
	}
	return posts, nil
}

// recentFirst - сортировка по processed_at от новых к старым.
func recentFirst() *domain.SortSpec {
	return &domain.SortSpec{Field: domain.FieldProcessedAt, Kind: domain.KindTime, Descending: true}
}
