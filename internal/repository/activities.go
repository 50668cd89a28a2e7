package repository

import (
	"context"

	"hopskip/internal/models"
	"hopskip/internal/search"
)

// ActivityRepository reads the activity directory. The directory lives in
// Elasticsearch and is maintained by the seeder; the booking core only
// queries it.
type ActivityRepository struct {
	es *search.ElasticsearchClient
}

func NewActivityRepository(es *search.ElasticsearchClient) *ActivityRepository {
	return &ActivityRepository{es: es}
}

func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*models.Activity, error) {
	return r.es.GetByID(ctx, id)
}

func (r *ActivityRepository) Search(ctx context.Context, query, category string, age, page, pageSize int) ([]models.Activity, error) {
	return r.es.Search(ctx, query, category, age, page, pageSize)
}
