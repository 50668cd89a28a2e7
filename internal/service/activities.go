package service

import (
	"context"
	"fmt"

	apperrors "hopskip/internal/errors"
	"hopskip/internal/models"
	"hopskip/internal/repository"
)

type ActivityService struct {
	activityRepo *repository.ActivityRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

func (s *ActivityService) Get(ctx context.Context, id int64) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity == nil {
		return nil, apperrors.NotFoundf("activity %d", id)
	}
	return activity, nil
}

func (s *ActivityService) Search(ctx context.Context, query, category string, age, page, pageSize int) (models.SearchActivitiesResponse, error) {
	activities, err := s.activityRepo.Search(ctx, query, category, age, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search activities: %w", err)
	}

	result := make(models.SearchActivitiesResponse, len(activities))
	for i, a := range activities {
		result[i] = models.SearchActivitiesResponseItem{
			ID:        a.ID,
			Title:     a.Title,
			VenueName: a.VenueName,
			Capacity:  a.Capacity,
			Price:     a.PricePerBlock,
		}
	}

	return result, nil
}
