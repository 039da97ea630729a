package repository

import (
	"context"

	"fundflow/internal/domain"
)

// CampaignRepository exposes persistence operations for Campaign records.
type CampaignRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, campaign *domain.Campaign) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Campaign, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Campaign, error)
}
