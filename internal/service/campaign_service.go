package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fundflow/internal/domain"
	"fundflow/internal/repository"
)

// CreateCampaignInput carries the caller-supplied campaign fields. The
// owner comes from the authenticated session, never from the input.
type CreateCampaignInput struct {
	Title       string
	Description string
	GoalAmount  decimal.Decimal
	Category    string
	ImageURL    string
	Deadline    time.Time
}

// CampaignService creates and lists fundraising campaigns.
type CampaignService interface {
	Create(ctx context.Context, ownerID int64, input CreateCampaignInput) (*domain.Campaign, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Campaign, error)
}

type campaignService struct {
	campaigns repository.CampaignRepository
}

func NewCampaignService(campaigns repository.CampaignRepository) CampaignService {
	return &campaignService{campaigns: campaigns}
}

func (s *campaignService) Create(ctx context.Context, ownerID int64, input CreateCampaignInput) (*domain.Campaign, error) {
	if ownerID <= 0 {
		return nil, errors.New("owner is required")
	}
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	if input.Description == "" {
		return nil, errors.New("description is required")
	}
	if input.Category == "" {
		return nil, errors.New("category is required")
	}
	if input.GoalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("goal amount must be positive")
	}
	if input.Deadline.IsZero() {
		return nil, errors.New("deadline is required")
	}

	campaign := &domain.Campaign{
		UserID:        ownerID,
		Title:         input.Title,
		Description:   input.Description,
		GoalAmount:    input.GoalAmount.Round(2),
		CurrentAmount: decimal.New(0, -2),
		Category:      input.Category,
		ImageURL:      input.ImageURL,
		Deadline:      input.Deadline,
	}

	if _, err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *campaignService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Campaign, error) {
	return s.campaigns.ListByOwner(ctx, ownerID)
}

// SumCurrentAmount folds the raised amounts of a set of campaigns. The
// result is order-independent and 0 for an empty set.
func SumCurrentAmount(campaigns []domain.Campaign) decimal.Decimal {
	total := decimal.New(0, -2)
	for i := range campaigns {
		total = total.Add(campaigns[i].CurrentAmount)
	}
	return total
}
