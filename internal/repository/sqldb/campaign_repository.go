package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fundflow/internal/domain"
	"fundflow/internal/repository"
)

type CampaignRepository struct {
	db *DB
}

func NewCampaignRepository(db *DB) repository.CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Init(ctx context.Context) error {
	schema := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS campaigns (
	%s,
	user_id BIGINT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	goal_amount NUMERIC(10,2) NOT NULL,
	current_amount NUMERIC(10,2) NOT NULL DEFAULT 0.00,
	category TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	campaign_deadline TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`, r.db.serialPK())

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create campaigns table: %w", err)
	}
	return nil
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) (int64, error) {
	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	query := r.db.Rebind(`
INSERT INTO campaigns (user_id, title, description, goal_amount, current_amount,
	category, image_url, campaign_deadline, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		campaign.UserID,
		campaign.Title,
		campaign.Description,
		campaign.GoalAmount,
		campaign.CurrentAmount,
		campaign.Category,
		campaign.ImageURL,
		campaign.Deadline,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert campaign: %w", err)
	}
	campaign.ID = id
	return id, nil
}

func (r *CampaignRepository) Get(ctx context.Context, id int64) (*domain.Campaign, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(selectCampaign+`
WHERE id = ?`),
		id,
	)
	var campaign domain.Campaign
	if err := scanCampaign(row.Scan, &campaign); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("scan campaign: %w", err)
	}
	return &campaign, nil
}

func (r *CampaignRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(selectCampaign+`
WHERE user_id = ?
ORDER BY created_at DESC`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		var campaign domain.Campaign
		if err := scanCampaign(rows.Scan, &campaign); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}
	return campaigns, nil
}

const selectCampaign = `
SELECT id, user_id, title, description, goal_amount, current_amount,
	category, image_url, campaign_deadline, created_at, updated_at
FROM campaigns`

func scanCampaign(scan func(dest ...any) error, campaign *domain.Campaign) error {
	return scan(
		&campaign.ID,
		&campaign.UserID,
		&campaign.Title,
		&campaign.Description,
		&campaign.GoalAmount,
		&campaign.CurrentAmount,
		&campaign.Category,
		&campaign.ImageURL,
		&campaign.Deadline,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
}
