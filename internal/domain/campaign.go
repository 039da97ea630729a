package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrCampaignNotFound indicates the requested campaign does not exist.
var ErrCampaignNotFound = errors.New("campaign not found")

// Campaign is a fundraising record owned by a user. Amounts are fixed-point
// with two fraction digits; CurrentAmount starts at 0.00 and is never
// mutated here — donation settlement lives entirely with the payment
// provider.
type Campaign struct {
	ID            int64
	UserID        int64
	Title         string
	Description   string
	GoalAmount    decimal.Decimal
	CurrentAmount decimal.Decimal
	Category      string
	ImageURL      string
	Deadline      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Categories lists the suggested campaign categories. The column itself is
// free-form; this set only feeds the creation form.
var Categories = []string{
	"Cultural Preservation", "Research & Innovation", "Social Justice", "Family Support",
	"Disaster Relief", "Celebrations & Events", "Creative Projects", "Entrepreneurship",
	"Medical Support", "Travel & Experiences", "Scholarships & Tributes", "Youth Programs",
	"Infrastructure & Housing", "Other", "Arts", "Community", "Education", "Environment",
	"Health", "Technology", "Humanitarian", "Animals", "Sports", "Memorial & Funerals",
}
