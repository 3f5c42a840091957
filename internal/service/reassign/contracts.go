//go:generate mockgen -source=contracts.go -destination=reassign_mocks_test.go -package=reassign_test

package reassign

import (
	"context"

	"food-rescue-matching/internal/domain"
)

// Scorer ranks candidates for a donation.
type Scorer interface {
	Urgency(d domain.Donation) float64
	ScoreRecipients(ctx context.Context, d domain.Donation, urgency float64) ([]domain.Candidate, error)
	ScoreTransporters(ctx context.Context, d domain.Donation, org domain.Organization) ([]domain.Candidate, error)
}

// Offers creates offers and records matching outcomes.
type Offers interface {
	Create(ctx context.Context, donationID string, c domain.Candidate, kind domain.AssignmentKind) (domain.Assignment, error)
	SetMatchingStatus(ctx context.Context, donationID string, status domain.MatchingStatus) error
}
