package scoring

import (
	"time"

	"food-rescue-matching/internal/domain"
)

// DefaultUrgency is used for donations without an expiry.
const DefaultUrgency = 0.5

// Urgency maps time left before expiry onto [0,1]; food closer to spoiling scores higher.
func Urgency(expiresAt *time.Time, now time.Time) float64 {
	if expiresAt == nil || expiresAt.IsZero() {
		return DefaultUrgency
	}
	left := expiresAt.Sub(now)
	switch {
	case left <= 4*time.Hour:
		return 1.0
	case left <= 24*time.Hour:
		return 0.8
	case left <= 48*time.Hour:
		return 0.5
	default:
		return 0.2
	}
}

// Urgency returns the stored urgency of d, computing it when absent.
func (s *Scorer) Urgency(d domain.Donation) float64 {
	if d.UrgencyScore != nil {
		return *d.UrgencyScore
	}
	return Urgency(d.ExpiresAt, s.now())
}
