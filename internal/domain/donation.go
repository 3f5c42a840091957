package domain

import "time"

// Donation is a single surplus-food listing owned by a donor.
type Donation struct {
	ID                    string
	DonorID               string
	Status                string
	Pickup                Location
	Quantity              int
	FoodTypes             []string
	RequiresRefrigeration bool
	// ExpiresAt is nil when the donor did not declare an expiry.
	ExpiresAt            *time.Time
	UrgencyScore         *float64
	MatchingStatus       MatchingStatus
	ManualReviewRequired bool
	CreatedAt            time.Time
}

// DonationPatch carries the matching fields the engine is allowed to change.
// A nil field means “do not change” that attribute.
type DonationPatch struct {
	UrgencyScore         *float64
	MatchingStatus       *MatchingStatus
	ManualReviewRequired *bool
}

// StatusPatch builds a patch that only moves the matching status.
func StatusPatch(s MatchingStatus) DonationPatch {
	return DonationPatch{MatchingStatus: &s}
}
