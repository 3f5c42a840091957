package domain

import "time"

// Assignment is a time-bounded offer of a donation-related task to one assignee.
type Assignment struct {
	ID         string
	DonationID string
	AssigneeID string
	Kind       AssignmentKind
	Status     AssignmentStatus
	Score      float64
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// ExpiredAt reports whether a pending assignment is past its deadline at now.
func (a Assignment) ExpiredAt(now time.Time) bool {
	return a.Status == AssignmentPending && now.After(a.ExpiresAt)
}

// Candidate is a scored assignee produced by the scoring pipelines.
type Candidate struct {
	ID         string
	Score      float64
	DistanceKm float64
}

// Transition describes an assignment status change as seen by the triggers.
type Transition struct {
	AssignmentID string
	DonationID   string
	Kind         AssignmentKind
	From         AssignmentStatus
	To           AssignmentStatus
}
