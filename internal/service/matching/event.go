package matching

import (
	"time"

	"food-rescue-matching/internal/domain"
)

// Event types delivered by the upstream record stream.
const (
	EventDonationCreated   = "donation_created"
	EventAssignmentCreated = "assignment_created"
	EventAssignmentUpdated = "assignment_updated"
)

// Event is a single record-change notification. Assignment fields may be empty;
// they are then read from the store.
type Event struct {
	Type         string
	DonationID   string
	AssignmentID string
	Kind         domain.AssignmentKind
	PrevStatus   domain.AssignmentStatus
	Status       domain.AssignmentStatus
	OccurredAt   time.Time
}
