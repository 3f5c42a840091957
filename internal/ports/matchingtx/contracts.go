package matchingtx

import (
	"context"
	"time"

	"food-rescue-matching/internal/domain"
)

// Repository is the matching state store. Lookups return (nil, nil) when the record is missing.
type Repository interface {
	GetDonation(ctx context.Context, id string) (*domain.Donation, error)
	PatchDonation(ctx context.Context, id string, p domain.DonationPatch) error
	GetOrganization(ctx context.Context, id string) (*domain.Organization, error)

	GetAssignment(ctx context.Context, id string) (*domain.Assignment, error)
	// ListAssignments returns the history of a donation ordered by creation; an empty kind lists all kinds.
	ListAssignments(ctx context.Context, donationID string, kind domain.AssignmentKind) ([]domain.Assignment, error)
	// InsertAssignment fails with apperr.ErrConflict if (donation, kind) already has a pending assignment.
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
	// TransitionAssignment moves id from -> to and reports whether the row was in state from.
	TransitionAssignment(ctx context.Context, id string, from, to domain.AssignmentStatus) (bool, error)
	// ExpirePending moves every pending assignment past its deadline to expired and returns them.
	ExpirePending(ctx context.Context, now time.Time) ([]domain.Assignment, error)

	AdjustActiveTasks(ctx context.Context, transporterID string, delta int) error

	// EnqueueTransition records t for publication together with the surrounding transaction.
	EnqueueTransition(ctx context.Context, t domain.Transition, at time.Time) error
	// PendingTransitions returns up to limit unpublished transitions, oldest first.
	PendingTransitions(ctx context.Context, limit int) ([]domain.Transition, error)
	// AckTransition drops the published transition of an assignment.
	AckTransition(ctx context.Context, assignmentID string) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}

// Store is a Repository that can also open transactions.
type Store interface {
	Repository
	Runner
}
