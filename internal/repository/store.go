package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/domain"
)

const assignmentColumns = `id, donation_id, assignee_id, kind, status, score, created_at, expires_at`

// Store implements matchingtx.Repository over a pool or a transaction.
type Store struct {
	q querier
}

// GetDonation returns the donation by id, or nil if it does not exist.
func (s *Store) GetDonation(ctx context.Context, id string) (*domain.Donation, error) {
	var (
		d        domain.Donation
		lat, lon *float64
	)
	err := s.q.QueryRow(ctx, `
        SELECT id, donor_id, status, pickup_lat, pickup_lon, quantity, food_types,
               requires_refrigeration, expires_at, urgency_score, matching_status,
               manual_review_required, created_at
        FROM donations
        WHERE id = $1
    `, id).Scan(
		&d.ID, &d.DonorID, &d.Status, &lat, &lon, &d.Quantity, &d.FoodTypes,
		&d.RequiresRefrigeration, &d.ExpiresAt, &d.UrgencyScore, &d.MatchingStatus,
		&d.ManualReviewRequired, &d.CreatedAt,
	)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get donation %q: %w", id, err)
	}
	d.Pickup = location(lat, lon)
	return &d, nil
}

// PatchDonation applies the non-nil fields of p.
func (s *Store) PatchDonation(ctx context.Context, id string, p domain.DonationPatch) error {
	var status *string
	if p.MatchingStatus != nil {
		v := string(*p.MatchingStatus)
		status = &v
	}
	ct, err := s.q.Exec(ctx, `
        UPDATE donations
        SET
            urgency_score          = COALESCE($2, urgency_score),
            matching_status        = COALESCE($3, matching_status),
            manual_review_required = COALESCE($4, manual_review_required),
            updated_at             = now()
        WHERE id = $1
    `, id, p.UrgencyScore, status, p.ManualReviewRequired)
	if err != nil {
		return fmt.Errorf("patch donation %q: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("donation %q: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// GetOrganization returns the organization by id, or nil if it does not exist.
func (s *Store) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	row := s.q.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id)
	o, err := scanOrganization(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization %q: %w", id, err)
	}
	return &o, nil
}

// GetAssignment returns the assignment by id, or nil if it does not exist.
func (s *Store) GetAssignment(ctx context.Context, id string) (*domain.Assignment, error) {
	row := s.q.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id)
	a, err := scanAssignment(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment %q: %w", id, err)
	}
	return &a, nil
}

// ListAssignments returns the assignment history of a donation, oldest first.
func (s *Store) ListAssignments(
	ctx context.Context,
	donationID string,
	kind domain.AssignmentKind,
) ([]domain.Assignment, error) {
	rows, err := s.q.Query(ctx, `
        SELECT `+assignmentColumns+`
        FROM assignments
        WHERE donation_id = $1 AND ($2 = '' OR kind = $2)
        ORDER BY created_at, id
    `, donationID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list assignments of %q: %w", donationID, err)
	}
	return collectAssignments(rows)
}

// InsertAssignment inserts a, failing with apperr.ErrConflict when an offer of the same kind is pending.
func (s *Store) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO assignments (`+assignmentColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, a.ID, a.DonationID, a.AssigneeID, string(a.Kind), string(a.Status), a.Score, a.CreatedAt, a.ExpiresAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("donation %q: %w", a.DonationID, apperr.ErrNotFound)
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// TransitionAssignment moves the assignment from one status to another only if it is still in from.
func (s *Store) TransitionAssignment(
	ctx context.Context,
	id string,
	from, to domain.AssignmentStatus,
) (bool, error) {
	ct, err := s.q.Exec(ctx, `
        UPDATE assignments SET status = $3
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to))
	if err != nil {
		if IsDuplicate(err) {
			return false, apperr.ErrConflict
		}
		return false, fmt.Errorf("transition assignment %q: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ExpirePending expires overdue pending assignments; each row is returned by exactly one caller.
func (s *Store) ExpirePending(ctx context.Context, now time.Time) ([]domain.Assignment, error) {
	rows, err := s.q.Query(ctx, `
        UPDATE assignments
        SET status = 'expired'
        WHERE status = 'pending' AND expires_at < $1
        RETURNING `+assignmentColumns, now)
	if err != nil {
		return nil, fmt.Errorf("expire pending assignments: %w", err)
	}
	return collectAssignments(rows)
}

// AdjustActiveTasks adds delta to the transporter's active task counter, never going below zero.
func (s *Store) AdjustActiveTasks(ctx context.Context, transporterID string, delta int) error {
	ct, err := s.q.Exec(ctx, `
        UPDATE transporters
        SET active_tasks = GREATEST(active_tasks + $2, 0)
        WHERE id = $1
    `, transporterID, delta)
	if err != nil {
		return fmt.Errorf("adjust active tasks of %q: %w", transporterID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("transporter %q: %w", transporterID, apperr.ErrNotFound)
	}
	return nil
}

func scanAssignment(row pgx.Row) (domain.Assignment, error) {
	var (
		a            domain.Assignment
		kind, status string
	)
	err := row.Scan(&a.ID, &a.DonationID, &a.AssigneeID, &kind, &status, &a.Score, &a.CreatedAt, &a.ExpiresAt)
	a.Kind = domain.AssignmentKind(kind)
	a.Status = domain.AssignmentStatus(status)
	return a, err
}

func collectAssignments(rows pgx.Rows) ([]domain.Assignment, error) {
	defer rows.Close()
	var out []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func location(lat, lon *float64) domain.Location {
	if lat == nil || lon == nil {
		return domain.NoLocation
	}
	return domain.Location{Lat: *lat, Lon: *lon}
}
