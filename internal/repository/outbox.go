package repository

import (
	"context"
	"fmt"
	"time"

	"food-rescue-matching/internal/domain"
)

// EnqueueTransition stores t until it is published. An assignment leaves pending once,
// so a second row for the same assignment is ignored.
func (s *Store) EnqueueTransition(ctx context.Context, t domain.Transition, at time.Time) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO transition_outbox (assignment_id, donation_id, kind, from_status, to_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (assignment_id) DO NOTHING
    `, t.AssignmentID, t.DonationID, string(t.Kind), string(t.From), string(t.To), at)
	if err != nil {
		return fmt.Errorf("enqueue transition %q: %w", t.AssignmentID, err)
	}
	return nil
}

// PendingTransitions returns unpublished transitions, oldest first.
func (s *Store) PendingTransitions(ctx context.Context, limit int) ([]domain.Transition, error) {
	rows, err := s.q.Query(ctx, `
        SELECT assignment_id, donation_id, kind, from_status, to_status
        FROM transition_outbox
        ORDER BY created_at, assignment_id
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending transitions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transition
	for rows.Next() {
		var (
			t              domain.Transition
			kind, from, to string
		)
		if err := rows.Scan(&t.AssignmentID, &t.DonationID, &kind, &from, &to); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		t.Kind = domain.AssignmentKind(kind)
		t.From = domain.AssignmentStatus(from)
		t.To = domain.AssignmentStatus(to)
		out = append(out, t)
	}
	return out, rows.Err()
}

// AckTransition removes a published transition; acking twice is a no-op.
func (s *Store) AckTransition(ctx context.Context, assignmentID string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM transition_outbox WHERE assignment_id = $1`, assignmentID); err != nil {
		return fmt.Errorf("ack transition %q: %w", assignmentID, err)
	}
	return nil
}
