package kafka

import (
	"fmt"
	"strings"
	"time"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/service/matching"
)

// EventDTO is the wire form of a donation or assignment record change.
type EventDTO struct {
	DonationID   string    `json:"donation_id,omitempty"`
	AssignmentID string    `json:"assignment_id,omitempty"`
	Kind         string    `json:"kind,omitempty"`
	PrevStatus   string    `json:"prev_status,omitempty"`
	Status       string    `json:"status,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ToDomain converts EventDTO to matching.Event. A missing record id is a permanent error.
func ToDomain(eventType string, dto EventDTO) (matching.Event, error) {
	ev := matching.Event{
		Type:         strings.ToLower(strings.TrimSpace(eventType)),
		DonationID:   strings.TrimSpace(dto.DonationID),
		AssignmentID: strings.TrimSpace(dto.AssignmentID),
		Kind:         domain.AssignmentKind(strings.ToUpper(strings.TrimSpace(dto.Kind))),
		PrevStatus:   domain.AssignmentStatus(strings.ToLower(strings.TrimSpace(dto.PrevStatus))),
		Status:       domain.AssignmentStatus(strings.ToLower(strings.TrimSpace(dto.Status))),
		OccurredAt:   dto.OccurredAt,
	}

	switch ev.Type {
	case matching.EventDonationCreated:
		if ev.DonationID == "" {
			return ev, Permanent(fmt.Errorf("%w: empty donation_id", apperr.ErrInvalid))
		}
	case matching.EventAssignmentCreated, matching.EventAssignmentUpdated:
		if ev.AssignmentID == "" {
			return ev, Permanent(fmt.Errorf("%w: empty assignment_id", apperr.ErrInvalid))
		}
	default:
		return ev, Permanent(fmt.Errorf("%w: event type %q", apperr.ErrInvalid, eventType))
	}
	if ev.Kind != "" && !ev.Kind.Valid() {
		return ev, Permanent(fmt.Errorf("%w: kind %q", apperr.ErrInvalid, dto.Kind))
	}
	return ev, nil
}

// FromTransition builds the assignment-updated wire event.
func FromTransition(t domain.Transition, at time.Time) EventDTO {
	return EventDTO{
		DonationID:   t.DonationID,
		AssignmentID: t.AssignmentID,
		Kind:         string(t.Kind),
		PrevStatus:   string(t.From),
		Status:       string(t.To),
		OccurredAt:   at,
	}
}
