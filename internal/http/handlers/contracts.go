package handlers

import (
	"context"

	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/service/offers"
)

type assignmentUsecase interface {
	Respond(ctx context.Context, assignmentID string, accept bool) (domain.Transition, error)
}

// NewAssignmentUsecase wires the offers service into assignmentUsecase.
func NewAssignmentUsecase(svc *offers.Service) assignmentUsecase {
	return svc
}

type donationReader interface {
	GetDonation(ctx context.Context, id string) (*domain.Donation, error)
	ListAssignments(ctx context.Context, donationID string, kind domain.AssignmentKind) ([]domain.Assignment, error)
}
