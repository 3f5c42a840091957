package handlers

import "food-rescue-matching/internal/domain"

func transitionToResponse(t domain.Transition) transitionResponse {
	return transitionResponse{
		AssignmentID: t.AssignmentID,
		DonationID:   t.DonationID,
		Kind:         string(t.Kind),
		PrevStatus:   string(t.From),
		Status:       string(t.To),
	}
}

func matchingToResponse(d domain.Donation, history []domain.Assignment) donationMatchingResponse {
	out := donationMatchingResponse{
		DonationID:           d.ID,
		MatchingStatus:       string(d.MatchingStatus),
		UrgencyScore:         d.UrgencyScore,
		ManualReviewRequired: d.ManualReviewRequired,
		Assignments:          make([]assignmentDTO, 0, len(history)),
	}
	for _, a := range history {
		out.Assignments = append(out.Assignments, assignmentDTO{
			ID:         a.ID,
			AssigneeID: a.AssigneeID,
			Kind:       string(a.Kind),
			Status:     string(a.Status),
			Score:      a.Score,
			CreatedAt:  a.CreatedAt,
			ExpiresAt:  a.ExpiresAt,
		})
	}
	return out
}
