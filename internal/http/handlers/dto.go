package handlers

import "time"

type transitionResponse struct {
	AssignmentID string `json:"assignment_id"`
	DonationID   string `json:"donation_id"`
	Kind         string `json:"kind"`
	PrevStatus   string `json:"prev_status"`
	Status       string `json:"status"`
}

type assignmentDTO struct {
	ID         string    `json:"id"`
	AssigneeID string    `json:"assignee_id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type donationMatchingResponse struct {
	DonationID           string          `json:"donation_id"`
	MatchingStatus       string          `json:"matching_status,omitempty"`
	UrgencyScore         *float64        `json:"urgency_score,omitempty"`
	ManualReviewRequired bool            `json:"manual_review_required"`
	Assignments          []assignmentDTO `json:"assignments"`
}
