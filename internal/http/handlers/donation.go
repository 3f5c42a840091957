package handlers

import (
	"net/http"
	"time"

	"food-rescue-matching/internal/logx"
)

// DonationHandler exposes the matching state of a donation.
type DonationHandler struct {
	repo    donationReader
	timeout time.Duration
	logger  logx.Logger
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(logger logx.Logger, repo donationReader, timeout time.Duration) *DonationHandler {
	return &DonationHandler{repo: repo, timeout: timeout, logger: logger}
}

// Assignments handles GET /donations/{id}/assignments.
func (h *DonationHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	id := idFromURL(r, "id")
	if id == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	ctx, cancel := withTimeout(r.Context(), h.timeout)
	defer cancel()

	d, err := h.repo.GetDonation(ctx, id)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if d == nil {
		writeError(h.logger, w, r, http.StatusNotFound, "donation not found")
		return
	}
	history, err := h.repo.ListAssignments(ctx, id, "")
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, matchingToResponse(*d, history))
}
