package handlers

import (
	"errors"
	"net/http"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/service/offers"
)

// AssignmentHandler serves the assignee's answer to an offer.
type AssignmentHandler struct {
	usecase assignmentUsecase
	logger  logx.Logger
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(logger logx.Logger, uc assignmentUsecase) *AssignmentHandler {
	return &AssignmentHandler{usecase: uc, logger: logger}
}

// Accept handles POST /assignments/{id}/accept.
func (h *AssignmentHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

// Reject handles POST /assignments/{id}/reject.
func (h *AssignmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *AssignmentHandler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	id := idFromURL(r, "id")
	if id == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	tr, err := h.usecase.Respond(r.Context(), id, accept)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, transitionToResponse(tr))
	case errors.Is(err, offers.ErrPublishDeferred):
		h.logger.Warn("assignment update deferred", logx.String("req_id", reqID(r.Context())), logx.Err(err))
		writeJSON(h.logger, w, r, http.StatusAccepted, transitionToResponse(tr))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "assignment not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "assignment is no longer pending")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
