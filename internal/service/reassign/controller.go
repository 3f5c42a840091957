package reassign

import (
	"context"
	"errors"
	"fmt"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/ports/matchingtx"
)

// Controller retries a failed offer with the next best candidate that was not tried before.
type Controller struct {
	repo        matchingtx.Repository
	scorer      Scorer
	offers      Offers
	maxAttempts int
	logger      logx.Logger
}

// NewController creates a new Controller. maxAttempts bounds the offers of one kind per donation.
func NewController(repo matchingtx.Repository, scorer Scorer, offers Offers, maxAttempts int, logger logx.Logger) *Controller {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Controller{repo: repo, scorer: scorer, offers: offers, maxAttempts: maxAttempts, logger: logger}
}

// Reassign offers the donation to the next candidate of kind, or records why it cannot.
// It does nothing while an offer of kind is pending or accepted.
func (c *Controller) Reassign(ctx context.Context, donationID string, kind domain.AssignmentKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: assignment kind %q", apperr.ErrInvalid, kind)
	}
	log := c.logger.With(logx.DonationID(donationID), logx.String("kind", string(kind)))

	d, err := c.repo.GetDonation(ctx, donationID)
	if err != nil {
		return err
	}
	if d == nil {
		log.Warn("reassign skipped: donation not found")
		return nil
	}

	history, err := c.repo.ListAssignments(ctx, donationID, kind)
	if err != nil {
		return err
	}
	tried := make(map[string]struct{}, len(history))
	for _, a := range history {
		if a.Status == domain.AssignmentPending || a.Status == domain.AssignmentAccepted {
			log.Debug("reassign skipped: offer still open", logx.AssignmentID(a.ID))
			return nil
		}
		tried[a.AssigneeID] = struct{}{}
	}

	if len(history) >= c.maxAttempts {
		log.Warn("retry budget exhausted", logx.Int("attempts", len(history)))
		return c.offers.SetMatchingStatus(ctx, donationID, domain.MatchingFailedMaxRetries)
	}

	var candidates []domain.Candidate
	switch kind {
	case domain.KindOrgOffer:
		candidates, err = c.scorer.ScoreRecipients(ctx, *d, c.scorer.Urgency(*d))
	case domain.KindTransportTask:
		org, orgErr := c.acceptedOrganization(ctx, donationID)
		if orgErr != nil {
			return orgErr
		}
		if org == nil {
			return c.offers.SetMatchingStatus(ctx, donationID, domain.MatchingPendingVolunteerManual)
		}
		candidates, err = c.scorer.ScoreTransporters(ctx, *d, *org)
	}
	if errors.Is(err, apperr.ErrInvalidLocation) {
		return c.offers.SetMatchingStatus(ctx, donationID, domain.MatchingFailedInvalidLocation)
	}
	if err != nil {
		return err
	}

	next, ok := firstUntried(candidates, tried)
	if !ok {
		log.Info("no untried candidates left", logx.Int("attempts", len(history)))
		return c.offers.SetMatchingStatus(ctx, donationID, domain.MatchingFailedNoCandidates)
	}

	_, err = c.offers.Create(ctx, donationID, next, kind)
	if errors.Is(err, apperr.ErrConflict) {
		log.Debug("reassign raced with another offer")
		return nil
	}
	return err
}

// acceptedOrganization returns the recipient that accepted the donation, if any.
func (c *Controller) acceptedOrganization(ctx context.Context, donationID string) (*domain.Organization, error) {
	offers, err := c.repo.ListAssignments(ctx, donationID, domain.KindOrgOffer)
	if err != nil {
		return nil, err
	}
	for _, a := range offers {
		if a.Status == domain.AssignmentAccepted {
			return c.repo.GetOrganization(ctx, a.AssigneeID)
		}
	}
	return nil, nil
}

func firstUntried(cs []domain.Candidate, tried map[string]struct{}) (domain.Candidate, bool) {
	for _, c := range cs {
		if _, seen := tried[c.ID]; !seen {
			return c, true
		}
	}
	return domain.Candidate{}, false
}
