package matching

import (
	"context"
	"errors"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/ports/matchingtx"
)

// Processor runs the matching triggers. Every trigger is safe to repeat for the same event.
type Processor struct {
	repo     matchingtx.Repository
	scorer   Scorer
	offers   Offers
	reassign Reassigner
	logger   logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a new matching Processor.
func NewProcessor(
	repo matchingtx.Repository,
	scorer Scorer,
	offers Offers,
	reassign Reassigner,
	logger logx.Logger,
) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{repo: repo, scorer: scorer, offers: offers, reassign: reassign, logger: logger}
	p.factory = newActionFactory(p.onDonationCreated, p.onAssignmentCreated, p.onAssignmentUpdated)
	return p
}

// Handle processes a single Event. Unknown event types are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Type)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

// OnDonationCreated offers a newly listed donation to the best recipient.
func (p *Processor) OnDonationCreated(ctx context.Context, donationID string) error {
	log := p.logger.With(logx.DonationID(donationID))

	d, err := p.repo.GetDonation(ctx, donationID)
	if err != nil {
		return err
	}
	if d == nil {
		log.Warn("donation not found")
		return nil
	}
	if d.Status != domain.DonationListed || d.MatchingStatus != "" {
		log.Debug("donation not eligible for matching",
			logx.String("status", d.Status),
			logx.String("matching_status", string(d.MatchingStatus)),
		)
		return nil
	}
	history, err := p.repo.ListAssignments(ctx, donationID, domain.KindOrgOffer)
	if err != nil {
		return err
	}
	if len(history) > 0 {
		log.Debug("recipient matching already started")
		return nil
	}

	if !d.Pickup.Valid() {
		return p.offers.SetMatchingStatus(ctx, donationID, domain.MatchingFailedInvalidLocation)
	}

	// First run always derives urgency from the expiry; reassignment reuses the stored value.
	fresh := *d
	fresh.UrgencyScore = nil
	urgency := p.scorer.Urgency(fresh)
	if err := p.repo.PatchDonation(ctx, donationID, domain.DonationPatch{UrgencyScore: &urgency}); err != nil {
		return err
	}

	candidates, err := p.scorer.ScoreRecipients(ctx, *d, urgency)
	if errors.Is(err, apperr.ErrInvalidLocation) {
		return p.offers.SetMatchingStatus(ctx, donationID, domain.MatchingFailedInvalidLocation)
	}
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return p.offers.SetMatchingStatus(ctx, donationID, domain.MatchingNoMatchFound)
	}

	log.Info("recipient candidates ranked",
		logx.Int("candidates", len(candidates)),
		logx.Float64("urgency", urgency),
	)
	return p.create(ctx, donationID, candidates[0], domain.KindOrgOffer)
}

// OnOfferAccepted offers the donation to the best transporter once a recipient accepted it.
func (p *Processor) OnOfferAccepted(ctx context.Context, assignmentID string) error {
	a, err := p.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a == nil {
		p.logger.Warn("assignment not found", logx.AssignmentID(assignmentID))
		return nil
	}
	if a.Kind != domain.KindOrgOffer || a.Status != domain.AssignmentAccepted {
		return nil
	}
	log := p.logger.With(logx.DonationID(a.DonationID), logx.AssignmentID(a.ID))

	tasks, err := p.repo.ListAssignments(ctx, a.DonationID, domain.KindTransportTask)
	if err != nil {
		return err
	}
	if len(tasks) > 0 {
		log.Debug("transporter matching already started")
		return nil
	}

	d, err := p.repo.GetDonation(ctx, a.DonationID)
	if err != nil {
		return err
	}
	if d == nil {
		log.Warn("donation not found")
		return nil
	}
	org, err := p.repo.GetOrganization(ctx, a.AssigneeID)
	if err != nil {
		return err
	}
	if org == nil {
		log.Warn("accepting organization not found", logx.String("assignee_id", a.AssigneeID))
		return p.offers.SetMatchingStatus(ctx, d.ID, domain.MatchingPendingVolunteerManual)
	}

	candidates, err := p.scorer.ScoreTransporters(ctx, *d, *org)
	if errors.Is(err, apperr.ErrInvalidLocation) {
		return p.offers.SetMatchingStatus(ctx, d.ID, domain.MatchingFailedInvalidLocation)
	}
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return p.offers.SetMatchingStatus(ctx, d.ID, domain.MatchingPendingVolunteerManual)
	}
	return p.create(ctx, d.ID, candidates[0], domain.KindTransportTask)
}

func (p *Processor) create(ctx context.Context, donationID string, c domain.Candidate, kind domain.AssignmentKind) error {
	_, err := p.offers.Create(ctx, donationID, c, kind)
	if errors.Is(err, apperr.ErrConflict) {
		p.logger.Debug("offer already open", logx.DonationID(donationID), logx.String("kind", string(kind)))
		return nil
	}
	return err
}

func (p *Processor) onDonationCreated(ctx context.Context, e Event) error {
	return p.OnDonationCreated(ctx, e.DonationID)
}

func (p *Processor) onAssignmentCreated(ctx context.Context, e Event) error {
	e, ok, err := p.resolve(ctx, e)
	if err != nil || !ok {
		return err
	}
	if e.Kind == domain.KindOrgOffer && e.Status == domain.AssignmentAccepted {
		return p.OnOfferAccepted(ctx, e.AssignmentID)
	}
	return nil
}

func (p *Processor) onAssignmentUpdated(ctx context.Context, e Event) error {
	e, ok, err := p.resolve(ctx, e)
	if err != nil || !ok {
		return err
	}
	if e.PrevStatus != "" && e.PrevStatus != domain.AssignmentPending {
		return nil
	}
	switch {
	case e.Status.Failed():
		p.logger.Info("offer failed, reassigning",
			logx.DonationID(e.DonationID),
			logx.AssignmentID(e.AssignmentID),
			logx.String("kind", string(e.Kind)),
			logx.String("status", string(e.Status)),
		)
		return p.reassign.Reassign(ctx, e.DonationID, e.Kind)
	case e.Status == domain.AssignmentAccepted && e.Kind == domain.KindOrgOffer:
		return p.OnOfferAccepted(ctx, e.AssignmentID)
	default:
		return nil
	}
}

// resolve fills assignment fields missing from the event.
func (p *Processor) resolve(ctx context.Context, e Event) (Event, bool, error) {
	if e.DonationID != "" && e.Kind != "" && e.Status != "" {
		return e, true, nil
	}
	a, err := p.repo.GetAssignment(ctx, e.AssignmentID)
	if err != nil {
		return e, false, err
	}
	if a == nil {
		p.logger.Warn("assignment not found", logx.AssignmentID(e.AssignmentID))
		return e, false, nil
	}
	if e.DonationID == "" {
		e.DonationID = a.DonationID
	}
	if e.Kind == "" {
		e.Kind = a.Kind
	}
	if e.Status == "" {
		e.Status = a.Status
	}
	return e, true, nil
}
