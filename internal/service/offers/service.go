package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/config"
	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/metrics"
	"food-rescue-matching/internal/ports/matchingtx"
)

const relayBatch = 100

// ErrPublishDeferred marks a stored transition whose announcement failed and is queued for retry.
var ErrPublishDeferred = errors.New("assignment update queued for redelivery")

// Service owns the assignment lifecycle: offers, responses and expiry.
type Service struct {
	store            matchingtx.Store
	notifier         Notifier
	publisher        Publisher
	metrics          *metrics.Matching
	logger           logx.Logger
	offerTimeout     time.Duration
	operationTimeout time.Duration
	now              func() time.Time
	newID            func() string
}

// NewService creates a new offers Service.
func NewService(
	store matchingtx.Store,
	notifier Notifier,
	publisher Publisher,
	m *metrics.Matching,
	cfg config.Matching,
	operationTimeout time.Duration,
	logger logx.Logger,
) *Service {
	if operationTimeout <= 0 {
		operationTimeout = config.DefaultOperationTimeout()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		store:            store,
		notifier:         notifier,
		publisher:        publisher,
		metrics:          m,
		logger:           logger,
		offerTimeout:     cfg.OfferTimeout,
		operationTimeout: operationTimeout,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDs overrides the assignment id generator.
func (s *Service) WithIDs(next func() string) *Service {
	s.newID = next
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create opens a pending offer of kind for c and notifies the assignee.
// It fails with apperr.ErrConflict while another offer of the same kind is pending.
func (s *Service) Create(
	ctx context.Context,
	donationID string,
	c domain.Candidate,
	kind domain.AssignmentKind,
) (domain.Assignment, error) {
	donationID = strings.TrimSpace(donationID)
	if donationID == "" || strings.TrimSpace(c.ID) == "" || !kind.Valid() {
		return domain.Assignment{}, apperr.ErrInvalid
	}

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	a := domain.Assignment{
		ID:         s.newID(),
		DonationID: donationID,
		AssigneeID: c.ID,
		Kind:       kind,
		Status:     domain.AssignmentPending,
		Score:      c.Score,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.offerTimeout),
	}

	err := s.store.WithTx(opCtx, func(tx matchingtx.Repository) error {
		history, err := tx.ListAssignments(opCtx, donationID, kind)
		if err != nil {
			return err
		}
		for _, h := range history {
			if h.Status == domain.AssignmentPending {
				return apperr.ErrConflict
			}
		}
		if err := tx.InsertAssignment(opCtx, &a); err != nil {
			return err
		}
		if err := tx.PatchDonation(opCtx, donationID, domain.StatusPatch(kind.PendingStatus())); err != nil {
			return err
		}
		if kind == domain.KindTransportTask {
			return tx.AdjustActiveTasks(opCtx, c.ID, 1)
		}
		return nil
	})
	if err != nil {
		return domain.Assignment{}, err
	}

	s.metrics.OfferCreated(string(kind))
	s.metrics.Outcome(string(kind.PendingStatus()))
	s.logger.Info("offer created",
		logx.DonationID(donationID),
		logx.AssignmentID(a.ID),
		logx.String("kind", string(kind)),
		logx.String("assignee_id", a.AssigneeID),
		logx.Float64("score", a.Score),
		logx.Time("expires_at", a.ExpiresAt),
	)

	if s.notifier == nil {
		return a, nil
	}
	if err := s.notifier.Notify(ctx, notificationFor(a)); err != nil {
		s.metrics.NotificationFailed()
		s.logger.Warn("notification failed",
			logx.DonationID(donationID),
			logx.AssignmentID(a.ID),
			logx.String("assignee_id", a.AssigneeID),
			logx.Err(err),
		)
	}
	return a, nil
}

// SetMatchingStatus records a matching outcome on the donation.
// failed_max_retries also raises the manual review flag.
func (s *Service) SetMatchingStatus(ctx context.Context, donationID string, status domain.MatchingStatus) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	patch := domain.StatusPatch(status)
	if status == domain.MatchingFailedMaxRetries {
		manual := true
		patch.ManualReviewRequired = &manual
	}
	if err := s.store.PatchDonation(ctx, donationID, patch); err != nil {
		return err
	}

	s.metrics.Outcome(string(status))
	log := s.logger.Info
	if status.Terminal() {
		log = s.logger.Warn
	}
	log("matching status changed",
		logx.DonationID(donationID),
		logx.String("matching_status", string(status)),
	)
	return nil
}

// Respond records the assignee's answer to a pending offer and announces the transition.
// The answer is stored even when the announcement fails; the error then wraps
// ErrPublishDeferred and the expiry sweep retries the announcement.
func (s *Service) Respond(ctx context.Context, assignmentID string, accept bool) (domain.Transition, error) {
	assignmentID = strings.TrimSpace(assignmentID)
	if assignmentID == "" {
		return domain.Transition{}, apperr.ErrInvalid
	}
	to := domain.AssignmentRejected
	if accept {
		to = domain.AssignmentAccepted
	}

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	var tr domain.Transition
	err := s.store.WithTx(opCtx, func(tx matchingtx.Repository) error {
		a, err := tx.GetAssignment(opCtx, assignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.ErrNotFound
		}
		if a.Status != domain.AssignmentPending {
			return fmt.Errorf("%w: assignment is %s", apperr.ErrConflict, a.Status)
		}
		ok, err := tx.TransitionAssignment(opCtx, a.ID, domain.AssignmentPending, to)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrConflict
		}
		if a.Kind == domain.KindTransportTask && to.Failed() {
			if err := releaseTask(opCtx, tx, a.AssigneeID); err != nil {
				return err
			}
		}
		tr = domain.Transition{
			AssignmentID: a.ID,
			DonationID:   a.DonationID,
			Kind:         a.Kind,
			From:         domain.AssignmentPending,
			To:           to,
		}
		return s.enqueue(opCtx, tx, tr, now)
	})
	if err != nil {
		return domain.Transition{}, err
	}

	s.logger.Info("offer answered",
		logx.DonationID(tr.DonationID),
		logx.AssignmentID(tr.AssignmentID),
		logx.String("kind", string(tr.Kind)),
		logx.String("status", string(tr.To)),
	)
	if err := s.deliver(ctx, tr); err != nil {
		return tr, fmt.Errorf("%w: %w", ErrPublishDeferred, err)
	}
	return tr, nil
}

// ExpireDue moves every overdue pending offer to expired, then publishes queued
// transitions, including ones left behind by earlier publish failures.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	var expired []domain.Assignment
	err := s.store.WithTx(opCtx, func(tx matchingtx.Repository) error {
		var err error
		expired, err = tx.ExpirePending(opCtx, now)
		if err != nil {
			return err
		}
		for _, a := range expired {
			if a.Kind == domain.KindTransportTask {
				if err := releaseTask(opCtx, tx, a.AssigneeID); err != nil {
					return err
				}
			}
			tr := domain.Transition{
				AssignmentID: a.ID,
				DonationID:   a.DonationID,
				Kind:         a.Kind,
				From:         domain.AssignmentPending,
				To:           domain.AssignmentExpired,
			}
			if err := s.enqueue(opCtx, tx, tr, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("expire offers: %w", err)
	}

	if len(expired) > 0 {
		s.metrics.Expired(len(expired))
		s.logger.Info("offers expired", logx.Int("count", len(expired)))
	}
	return len(expired), s.relay(ctx)
}

func (s *Service) enqueue(ctx context.Context, tx matchingtx.Repository, tr domain.Transition, at time.Time) error {
	if s.publisher == nil {
		return nil
	}
	return tx.EnqueueTransition(ctx, tr, at)
}

// relay publishes queued transitions oldest first and stops at the first failure.
func (s *Service) relay(ctx context.Context) error {
	if s.publisher == nil {
		return nil
	}
	listCtx, cancel := s.withTimeout(ctx)
	queued, err := s.store.PendingTransitions(listCtx, relayBatch)
	cancel()
	if err != nil {
		return fmt.Errorf("list queued updates: %w", err)
	}
	for i, tr := range queued {
		if err := s.deliver(ctx, tr); err != nil {
			return fmt.Errorf("%d queued updates left: %w", len(queued)-i, err)
		}
	}
	return nil
}

// deliver publishes tr and drops it from the queue. A failed ack only means tr goes out again.
func (s *Service) deliver(ctx context.Context, tr domain.Transition) error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishTransition(ctx, tr); err != nil {
		s.logger.Error("publish assignment update failed",
			logx.DonationID(tr.DonationID),
			logx.AssignmentID(tr.AssignmentID),
			logx.String("status", string(tr.To)),
			logx.Err(err),
		)
		return fmt.Errorf("publish %s: %w", tr.AssignmentID, err)
	}

	ackCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.AckTransition(ackCtx, tr.AssignmentID); err != nil {
		s.logger.Warn("assignment update left queued",
			logx.DonationID(tr.DonationID),
			logx.AssignmentID(tr.AssignmentID),
			logx.Err(err),
		)
	}
	return nil
}

// releaseTask decrements the counter; a transporter removed from the pool is not an error.
func releaseTask(ctx context.Context, tx matchingtx.Repository, transporterID string) error {
	err := tx.AdjustActiveTasks(ctx, transporterID, -1)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}
