package reassign_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/service/reassign"
	"food-rescue-matching/internal/testutil/memstore"
)

type fixture struct {
	store  *memstore.Store
	scorer *MockScorer
	offers *MockOffers
	ctrl   *reassign.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mc := gomock.NewController(t)
	f := &fixture{
		store:  memstore.New(),
		scorer: NewMockScorer(mc),
		offers: NewMockOffers(mc),
	}
	f.ctrl = reassign.NewController(f.store, f.scorer, f.offers, 5, logx.Nop())
	f.store.PutDonation(domain.Donation{ID: "d1", Status: domain.DonationListed, Quantity: 10})
	return f
}

func (f *fixture) history(kind domain.AssignmentKind, statuses ...domain.AssignmentStatus) {
	base := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	for i, st := range statuses {
		prefix := "org"
		if kind == domain.KindTransportTask {
			prefix = "t"
		}
		f.store.PutAssignment(domain.Assignment{
			ID:         fmt.Sprintf("%s-a%d", prefix, i+1),
			DonationID: "d1",
			AssigneeID: fmt.Sprintf("%s-%d", prefix, i+1),
			Kind:       kind,
			Status:     st,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func candidates(ids ...string) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(ids))
	for i, id := range ids {
		out = append(out, domain.Candidate{ID: id, Score: float64(len(ids) - i)})
	}
	return out
}

func TestReassign_SkipsTriedCandidates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.history(domain.KindOrgOffer, domain.AssignmentRejected, domain.AssignmentExpired)

	f.scorer.EXPECT().Urgency(gomock.Any()).Return(0.8)
	f.scorer.EXPECT().ScoreRecipients(gomock.Any(), gomock.Any(), 0.8).Return(candidates("org-2", "org-1", "org-3"), nil)
	f.offers.EXPECT().
		Create(gomock.Any(), "d1", domain.Candidate{ID: "org-3", Score: 1}, domain.KindOrgOffer).
		Return(domain.Assignment{ID: "new"}, nil)

	require.NoError(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindOrgOffer))
}

func TestReassign_RetryBudgetExhausted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.history(domain.KindOrgOffer,
		domain.AssignmentRejected, domain.AssignmentExpired, domain.AssignmentRejected,
		domain.AssignmentRejected, domain.AssignmentExpired,
	)

	f.offers.EXPECT().SetMatchingStatus(gomock.Any(), "d1", domain.MatchingFailedMaxRetries).Return(nil)

	require.NoError(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindOrgOffer))
}

func TestReassign_OpenOfferIsNoop(t *testing.T) {
	t.Parallel()

	for _, st := range []domain.AssignmentStatus{domain.AssignmentPending, domain.AssignmentAccepted} {
		t.Run(string(st), func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.history(domain.KindOrgOffer, domain.AssignmentRejected, st)

			require.NoError(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindOrgOffer))
		})
	}
}

func TestReassign_NoCandidatesLeft(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.history(domain.KindOrgOffer, domain.AssignmentRejected)

	f.scorer.EXPECT().Urgency(gomock.Any()).Return(0.5)
	f.scorer.EXPECT().ScoreRecipients(gomock.Any(), gomock.Any(), 0.5).Return(candidates("org-1"), nil)
	f.offers.EXPECT().SetMatchingStatus(gomock.Any(), "d1", domain.MatchingFailedNoCandidates).Return(nil)

	require.NoError(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindOrgOffer))
}

func TestReassign_InvalidLocation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.history(domain.KindOrgOffer, domain.AssignmentExpired)

	f.scorer.EXPECT().Urgency(gomock.Any()).Return(0.5)
	f.scorer.EXPECT().ScoreRecipients(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, apperr.ErrInvalidLocation)
	f.offers.EXPECT().SetMatchingStatus(gomock.Any(), "d1", domain.MatchingFailedInvalidLocation).Return(nil)

	require.NoError(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindOrgOffer))
}

func TestReassign_ScoringErrorReturned(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.history(domain.KindOrgOffer, domain.AssignmentExpired)

	boom := errors.New("range query failed")
	f.scorer.EXPECT().Urgency(gomock.Any()).Return(0.5)
	f.scorer.EXPECT().ScoreRecipients(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	require.ErrorIs(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindOrgOffer), boom)
}

func TestReassign_ConflictMeansAlreadyOffered(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.history(domain.KindOrgOffer, domain.AssignmentRejected)

	f.scorer.EXPECT().Urgency(gomock.Any()).Return(0.5)
	f.scorer.EXPECT().ScoreRecipients(gomock.Any(), gomock.Any(), gomock.Any()).Return(candidates("org-2"), nil)
	f.offers.EXPECT().Create(gomock.Any(), "d1", gomock.Any(), domain.KindOrgOffer).Return(domain.Assignment{}, apperr.ErrConflict)

	require.NoError(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindOrgOffer))
}

func TestReassign_TransportUsesAcceptedOrganization(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	org := domain.Organization{ID: "org-1", Verified: true, Capacity: 50, Location: domain.Location{Lat: 1, Lon: 1}}
	f.store.PutOrganization(org)
	f.history(domain.KindOrgOffer, domain.AssignmentAccepted)
	f.history(domain.KindTransportTask, domain.AssignmentRejected)

	f.scorer.EXPECT().
		ScoreTransporters(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d domain.Donation, got domain.Organization) ([]domain.Candidate, error) {
			require.Equal(t, "d1", d.ID)
			require.Equal(t, "org-1", got.ID)
			return candidates("t-1", "t-2"), nil
		})
	f.offers.EXPECT().
		Create(gomock.Any(), "d1", domain.Candidate{ID: "t-2", Score: 1}, domain.KindTransportTask).
		Return(domain.Assignment{}, nil)

	require.NoError(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindTransportTask))
}

func TestReassign_TransportWithoutAcceptedOrganization(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.history(domain.KindTransportTask, domain.AssignmentExpired)

	f.offers.EXPECT().SetMatchingStatus(gomock.Any(), "d1", domain.MatchingPendingVolunteerManual).Return(nil)

	require.NoError(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindTransportTask))
}

func TestReassign_MissingDonationAndBadKind(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	require.NoError(t, f.ctrl.Reassign(context.Background(), "ghost", domain.KindOrgOffer))
	require.ErrorIs(t, f.ctrl.Reassign(context.Background(), "d1", "VOLUNTEER"), apperr.ErrInvalid)
}

func TestReassign_StoreErrorReturned(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	boom := errors.New("db down")
	f.store.Fail("ListAssignments", boom)

	require.ErrorIs(t, f.ctrl.Reassign(context.Background(), "d1", domain.KindOrgOffer), boom)
}
