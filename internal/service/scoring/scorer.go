package scoring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/config"
	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/geo"
)

const detourBonusFactor = 0.5

// Scorer runs the recipient and transporter matching pipelines.
type Scorer struct {
	orgs         organizationFinder
	transporters transporterSource
	need         NeedEstimator
	cfg          config.Matching
	loc          *time.Location
	now          func() time.Time
}

// NewScorer creates a Scorer. The need level defaults to cfg.NeedLevel for every organization.
func NewScorer(orgs organizationFinder, transporters transporterSource, cfg config.Matching) (*Scorer, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("availability timezone: %w", err)
	}
	return &Scorer{
		orgs:         orgs,
		transporters: transporters,
		need:         ConstantNeed(cfg.NeedLevel),
		cfg:          cfg,
		loc:          loc,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithNeedEstimator replaces the constant need level.
func (s *Scorer) WithNeedEstimator(n NeedEstimator) *Scorer {
	if n != nil {
		s.need = n
	}
	return s
}

// WithClock overrides the time source.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	if now != nil {
		s.now = now
	}
	return s
}

// ScoreRecipients returns verified organizations able to take d, best first.
func (s *Scorer) ScoreRecipients(ctx context.Context, d domain.Donation, urgency float64) ([]domain.Candidate, error) {
	if !d.Pickup.Valid() {
		return nil, apperr.ErrInvalidLocation
	}
	keep := func(o domain.Organization) bool {
		return o.Verified && o.Capacity >= d.Quantity && o.AcceptsFoodTypes(d.FoodTypes)
	}
	hits, err := s.orgs.Find(ctx, d.Pickup, s.cfg.MaxRadiusKm, keep)
	if err != nil {
		return nil, fmt.Errorf("find organizations: %w", err)
	}

	out := make([]domain.Candidate, 0, len(hits))
	for _, h := range hits {
		proximity := 1 - h.DistanceKm/s.cfg.MaxRadiusKm
		score := s.cfg.WeightDistance*proximity +
			s.cfg.WeightUrgency*urgency +
			s.cfg.WeightNeed*s.need.Need(h.Item)
		out = append(out, domain.Candidate{ID: h.Item.ID, Score: score, DistanceKm: h.DistanceKm})
	}
	sortCandidates(out)
	return out, nil
}

// ScoreTransporters returns transporters able to carry d to org right now, best first.
func (s *Scorer) ScoreTransporters(
	ctx context.Context,
	d domain.Donation,
	org domain.Organization,
) ([]domain.Candidate, error) {
	if !d.Pickup.Valid() {
		return nil, apperr.ErrInvalidLocation
	}
	pool, err := s.transporters.ListActiveTransporters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transporters: %w", err)
	}

	now := s.now().In(s.loc)
	out := make([]domain.Candidate, 0, len(pool))
	for _, t := range pool {
		if c, ok := s.scoreTransporter(t, d, org, now); ok {
			out = append(out, c)
		}
	}
	sortCandidates(out)
	return out, nil
}

func (s *Scorer) scoreTransporter(
	t domain.Transporter,
	d domain.Donation,
	org domain.Organization,
	now time.Time,
) (domain.Candidate, bool) {
	if !t.Active || !t.Location.Valid() {
		return domain.Candidate{}, false
	}
	if !AvailableAt(t.Availability, now) {
		return domain.Candidate{}, false
	}
	if d.Quantity > s.cfg.VehicleQuantity && !t.HasVehicle {
		return domain.Candidate{}, false
	}
	if d.RequiresRefrigeration && !t.VehicleType.CanCarryChilled() {
		return domain.Candidate{}, false
	}
	if t.ActiveTasks >= s.cfg.BatchCap {
		return domain.Candidate{}, false
	}

	toPickup := geo.DistanceKm(t.Location, d.Pickup)
	score := 1 / (toPickup + 1)

	if t.ActiveTasks > 0 {
		// Busy transporters are assumed to be heading to org already; the new
		// pickup is inserted into that leg. Without a known destination the
		// detour is the whole trip to the pickup.
		detour := toPickup
		if org.Location.Valid() {
			detour += geo.DistanceKm(d.Pickup, org.Location) - geo.DistanceKm(t.Location, org.Location)
		}
		if detour >= s.cfg.MaxDetourKm {
			return domain.Candidate{}, false
		}
		score += (s.cfg.MaxDetourKm - detour) * detourBonusFactor
		return domain.Candidate{ID: t.ID, Score: score, DistanceKm: toPickup}, true
	}

	if toPickup > s.cfg.TransporterRadiusKm {
		return domain.Candidate{}, false
	}
	return domain.Candidate{ID: t.ID, Score: score, DistanceKm: toPickup}, true
}

// sortCandidates orders by score descending, then id for a stable pick.
func sortCandidates(cs []domain.Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Score != cs[j].Score {
			return cs[i].Score > cs[j].Score
		}
		return cs[i].ID < cs[j].ID
	})
}
