package scoring

import (
	"context"

	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/geo"
)

type organizationFinder interface {
	Find(
		ctx context.Context,
		center domain.Location,
		radiusKm float64,
		keep func(domain.Organization) bool,
	) ([]geo.Hit[domain.Organization], error)
}

type transporterSource interface {
	ListActiveTransporters(ctx context.Context) ([]domain.Transporter, error)
}

// NeedEstimator reports how much an organization currently needs food, in [0,1].
// It is the extension point for a real per-organization need signal.
type NeedEstimator interface {
	Need(o domain.Organization) float64
}

// ConstantNeed gives every organization the same need level.
type ConstantNeed float64

// Need returns the constant level.
func (c ConstantNeed) Need(domain.Organization) float64 { return float64(c) }
