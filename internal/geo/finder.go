package geo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/domain"
)

// RangeSource runs one bounded range query over a geohash-ordered index.
type RangeSource[T any] interface {
	QueryRange(ctx context.Context, r Range) ([]T, error)
}

type counter interface {
	Inc()
}

// Hit is an entity found within the search radius.
type Hit[T any] struct {
	Item       T
	DistanceKm float64
}

// Finder returns entities within a radius of a point.
type Finder[T any] struct {
	src     RangeSource[T]
	locate  func(T) domain.Location
	queries counter
}

// NewFinder creates a Finder over src; locate extracts an entity's position.
func NewFinder[T any](src RangeSource[T], locate func(T) domain.Location) *Finder[T] {
	return &Finder[T]{src: src, locate: locate}
}

// WithQueryCounter counts every range query issued.
func (f *Finder[T]) WithQueryCounter(c counter) *Finder[T] {
	f.queries = c
	return f
}

// Find returns entities within radiusKm of center that pass keep (nil keeps all).
// Result order is unspecified. All range queries run concurrently; any failure fails the call.
func (f *Finder[T]) Find(
	ctx context.Context,
	center domain.Location,
	radiusKm float64,
	keep func(T) bool,
) ([]Hit[T], error) {
	if !center.Valid() {
		return nil, apperr.ErrInvalidLocation
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius %v km", apperr.ErrInvalid, radiusKm)
	}

	ranges := QueryBounds(center, radiusKm)
	results := make([][]T, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		g.Go(func() error {
			if f.queries != nil {
				f.queries.Inc()
			}
			items, err := f.src.QueryRange(gctx, r)
			if err != nil {
				return fmt.Errorf("geo range [%s,%s]: %w", r.Start, r.End, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var hits []Hit[T]
	for _, items := range results {
		for _, it := range items {
			loc := f.locate(it)
			if !loc.Valid() {
				continue
			}
			d := DistanceKm(center, loc)
			if d > radiusKm {
				continue
			}
			if keep != nil && !keep(it) {
				continue
			}
			hits = append(hits, Hit[T]{Item: it, DistanceKm: d})
		}
	}
	return hits, nil
}
