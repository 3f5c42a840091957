package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/geo"
)

const organizationColumns = `id, name, verified, lat, lon, geohash, capacity, preferred_food_types`

// OrganizationRepo serves geohash range queries over verified organizations.
type OrganizationRepo struct{ db *pgxpool.Pool }

// NewOrganizationRepo creates a new OrganizationRepo.
func NewOrganizationRepo(db *pgxpool.Pool) *OrganizationRepo { return &OrganizationRepo{db: db} }

// QueryRange returns verified organizations whose geohash lies in r (inclusive).
func (r *OrganizationRepo) QueryRange(ctx context.Context, rg geo.Range) ([]domain.Organization, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+organizationColumns+`
        FROM organizations
        WHERE verified
          AND geohash COLLATE "C" >= $1
          AND geohash COLLATE "C" <= $2
    `, rg.Start, rg.End)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	var out []domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrganization(row pgx.Row) (domain.Organization, error) {
	var (
		o        domain.Organization
		lat, lon *float64
	)
	err := row.Scan(&o.ID, &o.Name, &o.Verified, &lat, &lon, &o.Geohash, &o.Capacity, &o.PreferredFoodTypes)
	o.Location = location(lat, lon)
	return o, err
}
