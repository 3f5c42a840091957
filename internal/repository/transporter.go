package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"food-rescue-matching/internal/domain"
)

// TransporterRepo represents transporter repository.
type TransporterRepo struct{ db *pgxpool.Pool }

// NewTransporterRepo creates a new TransporterRepo.
func NewTransporterRepo(db *pgxpool.Pool) *TransporterRepo { return &TransporterRepo{db: db} }

// ListActiveTransporters returns every transporter marked active, ordered by id.
func (r *TransporterRepo) ListActiveTransporters(ctx context.Context) ([]domain.Transporter, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, active, lat, lon, has_vehicle, vehicle_type, availability, active_tasks
        FROM transporters
        WHERE active
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("list active transporters: %w", err)
	}
	defer rows.Close()

	var out []domain.Transporter
	for rows.Next() {
		var (
			t        domain.Transporter
			lat, lon *float64
			vehicle  string
		)
		if err := rows.Scan(&t.ID, &t.Active, &lat, &lon, &t.HasVehicle, &vehicle, &t.Availability, &t.ActiveTasks); err != nil {
			return nil, err
		}
		t.Location = location(lat, lon)
		t.VehicleType = domain.VehicleType(vehicle)
		out = append(out, t)
	}
	return out, rows.Err()
}
