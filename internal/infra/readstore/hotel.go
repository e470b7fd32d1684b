package readstore

import (
	"context"
	"errors"

	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type HotelReadStore struct {
	db db.DBTX
}

func NewHotelReadStore(dbtx db.DBTX) *HotelReadStore {
	return &HotelReadStore{db: dbtx}
}

func (s *HotelReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.HotelSnapshot, error) {
	const query = `
		SELECT id, name, price_per_night_cents, rooms, is_available, owner_id
		FROM hotels
		WHERE id = $1`

	var snap shared.HotelSnapshot
	err := s.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.Name, &snap.PricePerNightCents, &snap.Rooms, &snap.IsAvailable, &snap.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("hotel not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find hotel", err)
	}
	return &snap, nil
}
