package pet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLPetStore is the persistent PetStore implementation, used when the
// service runs with STORE_DRIVER=postgres.
type SQLPetStore struct {
	db *sql.DB
}

func NewSQLPetStore(db *sql.DB) *SQLPetStore {
	return &SQLPetStore{db: db}
}

const petColumns = `id, name, species, breed, age, description, image, is_available, created_at, updated_at`

func (s *SQLPetStore) List(ctx context.Context) ([]Pet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+petColumns+` FROM pets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query pets: %w", err)
	}
	defer rows.Close()

	pets := make([]Pet, 0)
	for rows.Next() {
		var p Pet
		if err := rows.Scan(&p.ID, &p.Name, &p.Species, &p.Breed, &p.Age, &p.Description, &p.Image, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		pets = append(pets, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pets: %w", err)
	}
	return pets, nil
}

func (s *SQLPetStore) FindByID(ctx context.Context, id int64) (Pet, error) {
	var p Pet
	err := s.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Species, &p.Breed, &p.Age, &p.Description, &p.Image, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Pet{}, ErrPetNotFound
		}
		return Pet{}, fmt.Errorf("query pet by id: %w", err)
	}
	return p, nil
}
