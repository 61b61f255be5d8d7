package pet

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrPetNotFound = errors.New("pet not found")

// PetStore is the catalog capability the handlers depend on. Adoption does
// not transition any state, so the store is read-only.
type PetStore interface {
	List(ctx context.Context) ([]Pet, error)
	FindByID(ctx context.Context, id int64) (Pet, error)
}

type MemoryPetStore struct {
	mu   sync.RWMutex
	pets []Pet
}

func NewMemoryPetStore(seed []Pet) *MemoryPetStore {
	return &MemoryPetStore{pets: append([]Pet(nil), seed...)}
}

func (s *MemoryPetStore) List(_ context.Context) ([]Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Pet(nil), s.pets...), nil
}

func (s *MemoryPetStore) FindByID(_ context.Context, id int64) (Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pets {
		if p.ID == id {
			return p, nil
		}
	}
	return Pet{}, ErrPetNotFound
}

// SeedPets returns the demo catalog.
func SeedPets() []Pet {
	return []Pet{
		{
			ID:          1,
			Name:        "Rex",
			Species:     "Cachorro",
			Breed:       "Labrador",
			Age:         3,
			Description: "Cachorro muito carinhoso e brincalhão",
			Image:       "https://images.unsplash.com/photo-1552053831-71594a27632d?w=400",
			IsAvailable: true,
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Name:        "Mimi",
			Species:     "Gato",
			Breed:       "Persa",
			Age:         2,
			Description: "Gato tranquilo e independente",
			Image:       "https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba?w=400",
			IsAvailable: true,
			CreatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          3,
			Name:        "Thor",
			Species:     "Cachorro",
			Breed:       "Husky Siberiano",
			Age:         1,
			Description: "Filhote muito energético e inteligente",
			Image:       "https://images.unsplash.com/photo-1547407139-3c921a66005c?w=400",
			IsAvailable: true,
			CreatedAt:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}
}
