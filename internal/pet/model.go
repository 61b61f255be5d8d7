package pet

import "time"

type Pet struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Age         int       `json:"age"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summary is the trimmed shape returned by the adoption and home endpoints.
type Summary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Age         int    `json:"age"`
	Breed       string `json:"breed"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (p Pet) Summary() Summary {
	return Summary{
		ID:          p.ID,
		Name:        p.Name,
		Species:     p.Species,
		Age:         p.Age,
		Breed:       p.Breed,
		Description: p.Description,
		Image:       p.Image,
	}
}
