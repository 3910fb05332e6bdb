package repository

import (
	"fmt"

	"github.com/yourusername/sharpline/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Game        GameRepository
	Rating      RatingRepository
	Edge        EdgeRepository
	Stake       StakeRepository
	ClosingLine ClosingLineRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Game:        NewPostgresGameRepository(db),
		Rating:      NewPostgresRatingRepository(db),
		Edge:        NewPostgresEdgeRepository(db),
		Stake:       NewPostgresStakeRepository(db),
		ClosingLine: NewPostgresClosingLineRepository(db),
	}, nil
}
