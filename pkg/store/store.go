package store

import (
	"errors"

	"moviecatalog/pkg/domain"
)

// ErrNotFound reports that no movie has the requested id.
var ErrNotFound = errors.New("movie not found")

// ErrDuplicateID reports a seed record whose id is already taken.
var ErrDuplicateID = errors.New("duplicate movie id")

// Filter narrows List results. A zero Filter matches every movie.
type Filter struct {
	// Genre matches movies carrying this tag, ignoring case.
	Genre string
}

// Catalog defines the movie collection operations.
// Mutating methods expect input that already passed schema validation.
type Catalog interface {
	List(filter Filter) []domain.Movie
	Get(id string) (domain.Movie, error)
	Create(fields domain.MovieFields) domain.Movie
	Update(id string, patch domain.MoviePatch) (domain.Movie, error)
	Remove(id string) error

	Seed(movies []domain.Movie) error
	Len() int
}
