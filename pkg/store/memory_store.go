package store

import (
	"fmt"
	"strings"
	"sync"

	"moviecatalog/internal/util"
	"moviecatalog/pkg/domain"
)

var _ Catalog = (*MemoryStore)(nil)

// MemoryStore keeps the catalog in-process, in insertion order.
type MemoryStore struct {
	mu     sync.RWMutex
	movies map[string]domain.Movie
	orders []string
	issued map[string]struct{} // every id ever handed out, including removed ones
	newID  func() string
}

// NewMemoryStore initializes an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		movies: make(map[string]domain.Movie),
		issued: make(map[string]struct{}),
		newID:  util.NewID,
	}
}

// Seed loads pre-identified movies, appending them in the given order.
// Nothing is stored if any id is empty or already issued.
func (m *MemoryStore) Seed(movies []domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{}, len(movies))
	for _, mv := range movies {
		if strings.TrimSpace(mv.ID) == "" {
			return fmt.Errorf("seed movie %q: empty id", mv.Title)
		}
		if _, ok := m.issued[mv.ID]; ok {
			return fmt.Errorf("seed movie %q: %w", mv.ID, ErrDuplicateID)
		}
		if _, ok := seen[mv.ID]; ok {
			return fmt.Errorf("seed movie %q: %w", mv.ID, ErrDuplicateID)
		}
		seen[mv.ID] = struct{}{}
	}
	for _, mv := range movies {
		m.insertLocked(mv.Clone())
	}
	return nil
}

// List returns movies in insertion order, optionally filtered by genre.
func (m *MemoryStore) List(filter Filter) []domain.Movie {
	m.mu.RLock()
	defer m.mu.RUnlock()
	genre := strings.TrimSpace(filter.Genre)
	res := make([]domain.Movie, 0, len(m.orders))
	for _, id := range m.orders {
		mv, ok := m.movies[id]
		if !ok {
			continue
		}
		if genre != "" && !mv.HasGenre(genre) {
			continue
		}
		res = append(res, mv.Clone())
	}
	return res
}

// Get retrieves a movie by exact id.
func (m *MemoryStore) Get(id string) (domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mv, ok := m.movies[id]
	if !ok {
		return domain.Movie{}, ErrNotFound
	}
	return mv.Clone(), nil
}

// Create assigns a fresh id and appends the movie.
func (m *MemoryStore) Create(fields domain.MovieFields) domain.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.newID()
	for {
		if _, taken := m.issued[id]; !taken {
			break
		}
		id = m.newID()
	}
	mv := domain.Movie{ID: id, MovieFields: fields}
	mv = mv.Clone()
	m.insertLocked(mv)
	return mv.Clone()
}

// Update overwrites the fields present in patch, keeping id and position.
func (m *MemoryStore) Update(id string, patch domain.MoviePatch) (domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.movies[id]
	if !ok {
		return domain.Movie{}, ErrNotFound
	}
	updated := patch.Apply(current)
	updated.ID = current.ID
	m.movies[id] = updated
	return updated.Clone(), nil
}

// Remove deletes a movie permanently. Its id stays reserved.
func (m *MemoryStore) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.movies[id]; !ok {
		return ErrNotFound
	}
	delete(m.movies, id)
	filtered := m.orders[:0]
	for _, item := range m.orders {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	m.orders = filtered
	return nil
}

// Len returns the number of stored movies.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.movies)
}

func (m *MemoryStore) insertLocked(mv domain.Movie) {
	m.issued[mv.ID] = struct{}{}
	m.movies[mv.ID] = mv
	m.orders = append(m.orders, mv.ID)
}
