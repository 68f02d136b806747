package app

import (
	"context"
	"fmt"

	"moviecatalog/internal/util"
	"moviecatalog/pkg/domain"
	"moviecatalog/pkg/events"
	"moviecatalog/pkg/schema"
	"moviecatalog/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	Store     store.Catalog
	Publisher events.Publisher
	SeedPath  string
	SkipSeed  bool
}

// App validates inbound movie data and applies it to the catalog.
type App struct {
	catalog store.Catalog
	events  events.Publisher
}

// New constructs the application and seeds the catalog.
func New(cfg Config) (*App, error) {
	catalog := cfg.Store
	if catalog == nil {
		catalog = store.NewMemoryStore()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if !cfg.SkipSeed {
		movies, err := LoadSeedFile(cfg.SeedPath)
		if err != nil {
			return nil, err
		}
		if err := catalog.Seed(movies); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}
	return &App{catalog: catalog, events: publisher}, nil
}

// Count returns the number of movies in the catalog.
func (a *App) Count() int {
	return a.catalog.Len()
}

// ListMovies returns the catalog, filtered by genre when genre is non-empty.
func (a *App) ListMovies(genre string) []domain.Movie {
	return a.catalog.List(store.Filter{Genre: genre})
}

// GetMovie retrieves a movie by id.
func (a *App) GetMovie(id string) (domain.Movie, error) {
	return a.catalog.Get(id)
}

// CreateMovie validates body as a complete movie and stores it.
// Validation failures are returned as *schema.FieldErrors.
func (a *App) CreateMovie(ctx context.Context, body []byte) (domain.Movie, error) {
	fields, err := schema.ValidateFull(body)
	if err != nil {
		return domain.Movie{}, err
	}
	movie := a.catalog.Create(fields)
	util.LoggerFromContext(ctx).Debug().Str("movie_id", movie.ID).Msg("movie created")
	a.publish(ctx, events.NewEvent(events.MovieCreated, movie.ID, &movie))
	return movie, nil
}

// UpdateMovie validates body as a partial movie and merges it over the stored
// record. Validation runs before the lookup.
func (a *App) UpdateMovie(ctx context.Context, id string, body []byte) (domain.Movie, error) {
	patch, err := schema.ValidatePartial(body)
	if err != nil {
		return domain.Movie{}, err
	}
	movie, err := a.catalog.Update(id, patch)
	if err != nil {
		return domain.Movie{}, err
	}
	util.LoggerFromContext(ctx).Debug().Str("movie_id", movie.ID).Bool("noop", patch.Empty()).Msg("movie updated")
	a.publish(ctx, events.NewEvent(events.MovieUpdated, movie.ID, &movie))
	return movie, nil
}

// DeleteMovie removes a movie permanently.
func (a *App) DeleteMovie(ctx context.Context, id string) error {
	if err := a.catalog.Remove(id); err != nil {
		return err
	}
	util.LoggerFromContext(ctx).Debug().Str("movie_id", id).Msg("movie deleted")
	a.publish(ctx, events.NewEvent(events.MovieDeleted, id, nil))
	return nil
}

// publish is best-effort: the mutation is already committed.
func (a *App) publish(ctx context.Context, evt events.Event) {
	evt.RequestID = util.RequestIDFromContext(ctx)
	if err := a.events.Publish(context.WithoutCancel(ctx), evt); err != nil {
		util.LoggerFromContext(ctx).Warn().Err(err).
			Str("event_type", string(evt.Type)).
			Str("movie_id", evt.MovieID).
			Msg("publish catalog event failed")
	}
}
