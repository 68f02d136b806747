package app

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"moviecatalog/pkg/domain"
	"moviecatalog/pkg/schema"
)

//go:embed seed/movies.json
var defaultSeed []byte

// LoadSeedFile reads the initial catalog from path, or the embedded
// default catalog when path is empty.
func LoadSeedFile(path string) ([]domain.Movie, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ParseSeed(defaultSeed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a JSON array of identified movies. Every entry must pass
// full validation and carry a non-empty id.
func ParseSeed(data []byte) ([]domain.Movie, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	movies := make([]domain.Movie, 0, len(raws))
	for i, raw := range raws {
		var ident struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &ident); err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
		if strings.TrimSpace(ident.ID) == "" {
			return nil, fmt.Errorf("seed entry %d: id is required", i)
		}
		fields, err := schema.ValidateFull(raw)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d (%s): %w", i, ident.ID, err)
		}
		movies = append(movies, domain.Movie{ID: ident.ID, MovieFields: fields})
	}
	return movies, nil
}
