package domain

import "strings"

type Genre string

const (
	GenreAction    Genre = "Action"
	GenreCrime     Genre = "Crime"
	GenreDrama     Genre = "Drama"
	GenreAdventure Genre = "Adventure"
	GenreSciFi     Genre = "Sci-Fi"
	GenreRomance   Genre = "Romance"
	GenreBiography Genre = "Biography"
	GenreFantasy   Genre = "Fantasy"
	GenreThriller  Genre = "Thriller"
	GenreHorror    Genre = "Horror"
	GenreComedy    Genre = "Comedy"
)

// Genres lists the accepted genre vocabulary in canonical order.
var Genres = []Genre{
	GenreAction,
	GenreCrime,
	GenreDrama,
	GenreAdventure,
	GenreSciFi,
	GenreRomance,
	GenreBiography,
	GenreFantasy,
	GenreThriller,
	GenreHorror,
	GenreComedy,
}

// MovieFields holds every client-settable movie attribute.
type MovieFields struct {
	Title    string  `json:"title"`
	Year     int     `json:"year"`
	Director string  `json:"director"`
	Duration int     `json:"duration"`
	Poster   string  `json:"poster"`
	Genre    []Genre `json:"genre"`
	Rate     float64 `json:"rate"`
}

type Movie struct {
	ID string `json:"id"`
	MovieFields
}

// MoviePatch carries the fields present in a partial update. Nil means absent.
type MoviePatch struct {
	Title    *string
	Year     *int
	Director *string
	Duration *int
	Poster   *string
	Genre    []Genre
	HasGenre bool
	Rate     *float64
}

// Empty reports whether the patch sets no field.
func (p MoviePatch) Empty() bool {
	return p.Title == nil && p.Year == nil && p.Director == nil && p.Duration == nil &&
		p.Poster == nil && !p.HasGenre && p.Rate == nil
}

// Apply returns m with every present field of p overwritten.
// Fields are replaced whole; genre is never merged element-wise.
func (p MoviePatch) Apply(m Movie) Movie {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Year != nil {
		m.Year = *p.Year
	}
	if p.Director != nil {
		m.Director = *p.Director
	}
	if p.Duration != nil {
		m.Duration = *p.Duration
	}
	if p.Poster != nil {
		m.Poster = *p.Poster
	}
	if p.HasGenre {
		m.Genre = CloneGenres(p.Genre)
	}
	if p.Rate != nil {
		m.Rate = *p.Rate
	}
	return m
}

// Clone returns a copy of m that shares no memory with it.
func (m Movie) Clone() Movie {
	m.Genre = CloneGenres(m.Genre)
	return m
}

// HasGenre reports whether the movie carries tag, ignoring case.
func (m Movie) HasGenre(tag string) bool {
	for _, g := range m.Genre {
		if strings.EqualFold(string(g), tag) {
			return true
		}
	}
	return false
}

func CloneGenres(in []Genre) []Genre {
	if in == nil {
		return nil
	}
	out := make([]Genre, len(in))
	copy(out, in)
	return out
}
