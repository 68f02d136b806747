// Package schema validates movie input in full (create) and partial (update) form.
//
// Each field's constraint is declared once in the rules table as a
// go-playground/validator tag. Full validation treats absence as an error,
// partial validation skips absent fields; both run the same rule.
package schema

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"moviecatalog/pkg/domain"
)

type kind int

const (
	kindString kind = iota
	kindInt
	kindNumber
	kindGenres
)

type rule struct {
	field string
	kind  kind
	tag   string
	set   func(p *domain.MoviePatch, v any)
}

var rules = []rule{
	{field: "title", kind: kindString, tag: "min=1", set: func(p *domain.MoviePatch, v any) {
		s := v.(string)
		p.Title = &s
	}},
	{field: "year", kind: kindInt, tag: "gte=1900,lte=2024", set: func(p *domain.MoviePatch, v any) {
		n := v.(int)
		p.Year = &n
	}},
	{field: "director", kind: kindString, tag: "min=1", set: func(p *domain.MoviePatch, v any) {
		s := v.(string)
		p.Director = &s
	}},
	{field: "duration", kind: kindInt, tag: "gt=0", set: func(p *domain.MoviePatch, v any) {
		n := v.(int)
		p.Duration = &n
	}},
	{field: "poster", kind: kindString, tag: "url", set: func(p *domain.MoviePatch, v any) {
		s := v.(string)
		p.Poster = &s
	}},
	{field: "genre", kind: kindGenres, tag: "min=1,dive,oneof=" + genreParam(), set: func(p *domain.MoviePatch, v any) {
		tags := v.([]string)
		p.Genre = make([]domain.Genre, len(tags))
		for i, t := range tags {
			p.Genre[i] = domain.Genre(t)
		}
		p.HasGenre = true
	}},
	{field: "rate", kind: kindNumber, tag: "gte=0,lte=10", set: func(p *domain.MoviePatch, v any) {
		f := v.(float64)
		p.Rate = &f
	}},
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldNames returns the movie fields in schema order, excluding id.
func FieldNames() []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.field
	}
	return out
}

// ValidateFull requires every movie field to be present and valid.
// On failure the error is a *FieldErrors.
func ValidateFull(input []byte) (domain.MovieFields, error) {
	obj, err := decodeObject(input)
	if err != nil {
		return domain.MovieFields{}, err
	}
	patch, ferr := check(obj, true)
	if ferr != nil {
		return domain.MovieFields{}, ferr
	}
	return domain.MovieFields{
		Title:    *patch.Title,
		Year:     *patch.Year,
		Director: *patch.Director,
		Duration: *patch.Duration,
		Poster:   *patch.Poster,
		Genre:    patch.Genre,
		Rate:     *patch.Rate,
	}, nil
}

// ValidatePartial checks only the fields present in input. Unknown fields
// are ignored and an empty object yields an empty patch.
// On failure the error is a *FieldErrors.
func ValidatePartial(input []byte) (domain.MoviePatch, error) {
	obj, err := decodeObject(input)
	if err != nil {
		return domain.MoviePatch{}, err
	}
	patch, ferr := check(obj, false)
	if ferr != nil {
		return domain.MoviePatch{}, ferr
	}
	return patch, nil
}

func check(obj map[string]any, required bool) (domain.MoviePatch, *FieldErrors) {
	var patch domain.MoviePatch
	errs := &FieldErrors{}
	v := getValidator()
	for _, r := range rules {
		raw, ok := obj[r.field]
		if !ok {
			if required {
				errs.add(r.field, "required", requiredMessage(r.field))
			}
			continue
		}
		val, tag := coerce(r.kind, raw)
		if tag != "" {
			msg := typeMessage(r)
			if tag == "integer" {
				msg = r.field + " must be an integer"
			}
			errs.add(r.field, tag, msg)
			continue
		}
		if err := v.Var(val, r.tag); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				errs.add(r.field, "invalid", r.field+" is invalid")
				continue
			}
			for _, fe := range verrs {
				errs.add(r.field, fe.Tag(), translate(r, fe))
			}
			continue
		}
		r.set(&patch, val)
	}
	if !errs.empty() {
		return domain.MoviePatch{}, errs
	}
	return patch, nil
}

// coerce converts a decoded JSON value to the Go type of k. A non-empty tag
// reports why the value has the wrong shape.
func coerce(k kind, raw any) (any, string) {
	switch k {
	case kindString:
		s, ok := raw.(string)
		if !ok {
			return nil, "type"
		}
		return s, ""
	case kindInt:
		n, ok := raw.(json.Number)
		if !ok {
			return nil, "type"
		}
		if i, err := n.Int64(); err == nil {
			return int(i), ""
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
			return nil, "integer"
		}
		return int(f), ""
	case kindNumber:
		n, ok := raw.(json.Number)
		if !ok {
			return nil, "type"
		}
		f, err := n.Float64()
		if err != nil {
			return nil, "type"
		}
		return f, ""
	case kindGenres:
		items, ok := raw.([]any)
		if !ok {
			return nil, "type"
		}
		tags := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, "type"
			}
			tags = append(tags, s)
		}
		return tags, ""
	}
	return nil, "type"
}

func decodeObject(input []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, bodyError()
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, bodyError()
	}
	return obj, nil
}

func bodyError() *FieldErrors {
	errs := &FieldErrors{}
	errs.add("body", "object", "body must be a single JSON object")
	return errs
}

func genreParam() string {
	names := make([]string, len(domain.Genres))
	for i, g := range domain.Genres {
		names[i] = string(g)
	}
	return strings.Join(names, " ")
}
