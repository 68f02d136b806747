package schema

import (
	"errors"
	"reflect"
	"testing"

	"moviecatalog/pkg/domain"
)

const validMovie = `{
	"title": "X",
	"year": 2020,
	"director": "D",
	"duration": 100,
	"poster": "http://p/x.jpg",
	"genre": ["Drama"],
	"rate": 7.5
}`

func TestValidateFullAcceptsCompleteMovie(t *testing.T) {
	got, err := ValidateFull([]byte(validMovie))
	if err != nil {
		t.Fatalf("validate full: %v", err)
	}
	want := domain.MovieFields{
		Title:    "X",
		Year:     2020,
		Director: "D",
		Duration: 100,
		Poster:   "http://p/x.jpg",
		Genre:    []domain.Genre{domain.GenreDrama},
		Rate:     7.5,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fields = %+v, want %+v", got, want)
	}
}

func TestValidateFullIgnoresUnknownFieldsAndClientID(t *testing.T) {
	input := `{"id":"client-id","extra":true,"title":"X","year":2020,"director":"D","duration":100,
		"poster":"https://img.example.com/x.jpg","genre":["Sci-Fi","Action"],"rate":0}`
	got, err := ValidateFull([]byte(input))
	if err != nil {
		t.Fatalf("validate full: %v", err)
	}
	if len(got.Genre) != 2 || got.Genre[0] != domain.GenreSciFi {
		t.Fatalf("unexpected genre: %v", got.Genre)
	}
}

func TestValidateFullRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		tag   string
	}{
		{name: "year below range", field: "year", value: `1899`, tag: "gte"},
		{name: "year above range", field: "year", value: `2025`, tag: "lte"},
		{name: "year fractional", field: "year", value: `2020.5`, tag: "integer"},
		{name: "year as string", field: "year", value: `"2020"`, tag: "type"},
		{name: "duration zero", field: "duration", value: `0`, tag: "gt"},
		{name: "duration negative", field: "duration", value: `-5`, tag: "gt"},
		{name: "title empty", field: "title", value: `""`, tag: "min"},
		{name: "title number", field: "title", value: `42`, tag: "type"},
		{name: "director null", field: "director", value: `null`, tag: "type"},
		{name: "poster not a url", field: "poster", value: `"not-a-url"`, tag: "url"},
		{name: "genre empty", field: "genre", value: `[]`, tag: "min"},
		{name: "genre unknown tag", field: "genre", value: `["Documentary"]`, tag: "oneof"},
		{name: "genre lower case", field: "genre", value: `["action"]`, tag: "oneof"},
		{name: "genre not array", field: "genre", value: `"Drama"`, tag: "type"},
		{name: "genre mixed types", field: "genre", value: `["Drama", 3]`, tag: "type"},
		{name: "rate above ten", field: "rate", value: `10.1`, tag: "lte"},
		{name: "rate negative", field: "rate", value: `-0.1`, tag: "gte"},
		{name: "rate as string", field: "rate", value: `"7"`, tag: "type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := withField(t, tc.field, tc.value)
			_, err := ValidateFull(input)
			ferrs := asFieldErrors(t, err)
			if !ferrs.Has(tc.field) {
				t.Fatalf("expected error on %q, got %v", tc.field, ferrs.Fields())
			}
			if got := ferrs.Tag(tc.field); got != tc.tag {
				t.Fatalf("tag = %q, want %q", got, tc.tag)
			}
			if len(ferrs.Fields()) != 1 {
				t.Fatalf("expected only %q to fail, got %v", tc.field, ferrs.Fields())
			}
		})
	}
}

func TestValidateFullReportsEveryMissingField(t *testing.T) {
	_, err := ValidateFull([]byte(`{}`))
	ferrs := asFieldErrors(t, err)
	fields := ferrs.Fields()
	if len(fields) != len(FieldNames()) {
		t.Fatalf("expected %d errors, got %v", len(FieldNames()), fields)
	}
	for i, name := range FieldNames() {
		if fields[i].Field != name || fields[i].Tag != "required" {
			t.Fatalf("error %d = %+v, want required %q", i, fields[i], name)
		}
		if fields[i].Message != name+" is required" {
			t.Fatalf("message = %q", fields[i].Message)
		}
	}
}

func TestValidateFullRejectsNonObjectBodies(t *testing.T) {
	for _, input := range []string{``, `null`, `[]`, `"movie"`, `{"title":`, `{} {}`} {
		_, err := ValidateFull([]byte(input))
		ferrs := asFieldErrors(t, err)
		if !ferrs.Has("body") {
			t.Fatalf("input %q: expected body error, got %v", input, ferrs.Fields())
		}
	}
}

func TestValidateFullMessagesAreHumanReadable(t *testing.T) {
	_, err := ValidateFull(withField(t, "year", `1899`))
	ferrs := asFieldErrors(t, err)
	if got := ferrs.Fields()[0].Message; got != "year must be greater than or equal to 1900" {
		t.Fatalf("message = %q", got)
	}
}

func TestValidatePartialAcceptsEmptyObject(t *testing.T) {
	patch, err := ValidatePartial([]byte(`{}`))
	if err != nil {
		t.Fatalf("validate partial: %v", err)
	}
	if !patch.Empty() {
		t.Fatalf("expected empty patch, got %+v", patch)
	}
}

func TestValidatePartialSetsOnlyPresentFields(t *testing.T) {
	patch, err := ValidatePartial([]byte(`{"year":1999,"genre":["Comedy"],"unknown":"x","id":"nope"}`))
	if err != nil {
		t.Fatalf("validate partial: %v", err)
	}
	if patch.Year == nil || *patch.Year != 1999 {
		t.Fatalf("year = %v", patch.Year)
	}
	if !patch.HasGenre || !reflect.DeepEqual(patch.Genre, []domain.Genre{domain.GenreComedy}) {
		t.Fatalf("genre = %v (present=%v)", patch.Genre, patch.HasGenre)
	}
	if patch.Title != nil || patch.Director != nil || patch.Duration != nil || patch.Poster != nil || patch.Rate != nil {
		t.Fatalf("unexpected fields set: %+v", patch)
	}
}

func TestValidatePartialUsesSameConstraints(t *testing.T) {
	tests := []struct {
		input string
		field string
	}{
		{`{"year":1899}`, "year"},
		{`{"genre":[]}`, "genre"},
		{`{"poster":"not-a-url"}`, "poster"},
		{`{"rate":null}`, "rate"},
		{`{"title":""}`, "title"},
	}
	for _, tc := range tests {
		_, err := ValidatePartial([]byte(tc.input))
		ferrs := asFieldErrors(t, err)
		if !ferrs.Has(tc.field) {
			t.Fatalf("input %s: expected error on %q, got %v", tc.input, tc.field, ferrs.Fields())
		}
	}
}

func TestFieldNamesFollowSchemaOrder(t *testing.T) {
	want := []string{"title", "year", "director", "duration", "poster", "genre", "rate"}
	if got := FieldNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("FieldNames() = %v, want %v", got, want)
	}
}

func asFieldErrors(t *testing.T, err error) *FieldErrors {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ferrs *FieldErrors
	if !errors.As(err, &ferrs) {
		t.Fatalf("expected *FieldErrors, got %T", err)
	}
	return ferrs
}

// withField returns validMovie with field replaced by the raw JSON value.
func withField(t *testing.T, field, value string) []byte {
	t.Helper()
	base := map[string]string{
		"title":    `"X"`,
		"year":     `2020`,
		"director": `"D"`,
		"duration": `100`,
		"poster":   `"http://p/x.jpg"`,
		"genre":    `["Drama"]`,
		"rate":     `7.5`,
	}
	if _, ok := base[field]; !ok {
		t.Fatalf("unknown field %q", field)
	}
	base[field] = value
	out := []byte("{")
	for i, name := range FieldNames() {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '"')
		out = append(out, name...)
		out = append(out, `":`...)
		out = append(out, base[name]...)
	}
	return append(out, '}')
}
