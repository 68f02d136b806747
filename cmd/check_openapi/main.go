package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"moviecatalog/pkg/domain"
	"moviecatalog/pkg/schema"
)

type openAPIDoc struct {
	Components struct {
		Schemas map[string]schemaDoc `yaml:"schemas"`
	} `yaml:"components"`
}

type schemaDoc struct {
	Type       string               `yaml:"type"`
	Ref        string               `yaml:"$ref"`
	Enum       []string             `yaml:"enum"`
	Properties map[string]schemaDoc `yaml:"properties"`
	Required   []string             `yaml:"required"`
	Items      *schemaDoc           `yaml:"items"`
}

const genreRef = "#/components/schemas/Genre"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <openapi.yaml>\n", os.Args[0])
		os.Exit(2)
	}
	if err := run(os.Args[1]); err != nil {
		exitErr(err)
	}
	fmt.Println("OpenAPI consistency check passed.")
}

func run(path string) error {
	doc, err := loadDoc(path)
	if err != nil {
		return err
	}
	return checkDoc(doc)
}

func checkDoc(doc openAPIDoc) error {
	genre, err := getSchema(doc, "Genre")
	if err != nil {
		return err
	}
	if err := validateGenre(genre); err != nil {
		return err
	}

	fields := schema.FieldNames()
	input, err := getSchema(doc, "MovieInput")
	if err != nil {
		return err
	}
	if err := validateMovieShape("MovieInput", input, fields); err != nil {
		return err
	}
	movie, err := getSchema(doc, "Movie")
	if err != nil {
		return err
	}
	if err := validateMovieShape("Movie", movie, append([]string{"id"}, fields...)); err != nil {
		return err
	}
	patch, err := getSchema(doc, "MoviePatch")
	if err != nil {
		return err
	}
	if len(patch.Required) != 0 {
		return fmt.Errorf("MoviePatch must not require fields, got %v", patch.Required)
	}
	if err := ensureProperties("MoviePatch", patch, fields); err != nil {
		return err
	}

	errResp, err := getSchema(doc, "ErrorResponse")
	if err != nil {
		return err
	}
	if err := validateErrorResponse(errResp); err != nil {
		return err
	}
	validation, err := getSchema(doc, "ValidationError")
	if err != nil {
		return err
	}
	return validateValidationError(validation)
}

func loadDoc(path string) (openAPIDoc, error) {
	var doc openAPIDoc
	raw, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func getSchema(doc openAPIDoc, name string) (schemaDoc, error) {
	if doc.Components.Schemas == nil {
		return schemaDoc{}, errors.New("components.schemas missing")
	}
	s, ok := doc.Components.Schemas[name]
	if !ok {
		return schemaDoc{}, fmt.Errorf("schema %q missing", name)
	}
	return s, nil
}

func validateGenre(s schemaDoc) error {
	if s.Type != "string" {
		return errors.New("Genre must be string")
	}
	want := make([]string, len(domain.Genres))
	for i, g := range domain.Genres {
		want[i] = string(g)
	}
	if !sameSet(s.Enum, want) {
		return fmt.Errorf("Genre enum mismatch: %v vs %v", s.Enum, want)
	}
	return nil
}

// validateMovieShape checks that required equals fields exactly and that the
// genre property is an array of Genre.
func validateMovieShape(name string, s schemaDoc, fields []string) error {
	if s.Type != "object" {
		return fmt.Errorf("%s must be object", name)
	}
	if !sameSet(s.Required, fields) {
		return fmt.Errorf("%s required mismatch: %v vs %v", name, s.Required, fields)
	}
	return ensureProperties(name, s, fields)
}

func ensureProperties(name string, s schemaDoc, fields []string) error {
	if len(s.Properties) != len(fields) {
		return fmt.Errorf("%s property count mismatch: %d vs %d", name, len(s.Properties), len(fields))
	}
	for _, field := range fields {
		if _, ok := s.Properties[field]; !ok {
			return fmt.Errorf("%s missing property %q", name, field)
		}
	}
	genre := s.Properties["genre"]
	if genre.Type != "array" || genre.Items == nil || strings.TrimSpace(genre.Items.Ref) != genreRef {
		return fmt.Errorf("%s.genre must be an array of Genre", name)
	}
	return nil
}

func validateErrorResponse(s schemaDoc) error {
	if s.Type != "object" {
		return errors.New("ErrorResponse must be object")
	}
	required := makeSet(s.Required)
	for _, field := range []string{"error", "code"} {
		if !required[field] {
			return fmt.Errorf("ErrorResponse.required must include %q", field)
		}
	}
	for _, field := range []string{"error", "code", "requestId"} {
		prop, ok := s.Properties[field]
		if !ok || prop.Type != "string" {
			return fmt.Errorf("ErrorResponse.%s must be string", field)
		}
	}
	return nil
}

func validateValidationError(s schemaDoc) error {
	if s.Type != "object" {
		return errors.New("ValidationError must be object")
	}
	if !makeSet(s.Required)["fields"] {
		return errors.New("ValidationError.required must include \"fields\"")
	}
	fields, ok := s.Properties["fields"]
	if !ok || fields.Type != "array" {
		return errors.New("ValidationError.fields must be array")
	}
	if fields.Items == nil || strings.TrimSpace(fields.Items.Ref) != "#/components/schemas/FieldError" {
		return errors.New("ValidationError.fields.items must reference FieldError")
	}
	return nil
}

func sameSet(left, right []string) bool {
	l := append([]string(nil), left...)
	r := append([]string(nil), right...)
	sort.Strings(l)
	sort.Strings(r)
	return strings.Join(l, ",") == strings.Join(r, ",")
}

func makeSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out[item] = true
	}
	return out
}

func exitErr(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
