package schema

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// FieldErrors collects every field that failed validation, in schema order.
type FieldErrors struct {
	errs []FieldError
}

// Fields returns a copy of the collected errors.
func (e *FieldErrors) Fields() []FieldError {
	if e == nil {
		return nil
	}
	out := make([]FieldError, len(e.errs))
	copy(out, e.errs)
	return out
}

// Has reports whether field has at least one error.
func (e *FieldErrors) Has(field string) bool {
	if e == nil {
		return false
	}
	for _, fe := range e.errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Tag returns the first failing tag recorded for field.
func (e *FieldErrors) Tag(field string) string {
	if e == nil {
		return ""
	}
	for _, fe := range e.errs {
		if fe.Field == field {
			return fe.Tag
		}
	}
	return ""
}

func (e *FieldErrors) Error() string {
	if e == nil || len(e.errs) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.errs))
	for _, fe := range e.errs {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *FieldErrors) add(field, tag, msg string) {
	e.errs = append(e.errs, FieldError{Field: field, Tag: tag, Message: msg})
}

func (e *FieldErrors) empty() bool {
	return len(e.errs) == 0
}

var typeNames = map[kind]string{
	kindString: "a string",
	kindInt:    "an integer",
	kindNumber: "a number",
	kindGenres: "an array of strings",
}

var paramTemplates = map[string]string{
	"gte": "%s must be greater than or equal to %s",
	"lte": "%s must be less than or equal to %s",
	"gt":  "%s must be greater than %s",
	"lt":  "%s must be less than %s",
}

// translate turns a validator failure into a message scoped to field.
func translate(r rule, fe validator.FieldError) string {
	tag := fe.Tag()
	if tmpl, ok := paramTemplates[tag]; ok {
		return fmt.Sprintf(tmpl, r.field, fe.Param())
	}
	switch tag {
	case "url":
		return fmt.Sprintf("%s must be a valid URL", r.field)
	case "oneof":
		return fmt.Sprintf("%s contains unknown genre %q; allowed: %s",
			r.field, fmt.Sprint(fe.Value()), strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		if r.kind == kindGenres {
			return fmt.Sprintf("%s must contain at least %s item(s)", r.field, fe.Param())
		}
		return fmt.Sprintf("%s must not be empty", r.field)
	}
	return fmt.Sprintf("%s failed %s validation", r.field, tag)
}

func requiredMessage(field string) string {
	return field + " is required"
}

func typeMessage(r rule) string {
	return fmt.Sprintf("%s must be %s", r.field, typeNames[r.kind])
}
