// Package validation checks candidate records against the JSON schema of
// their record kind before they are written.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"dealer_reviews/internal/domain"
)

type Kind string

const (
	KindDealership      Kind = "dealership"
	KindReview          Kind = "review"
	KindReviewCandidate Kind = "review_candidate"
)

var schemas = map[Kind]*gojsonschema.Schema{
	KindDealership:      mustSchema(dealershipSchema),
	KindReview:          mustSchema(reviewSchema),
	KindReviewCandidate: mustSchema(reviewCandidateSchema),
}

func mustSchema(s string) *gojsonschema.Schema {
	sc, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return sc
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every problem found in one record. It matches domain.ErrValidation.
type Error struct {
	Kind   Kind
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() error { return domain.ErrValidation }

// Has reports whether field is among the rejected fields.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validate checks a JSON document against the schema for kind.
func Validate(kind Kind, doc []byte) error {
	return validate(kind, gojsonschema.NewBytesLoader(doc))
}

// ValidateValue checks an already decoded value (maps, slices, primitives).
func ValidateValue(kind Kind, v any) error {
	return validate(kind, gojsonschema.NewGoLoader(v))
}

func validate(kind Kind, doc gojsonschema.JSONLoader) error {
	sc, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("unknown record kind %q", kind)
	}
	res, err := sc.Validate(doc)
	if err != nil {
		// unparsable input
		return &Error{Kind: kind, Fields: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if res.Valid() {
		return nil
	}
	out := &Error{Kind: kind}
	for _, d := range res.Errors() {
		out.Fields = append(out.Fields, FieldError{Field: fieldOf(d), Message: d.Description()})
	}
	return out
}

// fieldOf names the offending property; required errors are reported on the
// parent object by gojsonschema.
func fieldOf(d gojsonschema.ResultError) string {
	if d.Type() == "required" {
		if p, ok := d.Details()["property"].(string); ok {
			return p
		}
	}
	return d.Field()
}
