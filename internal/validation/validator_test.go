package validation_test

import (
	"errors"
	"testing"

	"dealer_reviews/internal/domain"
	"dealer_reviews/internal/validation"
)

const validCandidate = `{
	"name": "Berkly Shepley",
	"dealership": 15,
	"review": "Total grid-enabled service-desk",
	"purchase": true,
	"purchase_date": "07/11/2020",
	"car_make": "Audi",
	"car_model": "A6",
	"car_year": 2010
}`

func TestValidate_ReviewCandidate(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		wantBad string // field expected in the error, "" means valid
	}{
		{"valid", validCandidate, ""},
		{"client id ignored", `{"id": 7, "name": "a", "dealership": 1, "review": "r", "purchase": false,
			"purchase_date": "", "car_make": "m", "car_model": "x", "car_year": 2001}`, ""},
		{"missing car_year", `{"name": "a", "dealership": 1, "review": "r", "purchase": false,
			"purchase_date": "d", "car_make": "m", "car_model": "x"}`, "car_year"},
		{"car_year not numeric", `{"name": "a", "dealership": 1, "review": "r", "purchase": false,
			"purchase_date": "d", "car_make": "m", "car_model": "x", "car_year": "2001"}`, "car_year"},
		{"purchase not boolean", `{"name": "a", "dealership": 1, "review": "r", "purchase": "yes",
			"purchase_date": "d", "car_make": "m", "car_model": "x", "car_year": 2001}`, "purchase"},
		{"dealership fractional", `{"name": "a", "dealership": 1.5, "review": "r", "purchase": true,
			"purchase_date": "d", "car_make": "m", "car_model": "x", "car_year": 2001}`, "dealership"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validation.Validate(validation.KindReviewCandidate, []byte(tc.doc))
			if tc.wantBad == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *validation.Error, got %v", err)
			}
			if !verr.Has(tc.wantBad) {
				t.Fatalf("expected %s in %v", tc.wantBad, verr.Fields)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := validation.Validate(validation.KindReviewCandidate, []byte(`{"name": `))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidate_ReviewRequiresID(t *testing.T) {
	if err := validation.Validate(validation.KindReview, []byte(validCandidate)); err == nil {
		t.Fatalf("expected missing id to be rejected")
	}
}

func TestValidateValue_Dealership(t *testing.T) {
	d := map[string]any{
		"id": 5, "city": "Los Angeles", "state": "California", "address": "1 Main St",
		"zip": "90001", "lat": 34.05, "long": "-118.24", "full_name": "Best Motors",
	}
	if err := validation.ValidateValue(validation.KindDealership, d); err != nil {
		t.Fatalf("short_name is optional, got %v", err)
	}

	delete(d, "full_name")
	err := validation.ValidateValue(validation.KindDealership, d)
	var verr *validation.Error
	if !errors.As(err, &verr) || !verr.Has("full_name") {
		t.Fatalf("expected full_name rejection, got %v", err)
	}
}
