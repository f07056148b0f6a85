package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Dealership struct {
	ID        int64  `json:"id" bson:"id"`
	City      string `json:"city" bson:"city"`
	State     string `json:"state" bson:"state"`
	Address   string `json:"address" bson:"address"`
	Zip       Text   `json:"zip" bson:"zip"`
	Lat       Text   `json:"lat" bson:"lat"`
	Long      Text   `json:"long" bson:"long"`
	ShortName string `json:"short_name,omitempty" bson:"short_name,omitempty"`
	FullName  string `json:"full_name" bson:"full_name"`
}

// DealershipFilter narrows ListDealerships. A nil State matches every record.
type DealershipFilter struct {
	State *string
}

// Text is a string that also decodes from a bare JSON number, keeping the
// number's exact source text (seed files carry lat/long as numbers).
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("text field: expected string or number, got %s", b)
	}
	*t = Text(n.String())
	return nil
}
