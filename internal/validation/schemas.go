package validation

const dealershipSchema = `{
  "type": "object",
  "required": ["id", "city", "state", "address", "zip", "lat", "long", "full_name"],
  "properties": {
    "id":         {"type": "integer"},
    "city":       {"type": "string"},
    "state":      {"type": "string"},
    "address":    {"type": "string"},
    "zip":        {"type": ["string", "number"]},
    "lat":        {"type": ["string", "number"]},
    "long":       {"type": ["string", "number"]},
    "short_name": {"type": "string"},
    "full_name":  {"type": "string"}
  }
}`

// reviewCandidateSchema is a review as posted by a client; id is assigned
// by the store and ignored if present.
const reviewCandidateSchema = `{
  "type": "object",
  "required": ["name", "dealership", "review", "purchase", "purchase_date", "car_make", "car_model", "car_year"],
  "properties": {
    "name":          {"type": "string"},
    "dealership":    {"type": "integer"},
    "review":        {"type": "string"},
    "purchase":      {"type": "boolean"},
    "purchase_date": {"type": "string"},
    "car_make":      {"type": "string"},
    "car_model":     {"type": "string"},
    "car_year":      {"type": "integer"}
  }
}`

const reviewSchema = `{
  "allOf": [
    ` + reviewCandidateSchema + `,
    {"type": "object", "required": ["id"], "properties": {"id": {"type": "integer"}}}
  ]
}`
