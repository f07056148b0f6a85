package domain

type Review struct {
	ID           int64  `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	Dealership   int64  `json:"dealership" bson:"dealership"`
	Review       string `json:"review" bson:"review"`
	Purchase     bool   `json:"purchase" bson:"purchase"`
	PurchaseDate string `json:"purchase_date" bson:"purchase_date"`
	CarMake      string `json:"car_make" bson:"car_make"`
	CarModel     string `json:"car_model" bson:"car_model"`
	CarYear      int    `json:"car_year" bson:"car_year"`
}

// NewReview is a validated review candidate waiting for its id.
type NewReview struct {
	Name         string `json:"name"`
	Dealership   int64  `json:"dealership"`
	Review       string `json:"review"`
	Purchase     bool   `json:"purchase"`
	PurchaseDate string `json:"purchase_date"`
	CarMake      string `json:"car_make"`
	CarModel     string `json:"car_model"`
	CarYear      int    `json:"car_year"`
}

// WithID completes the candidate into a stored record.
func (n NewReview) WithID(id int64) Review {
	return Review{
		ID:           id,
		Name:         n.Name,
		Dealership:   n.Dealership,
		Review:       n.Review,
		Purchase:     n.Purchase,
		PurchaseDate: n.PurchaseDate,
		CarMake:      n.CarMake,
		CarModel:     n.CarModel,
		CarYear:      n.CarYear,
	}
}

// MaxReviewID returns the largest id in rs, or 0 when rs is empty.
func MaxReviewID(rs []Review) int64 {
	var top int64
	for _, r := range rs {
		if r.ID > top {
			top = r.ID
		}
	}
	return top
}
