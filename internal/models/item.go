package models

// Item is a product sold on hire purchase. Its total price is expressed in
// boxes: Price = BoxValue * TotalBoxes. Price is always recomputed on save,
// never taken from manual entry.
type Item struct {
	ID         string  `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	BoxValue   float64 `db:"box_value" json:"boxValue"`
	TotalBoxes int     `db:"total_boxes" json:"totalBoxes"`
	Price      float64 `db:"price" json:"price"`
	ImageURL   string  `db:"image_url" json:"imageUrl,omitempty"`
}
