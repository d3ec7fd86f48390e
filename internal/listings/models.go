package listings

// CreateListingRequest carries the fields for a new crop listing.
// Name, category, quantity, base price and location are required.
type CreateListingRequest struct {
	CropName    string  `json:"crop_name"`
	Category    string  `json:"category"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	BasePrice   float64 `json:"base_price"`
	ImageURL    string  `json:"image_url"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
}

// UpdateListingRequest carries the mutable listing fields. Zero values
// leave the stored field unchanged.
type UpdateListingRequest struct {
	CropName    string  `json:"crop_name"`
	Category    string  `json:"category"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	BasePrice   float64 `json:"base_price"`
	ImageURL    string  `json:"image_url"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
}

// Filter narrows the active-listing catalogue query
type Filter struct {
	Category string
	Location string
	MinPrice float64
	MaxPrice float64
	Search   string
}
