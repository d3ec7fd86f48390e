package types

import (
	"time"

	"gorm.io/gorm"
)

// Account roles
const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
)

// Listing statuses
const (
	ListingStatusActive  = "active"
	ListingStatusSold    = "sold"
	ListingStatusExpired = "expired"
)

// Bid statuses. Transitions from active to won/lost are owned by an
// external settlement process and never happen inside this API.
const (
	BidStatusActive = "active"
	BidStatusWon    = "won"
	BidStatusLost   = "lost"
)

// Crop categories accepted on listing creation
var Categories = []string{
	"Cereals", "Pulses", "Oilseeds", "Cotton", "Sugarcane",
	"Spices", "Vegetables", "Fruits", "Other",
}

// Quantity units
var Units = []string{"Kg", "Qt", "Ton", "Bag"}

const DefaultUnit = "Qt"

const PlaceholderImageURL = "https://via.placeholder.com/300x200?text=Crop+Image"

type Account struct {
	gorm.Model    `json:"-"`
	AccountID     string    `gorm:"uniqueIndex" json:"account_id"`
	Name          string    `json:"name"`
	Mobile        string    `gorm:"uniqueIndex" json:"mobile"`
	Email         string    `json:"email,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"` // farmer or buyer
	Location      string    `json:"location"`
	WalletBalance float64   `json:"wallet_balance"`
	Rating        float64   `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Listing struct {
	gorm.Model   `json:"-"`
	ListingID    string  `gorm:"uniqueIndex" json:"listing_id"`
	FarmerID     string  `gorm:"index" json:"farmer_id"`
	CropName     string  `json:"crop_name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	BasePrice    float64 `json:"base_price"`
	ImageURL     string  `json:"image_url"`
	Grade        string  `json:"grade"` // A, B, C or N/A
	QualityScore int     `json:"quality_score"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	Status       string  `json:"status"` // active, sold, expired

	// Denormalized bid aggregates, owned by the bidding service.
	// CurrentBid of 0 means no bids yet.
	CurrentBid    float64 `json:"current_bid"`
	BidCount      int     `json:"bid_count"`
	HighestBidder string  `json:"highest_bidder,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bid is an immutable ledger entry. Amount never changes once written.
type Bid struct {
	gorm.Model `json:"-"`
	BidID      string    `gorm:"uniqueIndex" json:"bid_id"`
	ListingID  string    `gorm:"index" json:"listing_id"`
	BidderID   string    `gorm:"index" json:"bidder_id"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"` // active, won, lost
	CreatedAt  time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the accepted account roles.
func ValidRole(role string) bool {
	return role == RoleFarmer || role == RoleBuyer
}

// ValidCategory reports whether category is an accepted crop category.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
