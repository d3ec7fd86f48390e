package listings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kisaansetu/mandi-api/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fixedGrader returns a constant grade so tests are deterministic
type fixedGrader struct{}

func (fixedGrader) Grade(_ *types.Listing) (string, int, error) {
	return "A", 92, nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.Account{}, &types.Listing{}, &types.Bid{}))
	return NewService(db, fixedGrader{}), db
}

func validRequest() CreateListingRequest {
	return CreateListingRequest{
		CropName:  "Wheat",
		Category:  "Cereals",
		Quantity:  25,
		BasePrice: 1200,
		Location:  "Karnal",
	}
}

func TestCreateListing(t *testing.T) {
	service, _ := newTestService(t)
	farmerID := uuid.New().String()

	t.Run("defaults", func(t *testing.T) {
		listing, err := service.CreateListing(farmerID, validRequest())
		require.NoError(t, err)

		require.NotEmpty(t, listing.ListingID)
		require.Equal(t, farmerID, listing.FarmerID)
		require.Equal(t, types.ListingStatusActive, listing.Status)
		require.Equal(t, types.DefaultUnit, listing.Unit)
		require.Equal(t, types.PlaceholderImageURL, listing.ImageURL)
		require.Equal(t, float64(0), listing.CurrentBid)
		require.Equal(t, 0, listing.BidCount)
		require.Empty(t, listing.HighestBidder)

		// Grade comes from the injected grader
		require.Equal(t, "A", listing.Grade)
		require.Equal(t, 92, listing.QualityScore)
	})

	t.Run("missing_required_fields", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*CreateListingRequest)
		}{
			{"no_name", func(r *CreateListingRequest) { r.CropName = "" }},
			{"no_category", func(r *CreateListingRequest) { r.Category = "" }},
			{"no_quantity", func(r *CreateListingRequest) { r.Quantity = 0 }},
			{"no_base_price", func(r *CreateListingRequest) { r.BasePrice = 0 }},
			{"no_location", func(r *CreateListingRequest) { r.Location = "" }},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				req := validRequest()
				tc.mutate(&req)
				_, err := service.CreateListing(farmerID, req)
				require.ErrorIs(t, err, ErrMissingFields)
			})
		}
	})

	t.Run("invalid_category", func(t *testing.T) {
		req := validRequest()
		req.Category = "Electronics"
		_, err := service.CreateListing(farmerID, req)
		require.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestGetListings(t *testing.T) {
	service, db := newTestService(t)
	farmerID := uuid.New().String()

	seed := []struct {
		crop     string
		category string
		price    float64
		location string
	}{
		{"Wheat", "Cereals", 1000, "Karnal"},
		{"Rice", "Cereals", 2000, "Guntur"},
		{"Turmeric", "Spices", 5000, "Guntur"},
		{"Onion", "Vegetables", 800, "Nashik"},
	}
	for i, s := range seed {
		listing, err := service.CreateListing(farmerID, CreateListingRequest{
			CropName:  s.crop,
			Category:  s.category,
			Quantity:  10,
			BasePrice: s.price,
			Location:  s.location,
		})
		require.NoError(t, err)

		// Space the creation times out so ordering is deterministic
		require.NoError(t, db.Model(&types.Listing{}).
			Where("listing_id = ?", listing.ListingID).
			Update("created_at", time.Date(2026, 3, 1, 10, i, 0, 0, time.UTC)).Error)
	}

	// A sold listing never shows in the catalogue
	sold, err := service.CreateListing(farmerID, validRequest())
	require.NoError(t, err)
	require.NoError(t, db.Model(&types.Listing{}).
		Where("listing_id = ?", sold.ListingID).
		Update("status", types.ListingStatusSold).Error)

	t.Run("no_filter_newest_first", func(t *testing.T) {
		listings, err := service.GetListings(Filter{})
		require.NoError(t, err)
		require.Len(t, listings, 4)
		require.Equal(t, "Onion", listings[0].CropName)
		require.Equal(t, "Wheat", listings[3].CropName)
	})

	t.Run("by_category", func(t *testing.T) {
		listings, err := service.GetListings(Filter{Category: "Cereals"})
		require.NoError(t, err)
		require.Len(t, listings, 2)
	})

	t.Run("category_all_is_no_filter", func(t *testing.T) {
		listings, err := service.GetListings(Filter{Category: "All"})
		require.NoError(t, err)
		require.Len(t, listings, 4)
	})

	t.Run("by_location", func(t *testing.T) {
		listings, err := service.GetListings(Filter{Location: "Guntur"})
		require.NoError(t, err)
		require.Len(t, listings, 2)
	})

	t.Run("by_price_range", func(t *testing.T) {
		listings, err := service.GetListings(Filter{MinPrice: 900, MaxPrice: 2500})
		require.NoError(t, err)
		require.Len(t, listings, 2)
	})

	t.Run("by_search", func(t *testing.T) {
		listings, err := service.GetListings(Filter{Search: "Turm"})
		require.NoError(t, err)
		require.Len(t, listings, 1)
		require.Equal(t, "Turmeric", listings[0].CropName)
	})
}

func TestUpdateListing(t *testing.T) {
	service, db := newTestService(t)
	ownerID := uuid.New().String()
	otherID := uuid.New().String()

	listing, err := service.CreateListing(ownerID, validRequest())
	require.NoError(t, err)

	t.Run("owner_can_update_without_bids", func(t *testing.T) {
		updated, err := service.UpdateListing(listing.ListingID, ownerID, UpdateListingRequest{
			BasePrice:   1500,
			Description: "freshly harvested",
		})
		require.NoError(t, err)
		require.Equal(t, float64(1500), updated.BasePrice)
		require.Equal(t, "freshly harvested", updated.Description)
		// Unset fields are left alone
		require.Equal(t, "Wheat", updated.CropName)
	})

	t.Run("non_owner_is_forbidden", func(t *testing.T) {
		_, err := service.UpdateListing(listing.ListingID, otherID, UpdateListingRequest{BasePrice: 1})
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("unknown_listing", func(t *testing.T) {
		_, err := service.UpdateListing("no-such-listing", ownerID, UpdateListingRequest{})
		require.ErrorIs(t, err, ErrListingNotFound)
	})

	t.Run("blocked_once_bids_exist", func(t *testing.T) {
		require.NoError(t, db.Model(&types.Listing{}).
			Where("listing_id = ?", listing.ListingID).
			Updates(map[string]interface{}{"bid_count": 1, "current_bid": 1500}).Error)

		_, err := service.UpdateListing(listing.ListingID, ownerID, UpdateListingRequest{BasePrice: 2000})
		require.ErrorIs(t, err, ErrListingHasBids)
	})
}

func TestDeleteListing(t *testing.T) {
	service, db := newTestService(t)
	ownerID := uuid.New().String()
	otherID := uuid.New().String()

	t.Run("owner_can_delete_without_bids", func(t *testing.T) {
		listing, err := service.CreateListing(ownerID, validRequest())
		require.NoError(t, err)

		require.NoError(t, service.DeleteListing(listing.ListingID, ownerID))

		_, err = service.GetListing(listing.ListingID)
		require.ErrorIs(t, err, ErrListingNotFound)
	})

	t.Run("non_owner_is_forbidden", func(t *testing.T) {
		listing, err := service.CreateListing(ownerID, validRequest())
		require.NoError(t, err)

		require.ErrorIs(t, service.DeleteListing(listing.ListingID, otherID), ErrNotOwner)
	})

	t.Run("blocked_once_bids_exist", func(t *testing.T) {
		listing, err := service.CreateListing(ownerID, validRequest())
		require.NoError(t, err)
		require.NoError(t, db.Model(&types.Listing{}).
			Where("listing_id = ?", listing.ListingID).
			Update("bid_count", 3).Error)

		require.ErrorIs(t, service.DeleteListing(listing.ListingID, ownerID), ErrListingHasBids)
	})

	t.Run("unknown_listing", func(t *testing.T) {
		require.ErrorIs(t, service.DeleteListing("no-such-listing", ownerID), ErrListingNotFound)
	})
}
