package listings

import (
	"errors"

	"github.com/kisaansetu/mandi-api/internal/types"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateListing(listing *types.Listing) error {
	return d.db.Create(listing).Error
}

func (d *Database) GetListing(listingID string) (*types.Listing, error) {
	var listing types.Listing
	if err := d.db.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (d *Database) UpdateListing(listing *types.Listing) error {
	return d.db.Save(listing).Error
}

func (d *Database) DeleteListing(listing *types.Listing) error {
	return d.db.Delete(listing).Error
}

// GetActiveListings returns active listings matching the filter,
// newest first
func (d *Database) GetActiveListings(filter Filter) ([]types.Listing, error) {
	query := d.db.Where("status = ?", types.ListingStatusActive)

	if filter.Category != "" && filter.Category != "All" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Location != "" && filter.Location != "All" {
		query = query.Where("location LIKE ?", "%"+filter.Location+"%")
	}
	if filter.MinPrice > 0 {
		query = query.Where("base_price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("base_price <= ?", filter.MaxPrice)
	}
	if filter.Search != "" {
		query = query.Where("crop_name LIKE ?", "%"+filter.Search+"%")
	}

	var listings []types.Listing
	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// GetFarmerListings returns every listing owned by the farmer, newest first
func (d *Database) GetFarmerListings(farmerID string) ([]types.Listing, error) {
	var listings []types.Listing
	err := d.db.Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
