package bidding

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

func (d *Database) GetAccount(accountID string) (*types.Account, error) {
	var account types.Account
	if err := d.db.Where("account_id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (d *Database) CreateBid(bid *types.Bid) error {
	return d.db.Create(bid).Error
}

func (d *Database) UpdateListing(listing *types.Listing) error {
	return d.db.Save(listing).Error
}

// GetBidsByListing returns the listing's ledger entries, highest
// amount first. Ties resolve oldest first so the order is stable.
func (d *Database) GetBidsByListing(listingID string) ([]types.Bid, error) {
	var bids []types.Bid
	err := d.db.Where("listing_id = ?", listingID).
		Order("amount DESC").
		Order("created_at ASC").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// GetBidsByAccount returns the account's ledger entries, newest first
func (d *Database) GetBidsByAccount(accountID string) ([]types.Bid, error) {
	var bids []types.Bid
	err := d.db.Where("bidder_id = ?", accountID).
		Order("created_at DESC").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// GetHighestBid returns the bid with the greatest amount for the
// listing, or nil when no bids exist
func (d *Database) GetHighestBid(listingID string) (*types.Bid, error) {
	var bid types.Bid
	err := d.db.Where("listing_id = ?", listingID).
		Order("amount DESC").
		Order("created_at DESC").
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bid, nil
}

// CountBids returns the number of ledger entries for the listing
func (d *Database) CountBids(listingID string) (int64, error) {
	var count int64
	err := d.db.Model(&types.Bid{}).Where("listing_id = ?", listingID).Count(&count).Error
	return count, err
}
