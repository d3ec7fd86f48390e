package migrations

import (
	"github.com/kisaansetu/mandi-api/internal/types"
	"gorm.io/gorm"
)

// BackfillListingAggregates repairs the denormalized bid aggregates on
// listings created before the aggregate columns existed. The bid ledger
// is the source of truth: bid_count is the number of ledger entries and
// current_bid/highest_bidder come from the highest of them.
func BackfillListingAggregates(db *gorm.DB) error {
	var listings []types.Listing
	if err := db.Where("bid_count = ?", 0).Find(&listings).Error; err != nil {
		return err
	}

	for i := range listings {
		listing := &listings[i]

		var count int64
		if err := db.Model(&types.Bid{}).Where("listing_id = ?", listing.ListingID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			continue
		}

		var highest types.Bid
		err := db.Where("listing_id = ?", listing.ListingID).
			Order("amount DESC").
			Order("created_at DESC").
			First(&highest).Error
		if err != nil {
			return err
		}

		listing.BidCount = int(count)
		listing.CurrentBid = highest.Amount
		listing.HighestBidder = highest.BidderID
		if err := db.Save(listing).Error; err != nil {
			return err
		}
	}

	return nil
}
