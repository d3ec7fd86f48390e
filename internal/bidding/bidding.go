package bidding

import (
	"time"

	"github.com/google/uuid"
	"github.com/kisaansetu/mandi-api/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Config controls bid placement behavior
type Config struct {
	// SerializePerListing wraps the whole load-validate-write sequence
	// of PlaceBid in a per-listing mutex. Off by default: concurrent
	// bids on the same listing then race on the aggregate fields, and
	// the last write wins regardless of amount.
	SerializePerListing bool
}

// Service handles bid placement and bid queries
type Service struct {
	db    *Database
	cfg   Config
	locks *listingLocks
}

// NewService creates a new bidding service with the given database connection
func NewService(gormDB *gorm.DB, cfg Config) *Service {
	return &Service{
		db:    NewDatabase(gormDB),
		cfg:   cfg,
		locks: newListingLocks(),
	}
}

// PlaceBid validates and records a bid, then updates the listing's
// denormalized aggregates. The minimum acceptable amount is the base
// price when the listing has no bids, otherwise one rupee above the
// current highest bid. The bidder's wallet balance must cover the
// amount but is not debited; funds are settled outside this service.
// No write happens until every check has passed.
func (s *Service) PlaceBid(listingID, bidderID string, amount float64) (*types.Bid, error) {
	if listingID == "" || bidderID == "" || amount <= 0 {
		return nil, ErrMissingFields
	}

	if s.cfg.SerializePerListing {
		unlock := s.locks.lock(listingID)
		defer unlock()
	}

	listing, err := s.db.GetListing(listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	minimumBid := listing.BasePrice
	if listing.CurrentBid > 0 {
		minimumBid = listing.CurrentBid + 1
	}
	if amount < minimumBid {
		return nil, &BidTooLowError{Minimum: minimumBid}
	}

	bidder, err := s.db.GetAccount(bidderID)
	if err != nil {
		return nil, err
	}
	if bidder == nil {
		return nil, ErrAccountNotFound
	}
	if bidder.WalletBalance < amount {
		return nil, &InsufficientFundsError{Balance: bidder.WalletBalance}
	}

	bid := &types.Bid{
		BidID:     uuid.New().String(),
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    amount,
		Status:    types.BidStatusActive,
		CreatedAt: time.Now(),
	}
	if err := s.db.CreateBid(bid); err != nil {
		return nil, err
	}

	listing.CurrentBid = amount
	listing.BidCount++
	listing.HighestBidder = bidderID
	listing.UpdatedAt = time.Now()
	if err := s.db.UpdateListing(listing); err != nil {
		return nil, err
	}

	log.Info().
		Str("component", "bidding").
		Str("listing_id", listingID).
		Str("bidder_id", bidderID).
		Float64("amount", amount).
		Int("bid_count", listing.BidCount).
		Msg("bid placed")

	return bid, nil
}

// GetBidsForListing returns all bids on a listing, highest amount
// first. An empty result is not an error.
func (s *Service) GetBidsForListing(listingID string) ([]types.Bid, error) {
	return s.db.GetBidsByListing(listingID)
}

// GetBidsForAccount returns all bids placed by an account, newest first
func (s *Service) GetBidsForAccount(accountID string) ([]types.Bid, error) {
	return s.db.GetBidsByAccount(accountID)
}

// GetHighestBid returns the highest bid on a listing, or nil when the
// listing has no bids
func (s *Service) GetHighestBid(listingID string) (*types.Bid, error) {
	return s.db.GetHighestBid(listingID)
}

// RecomputeAggregates rebuilds the listing's denormalized bid fields
// from the ledger. The ledger is the source of truth; this is the
// repair path when the aggregates have drifted (for example after
// racing concurrent bids with serialization off).
func (s *Service) RecomputeAggregates(listingID string) (*types.Listing, error) {
	if s.cfg.SerializePerListing {
		unlock := s.locks.lock(listingID)
		defer unlock()
	}

	listing, err := s.db.GetListing(listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	count, err := s.db.CountBids(listingID)
	if err != nil {
		return nil, err
	}

	highest, err := s.db.GetHighestBid(listingID)
	if err != nil {
		return nil, err
	}

	listing.BidCount = int(count)
	if highest == nil {
		listing.CurrentBid = 0
		listing.HighestBidder = ""
	} else {
		listing.CurrentBid = highest.Amount
		listing.HighestBidder = highest.BidderID
	}
	listing.UpdatedAt = time.Now()

	if err := s.db.UpdateListing(listing); err != nil {
		return nil, err
	}
	return listing, nil
}
