package bidding

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kisaansetu/mandi-api/pkg/response"
)

// PlaceBidRequest carries a bid submission. The bidder comes from the
// authenticated session, not the body.
type PlaceBidRequest struct {
	ListingID string  `json:"listing_id"`
	Amount    float64 `json:"amount"`
}

// GinHandlers contains HTTP handlers for bidding endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for bidding endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// PlaceBidHandler handles POST requests to place a bid.
// Requires a valid JWT token; the bidder ID comes from the session.
func (h *GinHandlers) PlaceBidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID := c.GetString("userID")
		if bidderID == "" {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		var req PlaceBidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		bid, err := h.service.PlaceBid(req.ListingID, bidderID, req.Amount)

		var tooLow *BidTooLowError
		var noFunds *InsufficientFundsError
		switch {
		case errors.Is(err, ErrMissingFields):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrListingNotFound), errors.Is(err, ErrAccountNotFound):
			response.NotFound(c, err.Error())
		case errors.As(err, &tooLow):
			response.ErrorWithCode(c, http.StatusBadRequest, response.ErrCodeBidTooLow, tooLow.Error())
		case errors.As(err, &noFunds):
			response.ErrorWithCode(c, http.StatusBadRequest, response.ErrCodeInsufficientFunds, noFunds.Error())
		default:
			response.Handle(c, bid, err)
		}
	}
}

// ListingBidsHandler handles GET requests for all bids on a listing,
// highest amount first
func (h *GinHandlers) ListingBidsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bids, err := h.service.GetBidsForListing(c.Param("listing_id"))
		response.Handle(c, bids, err)
	}
}

// HighestBidHandler handles GET requests for the highest bid on a
// listing. Responds with null data when the listing has no bids.
func (h *GinHandlers) HighestBidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bid, err := h.service.GetHighestBid(c.Param("listing_id"))
		response.Handle(c, bid, err)
	}
}

// MyBidsHandler handles GET requests for the authenticated account's
// bids, newest first
func (h *GinHandlers) MyBidsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID := c.GetString("userID")
		if bidderID == "" {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		bids, err := h.service.GetBidsForAccount(bidderID)
		response.Handle(c, bids, err)
	}
}

// RecomputeHandler handles POST requests to rebuild a listing's bid
// aggregates from the ledger. Internal use only.
func (h *GinHandlers) RecomputeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := h.service.RecomputeAggregates(c.Param("listing_id"))
		if errors.Is(err, ErrListingNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Handle(c, listing, err)
	}
}
