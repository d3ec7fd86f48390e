package listings

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kisaansetu/mandi-api/internal/grading"
	"github.com/kisaansetu/mandi-api/internal/types"
	"github.com/kisaansetu/mandi-api/pkg/response"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrMissingFields   = errors.New("required fields missing")
	ErrInvalidCategory = errors.New("invalid crop category")
	ErrListingNotFound = errors.New("listing not found")
	ErrNotOwner        = errors.New("not authorized to modify this listing")
	ErrListingHasBids  = errors.New("cannot modify listing with existing bids")
)

// Service handles listing lifecycle and catalogue queries
type Service struct {
	db     *Database
	grader grading.Grader
}

// NewService creates a new listings service. The grader assigns the
// quality grade on creation.
func NewService(gormDB *gorm.DB, grader grading.Grader) *Service {
	return &Service{
		db:     NewDatabase(gormDB),
		grader: grader,
	}
}

// CreateListing validates and stores a new crop listing for the
// farmer. New listings start active with no bids.
func (s *Service) CreateListing(farmerID string, req CreateListingRequest) (*types.Listing, error) {
	if req.CropName == "" || req.Category == "" || req.Quantity <= 0 || req.BasePrice <= 0 || req.Location == "" {
		return nil, ErrMissingFields
	}
	if !types.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	unit := req.Unit
	if unit == "" {
		unit = types.DefaultUnit
	}
	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = types.PlaceholderImageURL
	}

	listing := &types.Listing{
		ListingID:   uuid.New().String(),
		FarmerID:    farmerID,
		CropName:    strings.TrimSpace(req.CropName),
		Category:    req.Category,
		Quantity:    req.Quantity,
		Unit:        unit,
		BasePrice:   req.BasePrice,
		ImageURL:    imageURL,
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Status:      types.ListingStatusActive,
		CurrentBid:  0,
		BidCount:    0,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	grade, score, err := s.grader.Grade(listing)
	if err != nil {
		// A grading outage should not block listing creation
		log.Warn().Err(err).Str("listing_id", listing.ListingID).Msg("grading failed, listing without grade")
		grade, score = "N/A", 0
	}
	listing.Grade = grade
	listing.QualityScore = score

	if err := s.db.CreateListing(listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// GetListings returns active listings matching the filter
func (s *Service) GetListings(filter Filter) ([]types.Listing, error) {
	return s.db.GetActiveListings(filter)
}

// GetListing retrieves a single listing by its ID
func (s *Service) GetListing(listingID string) (*types.Listing, error) {
	listing, err := s.db.GetListing(listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// GetFarmerListings returns all listings owned by the farmer
func (s *Service) GetFarmerListings(farmerID string) ([]types.Listing, error) {
	return s.db.GetFarmerListings(farmerID)
}

// UpdateListing applies the mutable fields to a listing. Only the
// owning farmer may update, and only while the listing has no bids.
func (s *Service) UpdateListing(listingID, farmerID string, req UpdateListingRequest) (*types.Listing, error) {
	listing, err := s.db.GetListing(listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if listing.FarmerID != farmerID {
		return nil, ErrNotOwner
	}
	if listing.BidCount > 0 {
		return nil, ErrListingHasBids
	}

	if req.CropName != "" {
		listing.CropName = strings.TrimSpace(req.CropName)
	}
	if req.Category != "" {
		if !types.ValidCategory(req.Category) {
			return nil, ErrInvalidCategory
		}
		listing.Category = req.Category
	}
	if req.Quantity > 0 {
		listing.Quantity = req.Quantity
	}
	if req.Unit != "" {
		listing.Unit = req.Unit
	}
	if req.BasePrice > 0 {
		listing.BasePrice = req.BasePrice
	}
	if req.ImageURL != "" {
		listing.ImageURL = req.ImageURL
	}
	if req.Location != "" {
		listing.Location = strings.TrimSpace(req.Location)
	}
	if req.Description != "" {
		listing.Description = strings.TrimSpace(req.Description)
	}
	listing.UpdatedAt = time.Now()

	if err := s.db.UpdateListing(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing removes a listing. Only the owning farmer may delete,
// and only while the listing has no bids.
func (s *Service) DeleteListing(listingID, farmerID string) error {
	listing, err := s.db.GetListing(listingID)
	if err != nil {
		return err
	}
	if listing == nil {
		return ErrListingNotFound
	}
	if listing.FarmerID != farmerID {
		return ErrNotOwner
	}
	if listing.BidCount > 0 {
		return ErrListingHasBids
	}

	return s.db.DeleteListing(listing)
}

// GinHandlers contains HTTP handlers for listing endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for listing endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// CreateListingHandler handles POST requests to list a new crop.
// Requires a valid JWT token; the farmer ID comes from the session.
func (h *GinHandlers) CreateListingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		farmerID := c.GetString("userID")
		if farmerID == "" {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		var req CreateListingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		listing, err := h.service.CreateListing(farmerID, req)
		switch {
		case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidCategory):
			response.BadRequest(c, err.Error())
		default:
			response.Handle(c, listing, err)
		}
	}
}

// GetListingsHandler handles GET requests for the active-listing
// catalogue with optional query filters
func (h *GinHandlers) GetListingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := Filter{
			Category: c.Query("category"),
			Location: c.Query("location"),
			Search:   c.Query("search"),
		}
		if v := c.Query("min_price"); v != "" {
			if p, err := strconv.ParseFloat(v, 64); err == nil {
				filter.MinPrice = p
			}
		}
		if v := c.Query("max_price"); v != "" {
			if p, err := strconv.ParseFloat(v, 64); err == nil {
				filter.MaxPrice = p
			}
		}

		listings, err := h.service.GetListings(filter)
		response.Handle(c, listings, err)
	}
}

// GetListingHandler handles GET requests for a single listing
func (h *GinHandlers) GetListingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := h.service.GetListing(c.Param("listing_id"))
		if errors.Is(err, ErrListingNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Handle(c, listing, err)
	}
}

// GetFarmerListingsHandler handles GET requests for the authenticated
// farmer's own listings
func (h *GinHandlers) GetFarmerListingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		farmerID := c.GetString("userID")
		if farmerID == "" {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		listings, err := h.service.GetFarmerListings(farmerID)
		response.Handle(c, listings, err)
	}
}

// UpdateListingHandler handles PUT requests to edit a listing
func (h *GinHandlers) UpdateListingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		farmerID := c.GetString("userID")
		if farmerID == "" {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		var req UpdateListingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		listing, err := h.service.UpdateListing(c.Param("listing_id"), farmerID, req)
		switch {
		case errors.Is(err, ErrListingNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(c, err.Error())
		case errors.Is(err, ErrListingHasBids):
			response.Conflict(c, err.Error())
		case errors.Is(err, ErrInvalidCategory):
			response.BadRequest(c, err.Error())
		default:
			response.Handle(c, listing, err)
		}
	}
}

// DeleteListingHandler handles DELETE requests to remove a listing
func (h *GinHandlers) DeleteListingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		farmerID := c.GetString("userID")
		if farmerID == "" {
			response.Unauthorized(c, "Missing authentication claims")
			return
		}

		err := h.service.DeleteListing(c.Param("listing_id"), farmerID)
		switch {
		case errors.Is(err, ErrListingNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(c, err.Error())
		case errors.Is(err, ErrListingHasBids):
			response.Conflict(c, err.Error())
		default:
			response.Handle(c, gin.H{"deleted": err == nil}, err)
		}
	}
}
