package bidding

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFields   = errors.New("listing ID and bid amount are required")
	ErrListingNotFound = errors.New("listing not found")
	ErrAccountNotFound = errors.New("account not found")
)

// BidTooLowError is returned when a bid is below the computed minimum.
// The minimum is the base price for the first bid, otherwise one whole
// unit above the current highest bid.
type BidTooLowError struct {
	Minimum float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("Bid must be at least ₹%.0f", e.Minimum)
}

// InsufficientFundsError is returned when the bidder's wallet balance
// is below the bid amount. The balance is only checked, never debited.
type InsufficientFundsError struct {
	Balance float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("Insufficient wallet balance. You have ₹%.0f", e.Balance)
}
