package dto

import (
	"github.com/shopspring/decimal"
)

// Request limits enforced by validation.
const (
	MaxRooms  = 100000
	MaxGuests = 100000
	MaxPrice  = 100000
)

// OccupancyRequest is the body of POST /api/occupancy.
// Missing room counts are treated as zero.
type OccupancyRequest struct {
	PremiumRooms    *int               `json:"premiumRooms" validate:"omitempty,min=0,max=100000"`
	EconomyRooms    *int               `json:"economyRooms" validate:"omitempty,min=0,max=100000"`
	PotentialGuests []*decimal.Decimal `json:"potentialGuests" validate:"required,max=100000,dive,required,price"`
}

// Rooms returns the premium and economy room counts, defaulting to zero.
func (r OccupancyRequest) Rooms() (premium, economy int) {
	if r.PremiumRooms != nil {
		premium = *r.PremiumRooms
	}
	if r.EconomyRooms != nil {
		economy = *r.EconomyRooms
	}
	return premium, economy
}

// Guests converts the validated price list for the allocator.
func (r OccupancyRequest) Guests() []decimal.NullDecimal {
	guests := make([]decimal.NullDecimal, len(r.PotentialGuests))
	for i, p := range r.PotentialGuests {
		if p != nil {
			guests[i] = decimal.NewNullDecimal(*p)
		}
	}
	return guests
}
