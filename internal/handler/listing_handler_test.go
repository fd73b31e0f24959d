package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingOrder(t *testing.T) {
	assert.Equal(t, "price ASC", listingOrder("price"))
	assert.Equal(t, "price DESC", listingOrder("-price"))
	assert.Equal(t, "created_at ASC", listingOrder("created_at"))
	assert.Equal(t, "created_at DESC", listingOrder("-created_at"))
	assert.Equal(t, "created_at DESC", listingOrder(""))
	assert.Equal(t, "created_at DESC", listingOrder("rooms"))
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	valid := ListingRequest{
		Title:       "Loft near the park",
		Description: "Top floor",
		City:        "Hamburg",
		Price:       120,
		Rooms:       3,
		HousingType: "apartment",
	}
	assert.NoError(t, v.Validate(&valid))

	missing := ListingRequest{City: "Hamburg"}
	assert.Error(t, v.Validate(&missing))

	badBooking := BookingRequest{StartDate: "2026-07-01"}
	assert.Error(t, v.Validate(&badBooking))

	review := ReviewRequest{BookingID: 1, Rating: 6, Comment: "too good"}
	assert.Error(t, v.Validate(&review), "rating above 5 must fail")
}
