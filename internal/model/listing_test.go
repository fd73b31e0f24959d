package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validListing() Listing {
	return Listing{
		Title:       "Bright two-room flat",
		Description: "Close to the river",
		City:        "Berlin",
		Price:       85.50,
		Rooms:       2,
		HousingType: HousingTypeApartment,
	}
}

func TestListingValidate(t *testing.T) {
	t.Run("valid listing", func(t *testing.T) {
		l := validListing()
		assert.NoError(t, l.Validate())
	})

	t.Run("price below minimum", func(t *testing.T) {
		l := validListing()
		l.Price = 9.99
		assert.Error(t, l.Validate())
	})

	t.Run("price above maximum", func(t *testing.T) {
		l := validListing()
		l.Price = 10000.01
		assert.Error(t, l.Validate())
	})

	t.Run("zero rooms", func(t *testing.T) {
		l := validListing()
		l.Rooms = 0
		assert.Error(t, l.Validate())
	})

	t.Run("too many rooms", func(t *testing.T) {
		l := validListing()
		l.Rooms = 11
		assert.Error(t, l.Validate())
	})

	t.Run("unknown housing type", func(t *testing.T) {
		l := validListing()
		l.HousingType = "castle"
		assert.Error(t, l.Validate())
	})

	t.Run("postal code optional", func(t *testing.T) {
		l := validListing()
		l.PostalCode = ""
		assert.NoError(t, l.Validate())
	})

	t.Run("postal code five digits", func(t *testing.T) {
		l := validListing()
		l.PostalCode = "10115"
		assert.NoError(t, l.Validate())
	})

	t.Run("postal code wrong shape", func(t *testing.T) {
		l := validListing()
		for _, code := range []string{"1011", "101155", "1011a", "abcde"} {
			l.PostalCode = code
			assert.Error(t, l.Validate(), "postal code %q should be rejected", code)
		}
	})
}

func TestValidHousingType(t *testing.T) {
	assert.True(t, ValidHousingType(HousingTypeApartment))
	assert.True(t, ValidHousingType(HousingTypeHouse))
	assert.True(t, ValidHousingType(HousingTypeStudio))
	assert.False(t, ValidHousingType(""))
	assert.False(t, ValidHousingType("villa"))
}

func TestBookable(t *testing.T) {
	l := validListing()
	l.IsActive = true
	assert.True(t, l.Bookable())

	l.IsActive = false
	assert.False(t, l.Bookable())

	l.IsActive = true
	l.IsDeleted = true
	assert.False(t, l.Bookable())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleLandlord))
	assert.True(t, ValidRole(RoleTenant))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}

func TestSearchRecordable(t *testing.T) {
	assert.True(t, SearchRecordable("berlin"))
	assert.True(t, SearchRecordable("abc"))
	assert.False(t, SearchRecordable("ab"))
	assert.False(t, SearchRecordable(""))
	assert.False(t, SearchRecordable("  a  "))
}
