package model

import (
	"errors"
	"fmt"
	"regexp"
)

// Housing types a listing may advertise
const (
	HousingTypeApartment = "apartment"
	HousingTypeHouse     = "house"
	HousingTypeStudio    = "studio"
)

// Listing field limits
const (
	MinPrice = 10.00
	MaxPrice = 10000.00
	MinRooms = 1
	MaxRooms = 10
)

var postalCodePattern = regexp.MustCompile(`^\d{5}$`)

// Listing represents a rentable property published by a landlord
type Listing struct {
	BaseModel
	Title       string  `json:"title" gorm:"type:varchar(255);not null"`
	Description string  `json:"description" gorm:"type:text;not null"`
	Street      string  `json:"street" gorm:"type:varchar(255)"`
	City        string  `json:"city" gorm:"type:varchar(100);not null;index"`
	PostalCode  string  `json:"postal_code" gorm:"type:varchar(10)"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	Rooms       int     `json:"rooms" gorm:"not null"`
	HousingType string  `json:"housing_type" gorm:"type:varchar(20);not null;index"`
	IsActive    bool    `json:"is_active" gorm:"not null;default:true"`
	OwnerID     uint    `json:"owner_id" gorm:"not null;index"`
	Owner       User    `json:"-" gorm:"foreignKey:OwnerID"`
}

// ValidHousingType reports whether the value is a known housing type
func ValidHousingType(value string) bool {
	switch value {
	case HousingTypeApartment, HousingTypeHouse, HousingTypeStudio:
		return true
	}
	return false
}

// Validate checks the listing's field-level rules
func (l *Listing) Validate() error {
	if l.Price < MinPrice {
		return fmt.Errorf("price must be at least %.2f", MinPrice)
	}
	if l.Price > MaxPrice {
		return fmt.Errorf("price must be at most %.2f", MaxPrice)
	}
	if l.Rooms < MinRooms {
		return fmt.Errorf("at least %d room is required", MinRooms)
	}
	if l.Rooms > MaxRooms {
		return fmt.Errorf("at most %d rooms are allowed", MaxRooms)
	}
	if !ValidHousingType(l.HousingType) {
		return errors.New("housing_type must be one of: apartment, house, studio")
	}
	if l.PostalCode != "" && !postalCodePattern.MatchString(l.PostalCode) {
		return errors.New("postal_code must be 5 digits")
	}
	return nil
}

// Bookable reports whether the listing can accept new bookings
func (l *Listing) Bookable() bool {
	return l.IsActive && !l.IsDeleted
}
