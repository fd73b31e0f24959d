package model

import (
	"errors"
	"time"
)

// Review rule violations
var (
	ErrReviewStatus   = errors.New("reviews are only allowed for confirmed or completed bookings")
	ErrReviewTooEarly = errors.New("reviews are only allowed after the stay has ended")
	ErrReviewNotYours = errors.New("you can only review your own bookings")
)

// Review rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Review holds a tenant's rating of a completed stay. Exactly one review
// may exist per booking.
type Review struct {
	BaseModel
	BookingID uint    `json:"booking_id" gorm:"not null;uniqueIndex"`
	Booking   Booking `json:"-" gorm:"foreignKey:BookingID"`
	Rating    int     `json:"rating" gorm:"not null"`
	Comment   string  `json:"comment" gorm:"type:text;not null"`
}

// ReviewEligibility checks whether a booking can be reviewed: the stay
// must be confirmed or completed and already over.
func ReviewEligibility(status BookingStatus, endDate, today time.Time) error {
	if status != BookingStatusConfirmed && status != BookingStatusCompleted {
		return ErrReviewStatus
	}
	if today.Before(endDate) {
		return ErrReviewTooEarly
	}
	return nil
}
