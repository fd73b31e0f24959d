package model

import (
	"errors"
	"fmt"
	"time"
)

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking actions accepted by the action endpoint
const (
	BookingActionCancel  = "cancel"
	BookingActionConfirm = "confirm"
	BookingActionReject  = "reject"
)

// Booking duration and cancellation limits
const (
	MinNights              = 1
	MaxNights              = 365
	CancellationNoticeDays = 7
)

// Rule violations that the handlers map to HTTP statuses. Permission
// errors become 403, the rest 400.
var (
	ErrEndNotAfterStart   = errors.New("end date must be after start date")
	ErrStartInPast        = errors.New("start date must not be in the past")
	ErrOwnListing         = errors.New("you cannot book your own listing")
	ErrListingUnavailable = errors.New("this listing is not available for booking")
	ErrDatesOverlap       = errors.New("this listing is already booked for the selected dates")
	ErrNotTenant          = errors.New("only the tenant can cancel the booking")
	ErrNotLandlord        = errors.New("only the landlord can perform this action")
	ErrUnknownAction      = errors.New("invalid action, use: cancel, confirm, reject")
	ErrCancellationWindow = errors.New("bookings can only be cancelled at least 7 days before the start date")
	ErrFinalStatus        = errors.New("cancelled or completed bookings cannot change status")
)

// ActiveBookingStatuses are the states that block a listing's date range
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// Booking represents a tenant's reservation of a listing for a date range.
// Tenant, listing, dates and check-in/out times are immutable after creation.
type Booking struct {
	BaseModel
	ListingID    uint          `json:"listing_id" gorm:"not null;index"`
	Listing      Listing       `json:"-" gorm:"foreignKey:ListingID"`
	TenantID     uint          `json:"tenant_id" gorm:"not null;index"`
	Tenant       User          `json:"-" gorm:"foreignKey:TenantID"`
	StartDate    time.Time     `json:"start_date" gorm:"type:date;not null"`
	EndDate      time.Time     `json:"end_date" gorm:"type:date;not null"`
	CheckInTime  string        `json:"check_in_time" gorm:"type:varchar(5);not null;default:'14:00'"`
	CheckOutTime string        `json:"check_out_time" gorm:"type:varchar(5);not null;default:'12:00'"`
	TotalPrice   float64       `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Status       BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
}

// Nights returns the number of nights between two dates
func Nights(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// RangesOverlap reports whether two half-open date ranges intersect.
// A booking ending on the day another one starts does not overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidateBookingDates checks the date rules for a new booking: the end
// must come after the start, the stay must be 1..365 nights and the
// start must not be in the past.
func ValidateBookingDates(start, end, today time.Time) error {
	if !end.After(start) {
		return ErrEndNotAfterStart
	}
	nights := Nights(start, end)
	if nights < MinNights {
		return fmt.Errorf("minimum booking duration is %d night(s)", MinNights)
	}
	if nights > MaxNights {
		return fmt.Errorf("maximum booking duration is %d nights", MaxNights)
	}
	if start.Before(today) {
		return ErrStartInPast
	}
	return nil
}

// CancellationAllowed reports whether the booking may still be cancelled
// by the tenant: the start date must be at least 7 days away.
func CancellationAllowed(start, today time.Time) bool {
	return !start.Before(today.AddDate(0, 0, CancellationNoticeDays))
}

// Recalculate sets the derived total price from the nightly rate. Called
// at creation time only; dates never change afterwards.
func (b *Booking) Recalculate(nightlyPrice float64) {
	b.TotalPrice = nightlyPrice * float64(Nights(b.StartDate, b.EndDate))
}

// Final reports whether the booking is in a terminal state
func (b *Booking) Final() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

// Transition resolves an action name into the resulting status, checking
// the actor's relationship to the booking and the cancellation window.
func (b *Booking) Transition(action string, actorID, ownerID uint, today time.Time) (BookingStatus, error) {
	switch action {
	case BookingActionCancel:
		if actorID != b.TenantID {
			return "", ErrNotTenant
		}
		if b.Final() {
			return "", ErrFinalStatus
		}
		if !CancellationAllowed(b.StartDate, today) {
			return "", ErrCancellationWindow
		}
		return BookingStatusCancelled, nil

	case BookingActionConfirm:
		if actorID != ownerID {
			return "", ErrNotLandlord
		}
		if b.Final() {
			return "", ErrFinalStatus
		}
		return BookingStatusConfirmed, nil

	case BookingActionReject:
		if actorID != ownerID {
			return "", ErrNotLandlord
		}
		if b.Final() {
			return "", ErrFinalStatus
		}
		return BookingStatusCancelled, nil
	}

	return "", ErrUnknownAction
}
