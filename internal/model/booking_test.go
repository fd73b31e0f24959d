package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateBookingDates(t *testing.T) {
	today := date(2026, time.March, 1)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid two nights", today.AddDate(0, 0, 5), today.AddDate(0, 0, 7), false},
		{"single night", today.AddDate(0, 0, 1), today.AddDate(0, 0, 2), false},
		{"starts today", today, today.AddDate(0, 0, 3), false},
		{"end equals start", today.AddDate(0, 0, 5), today.AddDate(0, 0, 5), true},
		{"end before start", today.AddDate(0, 0, 7), today.AddDate(0, 0, 5), true},
		{"start in the past", today.AddDate(0, 0, -1), today.AddDate(0, 0, 5), true},
		{"maximum duration", today, today.AddDate(0, 0, 365), false},
		{"over maximum duration", today, today.AddDate(0, 0, 366), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBookingDates(tt.start, tt.end, today)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRangesOverlap(t *testing.T) {
	start := date(2026, time.June, 10)
	end := date(2026, time.June, 15)

	tests := []struct {
		name   string
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{"identical range", start, end, true},
		{"contained inside", date(2026, time.June, 11), date(2026, time.June, 13), true},
		{"overlaps the start", date(2026, time.June, 8), date(2026, time.June, 11), true},
		{"overlaps the end", date(2026, time.June, 14), date(2026, time.June, 20), true},
		{"surrounds completely", date(2026, time.June, 1), date(2026, time.June, 30), true},
		{"back to back before", date(2026, time.June, 5), date(2026, time.June, 10), false},
		{"back to back after", date(2026, time.June, 15), date(2026, time.June, 20), false},
		{"fully before", date(2026, time.June, 1), date(2026, time.June, 5), false},
		{"fully after", date(2026, time.June, 20), date(2026, time.June, 25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangesOverlap(start, end, tt.bStart, tt.bEnd))
			// Overlap is symmetric
			assert.Equal(t, tt.want, RangesOverlap(tt.bStart, tt.bEnd, start, end))
		})
	}
}

func TestRecalculate(t *testing.T) {
	today := date(2026, time.March, 1)
	booking := Booking{
		StartDate: today.AddDate(0, 0, 5),
		EndDate:   today.AddDate(0, 0, 7),
		Status:    BookingStatusPending,
	}

	booking.Recalculate(100)

	assert.Equal(t, 200.0, booking.TotalPrice)
	assert.Equal(t, BookingStatusPending, booking.Status)
	assert.Equal(t, 2, Nights(booking.StartDate, booking.EndDate))
}

func TestCancellationAllowed(t *testing.T) {
	today := date(2026, time.March, 1)

	assert.True(t, CancellationAllowed(today.AddDate(0, 0, 7), today))
	assert.True(t, CancellationAllowed(today.AddDate(0, 0, 30), today))
	assert.False(t, CancellationAllowed(today.AddDate(0, 0, 6), today))
	assert.False(t, CancellationAllowed(today.AddDate(0, 0, 1), today))
	assert.False(t, CancellationAllowed(today, today))
}

func TestTransition(t *testing.T) {
	const (
		tenantID = uint(1)
		ownerID  = uint(2)
		otherID  = uint(3)
	)
	today := date(2026, time.March, 1)

	newBooking := func(status BookingStatus, daysAhead int) *Booking {
		return &Booking{
			TenantID:  tenantID,
			StartDate: today.AddDate(0, 0, daysAhead),
			EndDate:   today.AddDate(0, 0, daysAhead+3),
			Status:    status,
		}
	}

	t.Run("tenant cancels with enough notice", func(t *testing.T) {
		b := newBooking(BookingStatusPending, 10)
		status, err := b.Transition(BookingActionCancel, tenantID, ownerID, today)
		require.NoError(t, err)
		assert.Equal(t, BookingStatusCancelled, status)
	})

	t.Run("tenant cancels too late", func(t *testing.T) {
		b := newBooking(BookingStatusPending, 5)
		_, err := b.Transition(BookingActionCancel, tenantID, ownerID, today)
		assert.ErrorIs(t, err, ErrCancellationWindow)
	})

	t.Run("landlord cannot cancel", func(t *testing.T) {
		b := newBooking(BookingStatusPending, 10)
		_, err := b.Transition(BookingActionCancel, ownerID, ownerID, today)
		assert.ErrorIs(t, err, ErrNotTenant)
	})

	t.Run("landlord confirms", func(t *testing.T) {
		b := newBooking(BookingStatusPending, 10)
		status, err := b.Transition(BookingActionConfirm, ownerID, ownerID, today)
		require.NoError(t, err)
		assert.Equal(t, BookingStatusConfirmed, status)
	})

	t.Run("tenant cannot confirm", func(t *testing.T) {
		b := newBooking(BookingStatusPending, 10)
		_, err := b.Transition(BookingActionConfirm, tenantID, ownerID, today)
		assert.ErrorIs(t, err, ErrNotLandlord)
	})

	t.Run("landlord rejects a confirmed booking", func(t *testing.T) {
		b := newBooking(BookingStatusConfirmed, 10)
		status, err := b.Transition(BookingActionReject, ownerID, ownerID, today)
		require.NoError(t, err)
		assert.Equal(t, BookingStatusCancelled, status)
	})

	t.Run("stranger cannot reject", func(t *testing.T) {
		b := newBooking(BookingStatusPending, 10)
		_, err := b.Transition(BookingActionReject, otherID, ownerID, today)
		assert.ErrorIs(t, err, ErrNotLandlord)
	})

	t.Run("no transition out of cancelled", func(t *testing.T) {
		b := newBooking(BookingStatusCancelled, 10)
		_, err := b.Transition(BookingActionConfirm, ownerID, ownerID, today)
		assert.ErrorIs(t, err, ErrFinalStatus)
	})

	t.Run("no transition out of completed", func(t *testing.T) {
		b := newBooking(BookingStatusCompleted, 10)
		_, err := b.Transition(BookingActionCancel, tenantID, ownerID, today)
		assert.ErrorIs(t, err, ErrFinalStatus)
	})

	t.Run("unknown action", func(t *testing.T) {
		b := newBooking(BookingStatusPending, 10)
		_, err := b.Transition("archive", tenantID, ownerID, today)
		assert.ErrorIs(t, err, ErrUnknownAction)
	})
}

func TestFinal(t *testing.T) {
	assert.False(t, (&Booking{Status: BookingStatusPending}).Final())
	assert.False(t, (&Booking{Status: BookingStatusConfirmed}).Final())
	assert.True(t, (&Booking{Status: BookingStatusCancelled}).Final())
	assert.True(t, (&Booking{Status: BookingStatusCompleted}).Final())
}
