package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/notify"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

const dateLayout = "2006-01-02"

// BookingRequest is the payload for creating a booking. Dates use the
// YYYY-MM-DD layout; check-in/out times default to 14:00 and 12:00.
type BookingRequest struct {
	ListingID    uint   `json:"listing_id" validate:"required"`
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
}

// today returns the current date truncated to UTC midnight, matching
// how request dates parse.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// ListBookings returns the requester's bookings: the ones they made as
// tenant plus the ones on listings they own.
func ListBookings(c echo.Context) error {
	log := logger.FromEcho(c)
	userID := middleware.UserID(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var bookings []model.Booking
	result := database.GetDB().
		Model(&model.Booking{}).
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("bookings.is_deleted = ?", false).
		Where("bookings.tenant_id = ? OR listings.owner_id = ?", userID, userID).
		Order("bookings.created_at DESC").
		Find(&bookings)
	if result.Error != nil {
		log.Error("Failed to list bookings", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve bookings"})
	}

	return c.JSON(http.StatusOK, bookings)
}

// CreateBooking books a listing for a date range. Tenant role required.
// The overlap check and the insert run in one transaction.
func CreateBooking(c echo.Context) error {
	log := logger.FromEcho(c)
	tenantID := middleware.UserID(c)

	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse booking request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordValidationError("booking")
		return err
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		prometheus.RecordValidationError("booking")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must use the YYYY-MM-DD format"})
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		prometheus.RecordValidationError("booking")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must use the YYYY-MM-DD format"})
	}

	if err := model.ValidateBookingDates(start, end, today()); err != nil {
		prometheus.RecordValidationError("booking")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	booking := model.Booking{
		ListingID:    req.ListingID,
		TenantID:     tenantID,
		StartDate:    start,
		EndDate:      end,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
		Status:       model.BookingStatusPending,
	}
	if booking.CheckInTime == "" {
		booking.CheckInTime = "14:00"
	}
	if booking.CheckOutTime == "" {
		booking.CheckOutTime = "12:00"
	}

	var listing model.Listing
	defer prometheus.TrackDBOperation("insert")(time.Now())
	txErr := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if result := tx.Scopes(model.Active).First(&listing, req.ListingID); result.Error != nil {
			return model.ErrListingUnavailable
		}
		if !listing.Bookable() {
			return model.ErrListingUnavailable
		}
		if listing.OwnerID == tenantID {
			return model.ErrOwnListing
		}

		// Overlap window: existing.start < new.end AND existing.end > new.start,
		// counting only pending and confirmed bookings.
		var overlapping int64
		if err := tx.Model(&model.Booking{}).
			Where("listing_id = ? AND is_deleted = ?", listing.ID, false).
			Where("status IN ?", model.ActiveBookingStatuses).
			Where("start_date < ? AND end_date > ?", end, start).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return model.ErrDatesOverlap
		}

		booking.Recalculate(listing.Price)
		return tx.Create(&booking).Error
	})
	if txErr != nil {
		return bookingRuleResponse(c, txErr, "create")
	}

	prometheus.RecordBookingOperation("create")
	log.Info("Booking created",
		zap.Uint("booking_id", booking.ID),
		zap.Uint("listing_id", listing.ID),
		zap.Uint("tenant_id", tenantID),
		zap.Float64("total_price", booking.TotalPrice))

	// Post-commit notification: failures are logged inside, never surfaced
	if tenant, owner, err := bookingParties(&booking, &listing); err == nil {
		notify.GetNotifier().BookingCreated(&booking, &listing, tenant, owner)
	}

	return c.JSON(http.StatusCreated, booking)
}

// GetBooking returns a single booking, visible only to its tenant or
// the listing's owner.
func GetBooking(c echo.Context) error {
	log := logger.FromEcho(c)

	booking, listing, ok := loadBooking(c)
	if !ok {
		return nil
	}

	userID := middleware.UserID(c)
	if booking.TenantID != userID && listing.OwnerID != userID {
		log.Warn("Booking access denied",
			zap.Uint("booking_id", booking.ID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not have permission to access this booking"})
	}

	return c.JSON(http.StatusOK, booking)
}

// BookingAction performs cancel, confirm or reject on a booking. The
// status-change email goes out only after the update is persisted.
func BookingAction(c echo.Context) error {
	log := logger.FromEcho(c)
	action := c.Param("action")
	userID := middleware.UserID(c)

	booking, listing, ok := loadBooking(c)
	if !ok {
		return nil
	}

	if booking.TenantID != userID && listing.OwnerID != userID {
		log.Warn("Booking action denied",
			zap.Uint("booking_id", booking.ID), zap.Uint("user_id", userID), zap.String("action", action))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not have permission to access this booking"})
	}

	newStatus, terr := booking.Transition(action, userID, listing.OwnerID, today())
	if terr != nil {
		return bookingRuleResponse(c, terr, action)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	booking.Status = newStatus
	if err := database.GetDB().Model(booking).Update("status", newStatus).Error; err != nil {
		log.Error("Failed to update booking status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}

	prometheus.RecordBookingOperation(action)
	log.Info("Booking status updated",
		zap.Uint("booking_id", booking.ID),
		zap.String("status", string(newStatus)),
		zap.Uint("user_id", userID))

	if tenant, owner, err := bookingParties(booking, listing); err == nil {
		notify.GetNotifier().BookingStatusChanged(booking, listing, tenant, owner)
	}

	return c.JSON(http.StatusOK, booking)
}

// loadBooking fetches the booking from the path parameter together with
// its listing. Writes the error response itself and reports success via
// the bool.
func loadBooking(c echo.Context) (*model.Booking, *model.Listing, bool) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var booking model.Booking
	if result := database.GetDB().Scopes(model.Active).First(&booking, c.Param("id")); result.Error != nil {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		return nil, nil, false
	}

	var listing model.Listing
	if result := database.GetDB().Scopes(model.WithDeleted).First(&listing, booking.ListingID); result.Error != nil {
		logger.FromEcho(c).Error("Booking references missing listing",
			zap.Uint("booking_id", booking.ID), zap.Uint("listing_id", booking.ListingID))
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		return nil, nil, false
	}

	return &booking, &listing, true
}

// bookingParties loads the tenant and owner accounts for notifications
func bookingParties(booking *model.Booking, listing *model.Listing) (*model.User, *model.User, error) {
	var tenant, owner model.User
	if err := database.GetDB().Scopes(model.WithDeleted).First(&tenant, booking.TenantID).Error; err != nil {
		return nil, nil, err
	}
	if err := database.GetDB().Scopes(model.WithDeleted).First(&owner, listing.OwnerID).Error; err != nil {
		return nil, nil, err
	}
	return &tenant, &owner, nil
}

// bookingRuleResponse maps booking rule violations onto HTTP statuses:
// actor mismatches are 403, everything else is a 400 validation error.
func bookingRuleResponse(c echo.Context, err error, operation string) error {
	log := logger.FromEcho(c)

	switch {
	case errors.Is(err, model.ErrNotTenant), errors.Is(err, model.ErrNotLandlord):
		log.Warn("Booking permission violation", zap.String("operation", operation), zap.Error(err))
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrOwnListing),
		errors.Is(err, model.ErrListingUnavailable),
		errors.Is(err, model.ErrDatesOverlap),
		errors.Is(err, model.ErrUnknownAction),
		errors.Is(err, model.ErrCancellationWindow),
		errors.Is(err, model.ErrFinalStatus):
		prometheus.RecordValidationError("booking")
		log.Warn("Booking rule violation", zap.String("operation", operation), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	log.Error("Unexpected booking error", zap.String("operation", operation), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "an internal error occurred while processing the request"})
}
