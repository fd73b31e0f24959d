package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/notify"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

// ReviewRequest is the payload for creating a review
type ReviewRequest struct {
	BookingID uint   `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"required"`
}

// ListReviews returns the reviews for a listing. Public access.
func ListReviews(c echo.Context) error {
	log := logger.FromEcho(c)
	listingID := c.Param("id")

	defer prometheus.TrackDBOperation("query")(time.Now())
	var reviews []model.Review
	result := database.GetDB().
		Model(&model.Review{}).
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("reviews.is_deleted = ?", false).
		Where("bookings.listing_id = ?", listingID).
		Order("reviews.created_at DESC").
		Find(&reviews)
	if result.Error != nil {
		log.Error("Failed to list reviews", zap.String("listing_id", listingID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve reviews"})
	}

	return c.JSON(http.StatusOK, reviews)
}

// CreateReview attaches a review to one of the requester's bookings of
// the listing. Requires tenant role; the stay must be confirmed or
// completed and already over.
func CreateReview(c echo.Context) error {
	log := logger.FromEcho(c)
	listingID := c.Param("id")
	userID := middleware.UserID(c)

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse review request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordValidationError("review")
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var booking model.Booking
	if result := database.GetDB().Scopes(model.Active).
		Where("id = ? AND listing_id = ?", req.BookingID, listingID).
		First(&booking); result.Error != nil {
		prometheus.RecordValidationError("review")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking not found for this listing"})
	}

	if booking.TenantID != userID {
		prometheus.RecordValidationError("review")
		log.Warn("Review for foreign booking denied",
			zap.Uint("booking_id", booking.ID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": model.ErrReviewNotYours.Error()})
	}

	if err := model.ReviewEligibility(booking.Status, booking.EndDate, today()); err != nil {
		prometheus.RecordValidationError("review")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	var existing model.Review
	if result := database.GetDB().Scopes(model.WithDeleted).
		Where("booking_id = ?", booking.ID).First(&existing); result.Error == nil {
		prometheus.RecordValidationError("review")
		return c.JSON(http.StatusConflict, echo.Map{"error": "this booking has already been reviewed"})
	}

	review := model.Review{
		BookingID: booking.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&review); result.Error != nil {
		log.Error("Failed to create review", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create review"})
	}

	prometheus.ReviewCounter.Inc()
	log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("booking_id", booking.ID),
		zap.Int("rating", review.Rating))

	var listing model.Listing
	if err := database.GetDB().Scopes(model.WithDeleted).First(&listing, booking.ListingID).Error; err == nil {
		var owner model.User
		if err := database.GetDB().Scopes(model.WithDeleted).First(&owner, listing.OwnerID).Error; err == nil {
			notify.GetNotifier().ReviewCreated(&review, &listing, &owner)
		}
	}

	return c.JSON(http.StatusCreated, review)
}
