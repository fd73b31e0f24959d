package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

// ListingRequest defines the structure for listing creation/update
// requests. Owner and is_active are server-assigned and not accepted.
type ListingRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Street      string  `json:"street"`
	City        string  `json:"city" validate:"required"`
	PostalCode  string  `json:"postal_code"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Rooms       int     `json:"rooms" validate:"required,gte=1"`
	HousingType string  `json:"housing_type" validate:"required"`
}

// ListListings handles the public listing catalogue with filtering,
// search and ordering. Authenticated searches are recorded to history.
func ListListings(c echo.Context) error {
	log := logger.FromEcho(c)

	db := database.GetDB()
	query := db.Scopes(model.Active).Where("is_active = ?", true)

	// Free-text search over title and description
	search := c.QueryParam("search")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
		recordSearch(c, search)
	}

	if priceMin := c.QueryParam("price_min"); priceMin != "" {
		if v, err := strconv.ParseFloat(priceMin, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if priceMax := c.QueryParam("price_max"); priceMax != "" {
		if v, err := strconv.ParseFloat(priceMax, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if roomsMin := c.QueryParam("rooms_min"); roomsMin != "" {
		if v, err := strconv.Atoi(roomsMin); err == nil {
			query = query.Where("rooms >= ?", v)
		}
	}
	if roomsMax := c.QueryParam("rooms_max"); roomsMax != "" {
		if v, err := strconv.Atoi(roomsMax); err == nil {
			query = query.Where("rooms <= ?", v)
		}
	}
	if housingType := c.QueryParam("housing_type"); housingType != "" {
		query = query.Where("housing_type = ?", housingType)
	}
	if city := c.QueryParam("city"); city != "" {
		query = query.Where("city ILIKE ?", "%"+city+"%")
	}

	query = query.Order(listingOrder(c.QueryParam("ordering")))

	defer prometheus.TrackDBOperation("query")(time.Now())
	var listings []model.Listing
	if result := query.Find(&listings); result.Error != nil {
		log.Error("Failed to list listings", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve listings"})
	}

	return c.JSON(http.StatusOK, listings)
}

// listingOrder maps the ordering query parameter onto an ORDER BY
// clause. Unknown values fall back to newest first.
func listingOrder(ordering string) string {
	switch ordering {
	case "price":
		return "price ASC"
	case "-price":
		return "price DESC"
	case "created_at":
		return "created_at ASC"
	case "-created_at", "":
		return "created_at DESC"
	}
	return "created_at DESC"
}

// recordSearch stores an authenticated search once per (user, query)
func recordSearch(c echo.Context, search string) {
	if !middleware.Authenticated(c) || !model.SearchRecordable(search) {
		return
	}

	log := logger.FromEcho(c)
	userID := middleware.UserID(c)
	entry := model.SearchQuery{UserID: &userID, Query: search}

	result := database.GetDB().
		Where("user_id = ? AND query = ?", userID, search).
		FirstOrCreate(&entry)
	if result.Error != nil {
		log.Error("Failed to save search query",
			zap.String("query", search), zap.Uint("user_id", userID), zap.Error(result.Error))
		return
	}

	prometheus.RecordListingOperation("search")
	log.Info("Search query recorded", zap.String("query", search), zap.Uint("user_id", userID))
}

// GetListing returns a single listing and records the view for
// authenticated users. Soft-deleted listings read as 404.
func GetListing(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("query")(time.Now())
	var listing model.Listing
	result := database.GetDB().Scopes(model.Active).First(&listing, id)
	if result.Error != nil {
		log.Warn("Listing not found", zap.String("listing_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	}

	if middleware.Authenticated(c) {
		userID := middleware.UserID(c)
		view := model.ListingView{UserID: &userID, ListingID: listing.ID}
		if err := database.GetDB().
			Where("user_id = ? AND listing_id = ?", userID, listing.ID).
			FirstOrCreate(&view).Error; err != nil {
			log.Error("Failed to record listing view",
				zap.Uint("listing_id", listing.ID), zap.Uint("user_id", userID), zap.Error(err))
		} else {
			prometheus.RecordListingOperation("view")
		}
	}

	return c.JSON(http.StatusOK, listing)
}

// CreateListing publishes a new listing owned by the requesting landlord
func CreateListing(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse listing request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordValidationError("listing")
		return err
	}

	listing := model.Listing{
		Title:       req.Title,
		Description: req.Description,
		Street:      req.Street,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Price:       req.Price,
		Rooms:       req.Rooms,
		HousingType: req.HousingType,
		IsActive:    true,
		OwnerID:     middleware.UserID(c),
	}
	if err := listing.Validate(); err != nil {
		prometheus.RecordValidationError("listing")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&listing); result.Error != nil {
		log.Error("Failed to create listing", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create listing"})
	}

	prometheus.RecordListingOperation("create")
	log.Info("Listing created", zap.Uint("listing_id", listing.ID), zap.Uint("owner_id", listing.OwnerID))
	return c.JSON(http.StatusCreated, listing)
}

// UpdateListing modifies a listing's content. Only the owner may update;
// owner and is_active stay server-controlled.
func UpdateListing(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var listing model.Listing
	if result := database.GetDB().Scopes(model.Active).First(&listing, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	}

	if listing.OwnerID != middleware.UserID(c) {
		log.Warn("Listing update denied",
			zap.Uint("listing_id", listing.ID), zap.Uint("user_id", middleware.UserID(c)))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you are not the owner of this listing"})
	}

	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordValidationError("listing")
		return err
	}

	listing.Title = req.Title
	listing.Description = req.Description
	listing.Street = req.Street
	listing.City = req.City
	listing.PostalCode = req.PostalCode
	listing.Price = req.Price
	listing.Rooms = req.Rooms
	listing.HousingType = req.HousingType
	if err := listing.Validate(); err != nil {
		prometheus.RecordValidationError("listing")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&listing); result.Error != nil {
		log.Error("Failed to update listing", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update listing"})
	}

	prometheus.RecordListingOperation("update")
	log.Info("Listing updated", zap.Uint("listing_id", listing.ID))
	return c.JSON(http.StatusOK, listing)
}

// DeleteListing soft-deletes a listing. Only the owner may delete.
func DeleteListing(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var listing model.Listing
	if result := database.GetDB().Scopes(model.Active).First(&listing, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	}

	if listing.OwnerID != middleware.UserID(c) {
		log.Warn("Listing delete denied",
			zap.Uint("listing_id", listing.ID), zap.Uint("user_id", middleware.UserID(c)))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you are not the owner of this listing"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := model.SoftDelete(database.GetDB(), &listing); err != nil {
		log.Error("Failed to delete listing", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete listing"})
	}

	prometheus.RecordListingOperation("delete")
	log.Info("Listing deleted", zap.Uint("listing_id", listing.ID))
	return c.NoContent(http.StatusNoContent)
}

// PopularListings returns the ten most viewed active listings
func PopularListings(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var listings []model.Listing
	result := database.GetDB().
		Model(&model.Listing{}).
		Where("listings.is_deleted = ? AND listings.is_active = ?", false, true).
		Joins("LEFT JOIN listing_views ON listing_views.listing_id = listings.id AND listing_views.is_deleted = false").
		Group("listings.id").
		Order("COUNT(listing_views.id) DESC").
		Limit(model.PopularLimit).
		Find(&listings)
	if result.Error != nil {
		log.Error("Failed to load popular listings", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve popular listings"})
	}

	return c.JSON(http.StatusOK, listings)
}
