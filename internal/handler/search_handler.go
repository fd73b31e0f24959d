package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rental-service/internal/model"
	"rental-service/pkg/database"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

// PopularSearch is one row of the search ranking
type PopularSearch struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// PopularSearches returns the ten most frequent search queries of the
// last 30 days, skipping blank and too-short strings.
func PopularSearches(c echo.Context) error {
	log := logger.FromEcho(c)
	since := time.Now().AddDate(0, 0, -model.PopularSearchWindowDays)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var results []PopularSearch
	result := database.GetDB().
		Model(&model.SearchQuery{}).
		Select("query, COUNT(*) AS count").
		Where("is_deleted = ?", false).
		Where("created_at >= ?", since).
		Where("LENGTH(TRIM(query)) >= ?", model.MinSearchQueryLength).
		Group("query").
		Order("count DESC").
		Limit(model.PopularLimit).
		Scan(&results)
	if result.Error != nil {
		log.Error("Failed to load popular searches", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve popular searches"})
	}

	return c.JSON(http.StatusOK, results)
}
