package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/canteenpulse/internal/domain/dto"
	"github.com/guttosm/canteenpulse/internal/domain/models"
	"github.com/guttosm/canteenpulse/internal/middleware"
	"github.com/guttosm/canteenpulse/internal/report"
	"github.com/guttosm/canteenpulse/internal/service"
	"github.com/guttosm/canteenpulse/internal/storage"
)

// reportWorkTimeout bounds report computation once it no longer follows the request.
const reportWorkTimeout = time.Minute

// Handler provides the HTTP handlers for ratings and weekly reports.
//
// Responsibilities:
//   - Validate query parameters and request bodies
//   - Delegate to the report and rating services
//   - Map service errors to HTTP status codes with an ErrorResponse body
type Handler struct {
	reports service.ReportService
	ratings service.RatingService
}

// NewHandler constructs a Handler over the given services.
func NewHandler(reports service.ReportService, ratings service.RatingService) *Handler {
	return &Handler{reports: reports, ratings: ratings}
}

// GetWeeklyReport godoc
// @Summary      Compute a weekly report
// @Description  Aggregates the ratings of one canteen over a Monday-based UTC week. Without weekStart the current week is used.
// @Tags         reports
// @Produce      json
// @Param        canteenId  query     string  true   "Canteen id" example(canteen_01)
// @Param        weekStart  query     string  false  "Monday of the week, YYYY-MM-DD" example(2025-09-15)
// @Success      200        {object}  models.WeeklyReport
// @Failure      400        {object}  dto.ErrorResponse  "Bad Request"
// @Failure      503        {object}  dto.ErrorResponse  "Store unavailable"
// @Failure      500        {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/weekly-report [get]
func (h *Handler) GetWeeklyReport(c *gin.Context) {
	ctx, cancel := reportContext(c)
	defer cancel()

	rep, err := h.reports.ComputeWeeklyReport(ctx, c.Query("canteenId"), c.Query("weekStart"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GetMaterializedReport godoc
// @Summary      Read a materialized weekly report
// @Description  Returns the report last persisted for the canteen and week.
// @Tags         reports
// @Produce      json
// @Param        canteenId  query     string  true   "Canteen id" example(canteen_01)
// @Param        weekStart  query     string  false  "Monday of the week, YYYY-MM-DD" example(2025-09-15)
// @Success      200        {object}  models.StoredWeeklyReport
// @Failure      400        {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404        {object}  dto.ErrorResponse  "Not Found"
// @Failure      503        {object}  dto.ErrorResponse  "Store unavailable"
// @Router       /api/v1/weekly-report/materialized [get]
func (h *Handler) GetMaterializedReport(c *gin.Context) {
	rep, err := h.reports.GetMaterializedReport(c.Request.Context(), c.Query("canteenId"), c.Query("weekStart"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// RecomputeWeeklyReport godoc
// @Summary      Recompute and persist a weekly report
// @Description  Computes the report and upserts it under (canteenId, weekStart).
// @Tags         reports
// @Produce      json
// @Param        canteenId  query     string  true   "Canteen id" example(canteen_01)
// @Param        weekStart  query     string  false  "Monday of the week, YYYY-MM-DD" example(2025-09-15)
// @Success      200        {object}  models.StoredWeeklyReport
// @Failure      400        {object}  dto.ErrorResponse  "Bad Request"
// @Failure      503        {object}  dto.ErrorResponse  "Store unavailable"
// @Router       /api/v1/weekly-report/recompute [post]
func (h *Handler) RecomputeWeeklyReport(c *gin.Context) {
	ctx, cancel := reportContext(c)
	defer cancel()

	rep, err := h.reports.RecomputeAndPersist(ctx, c.Query("canteenId"), c.Query("weekStart"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// CreateRating godoc
// @Summary      Submit a rating
// @Description  Stores one meal rating. createdAt is set by the server.
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Param        rating  body      dto.CreateRatingRequest  true  "Rating"
// @Success      201     {object}  dto.CreateRatingResponse
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      409     {object}  dto.ErrorResponse  "Already rated"
// @Failure      503     {object}  dto.ErrorResponse  "Store unavailable"
// @Router       /api/v1/ratings [post]
func (h *Handler) CreateRating(c *gin.Context) {
	var req dto.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid rating payload", err)
		return
	}

	id, err := h.ratings.SubmitRating(c.Request.Context(), models.Rating{
		MealID:        req.MealID,
		CanteenID:     req.CanteenID,
		UserID:        req.UserID,
		UserHash:      req.UserHash,
		Anonymous:     req.Anonymous,
		Rating:        req.Rating,
		Taste:         req.Taste,
		Quantity:      req.Quantity,
		ValueForMoney: req.ValueForMoney,
		Comment:       req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateRatingResponse{InsertedID: id})
}

// ListRatings godoc
// @Summary      List recent ratings
// @Description  Newest first, at most 200.
// @Tags         ratings
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of ratings (1-200)" example(50)
// @Success      200    {array}   models.Rating
// @Failure      400    {object}  dto.ErrorResponse  "Bad Request"
// @Failure      503    {object}  dto.ErrorResponse  "Store unavailable"
// @Router       /api/v1/ratings [get]
func (h *Handler) ListRatings(c *gin.Context) {
	limit := service.MaxRecentRatings
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			middleware.AbortWithError(c, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	out, err := h.ratings.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Ping godoc
// @Summary      Ping
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.PingResponse
// @Router       /ping [get]
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PingResponse{Message: "pong", Timestamp: time.Now().UTC().Format(time.RFC3339)})
}

// reportContext detaches aggregation from the request so a client that
// disconnects or hits the request timeout does not abort a computation or
// leave a half-finished materialization behind.
func reportContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), reportWorkTimeout)
}

// respondError maps service failures to status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, report.ErrInvalidArgument):
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, storage.ErrNotFound):
		middleware.AbortWithError(c, http.StatusNotFound, "weekly report not found", err)
	case errors.Is(err, storage.ErrDuplicateRating):
		middleware.AbortWithError(c, http.StatusConflict, "meal already rated by this user", err)
	case errors.Is(err, report.ErrStoreUnavailable):
		middleware.AbortWithError(c, http.StatusServiceUnavailable, "store unavailable", err)
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, "internal error", err)
	}
}
