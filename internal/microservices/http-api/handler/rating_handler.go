package handler

import (
	"errors"
	"net/http"
	"strconv"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RegisterRoutes registers rating routes on an authenticated group and the
// public aggregate route on the lots group.
func (h *RatingHandler) RegisterRoutes(authed *gin.RouterGroup, public *gin.RouterGroup) {
	ratings := authed.Group("/ratings")
	{
		ratings.POST("", h.Create)
		ratings.GET("/me", h.ListMine)
		ratings.PATCH("/:rating_id", h.Update)
		ratings.DELETE("/:rating_id", h.Delete)
	}

	public.GET("/parking-lots/:lot_id/rating", h.GetAggregate)
}

// Create adds a rating for a lot
// POST /api/ratings
func (h *RatingHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ratingID, err := h.ratingService.AddRating(c.Request.Context(), userID.(string), req.LotID, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrLotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "parking lot not found"})
		case errors.Is(err, service.ErrInvalidScore):
			c.JSON(http.StatusBadRequest, gin.H{"error": "score must be between 0 and 5"})
		case errors.Is(err, service.ErrDuplicateRating):
			c.JSON(http.StatusConflict, gin.H{"error": "lot already rated by this user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add rating"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rating_id": ratingID})
}

// Update changes the score of the requester's own rating
// PATCH /api/ratings/:rating_id
func (h *RatingHandler) Update(c *gin.Context) {
	ratingID, err := strconv.ParseInt(c.Param("rating_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ratingService.UpdateRating(c.Request.Context(), ratingID, userID.(string), req.Score); err != nil {
		switch {
		case errors.Is(err, service.ErrRatingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
		case errors.Is(err, service.ErrNotRatingAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the author of this rating"})
		case errors.Is(err, service.ErrInvalidScore):
			c.JSON(http.StatusBadRequest, gin.H{"error": "score must be between 0 and 5"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rating"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating updated successfully"})
}

// Delete removes the requester's own rating
// DELETE /api/ratings/:rating_id
func (h *RatingHandler) Delete(c *gin.Context) {
	ratingID, err := strconv.ParseInt(c.Param("rating_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.ratingService.DeleteRating(c.Request.Context(), ratingID, userID.(string)); err != nil {
		switch {
		case errors.Is(err, service.ErrRatingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
		case errors.Is(err, service.ErrNotRatingAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the author of this rating"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rating"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating deleted successfully"})
}

// ListMine returns the authenticated user's ratings
// GET /api/ratings/me
func (h *RatingHandler) ListMine(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ratings, err := h.ratingService.GetRatingsForUser(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ratings"})
		return
	}

	c.JSON(http.StatusOK, ratings)
}

// GetAggregate returns the materialized average and count for a lot
// GET /api/parking-lots/:lot_id/rating
func (h *RatingHandler) GetAggregate(c *gin.Context) {
	lotID, err := strconv.ParseInt(c.Param("lot_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lot ID"})
		return
	}

	agg, err := h.ratingService.GetAggregate(c.Request.Context(), lotID)
	if err != nil {
		if errors.Is(err, service.ErrLotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking lot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rating aggregate"})
		return
	}

	c.JSON(http.StatusOK, agg)
}
