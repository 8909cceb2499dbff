package handler

import (
	"errors"
	"net/http"
	"strconv"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ParkingLotHandler struct {
	lotService service.ParkingLotService
	recService service.RecommendationService
}

func NewParkingLotHandler(lotService service.ParkingLotService, recService service.RecommendationService) *ParkingLotHandler {
	return &ParkingLotHandler{
		lotService: lotService,
		recService: recService,
	}
}

// RegisterRoutes registers discovery routes. Nearby needs the identity for
// the preference lookup, so it goes on the authenticated group.
func (h *ParkingLotHandler) RegisterRoutes(authed *gin.RouterGroup, public *gin.RouterGroup) {
	authed.GET("/parking-lots/nearby", h.Nearby)

	lots := public.Group("/parking-lots")
	{
		lots.GET("/search", h.Search)
		lots.GET("/:lot_id", h.Detail)
	}
}

// Nearby returns parking lots around a position, ranked by the user's
// preferred factor
// GET /api/parking-lots/nearby?latitude=..&longitude=..&weekday=..&hour=..
func (h *ParkingLotHandler) Nearby(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lots, err := h.recService.RecommendNearby(
		c.Request.Context(), userID.(string),
		req.Latitude, req.Longitude, req.Weekday, req.Hour,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrScoringUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "scoring service unavailable"})
		case errors.Is(err, service.ErrPreferenceUnmapped):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "preference has no scoring dimension"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recommend parking lots"})
		}
		return
	}

	c.JSON(http.StatusOK, lots)
}

// Detail returns one lot with its rating aggregate
// GET /api/parking-lots/:lot_id
func (h *ParkingLotHandler) Detail(c *gin.Context) {
	lotID, err := strconv.ParseInt(c.Param("lot_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lot ID"})
		return
	}

	detail, err := h.lotService.Detail(c.Request.Context(), lotID)
	if err != nil {
		if errors.Is(err, service.ErrLotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking lot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load parking lot"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Search finds lots whose name or address contains the keyword
// GET /api/parking-lots/search?keyword=..
func (h *ParkingLotHandler) Search(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	results, err := h.lotService.Search(c.Request.Context(), keyword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search parking lots"})
		return
	}

	c.JSON(http.StatusOK, results)
}
