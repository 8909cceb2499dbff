package handler

import (
	"errors"
	"net/http"
	"strconv"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService  service.AdminService
	ratingService service.RatingService
}

func NewAdminHandler(adminService service.AdminService, ratingService service.RatingService) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		ratingService: ratingService,
	}
}

// RegisterRoutes registers management routes. The group is expected to run
// AuthMiddleware plus RequireAdmin.
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.ListUsers)
	router.DELETE("/users/:user_id", h.DeleteUser)

	router.GET("/parking-lots", h.ListParkingLots)
	router.POST("/parking-lots", h.RegisterParkingLot)
	router.PUT("/parking-lots/:lot_id", h.UpdateParkingLot)
	router.DELETE("/parking-lots/:lot_id", h.DeleteParkingLot)

	router.GET("/ratings", h.ListRatings)
	router.DELETE("/ratings/:rating_id", h.DeleteRating)
}

// ListUsers returns every account
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser removes an account and its dependent rows
// DELETE /api/admin/users/:user_id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.adminService.DeleteUser(c.Request.Context(), c.Param("user_id")); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

// ListParkingLots returns every lot with its coordinates and aggregate
// GET /api/admin/parking-lots
func (h *AdminHandler) ListParkingLots(c *gin.Context) {
	lots, err := h.adminService.ListParkingLots()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list parking lots"})
		return
	}
	c.JSON(http.StatusOK, lots)
}

// RegisterParkingLot creates a lot
// POST /api/admin/parking-lots
func (h *AdminHandler) RegisterParkingLot(c *gin.Context) {
	var req dto.LotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lotID, err := h.adminService.RegisterParkingLot(&req)
	if err != nil {
		if errors.Is(err, service.ErrLotNameInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "lot name already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register parking lot"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"p_id": lotID})
}

// UpdateParkingLot replaces the mutable fields of a lot
// PUT /api/admin/parking-lots/:lot_id
func (h *AdminHandler) UpdateParkingLot(c *gin.Context) {
	lotID, err := strconv.ParseInt(c.Param("lot_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lot ID"})
		return
	}

	var req dto.LotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.UpdateParkingLot(lotID, &req); err != nil {
		if errors.Is(err, service.ErrLotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking lot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update parking lot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "parking lot updated successfully"})
}

// DeleteParkingLot removes a lot, its ratings and its aggregate
// DELETE /api/admin/parking-lots/:lot_id
func (h *AdminHandler) DeleteParkingLot(c *gin.Context) {
	lotID, err := strconv.ParseInt(c.Param("lot_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lot ID"})
		return
	}

	if err := h.adminService.DeleteParkingLot(lotID); err != nil {
		if errors.Is(err, service.ErrLotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking lot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete parking lot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "parking lot deleted successfully"})
}

// ListRatings returns every rating in the system
// GET /api/admin/ratings
func (h *AdminHandler) ListRatings(c *gin.Context) {
	ratings, err := h.adminService.ListRatings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ratings"})
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// DeleteRating removes any rating and refreshes the lot's aggregate
// DELETE /api/admin/ratings/:rating_id
func (h *AdminHandler) DeleteRating(c *gin.Context) {
	ratingID, err := strconv.ParseInt(c.Param("rating_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating ID"})
		return
	}

	if err := h.ratingService.DeleteRatingAsAdmin(c.Request.Context(), ratingID); err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating deleted successfully"})
}
