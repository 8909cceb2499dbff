package handler

import (
	"errors"
	"net/http"
	"strconv"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	bookmarkService service.BookmarkService
}

func NewBookmarkHandler(bookmarkService service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService}
}

// RegisterRoutes registers bookmark routes on an authenticated group.
func (h *BookmarkHandler) RegisterRoutes(router *gin.RouterGroup) {
	bookmarks := router.Group("/bookmarks")
	{
		bookmarks.GET("", h.List)
		bookmarks.POST("", h.Create)
		bookmarks.DELETE("/:bookmark_id", h.Delete)
	}
}

// List returns the authenticated user's bookmarks
// GET /api/bookmarks
func (h *BookmarkHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	bookmarks, err := h.bookmarkService.GetBookmarks(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookmarks"})
		return
	}

	c.JSON(http.StatusOK, bookmarks)
}

// Create bookmarks a lot for the authenticated user
// POST /api/bookmarks
func (h *BookmarkHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateBookmarkDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bookmarkService.AddBookmark(userID.(string), req.LotID); err != nil {
		switch {
		case errors.Is(err, service.ErrLotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "parking lot not found"})
		case errors.Is(err, service.ErrBookmarkExists):
			c.JSON(http.StatusConflict, gin.H{"error": "lot already bookmarked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add bookmark"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "bookmark added successfully"})
}

// Delete removes one of the authenticated user's bookmarks
// DELETE /api/bookmarks/:bookmark_id
func (h *BookmarkHandler) Delete(c *gin.Context) {
	bookmarkID, err := strconv.ParseInt(c.Param("bookmark_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bookmark ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.bookmarkService.DeleteBookmark(bookmarkID, userID.(string)); err != nil {
		switch {
		case errors.Is(err, service.ErrBookmarkNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "bookmark not found"})
		case errors.Is(err, service.ErrNotBookmarkOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this bookmark"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete bookmark"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "bookmark deleted successfully"})
}
