package handler

import (
	"net/http"
	"strconv"

	"gigaaura/internal/middleware"
	"gigaaura/internal/models"
	"gigaaura/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationsHandler struct {
	repo *repository.NotificationRepository
}

func NewNotificationsHandler(repo *repository.NotificationRepository) *NotificationsHandler {
	return &NotificationsHandler{repo: repo}
}

// List handles GET /api/notifications. A degraded store yields an empty
// list, not an error.
func (h *NotificationsHandler) List(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListByRecipient(wallet, limit, offset)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"notifications": []models.Notification{}, "warning": "notifications unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	if err := h.repo.MarkRead(c.Param("id"), wallet); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "warning": "update not persisted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	wallet := middleware.GetWallet(c)
	if err := h.repo.MarkAllRead(wallet); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "warning": "update not persisted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
