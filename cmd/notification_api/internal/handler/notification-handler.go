package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/cmd/notification_api/internal/services"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/repositories"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	service *services.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(db *gorm.DB, log *zap.Logger) *NotificationHandler {
	store := repositories.NewNotificationRepository(db)
	return &NotificationHandler{
		service: services.NewNotificationService(store),
		log:     log,
	}
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req types.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.service.CreateNotification(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("failed to create notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, notification)
}

func (h *NotificationHandler) List(c *gin.Context) {
	recipientID, err := uuid.Parse(c.Param("recipientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient id"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	status := c.Query("status")

	resp, err := h.service.GetNotifications(c.Request.Context(), recipientID, status, page, pageSize)
	if err != nil {
		h.log.Error("failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}
	notification, err := h.service.MarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		h.log.Error("failed to mark notification read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, notification)
}
