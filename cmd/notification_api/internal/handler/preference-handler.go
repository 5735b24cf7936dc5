package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/cmd/notification_api/internal/services"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/repositories"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PreferenceHandler struct {
	service *services.PreferenceService
	log     *zap.Logger
}

func NewPreferenceHandler(db *gorm.DB, log *zap.Logger) *PreferenceHandler {
	store := repositories.NewPreferenceRepository(db)
	return &PreferenceHandler{
		service: services.NewPreferenceService(store),
		log:     log,
	}
}

func (h *PreferenceHandler) Get(c *gin.Context) {
	recipientID, err := uuid.Parse(c.Param("recipientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient id"})
		return
	}
	pref, err := h.service.GetPreferences(c.Request.Context(), recipientID)
	if err != nil {
		h.log.Error("failed to get preferences", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *PreferenceHandler) Update(c *gin.Context) {
	recipientID, err := uuid.Parse(c.Param("recipientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient id"})
		return
	}
	var req types.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pref, err := h.service.UpdatePreferences(c.Request.Context(), recipientID, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("failed to update preferences", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *PreferenceHandler) AddDeviceToken(c *gin.Context) {
	recipientID, err := uuid.Parse(c.Param("recipientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient id"})
		return
	}
	var req types.RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pref, err := h.service.AddDeviceToken(c.Request.Context(), recipientID, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("failed to register device token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *PreferenceHandler) RemoveDeviceToken(c *gin.Context) {
	recipientID, err := uuid.Parse(c.Param("recipientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient id"})
		return
	}
	token := c.Param("token")

	pref, err := h.service.RemoveDeviceToken(c.Request.Context(), recipientID, token)
	if err != nil {
		h.log.Error("failed to remove device token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, pref)
}
