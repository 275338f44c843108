package handler

import (
	"net/http"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/dto"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct{ svc service.SettingService }

func NewSettingsHandler(svc service.SettingService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

func (h *SettingsHandler) Get(c *gin.Context) {
	setting, err := h.svc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "setting": setting})
}

func (h *SettingsHandler) Set(c *gin.Context) {
	var req dto.UpdateSettingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	setting, err := h.svc.Set(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "setting": setting})
}

func (h *SettingsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("key")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Configuración eliminada"})
}
