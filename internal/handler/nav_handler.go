package handler

import (
	"net/http"

	"Nova_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type NavHandler struct {
	svc *service.NavService
}

func NewNavHandler(svc *service.NavService) *NavHandler {
	return &NavHandler{svc: svc}
}

type navPushReq struct {
	View string `json:"view" binding:"required"`
}

func (h *NavHandler) Push(c *gin.Context) {
	var req navPushReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}
	if err := h.svc.Push(c.Request.Context(), userIDFromCtx(c), req.View); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *NavHandler) Back(c *gin.Context) {
	view, err := h.svc.Back(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view})
}

func (h *NavHandler) Forward(c *gin.Context) {
	view, err := h.svc.Forward(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view})
}

func (h *NavHandler) Current(c *gin.Context) {
	view, err := h.svc.Current(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view})
}
