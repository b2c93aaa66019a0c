package handler

import (
	"net/http"
	"strconv"

	"Nova_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type DirectHandler struct {
	svc *service.DirectService
}

func NewDirectHandler(svc *service.DirectService) *DirectHandler {
	return &DirectHandler{svc: svc}
}

type sendDMReq struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	MediaRef string `json:"media_ref"`
	ReplyTo  uint64 `json:"reply_to"`
}

type reactDMReq struct {
	Reaction string `json:"reaction"`
}

// Send 发私聊，:id 是对方用户
func (h *DirectHandler) Send(c *gin.Context) {
	peerID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req sendDMReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), service.DirectSendInput{
		SenderID: userIDFromCtx(c),
		PeerID:   peerID,
		Type:     req.Type,
		Content:  req.Content,
		MediaRef: req.MediaRef,
		ReplyTo:  req.ReplyTo,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": msg.Seq})
}

// Get 会话窗口，拉取即已读
func (h *DirectHandler) Get(c *gin.Context) {
	peerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || peerID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	chat, err := h.svc.GetChat(c.Request.Context(), userIDFromCtx(c), peerID, offset, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// React 表情回应
func (h *DirectHandler) React(c *gin.Context) {
	peerID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	seq, _ := strconv.ParseUint(c.Param("seq"), 10, 64)
	var req reactDMReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}
	if err := h.svc.React(c.Request.Context(), userIDFromCtx(c), peerID, seq, req.Reaction); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Inbox 会话列表
func (h *DirectHandler) Inbox(c *gin.Context) {
	list, err := h.svc.Inbox(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
