package handler

import (
	"net/http"
	"strconv"

	"Nova_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	svc *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// SendMessageReq 媒体消息只带句柄/URI，字节不进请求体
type SendMessageReq struct {
	Type        string   `json:"type" binding:"required,oneof=text image audio poll"`
	Content     string   `json:"content"`
	MediaRef    string   `json:"media_ref"`
	ReplyTo     uint64   `json:"reply_to"`
	PollOptions []string `json:"poll_options"`
}

type votePollReq struct {
	Option *int `json:"option" binding:"required"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), service.SendInput{
		CommunityID: communityID,
		SenderID:    userIDFromCtx(c),
		Type:        req.Type,
		Content:     req.Content,
		MediaRef:    req.MediaRef,
		ReplyTo:     req.ReplyTo,
		PollOptions: req.PollOptions,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": msg.Seq})
}

// Vote 点赞，重复调用幂等
func (h *MessageHandler) Vote(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	seq, _ := strconv.ParseUint(c.Param("seq"), 10, 64)

	changed, err := h.svc.Vote(c.Request.Context(), communityID, seq, userIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// VotePoll 投票/换票
func (h *MessageHandler) VotePoll(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	seq, _ := strconv.ParseUint(c.Param("seq"), 10, 64)

	var req votePollReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Option == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}

	poll, changed, err := h.svc.VotePoll(c.Request.Context(), communityID, seq, userIDFromCtx(c), *req.Option)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed, "poll": poll})
}

// VoteCount 读票数（缓存优先）
func (h *MessageHandler) VoteCount(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	seq, _ := strconv.ParseUint(c.Param("seq"), 10, 64)

	cnt, err := h.svc.VoteCount(c.Request.Context(), communityID, seq)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": cnt})
}

// Pin 版主置顶开关
func (h *MessageHandler) Pin(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	seq, _ := strconv.ParseUint(c.Param("seq"), 10, 64)

	pinned, err := h.svc.TogglePin(c.Request.Context(), communityID, userIDFromCtx(c), seq)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pinned": pinned})
}

// Delete 版主软删除
func (h *MessageHandler) Delete(c *gin.Context) {
	communityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	seq, _ := strconv.ParseUint(c.Param("seq"), 10, 64)

	if err := h.svc.Delete(c.Request.Context(), communityID, userIDFromCtx(c), seq); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
