package handler

import (
	"net/http"
	"strconv"

	"Nova_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	svc *service.FriendService
}

func NewFriendHandler(svc *service.FriendService) *FriendHandler {
	return &FriendHandler{svc: svc}
}

type requestReq struct {
	TargetID uint64 `json:"target_id" binding:"required"`
}

type answerReq struct {
	RequesterID uint64 `json:"requester_id" binding:"required"`
	Action      string `json:"action" binding:"required,oneof=accept decline"`
}

// SendRequest 发起好友申请（幂等）
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req requestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}
	if err := h.svc.SendRequest(c.Request.Context(), userIDFromCtx(c), req.TargetID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Answer 接受/拒绝申请
func (h *FriendHandler) Answer(c *gin.Context) {
	var req answerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	var err error
	if req.Action == "accept" {
		err = h.svc.Accept(c.Request.Context(), uid, req.RequesterID)
	} else {
		err = h.svc.Decline(c.Request.Context(), uid, req.RequesterID)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Unfriend 解除好友关系
func (h *FriendHandler) Unfriend(c *gin.Context) {
	otherID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	changed, err := h.svc.Unfriend(c.Request.Context(), userIDFromCtx(c), otherID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// List 好友列表
func (h *FriendHandler) List(c *gin.Context) {
	list, err := h.svc.Friends(userIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Requests 收到的未决申请
func (h *FriendHandler) Requests(c *gin.Context) {
	list, err := h.svc.PendingRequests(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Degree 关系度数，3 度以内；够不到 connected=false
func (h *FriendHandler) Degree(c *gin.Context) {
	otherID, err := strconv.ParseUint(c.Query("to"), 10, 64)
	if err != nil || otherID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	degree, connected := h.svc.Degree(userIDFromCtx(c), otherID)
	c.JSON(http.StatusOK, gin.H{"degree": degree, "connected": connected})
}

// AtDegree 恰好 N 度相连的用户列表（1=好友，2=好友的好友…）
func (h *FriendHandler) AtDegree(c *gin.Context) {
	depth, err := strconv.Atoi(c.Query("depth"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid depth"})
		return
	}
	list, err := h.svc.ConnectionsAtDegree(userIDFromCtx(c), depth)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"degree": depth, "list": list})
}

// Recommendations 好友推荐
func (h *FriendHandler) Recommendations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	list, err := h.svc.Recommend(c.Request.Context(), userIDFromCtx(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
