package model

import "time"

// Friendship 无向好友边，只存一行：UserLow < UserHigh
// 两个方向共用同一条记录，关系不可能出现单边分叉
type Friendship struct {
	ID        uint64 `gorm:"primaryKey"`
	UserLow   uint64 `gorm:"not null;index;uniqueIndex:uk_friend_pair"`
	UserHigh  uint64 `gorm:"not null;index;uniqueIndex:uk_friend_pair"`
	CreatedAt time.Time
}

func (Friendship) TableName() string {
	return "friendships"
}

// NormalizePair 规范化无向边的存储顺序
func NormalizePair(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}

// FriendRequest 有向好友申请，(requester, target) 最多一条 pending
type FriendRequest struct {
	ID          uint64 `gorm:"primaryKey"`
	RequesterID uint64 `gorm:"not null;index;uniqueIndex:uk_request_pair"`
	TargetID    uint64 `gorm:"not null;index;uniqueIndex:uk_request_pair"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// SocialOutbox 好友关系事件监控表
type SocialOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // friend_add / friend_remove
	UserA     uint64 `gorm:"not null"`
	UserB     uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SocialOutbox) TableName() string { return "social_outbox" }
