package model

import (
	"encoding/json"
	"time"
)

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"size:64;not null"`
	Description string `gorm:"type:text"`
	Tags        string `gorm:"type:json"`
	Cover       string `gorm:"size:255"`
	CreatorID   uint64 `gorm:"not null;index"`
	LastSeq     uint64 `gorm:"not null;default:0"` // 消息序号分配器，行锁下递增
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Community) TagList() []string {
	if c.Tags == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(c.Tags), &tags); err != nil {
		return nil
	}
	return tags
}

func (c *Community) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	c.Tags = string(b)
}

const (
	RoleMember    = 0
	RoleModerator = 1
)

type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        int    `gorm:"not null;default:0"` // 0=member, 1=moderator
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommunityBan 封禁名单，解封即删行（解封不恢复成员身份）
type CommunityBan struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_ban"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_ban"`
	BannedBy    uint64 `gorm:"not null"`
	CreatedAt   time.Time
}

func (CommunityBan) TableName() string {
	return "community_bans"
}
