package model

import (
	"encoding/json"
	"strings"
	"time"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Password  string `gorm:"size:255;not null"`
	Email     string `gorm:"uniqueIndex;size:64;not null"`
	Avatar    string `gorm:"size:255"`
	Tags      string `gorm:"type:json"` // 兴趣标签，JSON 数组
	Karma     int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagList 解析兴趣标签，脏数据按空处理
func (u *User) TagList() []string {
	if u.Tags == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(u.Tags), &tags); err != nil {
		return nil
	}
	return tags
}

func (u *User) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	u.Tags = string(b)
}

// HasTag 大小写不敏感
func (u *User) HasTag(tag string) bool {
	for _, t := range u.TagList() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
