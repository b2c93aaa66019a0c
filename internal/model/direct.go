package model

import "time"

// DirectThread 1:1 私聊会话，无序对归一化为 (UserLow, UserHigh) 存一行
// LastSeq 是会话内消息序号分配器，追加时锁本行递增
type DirectThread struct {
	ID        uint64 `gorm:"primaryKey"`
	UserLow   uint64 `gorm:"not null;index;uniqueIndex:uk_thread_pair"`
	UserHigh  uint64 `gorm:"not null;index;uniqueIndex:uk_thread_pair"`
	LastSeq   uint64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Peer 会话里对方的 id
func (t *DirectThread) Peer(userID uint64) uint64 {
	if t.UserLow == userID {
		return t.UserHigh
	}
	return t.UserLow
}

// Involves userID 是否是会话参与者
func (t *DirectThread) Involves(userID uint64) bool {
	return t.UserLow == userID || t.UserHigh == userID
}

// DirectMessage 私聊消息，Seq 在会话内单调递增
// Reaction 每条消息一个表情，后写覆盖；Seen 由对方拉取会话时置位
type DirectMessage struct {
	ID        uint64 `gorm:"primaryKey"`
	ThreadID  uint64 `gorm:"not null;index;uniqueIndex:uk_thread_seq"`
	Seq       uint64 `gorm:"not null;uniqueIndex:uk_thread_seq"`
	SenderID  uint64 `gorm:"not null;index"`
	Type      string `gorm:"size:8;not null;default:'text'"`
	Content   string `gorm:"type:text"`
	MediaRef  string `gorm:"size:255"`
	ReplyTo   uint64 `gorm:"not null;default:0"` // 被回复消息的 Seq，0 表示无
	Reaction  string `gorm:"size:32"`
	Seen      bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}
