package model

import (
	"encoding/json"
	"fmt"
	"time"

	"Nova_Social/internal/pkg"
)

const (
	MsgTypeText  = "text"
	MsgTypeImage = "image"
	MsgTypeAudio = "audio"
	MsgTypePoll  = "poll"
)

// Message 社区消息，Seq 在社区内单调递增、永不复用
// 软删除只隐藏内容，行和序号保留，分页位置不变
type Message struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_seq"`
	Seq         uint64 `gorm:"not null;uniqueIndex:uk_community_seq"`
	SenderID    uint64 `gorm:"not null;index"`
	Type        string `gorm:"size:8;not null;default:'text'"`
	Content     string `gorm:"type:text"`
	MediaRef    string `gorm:"size:255"` // image/audio 的句柄或 URI，不落媒体字节
	ReplyTo     uint64 `gorm:"not null;default:0"` // 被回复消息的 Seq，0 表示无
	Pinned      bool   `gorm:"not null;default:false"`
	Deleted     bool   `gorm:"not null;default:false"`
	VoteCount   int64  `gorm:"not null;default:0"`
	Poll        string `gorm:"type:json"` // poll 类型消息的投票状态
	CreatedAt   time.Time
}

func ValidMsgType(t string) bool {
	switch t {
	case MsgTypeText, MsgTypeImage, MsgTypeAudio, MsgTypePoll:
		return true
	}
	return false
}

// MessageVote 每 (message, user) 一行，重复投票靠唯一键天然幂等
type MessageVote struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	MessageID uint64 `gorm:"not null;index;uniqueIndex:uk_message_voter"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_message_voter"`
	CreatedAt time.Time
}

func (MessageVote) TableName() string {
	return "message_votes"
}

// PollState 投票消息的负载：每人一票，换选项时旧票转移
type PollState struct {
	Question string         `json:"question"`
	Options  []string       `json:"options"`
	Counts   []int64        `json:"counts"`
	Votes    map[uint64]int `json:"votes"` // voter id -> 选项下标
}

func NewPollState(question string, options []string) (*PollState, error) {
	if question == "" {
		return nil, fmt.Errorf("%w: poll question required", pkg.ErrValidation)
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("%w: poll needs at least two options", pkg.ErrValidation)
	}
	return &PollState{
		Question: question,
		Options:  options,
		Counts:   make([]int64, len(options)),
		Votes:    map[uint64]int{},
	}, nil
}

// Vote 记录或切换某用户的选择，重复选同一项为 no-op
// 返回本次是否改变了状态
func (p *PollState) Vote(userID uint64, option int) (bool, error) {
	if option < 0 || option >= len(p.Options) {
		return false, fmt.Errorf("%w: option index out of range", pkg.ErrValidation)
	}
	if p.Votes == nil {
		p.Votes = map[uint64]int{}
	}
	prev, voted := p.Votes[userID]
	if voted {
		if prev == option {
			return false, nil
		}
		if p.Counts[prev] > 0 {
			p.Counts[prev]--
		}
	}
	p.Votes[userID] = option
	p.Counts[option]++
	return true, nil
}

// TotalVotes 各选项计数之和，等于参与人数
func (p *PollState) TotalVotes() int64 {
	var n int64
	for _, c := range p.Counts {
		n += c
	}
	return n
}

func (p *PollState) Marshal() string {
	b, _ := json.Marshal(p)
	return string(b)
}

func UnmarshalPoll(raw string) (*PollState, error) {
	var p PollState
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: malformed poll payload", pkg.ErrState)
	}
	return &p, nil
}
