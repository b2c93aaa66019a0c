package service

import (
	"context"
	"fmt"
	"time"

	"Nova_Social/internal/graph"
	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"
	"Nova_Social/internal/repository/mysql"
)

// DirectService 1:1 私聊，只在好友之间开放
// 会话内序号与窗口语义与社区消息一致，另带已读回执和表情回应
type DirectService struct {
	repo  *mysql.DirectRepository
	users *mysql.UserRepository
	idx   *graph.Graph
}

func NewDirectService(idx *graph.Graph) *DirectService {
	return &DirectService{
		repo:  &mysql.DirectRepository{},
		users: &mysql.UserRepository{},
		idx:   idx,
	}
}

// DirectSendInput replyTo 为 0 表示不回复
type DirectSendInput struct {
	SenderID uint64
	PeerID   uint64
	Type     string
	Content  string
	MediaRef string
	ReplyTo  uint64
}

func (s *DirectService) checkPair(senderID, peerID uint64) error {
	if senderID == peerID {
		return pkg.ErrSelfReference
	}
	if _, err := s.users.FindByID(peerID); err != nil {
		return err
	}
	if !s.idx.HasEdge(senderID, peerID) {
		return pkg.ErrNotFriends
	}
	return nil
}

// Send 只能发给好友；文本/图片/语音复用社区消息的类型约束
func (s *DirectService) Send(ctx context.Context, in DirectSendInput) (*model.DirectMessage, error) {
	if err := s.checkPair(in.SenderID, in.PeerID); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = model.MsgTypeText
	}
	switch in.Type {
	case model.MsgTypeText:
		if in.Content == "" {
			return nil, fmt.Errorf("%w: empty message", pkg.ErrValidation)
		}
	case model.MsgTypeImage, model.MsgTypeAudio:
		if in.MediaRef == "" {
			return nil, fmt.Errorf("%w: media reference required", pkg.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", pkg.ErrValidation, in.Type)
	}

	msg := &model.DirectMessage{
		SenderID: in.SenderID,
		Type:     in.Type,
		Content:  in.Content,
		MediaRef: in.MediaRef,
		ReplyTo:  in.ReplyTo,
	}
	if err := s.repo.Append(ctx, in.SenderID, in.PeerID, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

type DirectMessageView struct {
	Seq      uint64 `json:"id"`
	SenderID uint64 `json:"sender_id"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	MediaRef string `json:"media_ref,omitempty"`
	ReplyTo  uint64 `json:"reply_to,omitempty"`
	Reaction string `json:"reaction,omitempty"`
	Seen     bool   `json:"is_seen"`
	Time     string `json:"time"`
}

type DirectChatView struct {
	PeerID    uint64              `json:"peer_id"`
	PeerName  string              `json:"peer_name"`
	TotalMsgs int64               `json:"total_msgs"`
	Messages  []DirectMessageView `json:"messages"`
}

// GetChat 拉取会话窗口（尾部锚定），同时把对方发来的未读置为已读
func (s *DirectService) GetChat(ctx context.Context, userID, peerID uint64, offset, limit int) (*DirectChatView, error) {
	if err := s.checkPair(userID, peerID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	if err := s.repo.MarkSeen(ctx, userID, peerID, userID); err != nil {
		return nil, err
	}

	msgs, total, err := s.repo.Window(ctx, userID, peerID, offset, limit)
	if err != nil {
		return nil, err
	}

	peer, err := s.users.FindByID(peerID)
	if err != nil {
		return nil, err
	}

	views := make([]DirectMessageView, 0, len(msgs))
	for _, m := range msgs {
		seen := m.Seen
		if m.SenderID != userID {
			// 刚才已批量置读
			seen = true
		}
		views = append(views, DirectMessageView{
			Seq:      m.Seq,
			SenderID: m.SenderID,
			Type:     m.Type,
			Content:  m.Content,
			MediaRef: m.MediaRef,
			ReplyTo:  m.ReplyTo,
			Reaction: m.Reaction,
			Seen:     seen,
			Time:     m.CreatedAt.Format(time.RFC3339),
		})
	}
	return &DirectChatView{
		PeerID:    peerID,
		PeerName:  peer.Username,
		TotalMsgs: total,
		Messages:  views,
	}, nil
}

// React 给对方会话里的一条消息打表情，空串清除
func (s *DirectService) React(ctx context.Context, userID, peerID, seq uint64, reaction string) error {
	if err := s.checkPair(userID, peerID); err != nil {
		return err
	}
	if r := []rune(reaction); len(r) > 8 {
		return fmt.Errorf("%w: reaction too long", pkg.ErrValidation)
	}
	return s.repo.React(ctx, userID, peerID, seq, reaction)
}

// InboxEntry 收件箱条目，照 UI 字段：对端资料 + 最后一条摘要 + 未读数
type InboxEntry struct {
	PeerID   uint64 `json:"id"`
	PeerName string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	LastMsg  string `json:"last_msg"`
	Time     string `json:"time"`
	Unseen   int64  `json:"unseen"`
}

// Inbox 参与的全部会话，最近活跃在前
func (s *DirectService) Inbox(ctx context.Context, userID uint64) ([]InboxEntry, error) {
	threads, err := s.repo.Threads(ctx, userID)
	if err != nil {
		return nil, err
	}

	peerIDs := make([]uint64, 0, len(threads))
	for i := range threads {
		peerIDs = append(peerIDs, threads[i].Peer(userID))
	}
	users, err := s.users.FindByIDs(peerIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	out := make([]InboxEntry, 0, len(threads))
	for i := range threads {
		t := &threads[i]
		peer := byID[t.Peer(userID)]
		if peer == nil {
			continue
		}
		last, err := s.repo.LastMessage(ctx, t)
		if err != nil {
			return nil, err
		}
		unseen, err := s.repo.UnseenCount(ctx, t.ID, userID)
		if err != nil {
			return nil, err
		}
		entry := InboxEntry{
			PeerID:   peer.ID,
			PeerName: peer.Username,
			Avatar:   peer.Avatar,
			Unseen:   unseen,
		}
		if last != nil {
			entry.LastMsg = dmExcerpt(last)
			entry.Time = last.CreatedAt.Format(time.RFC3339)
		}
		out = append(out, entry)
	}
	return out, nil
}

const dmExcerptLen = 60

// dmExcerpt 收件箱预览：媒体消息显示类型占位，文本按字符截断
func dmExcerpt(m *model.DirectMessage) string {
	text := m.Content
	if m.Type != model.MsgTypeText && text == "" {
		text = "[" + m.Type + "]"
	}
	if r := []rune(text); len(r) > dmExcerptLen {
		text = string(r[:dmExcerptLen])
	}
	return text
}
