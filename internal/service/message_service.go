package service

import (
	"context"
	"fmt"
	"time"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"
	"Nova_Social/internal/repository/mysql"
	"Nova_Social/internal/repository/redis"

	"github.com/google/uuid"
)

type MessageService struct {
	repo       *mysql.MessageRepository
	memberRepo *mysql.CommunityMemberRepository
	voteCache  *redis.VoteCacheRepository
	lock       *redis.DistLock
}

func NewMessageService() *MessageService {
	return &MessageService{
		repo:       &mysql.MessageRepository{},
		memberRepo: &mysql.CommunityMemberRepository{},
		voteCache:  redis.NewVoteCacheRepository(),
		lock:       &redis.DistLock{},
	}
}

// SendInput replyTo 为 0 表示不回复；媒体只传句柄/URI，不传字节
type SendInput struct {
	CommunityID uint64
	SenderID    uint64
	Type        string
	Content     string
	MediaRef    string
	ReplyTo     uint64
	PollOptions []string // poll 类型时的选项，Content 作为问题
}

// Send 发消息：成员且未被封禁才能发；序号在仓储层锁社区行分配
func (s *MessageService) Send(ctx context.Context, in SendInput) (*model.Message, error) {
	if !model.ValidMsgType(in.Type) {
		return nil, fmt.Errorf("%w: unknown message type %q", pkg.ErrValidation, in.Type)
	}

	if err := s.checkSender(in.CommunityID, in.SenderID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		CommunityID: in.CommunityID,
		SenderID:    in.SenderID,
		Type:        in.Type,
		Content:     in.Content,
		MediaRef:    in.MediaRef,
		ReplyTo:     in.ReplyTo,
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
	case model.MsgTypePoll:
		p, err := model.NewPollState(in.Content, in.PollOptions)
		if err != nil {
			return nil, err
		}
		msg.Poll = p.Marshal()
	}

	if err := s.repo.Append(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) checkSender(communityID, userID uint64) error {
	banned, err := s.memberRepo.IsBanned(communityID, userID)
	if err != nil {
		return err
	}
	if banned {
		return pkg.ErrBanned
	}
	isMember, err := s.memberRepo.IsMember(communityID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return pkg.ErrNotMember
	}
	return nil
}

// Vote 点赞消息：库里幂等落票后更新缓存；拿不到锁就删计数 key 交给读侧重建
func (s *MessageService) Vote(ctx context.Context, communityID, seq, userID uint64) (bool, error) {
	if err := s.checkSender(communityID, userID); err != nil {
		return false, err
	}

	msg, err := s.repo.FindBySeq(ctx, communityID, seq)
	if err != nil {
		return false, err
	}

	changed, err := s.repo.Vote(ctx, communityID, seq, userID)
	if err != nil {
		return false, err
	}
	if !changed {
		// 幂等命中，惰性回填集合
		s.voteCache.WarmHasVoted(ctx, userID, msg.ID, true)
		return false, nil
	}

	_ = s.voteCache.AddVote(ctx, userID, msg.ID)

	token := uuid.NewString()
	got, _ := s.lock.Acquire(ctx, msg.ID, token)
	if got {
		defer s.lock.Release(ctx, msg.ID, token)
		if cnt, err := s.repo.VoteCount(ctx, msg.ID); err == nil {
			_ = s.voteCache.SetVoteCount(ctx, msg.ID, cnt)
		} else {
			_ = s.voteCache.DeleteCount(ctx, msg.ID)
		}
	} else {
		_ = s.voteCache.DeleteCount(ctx, msg.ID)
	}
	return true, nil
}

// VotePoll 投票/换票；同选项重复投为 no-op
func (s *MessageService) VotePoll(ctx context.Context, communityID, seq, userID uint64, option int) (*PollView, bool, error) {
	if err := s.checkSender(communityID, userID); err != nil {
		return nil, false, err
	}
	state, changed, err := s.repo.VotePoll(ctx, communityID, seq, userID, option)
	if err != nil {
		return nil, false, err
	}
	return pollViewOf(state, userID), changed, nil
}

// VoteCount 读侧：缓存 -> 锁 -> 回源，miss 风暴只放一个请求打库
func (s *MessageService) VoteCount(ctx context.Context, communityID, seq uint64) (int64, error) {
	msg, err := s.repo.FindBySeq(ctx, communityID, seq)
	if err != nil {
		return 0, err
	}

	if v, ok, err := s.voteCache.GetVoteCountCached(ctx, msg.ID); err == nil && ok {
		return v, nil
	}

	token := uuid.NewString()
	got, _ := s.lock.Acquire(ctx, msg.ID, token)
	if got {
		defer s.lock.Release(ctx, msg.ID, token)

		if v, ok, err := s.voteCache.GetVoteCountCached(ctx, msg.ID); err == nil && ok {
			return v, nil
		}
		v, err := s.repo.VoteCount(ctx, msg.ID)
		if err != nil {
			return 0, err
		}
		_ = s.voteCache.SetVoteCount(ctx, msg.ID, v)
		return v, nil
	}

	// 没拿到锁，短暂退避后再读一次缓存，避免全体打库
	time.Sleep(50 * time.Millisecond)
	if v, ok, err := s.voteCache.GetVoteCountCached(ctx, msg.ID); err == nil && ok {
		return v, nil
	}
	return s.repo.VoteCount(ctx, msg.ID)
}

func (s *MessageService) requireModerator(communityID, userID uint64) error {
	role, isMember, err := s.memberRepo.Role(communityID, userID)
	if err != nil {
		return err
	}
	if !isMember || role < model.RoleModerator {
		return pkg.ErrNotModerator
	}
	return nil
}

// TogglePin 版主置顶开关
func (s *MessageService) TogglePin(ctx context.Context, communityID, modID, seq uint64) (bool, error) {
	if err := s.requireModerator(communityID, modID); err != nil {
		return false, err
	}
	return s.repo.TogglePin(ctx, communityID, seq)
}

// Delete 版主软删除：内容隐藏，序号保留，别人的回复引用落成占位
func (s *MessageService) Delete(ctx context.Context, communityID, modID, seq uint64) error {
	if err := s.requireModerator(communityID, modID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, communityID, seq)
}
