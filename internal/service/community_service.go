package service

import (
	"context"
	"fmt"
	"time"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"
	"Nova_Social/internal/repository/mysql"
)

type CommunityService struct {
	repo       *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
	msgRepo    *mysql.MessageRepository
	userRepo   *mysql.UserRepository
}

func NewCommunityService() *CommunityService {
	return &CommunityService{
		repo:       &mysql.CommunityRepository{},
		memberRepo: &mysql.CommunityMemberRepository{},
		msgRepo:    &mysql.MessageRepository{},
		userRepo:   &mysql.UserRepository{},
	}
}

func (s *CommunityService) CreateCommunity(userID uint64, name, desc string, tags []string, cover string) (*model.Community, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: community name required", pkg.ErrValidation)
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		Cover:       cover,
		CreatorID:   userID,
	}
	community.SetTags(tags)

	if _, err := s.repo.Create(community); err != nil {
		return nil, err
	}
	return community, nil
}

// JoinCommunity 封禁用户不得加入；重复加入幂等
func (s *CommunityService) JoinCommunity(userID, communityID uint64) error {
	if _, err := s.repo.FindByID(communityID); err != nil {
		return err
	}
	banned, err := s.memberRepo.IsBanned(communityID, userID)
	if err != nil {
		return err
	}
	if banned {
		return pkg.ErrBanned
	}
	return s.memberRepo.Join(&model.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        model.RoleMember,
	})
}

func (s *CommunityService) LeaveCommunity(userID, communityID uint64) error {
	return s.memberRepo.Leave(communityID, userID)
}

// CommunitySummary 列表条目
type CommunitySummary struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"desc"`
	Tags        []string `json:"tags"`
	Cover       string   `json:"cover,omitempty"`
	Members     int64    `json:"members"`
}

func (s *CommunityService) ListCommunities(page, size int) ([]CommunitySummary, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	list, err := s.repo.List(offset, size)
	if err != nil {
		return nil, err
	}
	out := make([]CommunitySummary, 0, len(list))
	for i := range list {
		c := &list[i]
		n, _ := s.memberRepo.Count(c.ID)
		out = append(out, CommunitySummary{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Tags:        c.TagList(),
			Cover:       c.Cover,
			Members:     n,
		})
	}
	return out, nil
}

// requireModerator 管理操作统一的权限闸
func (s *CommunityService) requireModerator(communityID, userID uint64) error {
	role, isMember, err := s.memberRepo.Role(communityID, userID)
	if err != nil {
		return err
	}
	if !isMember || role < model.RoleModerator {
		return pkg.ErrNotModerator
	}
	return nil
}

// Ban 版主封人；版主之间互不可封
func (s *CommunityService) Ban(ctx context.Context, communityID, modID, targetID uint64) error {
	if err := s.requireModerator(communityID, modID); err != nil {
		return err
	}
	role, isMember, err := s.memberRepo.Role(communityID, targetID)
	if err != nil {
		return err
	}
	if isMember && role >= model.RoleModerator {
		return pkg.ErrTargetModerator
	}
	return s.memberRepo.Ban(ctx, communityID, targetID, modID)
}

// Unban 解封只恢复加入资格，不恢复成员身份
func (s *CommunityService) Unban(ctx context.Context, communityID, modID, targetID uint64) error {
	if err := s.requireModerator(communityID, modID); err != nil {
		return err
	}
	return s.memberRepo.Unban(ctx, communityID, targetID)
}

// Promote 创建者提拔版主
func (s *CommunityService) Promote(communityID, callerID, targetID uint64) error {
	c, err := s.repo.FindByID(communityID)
	if err != nil {
		return err
	}
	if c.CreatorID != callerID {
		return pkg.ErrNotModerator
	}
	return s.memberRepo.SetRole(communityID, targetID, model.RoleModerator)
}

/*
社区详情 + 消息窗口
*/

type ReplyPreview struct {
	Seq         uint64 `json:"id"`
	Sender      string `json:"sender,omitempty"`
	Excerpt     string `json:"excerpt"`
	Unavailable bool   `json:"unavailable,omitempty"`
}

type PollView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Counts   []int64  `json:"counts"`
	MyVote   int      `json:"my_vote"` // 未投为 -1
	Total    int64    `json:"total"`
}

type MessageView struct {
	Seq          uint64        `json:"id"`
	SenderID     uint64        `json:"sender_id"`
	Sender       string        `json:"sender"`
	Type         string        `json:"type"`
	Content      string        `json:"content"`
	MediaRef     string        `json:"media_ref,omitempty"`
	Time         string        `json:"time"`
	Votes        int64         `json:"votes"`
	Pinned       bool          `json:"pinned"`
	Deleted      bool          `json:"deleted"`
	ReplyTo      uint64        `json:"reply_to,omitempty"`
	ReplyPreview *ReplyPreview `json:"reply_preview,omitempty"`
	Poll         *PollView     `json:"poll,omitempty"`
}

type CommunityDetail struct {
	ID          uint64        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"desc"`
	Tags        []string      `json:"tags"`
	Cover       string        `json:"cover,omitempty"`
	Members     int64         `json:"members"`
	IsMember    bool          `json:"is_member"`
	IsMod       bool          `json:"is_mod"`
	IsBanned    bool          `json:"is_banned"`
	TotalMsgs   int64         `json:"total_msgs"`
	Messages    []MessageView `json:"messages"`
}

const replyExcerptLen = 80

// GetCommunity offset 从尾部数：offset=0 返回最新 limit 条，窗口内旧→新
// total_msgs 让调用方判断往回翻到头没有
func (s *CommunityService) GetCommunity(ctx context.Context, communityID, requesterID uint64, offset, limit int) (*CommunityDetail, error) {
	c, err := s.repo.FindByID(communityID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	role, isMember, err := s.memberRepo.Role(communityID, requesterID)
	if err != nil {
		return nil, err
	}
	banned, err := s.memberRepo.IsBanned(communityID, requesterID)
	if err != nil {
		return nil, err
	}
	memberCount, err := s.memberRepo.Count(communityID)
	if err != nil {
		return nil, err
	}

	msgs, total, err := s.msgRepo.Window(ctx, communityID, offset, limit)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, communityID, requesterID, msgs)
	if err != nil {
		return nil, err
	}

	return &CommunityDetail{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Tags:        c.TagList(),
		Cover:       c.Cover,
		Members:     memberCount,
		IsMember:    isMember,
		IsMod:       isMember && role >= model.RoleModerator,
		IsBanned:    banned,
		TotalMsgs:   total,
		Messages:    views,
	}, nil
}

func (s *CommunityService) buildViews(ctx context.Context, communityID, requesterID uint64, msgs []model.Message) ([]MessageView, error) {
	senderIDs := make([]uint64, 0, len(msgs))
	replySeqs := make([]uint64, 0)
	seen := map[uint64]struct{}{}
	for _, m := range msgs {
		if _, ok := seen[m.SenderID]; !ok {
			seen[m.SenderID] = struct{}{}
			senderIDs = append(senderIDs, m.SenderID)
		}
		if m.ReplyTo != 0 {
			replySeqs = append(replySeqs, m.ReplyTo)
		}
	}

	replied, err := s.msgRepo.FindBySeqs(ctx, communityID, replySeqs)
	if err != nil {
		return nil, err
	}
	for _, rm := range replied {
		if _, ok := seen[rm.SenderID]; !ok {
			seen[rm.SenderID] = struct{}{}
			senderIDs = append(senderIDs, rm.SenderID)
		}
	}

	users, err := s.userRepo.FindByIDs(senderIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		v := MessageView{
			Seq:      m.Seq,
			SenderID: m.SenderID,
			Sender:   names[m.SenderID],
			Type:     m.Type,
			Pinned:   m.Pinned,
			Deleted:  m.Deleted,
			Votes:    m.VoteCount,
			Time:     m.CreatedAt.Format(time.RFC3339),
			ReplyTo:  m.ReplyTo,
		}
		if !m.Deleted {
			v.Content = m.Content
			v.MediaRef = m.MediaRef
			if m.Type == model.MsgTypePoll && m.Poll != "" {
				if p, err := model.UnmarshalPoll(m.Poll); err == nil {
					v.Poll = pollViewOf(p, requesterID)
				}
			}
		}
		if m.ReplyTo != 0 {
			v.ReplyPreview = replyPreviewOf(replied, m.ReplyTo, names)
		}
		views = append(views, v)
	}
	return views, nil
}

// replyPreviewOf 被回复消息删了也要能解析成占位，不能悬空
func replyPreviewOf(replied map[uint64]model.Message, seq uint64, names map[uint64]string) *ReplyPreview {
	rm, ok := replied[seq]
	if !ok || rm.Deleted {
		return &ReplyPreview{Seq: seq, Excerpt: "message unavailable", Unavailable: true}
	}
	excerpt := rm.Content
	if rm.Type != model.MsgTypeText && excerpt == "" {
		excerpt = "[" + rm.Type + "]"
	}
	if r := []rune(excerpt); len(r) > replyExcerptLen {
		excerpt = string(r[:replyExcerptLen])
	}
	return &ReplyPreview{Seq: seq, Sender: names[rm.SenderID], Excerpt: excerpt}
}

func pollViewOf(p *model.PollState, requesterID uint64) *PollView {
	my := -1
	if opt, ok := p.Votes[requesterID]; ok {
		my = opt
	}
	return &PollView{
		Question: p.Question,
		Options:  p.Options,
		Counts:   p.Counts,
		MyVote:   my,
		Total:    p.TotalVotes(),
	}
}
