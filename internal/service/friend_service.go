package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"Nova_Social/internal/graph"
	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"
	"Nova_Social/internal/repository/mysql"
)

// FriendService 好友图：MySQL 是事实来源，内存邻接索引服务 BFS/推荐
// 索引在事务提交后更新，读到的最坏情况是短暂落后于库，不会超前
type FriendService struct {
	repo  *mysql.FriendRepository
	users *mysql.UserRepository
	idx   *graph.Graph
	opts  graph.RecommendOptions
}

func NewFriendService(idx *graph.Graph, opts graph.RecommendOptions) *FriendService {
	return &FriendService{
		repo:  &mysql.FriendRepository{},
		users: &mysql.UserRepository{},
		idx:   idx,
		opts:  opts,
	}
}

// LoadGraph 启动时把全量好友边灌进内存索引
func (s *FriendService) LoadGraph(ctx context.Context) error {
	rows, err := s.repo.AllFriendships(ctx)
	if err != nil {
		return err
	}
	for _, f := range rows {
		s.idx.AddEdge(f.UserLow, f.UserHigh)
	}
	log.Printf("friend graph loaded: %d edges", len(rows))
	return nil
}

// SendRequest 发起好友申请（幂等）
func (s *FriendService) SendRequest(ctx context.Context, requesterID, targetID uint64) error {
	if requesterID == targetID {
		return pkg.ErrSelfReference
	}
	if _, err := s.users.FindByID(targetID); err != nil {
		return err
	}
	if s.idx.HasEdge(requesterID, targetID) {
		return pkg.ErrAlreadyConnected
	}
	return s.repo.CreateRequest(ctx, requesterID, targetID)
}

// Accept 接受申请：库里建边成功后同步内存索引
func (s *FriendService) Accept(ctx context.Context, targetID, requesterID uint64) error {
	if err := s.repo.Accept(ctx, targetID, requesterID); err != nil {
		return err
	}
	s.idx.AddEdge(requesterID, targetID)
	return nil
}

func (s *FriendService) Decline(ctx context.Context, targetID, requesterID uint64) error {
	return s.repo.Decline(ctx, targetID, requesterID)
}

// Unfriend 解除好友关系（幂等）
func (s *FriendService) Unfriend(ctx context.Context, userID, otherID uint64) (bool, error) {
	if userID == otherID {
		return false, pkg.ErrSelfReference
	}
	changed, err := s.repo.Unfriend(ctx, userID, otherID)
	if err != nil {
		return false, err
	}
	if changed {
		s.idx.RemoveEdge(userID, otherID)
	}
	return changed, nil
}

// Degree 1/2/3 度关系，够不到返回 connected=false
func (s *FriendService) Degree(a, b uint64) (int, bool) {
	return s.idx.Degree(a, b)
}

// ConnectionsAtDegree 恰好 n 度相连的用户列表（1=直接好友，2=好友的好友…）
func (s *FriendService) ConnectionsAtDegree(userID uint64, degree int) ([]FriendEntry, error) {
	if degree <= 0 || degree > graph.DegreeCap {
		return nil, fmt.Errorf("%w: degree must be 1..%d", pkg.ErrValidation, graph.DegreeCap)
	}
	return s.entriesOf(s.idx.ConnectionsAtDegree(userID, degree))
}

// FriendEntry 好友列表条目
type FriendEntry struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func (s *FriendService) Friends(userID uint64) ([]FriendEntry, error) {
	ids := s.idx.Friends(userID)
	return s.entriesOf(ids)
}

// PendingRequests 收到的未决申请
func (s *FriendService) PendingRequests(ctx context.Context, userID uint64) ([]FriendEntry, error) {
	rows, err := s.repo.ListRequestsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.RequesterID)
	}
	return s.entriesOf(ids)
}

func (s *FriendService) entriesOf(ids []uint64) ([]FriendEntry, error) {
	users, err := s.users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Username
	}
	out := make([]FriendEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, FriendEntry{ID: id, Name: byID[id]})
	}
	return out, nil
}

// Recommendation 推荐条目，照 UI 字段：mutual_friends + karma
type Recommendation struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	MutualFriends int    `json:"mutual_friends"`
	Karma         int64  `json:"karma"`
}

// Recommend 好友的好友按共同好友数排序，排除已有好友/自己/未决申请对端
func (s *FriendService) Recommend(ctx context.Context, userID uint64, limit int) ([]Recommendation, error) {
	exclude, err := s.repo.PendingPeers(ctx, userID)
	if err != nil {
		return nil, err
	}

	opts := s.opts
	opts.Limit = limit

	var karmaFn func(uint64) int64
	if opts.KarmaWeight != 0 {
		karmaFn = func(id uint64) int64 {
			u, err := s.users.FindByID(id)
			if err != nil {
				return 0
			}
			return u.Karma
		}
	}

	recs := s.idx.Recommend(userID, exclude, opts, karmaFn)

	ids := make([]uint64, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.UserID)
	}
	users, err := s.users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		u, ok := byID[r.UserID]
		if !ok {
			continue
		}
		out = append(out, Recommendation{
			ID:            r.UserID,
			Name:          u.Username,
			MutualFriends: r.Mutuals,
			Karma:         u.Karma,
		})
	}
	return out, nil
}

/*
outbox 投递：好友事件异步发 kafka
*/

type Sender func(ctx context.Context, ob *model.SocialOutbox) error

// outboxStore 待投递行的捞取与状态回写；List 只返回还该投的行
// （新行 + 重试未超限的失败行）
type outboxStore interface {
	List(ctx context.Context, batchSize int) ([]model.SocialOutbox, error)
	RetryUpdate(ctx context.Context, id uint64) error
	SuccessUpdate(ctx context.Context, id uint64) error
}

type OutboxRelayer struct {
	repo      outboxStore
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// KafkaSender 事件按 user_a 分区，保证同一用户事件有序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return p.Publish(ctx, ob.UserA, []byte(ob.Payload))
	}
}

// LogSender 占位 sender：kafka 不可用时先打日志
func LogSender(ctx context.Context, ob *model.SocialOutbox) error {
	log.Printf("OUTBOX SEND type=%s user_a=%d user_b=%d payload=%s", ob.EventType, ob.UserA, ob.UserB, ob.Payload)
	return nil
}

// Run outbox 启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}
