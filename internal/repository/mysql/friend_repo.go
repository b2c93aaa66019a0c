package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendRepository struct {
	DB *gorm.DB
}

type OutboxRepository struct {
	DB *gorm.DB
}

func (r *FriendRepository) db() *gorm.DB {
	if r.DB != nil {
		return r.DB
	}
	return DB
}

// CreateRequest 发起好友申请（幂等）。已是好友时拒绝，重复申请静默吸收。
func (r *FriendRepository) CreateRequest(ctx context.Context, requesterID, targetID uint64) error {
	return r.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		low, high := model.NormalizePair(requesterID, targetID)
		var n int64
		if err := tx.Model(&model.Friendship{}).
			Where("user_low = ? AND user_high = ?", low, high).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return pkg.ErrAlreadyConnected
		}
		// 唯一键 (requester, target)，重复调用不会产生第二条 pending
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "requester_id"}, {Name: "target_id"}},
			DoNothing: true,
		}).Create(&model.FriendRequest{
			RequesterID: requesterID,
			TargetID:    targetID,
		}).Error
	})
}

// Accept 接受申请：同一事务里删申请、建好友边、写 outbox
// 反向 pending（对方也申请过）一并清掉，好友存在时不允许残留申请
func (r *FriendRepository) Accept(ctx context.Context, targetID, requesterID uint64) error {
	return r.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req model.FriendRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("requester_id = ? AND target_id = ?", requesterID, targetID).
			First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrNoSuchRequest
			}
			return err
		}

		if err := tx.Delete(&model.FriendRequest{}, req.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("requester_id = ? AND target_id = ?", targetID, requesterID).
			Delete(&model.FriendRequest{}).Error; err != nil {
			return err
		}

		low, high := model.NormalizePair(requesterID, targetID)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_low"}, {Name: "user_high"}},
			DoNothing: true,
		}).Create(&model.Friendship{UserLow: low, UserHigh: high}).Error; err != nil {
			return err
		}

		return r.insertOutbox(tx, "friend_add", requesterID, targetID)
	})
}

// Decline 拒绝申请，只删记录，无其它副作用
func (r *FriendRepository) Decline(ctx context.Context, targetID, requesterID uint64) error {
	res := r.db().WithContext(ctx).
		Where("requester_id = ? AND target_id = ?", requesterID, targetID).
		Delete(&model.FriendRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrNoSuchRequest
	}
	return nil
}

// Unfriend 删除好友边（幂等），删到了才写 outbox
func (r *FriendRepository) Unfriend(ctx context.Context, a, b uint64) (bool, error) {
	var changed bool
	err := r.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		low, high := model.NormalizePair(a, b)
		res := tx.Where("user_low = ? AND user_high = ?", low, high).
			Delete(&model.Friendship{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return r.insertOutbox(tx, "friend_remove", a, b)
	})
	return changed, err
}

// ListRequestsFor 收到的申请
func (r *FriendRepository) ListRequestsFor(ctx context.Context, targetID uint64) ([]model.FriendRequest, error) {
	var rows []model.FriendRequest
	err := r.db().WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// PendingPeers 与 userID 有未决申请的所有对端（双向），推荐时要排除
func (r *FriendRepository) PendingPeers(ctx context.Context, userID uint64) (map[uint64]struct{}, error) {
	var rows []model.FriendRequest
	if err := r.db().WithContext(ctx).
		Where("requester_id = ? OR target_id = ?", userID, userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	peers := make(map[uint64]struct{}, len(rows))
	for _, req := range rows {
		if req.RequesterID == userID {
			peers[req.TargetID] = struct{}{}
		} else {
			peers[req.RequesterID] = struct{}{}
		}
	}
	return peers, nil
}

// AllFriendships 启动时灌内存索引用
func (r *FriendRepository) AllFriendships(ctx context.Context) ([]model.Friendship, error) {
	var rows []model.Friendship
	err := r.db().WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (r *FriendRepository) insertOutbox(tx *gorm.DB, event string, a, b uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"user_a":     a,
		"user_b":     b,
	})
	ob := &model.SocialOutbox{
		EventType: event,
		UserA:     a,
		UserB:     b,
		Payload:   string(payload),
		Status:    0,
	}
	return tx.Create(ob).Error
}

func (r *OutboxRepository) db() *gorm.DB {
	if r.DB != nil {
		return r.DB
	}
	return DB
}

// OutboxMaxRetry 投递失败的行重试上限，超过后不再捞起
const OutboxMaxRetry = 5

// List outbox 待投递批量查询：新行和重试次数未超限的失败行
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.SocialOutbox, error) {
	var list []model.SocialOutbox
	if err := r.db().WithContext(ctx).
		Where("status = 0 OR (status = 2 AND retry < ?)", OutboxMaxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败记一次重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.db().WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.db().WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
