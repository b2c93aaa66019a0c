package mysql

import (
	"context"
	"errors"
	"time"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DirectRepository struct {
	DB *gorm.DB
}

func (r *DirectRepository) db() *gorm.DB {
	if r.DB != nil {
		return r.DB
	}
	return DB
}

// lockThread 取出 (a,b) 的会话行并加行锁，没有就先建再锁
func (r *DirectRepository) lockThread(tx *gorm.DB, a, b uint64) (*model.DirectThread, error) {
	low, high := model.NormalizePair(a, b)

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.DirectThread{UserLow: low, UserHigh: high}).Error; err != nil {
		return nil, err
	}

	var t model.DirectThread
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_low = ? AND user_high = ?", low, high).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Thread 只查不建；会话不存在返回 nil
func (r *DirectRepository) Thread(ctx context.Context, a, b uint64) (*model.DirectThread, error) {
	low, high := model.NormalizePair(a, b)
	var t model.DirectThread
	err := r.db().WithContext(ctx).
		Where("user_low = ? AND user_high = ?", low, high).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Append 追加私聊消息：锁会话行分配下一个序号，同一事务写回计数器
// 顺便更新 UpdatedAt，收件箱按最近活跃排序
func (r *DirectRepository) Append(ctx context.Context, a, b uint64, msg *model.DirectMessage) error {
	return r.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := r.lockThread(tx, a, b)
		if err != nil {
			return err
		}

		msg.ThreadID = t.ID
		msg.Seq = t.LastSeq + 1

		// replyTo 必须指向会话内已有消息，否则按“无回复”落库
		if msg.ReplyTo != 0 {
			var n int64
			if err := tx.Model(&model.DirectMessage{}).
				Where("thread_id = ? AND seq = ?", t.ID, msg.ReplyTo).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				msg.ReplyTo = 0
			}
		}

		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.DirectThread{}).
			Where("id = ?", t.ID).
			UpdateColumns(map[string]any{
				"last_seq":   msg.Seq,
				"updated_at": time.Now(),
			}).Error
	})
}

// Window 尾部锚定的消息窗口（窗口内旧→新）+ 当前总条数；无会话返回空窗口
func (r *DirectRepository) Window(ctx context.Context, a, b uint64, offset, limit int) ([]model.DirectMessage, int64, error) {
	t, err := r.Thread(ctx, a, b)
	if err != nil {
		return nil, 0, err
	}
	if t == nil {
		return nil, 0, nil
	}

	db := r.db().WithContext(ctx)
	var total int64
	if err := db.Model(&model.DirectMessage{}).
		Where("thread_id = ?", t.ID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	skip, count := WindowBounds(total, int64(offset), int64(limit))
	if count == 0 {
		return nil, total, nil
	}

	var rows []model.DirectMessage
	if err := db.Where("thread_id = ?", t.ID).
		Order("seq ASC").
		Offset(int(skip)).
		Limit(int(count)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkSeen viewer 拉取会话时把对方发来的未读全部置为已读
func (r *DirectRepository) MarkSeen(ctx context.Context, a, b, viewerID uint64) error {
	t, err := r.Thread(ctx, a, b)
	if err != nil || t == nil {
		return err
	}
	return r.db().WithContext(ctx).Model(&model.DirectMessage{}).
		Where("thread_id = ? AND sender_id <> ? AND seen = false", t.ID, viewerID).
		Update("seen", true).Error
}

// React 给会话内一条消息打表情，后写覆盖
func (r *DirectRepository) React(ctx context.Context, a, b, seq uint64, reaction string) error {
	t, err := r.Thread(ctx, a, b)
	if err != nil {
		return err
	}
	if t == nil {
		return pkg.ErrMessageNotFound
	}
	res := r.db().WithContext(ctx).Model(&model.DirectMessage{}).
		Where("thread_id = ? AND seq = ?", t.ID, seq).
		Update("reaction", reaction)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrMessageNotFound
	}
	return nil
}

// Threads 收件箱：参与的全部会话，最近活跃在前
func (r *DirectRepository) Threads(ctx context.Context, userID uint64) ([]model.DirectThread, error) {
	var rows []model.DirectThread
	err := r.db().WithContext(ctx).
		Where("user_low = ? OR user_high = ?", userID, userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// LastMessage 会话最后一条，空会话返回 nil
func (r *DirectRepository) LastMessage(ctx context.Context, t *model.DirectThread) (*model.DirectMessage, error) {
	if t.LastSeq == 0 {
		return nil, nil
	}
	var m model.DirectMessage
	err := r.db().WithContext(ctx).
		Where("thread_id = ? AND seq = ?", t.ID, t.LastSeq).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UnseenCount 对方发来的未读条数
func (r *DirectRepository) UnseenCount(ctx context.Context, threadID, userID uint64) (int64, error) {
	var n int64
	err := r.db().WithContext(ctx).Model(&model.DirectMessage{}).
		Where("thread_id = ? AND sender_id <> ? AND seen = false", threadID, userID).
		Count(&n).Error
	return n, err
}
