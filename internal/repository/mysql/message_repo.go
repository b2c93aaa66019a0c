package mysql

import (
	"context"
	"errors"
	"fmt"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepository struct {
	DB *gorm.DB
}

func (r *MessageRepository) db() *gorm.DB {
	if r.DB != nil {
		return r.DB
	}
	return DB
}

// Append 追加消息：锁社区行分配下一个单调序号，同一事务写回计数器
// 两个并发写同一社区会在行锁上排队，序号不可能重复
func (r *MessageRepository) Append(ctx context.Context, msg *model.Message) error {
	return r.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Community
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, msg.CommunityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrCommunityNotFound
			}
			return err
		}

		msg.Seq = c.LastSeq + 1

		// replyTo 必须指向同社区一条未删除的消息，否则按“无回复”落库
		if msg.ReplyTo != 0 {
			var target model.Message
			err := tx.Where("community_id = ? AND seq = ?", msg.CommunityID, msg.ReplyTo).
				First(&target).Error
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && target.Deleted) {
				msg.ReplyTo = 0
			} else if err != nil {
				return err
			}
		}

		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Community{}).
			Where("id = ?", c.ID).
			UpdateColumn("last_seq", msg.Seq).Error
	})
}

func (r *MessageRepository) FindBySeq(ctx context.Context, communityID, seq uint64) (*model.Message, error) {
	var msg model.Message
	err := r.db().WithContext(ctx).
		Where("community_id = ? AND seq = ?", communityID, seq).
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrMessageNotFound
	}
	return &msg, err
}

func (r *MessageRepository) FindBySeqs(ctx context.Context, communityID uint64, seqs []uint64) (map[uint64]model.Message, error) {
	out := map[uint64]model.Message{}
	if len(seqs) == 0 {
		return out, nil
	}
	var rows []model.Message
	if err := r.db().WithContext(ctx).
		Where("community_id = ? AND seq IN ?", communityID, seqs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.Seq] = m
	}
	return out, nil
}

// WindowBounds 尾部锚定的窗口换算：offset=0 取最新 limit 条
// 返回从最旧端数起的跳过行数和本窗口行数
func WindowBounds(total, offset, limit int64) (skip, count int64) {
	if limit <= 0 || offset < 0 || offset >= total {
		return 0, 0
	}
	skip = total - offset - limit
	count = limit
	if skip < 0 {
		count += skip // 窗口越过最旧端时缩短
		skip = 0
	}
	return skip, count
}

// Window 返回 [offset, offset+limit) 从尾部数起的消息窗口（窗口内旧→新），
// 以及当前总条数。软删除的消息占位返回，分页位置不会漂移。
func (r *MessageRepository) Window(ctx context.Context, communityID uint64, offset, limit int) ([]model.Message, int64, error) {
	db := r.db().WithContext(ctx)

	var total int64
	if err := db.Model(&model.Message{}).
		Where("community_id = ?", communityID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	skip, count := WindowBounds(total, int64(offset), int64(limit))
	if count == 0 {
		return nil, total, nil
	}

	var rows []model.Message
	err := db.Where("community_id = ?", communityID).
		Order("seq ASC").
		Offset(int(skip)).
		Limit(int(count)).
		Find(&rows).Error
	return rows, total, err
}

// Vote 每 (message, user) 最多一票，唯一键冲突视为重复调用直接吸收
// 第一次投出时消息计数 +1、作者 karma +5，三步同一事务
func (r *MessageRepository) Vote(ctx context.Context, communityID, seq, userID uint64) (bool, error) {
	var changed bool
	err := r.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var msg model.Message
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("community_id = ? AND seq = ?", communityID, seq).
			First(&msg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrMessageNotFound
			}
			return err
		}
		if msg.Deleted {
			return pkg.ErrMessageDeleted
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&model.MessageVote{MessageID: msg.ID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // 已投过，幂等
		}
		changed = true

		if err := tx.Model(&model.Message{}).
			Where("id = ?", msg.ID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + 1")).Error; err != nil {
			return err
		}
		uRepo := &UserRepository{}
		return uRepo.AddKarma(tx, msg.SenderID, 5)
	})
	return changed, err
}

// VotePoll 锁消息行后在 JSON 负载上换票，计数和投票人映射一起落回
func (r *MessageRepository) VotePoll(ctx context.Context, communityID, seq, userID uint64, option int) (*model.PollState, bool, error) {
	var (
		state   *model.PollState
		changed bool
	)
	err := r.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var msg model.Message
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("community_id = ? AND seq = ?", communityID, seq).
			First(&msg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrMessageNotFound
			}
			return err
		}
		if msg.Deleted {
			return pkg.ErrMessageDeleted
		}
		if msg.Type != model.MsgTypePoll {
			return fmt.Errorf("%w: not a poll message", pkg.ErrState)
		}

		p, err := model.UnmarshalPoll(msg.Poll)
		if err != nil {
			return err
		}
		changed, err = p.Vote(userID, option)
		if err != nil {
			return err
		}
		state = p
		if !changed {
			return nil
		}
		return tx.Model(&model.Message{}).
			Where("id = ?", msg.ID).
			UpdateColumn("poll", p.Marshal()).Error
	})
	return state, changed, err
}

// TogglePin 置顶开关，返回新状态
func (r *MessageRepository) TogglePin(ctx context.Context, communityID, seq uint64) (bool, error) {
	var pinned bool
	err := r.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var msg model.Message
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("community_id = ? AND seq = ?", communityID, seq).
			First(&msg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.ErrMessageNotFound
			}
			return err
		}
		if msg.Deleted {
			return pkg.ErrMessageDeleted
		}
		pinned = !msg.Pinned
		return tx.Model(&model.Message{}).
			Where("id = ?", msg.ID).
			UpdateColumn("pinned", pinned).Error
	})
	return pinned, err
}

// SoftDelete 隐藏内容，行和序号保留；重复删除幂等
func (r *MessageRepository) SoftDelete(ctx context.Context, communityID, seq uint64) error {
	res := r.db().WithContext(ctx).Model(&model.Message{}).
		Where("community_id = ? AND seq = ?", communityID, seq).
		Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db().Model(&model.Message{}).
			Where("community_id = ? AND seq = ?", communityID, seq).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return pkg.ErrMessageNotFound
		}
	}
	return nil
}

// HasVoted 某用户是否已对消息投过票
func (r *MessageRepository) HasVoted(ctx context.Context, messageID, userID uint64) (bool, error) {
	var n int64
	err := r.db().WithContext(ctx).Model(&model.MessageVote{}).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Count(&n).Error
	return n > 0, err
}

// VoteCount 回源查消息计数，缓存 miss 时用
func (r *MessageRepository) VoteCount(ctx context.Context, messageID uint64) (int64, error) {
	var m model.Message
	err := r.db().WithContext(ctx).Select("id", "vote_count").First(&m, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkg.ErrMessageNotFound
	}
	if err != nil {
		return 0, err
	}
	return m.VoteCount, nil
}
