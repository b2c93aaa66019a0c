package mysql

import (
	"context"
	"errors"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

func (r *CommunityMemberRepository) db() *gorm.DB {
	if r.DB != nil {
		return r.DB
	}
	return DB
}

// Join 幂等插入：若已存在 (community_id, user_id) 则不报错
func (r *CommunityMemberRepository) Join(member *model.CommunityMember) error {
	return r.db().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(member).Error
}

func (r *CommunityMemberRepository) Leave(communityID, userID uint64) error {
	return r.db().Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityMember{}).Error
}

func (r *CommunityMemberRepository) IsMember(communityID, userID uint64) (bool, error) {
	var count int64
	err := r.db().Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// Role 返回 (role, isMember)
func (r *CommunityMemberRepository) Role(communityID, userID uint64) (int, bool, error) {
	var m model.CommunityMember
	err := r.db().Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return m.Role, true, nil
}

func (r *CommunityMemberRepository) SetRole(communityID, userID uint64, role int) error {
	res := r.db().Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrNotMember
	}
	return nil
}

func (r *CommunityMemberRepository) Count(communityID uint64) (int64, error) {
	var n int64
	err := r.db().Model(&model.CommunityMember{}).
		Where("community_id = ?", communityID).
		Count(&n).Error
	return n, err
}

func (r *CommunityMemberRepository) Members(communityID uint64) ([]model.CommunityMember, error) {
	var rows []model.CommunityMember
	err := r.db().Where("community_id = ?", communityID).Order("id ASC").Find(&rows).Error
	return rows, err
}

// Ban 同一事务里进名单、出成员，封禁后立刻失去发言资格
func (r *CommunityMemberRepository) Ban(ctx context.Context, communityID, userID, bannedBy uint64) error {
	return r.db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&model.CommunityBan{
			CommunityID: communityID,
			UserID:      userID,
			BannedBy:    bannedBy,
		}).Error; err != nil {
			return err
		}
		return tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&model.CommunityMember{}).Error
	})
}

// Unban 幂等删名单行；不恢复成员身份，要重新 join
func (r *CommunityMemberRepository) Unban(ctx context.Context, communityID, userID uint64) error {
	return r.db().WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityBan{}).Error
}

func (r *CommunityMemberRepository) IsBanned(communityID, userID uint64) (bool, error) {
	var n int64
	err := r.db().Model(&model.CommunityBan{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&n).Error
	return n > 0, err
}
