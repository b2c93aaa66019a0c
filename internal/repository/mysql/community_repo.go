package mysql

import (
	"errors"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func (r *CommunityRepository) db() *gorm.DB {
	if r.DB != nil {
		return r.DB
	}
	return DB
}

// Create 创建者在同一事务里成为唯一成员、唯一版主
func (r *CommunityRepository) Create(c *model.Community) (*model.Community, error) {
	err := r.db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		mRepo := &CommunityMemberRepository{DB: tx}
		return mRepo.Join(&model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        model.RoleModerator,
		})
	})
	return c, err
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.db().First(&community, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrCommunityNotFound
	}
	return &community, err
}

func (r *CommunityRepository) List(offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.db().Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
