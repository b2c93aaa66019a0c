package mysql

import (
	"errors"
	"strings"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) db() *gorm.DB {
	if r.DB != nil {
		return r.DB
	}
	return DB
}

func (r *UserRepository) Create(user *model.User) error {
	err := r.db().Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// username 和 email 都有唯一索引，查一下撞的是哪个
		var n int64
		if r.db().Model(&model.User{}).Where("username = ?", user.Username).Count(&n).Error == nil && n > 0 {
			return pkg.ErrDuplicateName
		}
		return pkg.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db().Where("username = ? OR email = ?", username, username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.db().First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var usr model.User
	err := r.db().Where("email = ?", email).First(&usr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrUserNotFound
	}
	return &usr, err
}

func (r *UserRepository) FindByIDs(ids []uint64) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db().Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.db().Model(user).Update("password", newPassword).Error
}

// UpdateProfile 就地覆盖，不保留历史
func (r *UserRepository) UpdateProfile(user *model.User) error {
	return r.db().Model(user).
		Select("email", "avatar", "tags").
		Updates(map[string]any{
			"email":  user.Email,
			"avatar": user.Avatar,
			"tags":   user.Tags,
		}).Error
}

// AddKarma 社交/管理动作给用户加分
func (r *UserRepository) AddKarma(tx *gorm.DB, userID uint64, delta int64) error {
	if tx == nil {
		tx = r.db()
	}
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("karma", gorm.Expr("karma + ?", delta)).Error
}

// SearchByName 名字大小写不敏感子串匹配，标签过滤在 service 层做
func (r *UserRepository) SearchByName(query string, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var users []model.User
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db().
		Where("LOWER(username) LIKE ?", pattern).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
