package service

import (
	"context"
	"errors"
	"fmt"

	"Nova_Social/internal/model"
	"Nova_Social/internal/pkg"
	"Nova_Social/internal/repository/mysql"
	"Nova_Social/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo     *mysql.UserRepository
	rUser    *redis.UserRepository
	rNav     *redis.NavRepository
	emailSvc *EmailService
}

func NewUserService(emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{},
		rUser:    &redis.UserRepository{},
		rNav:     &redis.NavRepository{},
		emailSvc: emailSvc,
	}
}

// Profile 对外展示的用户视图，email 只有本人可见
type Profile struct {
	ID     uint64   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email,omitempty"`
	Avatar string   `json:"avatar"`
	Tags   []string `json:"tags"`
	Karma  int64    `json:"karma"`
}

func profileOf(u *model.User, requesterID uint64) Profile {
	p := Profile{
		ID:     u.ID,
		Name:   u.Username,
		Avatar: u.Avatar,
		Tags:   u.TagList(),
		Karma:  u.Karma,
	}
	if requesterID == u.ID {
		p.Email = u.Email
	}
	return p
}

// Register 注册：验证码校验通过后落库，karma 从 0 起，导航栈置空
func (s *UserService) Register(ctx context.Context, username, password, email, avatar string, tags []string, code string) (*model.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: name required", pkg.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password required", pkg.ErrValidation)
	}

	ok, err := s.emailSvc.VerifyCode("register", email, code)
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: email verification failed", pkg.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
		Avatar:   avatar,
	}
	user.SetTags(tags)

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	// 空导航栈，失败不影响注册（第一次 push 时也会建）
	_ = s.rNav.InitEmpty(ctx, user.ID)
	return user, nil
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, pkg.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.ErrInvalidCredentials
	}

	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err = s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// GetProfile requesterID 为 0 表示匿名视角
func (s *UserService) GetProfile(id, requesterID uint64) (*Profile, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	p := profileOf(user, requesterID)
	return &p, nil
}

// UpdateProfile 就地更新，不保留历史
func (s *UserService) UpdateProfile(id uint64, email, avatar string, tags []string) (*Profile, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if email != "" {
		user.Email = email
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if tags != nil {
		user.SetTags(tags)
	}
	if err := s.repo.UpdateProfile(user); err != nil {
		return nil, err
	}
	p := profileOf(user, id)
	return &p, nil
}

// Search 名字子串匹配，可叠加标签过滤；结果不带关系元数据
func (s *UserService) Search(query, tagFilter string) ([]Profile, error) {
	if query == "" && tagFilter == "" {
		return nil, fmt.Errorf("%w: empty query", pkg.ErrValidation)
	}
	users, err := s.repo.SearchByName(query, 50)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(users))
	for i := range users {
		if tagFilter != "" && !users[i].HasTag(tagFilter) {
			continue
		}
		out = append(out, profileOf(&users[i], 0))
	}
	return out, nil
}

func (s *UserService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode("reset", email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

// ChangePassword 登录态修改密码，成功后踢掉当前会话
func (s *UserService) ChangePassword(usrId uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrId)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return pkg.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.Logout(usrId)
}
