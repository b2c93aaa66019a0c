package pkg

import (
	"errors"
	"fmt"
	"net/http"
)

// 错误分类（校验/不存在/冲突/权限/状态）
// handler 统一根据分类映射 HTTP 状态码，具体错误用 %w 挂在分类下
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAuthorization = errors.New("not authorized")
	ErrState         = errors.New("invalid state")
)

var (
	// 用户相关
	ErrDuplicateName      = fmt.Errorf("%w: name already taken", ErrConflict)
	ErrDuplicateEmail     = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuthorization)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)

	// 好友关系相关
	ErrSelfReference    = fmt.Errorf("%w: cannot reference self", ErrValidation)
	ErrAlreadyConnected = fmt.Errorf("%w: already friends", ErrConflict)
	ErrNoSuchRequest    = fmt.Errorf("%w: no pending request", ErrState)

	// 私聊相关
	ErrNotFriends = fmt.Errorf("%w: not friends", ErrAuthorization)

	// 社区相关
	ErrCommunityNotFound = fmt.Errorf("%w: community not found", ErrNotFound)
	ErrMessageNotFound   = fmt.Errorf("%w: message not found", ErrNotFound)
	ErrNotMember         = fmt.Errorf("%w: not a member", ErrAuthorization)
	ErrBanned            = fmt.Errorf("%w: banned from community", ErrAuthorization)
	ErrNotModerator      = fmt.Errorf("%w: moderator required", ErrAuthorization)
	ErrTargetModerator   = fmt.Errorf("%w: target is a moderator", ErrState)
	ErrMessageDeleted    = fmt.Errorf("%w: message deleted", ErrState)

	// 导航栈相关
	ErrNoHistory = fmt.Errorf("%w: no history", ErrState)
)

// HTTPStatus 按分类映射状态码，未分类的一律 500
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, ErrState):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
