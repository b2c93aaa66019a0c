package pkg

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestHTTPStatusByCategory(t *testing.T) {
	assert.Equal(t, HTTPStatus(ErrSelfReference), http.StatusBadRequest)
	assert.Equal(t, HTTPStatus(ErrUserNotFound), http.StatusNotFound)
	assert.Equal(t, HTTPStatus(ErrCommunityNotFound), http.StatusNotFound)
	assert.Equal(t, HTTPStatus(ErrDuplicateName), http.StatusConflict)
	assert.Equal(t, HTTPStatus(ErrDuplicateEmail), http.StatusConflict)
	assert.Equal(t, HTTPStatus(ErrAlreadyConnected), http.StatusConflict)
	assert.Equal(t, HTTPStatus(ErrNotMember), http.StatusForbidden)
	assert.Equal(t, HTTPStatus(ErrNotFriends), http.StatusForbidden)
	assert.Equal(t, HTTPStatus(ErrBanned), http.StatusForbidden)
	assert.Equal(t, HTTPStatus(ErrInvalidCredentials), http.StatusForbidden)
	assert.Equal(t, HTTPStatus(ErrMessageDeleted), http.StatusUnprocessableEntity)
	assert.Equal(t, HTTPStatus(ErrNoHistory), http.StatusUnprocessableEntity)
	assert.Equal(t, HTTPStatus(errors.New("boom")), http.StatusInternalServerError)
}

func TestHTTPStatusUnwrapsWrapped(t *testing.T) {
	// service 层用 %w 追加上下文后分类仍然可识别
	err := fmt.Errorf("%w: community 12", ErrNotMember)
	assert.Equal(t, HTTPStatus(err), http.StatusForbidden)
	assert.Equal(t, errors.Is(err, ErrAuthorization), true)
}
