package pkg

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParsePair(t *testing.T) {
	pair, err := GeneratePair(42)
	assert.Equal(t, err, nil)
	assert.NotEqual(t, pair.AccessToken, "")
	assert.NotEqual(t, pair.RefreshToken, "")

	claims, err := ParseAccess(pair.AccessToken)
	assert.Equal(t, err, nil)
	assert.Equal(t, claims.UserID, uint64(42))
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	pair, _ := GeneratePair(1)

	// refresh token 用的是另一把密钥，access 解析必须失败
	_, err := ParseAccess(pair.RefreshToken)
	assert.NotEqual(t, err, nil)
}

func TestParseAccessExpired(t *testing.T) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			Subject:   "access",
		},
	})
	signed, err := token.SignedString(AccessSecret)
	assert.Equal(t, err, nil)

	_, err = ParseAccess(signed)
	assert.Equal(t, err, ErrTokenExpired)
}

func TestRefreshPair(t *testing.T) {
	pair, _ := GeneratePair(9)

	next, err := Refresh(pair.RefreshToken)
	assert.Equal(t, err, nil)

	claims, err := ParseAccess(next.AccessToken)
	assert.Equal(t, err, nil)
	assert.Equal(t, claims.UserID, uint64(9))
}

func TestRefreshRejectsGarbage(t *testing.T) {
	_, err := Refresh("not-a-token")
	assert.NotEqual(t, err, nil)
}
