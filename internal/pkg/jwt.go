package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrRefreshExpired    = errors.New("refresh expired")
	ErrRefreshInvalid    = errors.New("refresh invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

const (
	AccessTTL  = time.Minute * 30
	RefreshTTL = time.Hour * 24
)

// AccessSecret 先写死，后面放 config
var AccessSecret = []byte("nova-secret-key")
var RefreshSecret = []byte("nova-refresh-key")

type Claims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func signToken(userID uint64, subject string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject,
		},
	})
	return t.SignedString(secret)
}

// GeneratePair 登录/刷新时签发 access+refresh 对
func GeneratePair(userID uint64) (*Pair, error) {
	access, err := signToken(userID, "access", AccessTTL, AccessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := signToken(userID, "refresh", RefreshTTL, RefreshSecret)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrTokenParseFailure
	}
	return token.Claims.(*Claims), nil
}

// ParseAccess 解析 access
func ParseAccess(tokenStr string) (*Claims, error) {
	claims, err := parseToken(tokenStr, AccessSecret)
	switch {
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, err
	}
	return claims, nil
}

// Refresh 用 refresh token 换新的 token 对
func Refresh(refreshToken string) (*Pair, error) {
	claims, err := parseToken(refreshToken, RefreshSecret)
	switch {
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrRefreshInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrRefreshExpired
	case err != nil:
		return nil, err
	}
	return GeneratePair(claims.UserID)
}
