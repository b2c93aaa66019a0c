package pkg

import (
	"crypto/rand"
	"fmt"
)

// RandDigits 生成 n 位数字验证码，用 crypto/rand 防止可预测
func RandDigits(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("rand read: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = '0' + b%10
	}
	return string(out), nil
}
