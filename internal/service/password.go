package service

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordMaxBytes bcrypt 只接受 72 字节以内的口令
const PasswordMaxBytes = 72

// PasswordHasher 单向口令校验器
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher bcrypt 实现
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher 创建 bcrypt 校验器，cost 为 0 时使用默认值
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
