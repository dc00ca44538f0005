package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"restaurant_hub_202601/internal/middleware"
	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/repository"
	"restaurant_hub_202601/pkg/logger"
)

// 注册约束
const (
	UsernameMax       = 64
	PasswordMinLength = 4
)

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Password string
	Confirm  string
	Avatar   *Upload
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// ==================== UserService 用户服务 ====================

// UserService 用户服务
type UserService struct {
	store  *repository.Store
	media  *MediaService
	hasher PasswordHasher
	cache  MenuCache
	box    BoundingBox

	placeholderOnce sync.Once
	placeholder     string
}

// NewUserService 创建用户服务
func NewUserService(store *repository.Store, media *MediaService, hasher PasswordHasher, cache MenuCache) *UserService {
	if cache == nil {
		cache = NewNoopMenuCache()
	}
	return &UserService{store: store, media: media, hasher: hasher, cache: cache, box: DefaultBoundingBox}
}

// WithBoundingBox 覆盖头像缩略图尺寸
func (s *UserService) WithBoundingBox(box BoundingBox) *UserService {
	s.box = box
	return s
}

// ==================== 注册 / 登录 ====================

// Register 注册：先校验，再保存头像，最后写入用户
// 头像失败不创建用户；用户写入失败删除已保存的头像
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, newValidation(CodeUsernameEmpty, "username", "用户名不能为空")
	}
	if utf8.RuneCountInString(username) > UsernameMax {
		return nil, newValidation(CodeUsernameTooLong, "username", "用户名过长")
	}
	if utf8.RuneCountInString(in.Password) < PasswordMinLength {
		return nil, newValidation(CodePasswordTooShort, "password", "密码至少 4 位")
	}
	if len(in.Password) > PasswordMaxBytes {
		return nil, newValidation(CodePasswordTooLong, "password", "密码过长，最多 72 字节")
	}
	if in.Password != in.Confirm {
		return nil, newValidation(CodePasswordMismatch, "confirm", "两次输入密码不一致")
	}
	taken, err := s.store.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, s.storageFailure("查询用户名失败", err)
	}
	if taken {
		return nil, newDuplicate(CodeUsernameTaken, "username", "用户名已存在，请换一个", nil)
	}
	if !in.Avatar.Present() {
		return nil, newValidation(CodeAvatarRequired, "avatar", "注册需要上传头像（会自动缩略到 100×100 内）")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, s.storageFailure("密码加密失败", err)
	}

	avatarRef, err := s.media.Ingest(ctx, in.Avatar, MediaAvatar, s.box)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: username, PasswordHash: hash, AvatarPath: avatarRef}
	if err := s.store.Users.Create(ctx, user); err != nil {
		s.media.Discard(ctx, avatarRef)
		if repository.IsDuplicate(err) {
			return nil, newDuplicate(CodeUsernameTaken, "username", "用户名已存在，请换一个", err)
		}
		return nil, s.storageFailure("创建用户失败", err)
	}

	logger.L().Infow("[User] 注册成功", "user_id", user.ID, "username", username)
	return user, nil
}

// Login 登录，用户名或密码错误返回同一个错误
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	bad := newValidation(CodeBadCredentials, "", "用户名或密码错误")
	// 超过 bcrypt 上限的口令不可能是已注册口令
	if len(password) > PasswordMaxBytes {
		return nil, bad
	}

	user, err := s.store.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repository.IsNotFound(err) {
			// 不存在的用户同样执行一次哈希比较
			s.hasher.Verify(s.placeholderHash(), password)
			return nil, bad
		}
		return nil, s.storageFailure("查询用户失败", err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, bad
	}

	token, expiresAt, err := middleware.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, s.storageFailure("生成 Token 失败", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// placeholderHash 与真实口令同成本的哈希，首次登录失败时生成
func (s *UserService) placeholderHash() string {
	s.placeholderOnce.Do(func() {
		hash, err := s.hasher.Hash("restaurant-hub-placeholder")
		if err != nil {
			logger.L().Warnw("[User] 生成占位哈希失败", "error", err)
			return
		}
		s.placeholder = hash
	})
	return s.placeholder
}

// ResolveIdentity 会话 Token → 当前用户
// 用户已被删除的 Token 视为无效
func (s *UserService) ResolveIdentity(ctx context.Context, token string) (*middleware.Identity, error) {
	claims, err := middleware.ParseToken(token)
	if err != nil {
		return nil, &BizError{Kind: KindValidation, Code: CodeInvalidToken, Message: "Token 无效或已过期", Err: err}
	}
	user, err := s.store.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &BizError{Kind: KindValidation, Code: CodeInvalidToken, Message: "用户不存在"}
		}
		return nil, s.storageFailure("查询用户失败", err)
	}
	return &middleware.Identity{UserID: user.ID, Username: user.Username}, nil
}

// ==================== 资料 / 注销 ====================

// GetProfile 获取用户资料
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("用户不存在")
		}
		return nil, s.storageFailure("查询用户失败", err)
	}
	return user, nil
}

// AvatarURL 头像访问地址
func (s *UserService) AvatarURL(user *model.User) string {
	return s.media.URL(user.AvatarPath)
}

// DeleteAccount 注销账号，级联删除其餐厅、订单、聊天与黑名单
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) (*repository.CascadeReport, error) {
	report, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newNotFound("用户不存在")
		}
		return nil, s.storageFailure("注销账号失败", err)
	}

	s.media.DiscardAll(ctx, report.Media)
	for _, id := range report.Restaurants {
		s.cache.Invalidate(ctx, id)
	}
	logger.L().Infow("[User] 账号已注销", "user_id", userID, "rows", report.Rows)
	return report, nil
}

func (s *UserService) storageFailure(msg string, err error) error {
	logger.L().Errorw("[User] "+msg, "error", err)
	return newStorage(err)
}
