package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/apperr"
	"github.com/d60-Lab/vidtube/pkg/hash"
	"github.com/d60-Lab/vidtube/pkg/token"
)

// IdentityContext 已验证的调用方身份，按值传入所有需要鉴权的操作
type IdentityContext struct {
	UserID   string
	Username string
}

// UserProfile 对外的用户投影，不含凭据字段
type UserProfile struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
}

// TokenPair 一次签发的 access/refresh 令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService 会话管理：注册、登录、令牌轮换、注销、鉴权。
// 每个账号同一时刻只有一个有效 refresh token，轮换即作废旧的。
type AuthService interface {
	Register(ctx context.Context, fullName, username, email, password, avatar, coverImage string) (*UserProfile, error)
	Login(ctx context.Context, identifier, password string) (*UserProfile, *TokenPair, error)
	// Refresh 校验并轮换 refresh token；旧 token 一次性，重放返回 Unauthorized
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, identityID string) error
	// Authenticate 纯校验，不写存储
	Authenticate(ctx context.Context, accessToken string) (IdentityContext, error)
	ChangePassword(ctx context.Context, identity IdentityContext, oldPassword, newPassword string) error
	CurrentUser(ctx context.Context, identity IdentityContext) (*UserProfile, error)
	UpdateAccount(ctx context.Context, identity IdentityContext, fullName, email string) (*UserProfile, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	hasher   hash.PasswordHasher
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager, hasher hash.PasswordHasher) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, hasher: hasher}
}

func (s *authService) Register(ctx context.Context, fullName, username, email, password, avatar, coverImage string) (*UserProfile, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, apperr.InvalidArgument("full name is required")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, storeErr("check existing user", err)
	}
	if taken {
		return nil, apperr.Conflict("user with this username or email already exists")
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, "hash password", err)
	}
	u := &model.User{
		ID:         uuid.New().String(),
		Username:   strings.ToLower(strings.TrimSpace(username)),
		Email:      strings.TrimSpace(email),
		FullName:   strings.TrimSpace(fullName),
		Avatar:     avatar,
		CoverImage: coverImage,
		Password:   digest,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		// 唯一键兜底：与 ExistsByUsernameOrEmail 之间的竞态才算 Conflict，
		// 存储超时等其他错误照常走 storeErr
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Wrap(apperr.KindConflict, "user with this username or email already exists", err)
		}
		return nil, storeErr("create user", err)
	}
	return profileOf(u), nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*UserProfile, *TokenPair, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, nil, apperr.InvalidArgument("username or email is required")
	}
	u, err := s.userRepo.GetByUsernameOrEmail(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, nil, storeErr("find user", err)
	}
	if !s.hasher.Verify(password, u.Password) {
		return nil, nil, apperr.Unauthorized("invalid credentials")
	}

	pair, refreshHash, err := s.mintPair(u)
	if err != nil {
		return nil, nil, err
	}
	// 覆盖写：别处登录会作废其他会话的 refresh 能力
	if err := s.userRepo.SetRefreshTokenHash(ctx, u.ID, refreshHash); err != nil {
		return nil, nil, storeErr("persist refresh token", err)
	}
	return profileOf(u), pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}
	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("invalid refresh token")
	}
	if err != nil {
		return nil, storeErr("find user", err)
	}

	pair, newHash, err := s.mintPair(u)
	if err != nil {
		return nil, err
	}
	// CAS 轮换：并发用同一个旧 token 刷新时只有一个成功
	oldHash := token.HashRefresh(refreshToken)
	rotated, err := s.userRepo.RotateRefreshTokenHash(ctx, u.ID, oldHash, newHash)
	if err != nil {
		return nil, storeErr("rotate refresh token", err)
	}
	if !rotated {
		return nil, apperr.Unauthorized("refresh token is expired or already used")
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, identityID string) error {
	if err := s.userRepo.ClearRefreshTokenHash(ctx, identityID); err != nil {
		return storeErr("clear refresh token", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (IdentityContext, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return IdentityContext{}, apperr.Unauthorized("invalid access token")
	}
	// 签发后账号可能已被删除
	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return IdentityContext{}, apperr.Unauthorized("invalid access token")
	}
	if err != nil {
		return IdentityContext{}, storeErr("find user", err)
	}
	return IdentityContext{UserID: u.ID, Username: u.Username}, nil
}

func (s *authService) ChangePassword(ctx context.Context, identity IdentityContext, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	u, err := s.userRepo.GetByID(ctx, identity.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("user does not exist")
	}
	if err != nil {
		return storeErr("find user", err)
	}
	if !s.hasher.Verify(oldPassword, u.Password) {
		return apperr.Unauthorized("invalid credentials")
	}
	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindUnknown, "hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, u.ID, digest); err != nil {
		return storeErr("update password", err)
	}
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, identity IdentityContext) (*UserProfile, error) {
	u, err := s.userRepo.GetByID(ctx, identity.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, storeErr("find user", err)
	}
	return profileOf(u), nil
}

func (s *authService) UpdateAccount(ctx context.Context, identity IdentityContext, fullName, email string) (*UserProfile, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, apperr.InvalidArgument("full name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateAccount(ctx, identity.UserID, strings.TrimSpace(fullName), strings.TrimSpace(email)); err != nil {
		return nil, storeErr("update account", err)
	}
	return s.CurrentUser(ctx, identity)
}

func (s *authService) mintPair(u *model.User) (*TokenPair, string, error) {
	access, err := s.tokens.SignAccess(u.ID, u.Username)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindUnknown, "sign access token", err)
	}
	refresh, err := s.tokens.SignRefresh(u.ID)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindUnknown, "sign refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, token.HashRefresh(refresh), nil
}

func profileOf(u *model.User) *UserProfile {
	return &UserProfile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
	}
}
