package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/api/middleware"
	"github.com/d60-Lab/vidtube/pkg/response"
)

type registerRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"cover_image"`
}

// Register 注册账号
// @Summary 注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.authService.Register(c.Request.Context(),
		req.FullName, req.Username, req.Email, req.Password, req.Avatar, req.CoverImage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // username 或 email
	Password   string `json:"password" binding:"required"`
}

// Login 登录，签发 access/refresh 令牌对
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, pair, err := h.authService.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	response.Success(c, gin.H{"user": user, "access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken 轮换令牌对；旧 refresh token 一次性
// @Summary 刷新令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body refreshRequest false "刷新令牌（也可走 cookie）"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	tok := req.RefreshToken
	if tok == "" {
		tok, _ = c.Cookie("refreshToken")
	}
	if tok == "" {
		response.Unauthorized(c, "missing refresh token")
		return
	}
	pair, err := h.authService.Refresh(c.Request.Context(), tok)
	if err != nil {
		response.Error(c, err)
		return
	}
	setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	response.Success(c, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// Logout 注销当前会话
// @Summary 登出
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	if err := h.authService.Logout(c.Request.Context(), identity.UserID); err != nil {
		response.Error(c, err)
		return
	}
	clearAuthCookies(c)
	response.Success(c, nil)
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body changePasswordRequest true "新旧密码"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		response.BadRequest(c, "passwords do not match")
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), identity, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CurrentUser 当前登录用户
// @Summary 当前用户
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/auth/me [get]
func (h *Handler) CurrentUser(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	user, err := h.authService.CurrentUser(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

type updateAccountRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// UpdateAccount 更新账号资料
// @Summary 更新账号
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body updateAccountRequest true "账号资料"
// @Success 200 {object} response.Response
// @Router /api/v1/auth/me [put]
func (h *Handler) UpdateAccount(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.authService.UpdateAccount(c.Request.Context(), identity, req.FullName, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

func setAuthCookies(c *gin.Context, access, refresh string) {
	c.SetCookie("accessToken", access, 0, "/", "", true, true)
	c.SetCookie("refreshToken", refresh, 0, "/", "", true, true)
}

func clearAuthCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", true, true)
	c.SetCookie("refreshToken", "", -1, "/", "", true, true)
}
