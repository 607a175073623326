package shared

import (
	"errors"

	"github.com/colis-next/internal/cache"
	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/provider"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 登录登出接口处理器（管理员与骑手共用）
type AuthHandler struct {
	*provider.Container
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(c *provider.Container) *AuthHandler {
	return &AuthHandler{Container: c}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 账号登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			RespondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			RespondError(c, response.CodeForbidden, "error.account_disabled", nil)
		default:
			RespondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	if err := cache.SetUserAuthState(c.Request.Context(), cache.BuildUserAuthState(user)); err != nil {
		RequestLog(c).Warnw("login_cache_auth_state_failed", "user_id", user.ID, "error", err)
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// Logout 登出，使该账号所有已签发 token 失效
func (h *AuthHandler) Logout(c *gin.Context) {
	value, exists := c.Get("current_user_id")
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}

	if err := h.AuthService.Logout(userID); err != nil {
		RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if err := cache.DelUserAuthState(c.Request.Context(), userID); err != nil {
		RequestLog(c).Warnw("logout_cache_invalidate_failed", "user_id", userID, "error", err)
	}
	response.Success(c, nil)
}

// Profile 当前账号信息
func (h *AuthHandler) Profile(c *gin.Context) {
	value, exists := c.Get("current_user_id")
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		RespondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	if user == nil {
		RespondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}
	response.Success(c, user)
}
