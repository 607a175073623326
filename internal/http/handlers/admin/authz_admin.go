package admin

import (
	"errors"

	"github.com/colis-next/internal/authz"
	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListRoles 内置员工角色及其权限清单
func (h *Handler) AdminListRoles(c *gin.Context) {
	response.Success(c, gin.H{"roles": authz.BuiltinRoleSeeds()})
}

// AdminUserRoles 查询账号绑定的员工角色
func (h *Handler) AdminUserRoles(c *gin.Context) {
	userID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return
	}

	roles, err := h.AuthzService.RolesForUser(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{"user_id": userID, "roles": roles})
}

// AdminRoleBindingRequest 角色绑定/解绑请求
type AdminRoleBindingRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// AdminAssignRole 给账号绑定员工角色
func (h *Handler) AdminAssignRole(c *gin.Context) {
	var req AdminRoleBindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserRepo.GetByID(req.UserID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_update_failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", service.ErrUserNotFound)
		return
	}

	if err := h.AuthzService.AssignRole(req.UserID, req.Role); err != nil {
		respondRoleBindingError(c, err)
		return
	}

	requestLog(c).Infow("authz_role_assigned", "user_id", req.UserID, "role", req.Role)
	response.Success(c, nil)
}

// AdminRevokeRole 解绑账号员工角色
func (h *Handler) AdminRevokeRole(c *gin.Context) {
	var req AdminRoleBindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.RevokeRole(req.UserID, req.Role); err != nil {
		respondRoleBindingError(c, err)
		return
	}

	requestLog(c).Infow("authz_role_revoked", "user_id", req.UserID, "role", req.Role)
	response.Success(c, nil)
}

func respondRoleBindingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrRoleInvalid):
		respondError(c, response.CodeBadRequest, "error.authz_role_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.authz_update_failed", err)
	}
}
