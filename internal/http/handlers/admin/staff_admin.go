package admin

import (
	"strconv"
	"strings"

	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/repository"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListStaff 后台员工账号列表
func (h *Handler) AdminListStaff(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	staff, total, err := h.UserRepo.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     constants.RoleStaff,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, staff, response.NewPagination(page, pageSize, total))
}

// AdminCreateStaffRequest 创建员工账号请求
type AdminCreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// AdminCreateStaff 创建后台员工账号，可顺带绑定员工角色
func (h *Handler) AdminCreateStaff(c *gin.Context) {
	var req AdminCreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	staff, err := h.UserService.CreateStaff(service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondCourierWriteError(c, err, "error.user_create_failed")
		return
	}

	if role := strings.TrimSpace(req.Role); role != "" {
		if err := h.AuthzService.AssignRole(staff.ID, role); err != nil {
			requestLog(c).Warnw("staff_role_assign_failed", "user_id", staff.ID, "role", role, "error", err)
		}
	}

	response.Success(c, staff)
}
