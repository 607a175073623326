package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/colis-next/internal/cache"
	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/repository"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListCouriers 管理端骑手列表
func (h *Handler) AdminListCouriers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	keyword := strings.TrimSpace(c.Query("keyword"))
	status := strings.TrimSpace(c.Query("status"))

	couriers, total, err := h.UserService.ListCouriers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  keyword,
		Status:   status,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.courier_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, couriers, response.NewPagination(page, pageSize, total))
}

// AdminGetCourier 管理端骑手详情
func (h *Handler) AdminGetCourier(c *gin.Context) {
	courierID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.courier_id_invalid", nil)
		return
	}

	courier, err := h.UserService.GetCourier(courierID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.courier_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.courier_fetch_failed", err)
		}
		return
	}

	pending, err := h.DeliveryRepo.CountByCourier(courierID, []string{
		constants.DeliveryStatusCreated,
		constants.DeliveryStatusPickedUp,
		constants.DeliveryStatusPostponed,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.courier_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{
		"courier":            courier,
		"pending_deliveries": pending,
	})
}

// AdminCreateCourierRequest 创建骑手请求
type AdminCreateCourierRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// AdminCreateCourier 管理端创建骑手账号
func (h *Handler) AdminCreateCourier(c *gin.Context) {
	var req AdminCreateCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	courier, err := h.UserService.CreateCourier(service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondCourierWriteError(c, err, "error.courier_create_failed")
		return
	}

	response.Success(c, courier)
}

// AdminUpdateCourierRequest 更新骑手请求
type AdminUpdateCourierRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Status   *string `json:"status"`
}

// AdminUpdateCourier 管理端更新骑手资料
func (h *Handler) AdminUpdateCourier(c *gin.Context) {
	courierID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.courier_id_invalid", nil)
		return
	}

	var req AdminUpdateCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	courier, err := h.UserService.UpdateCourier(courierID, service.UpdateUserInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Status:   req.Status,
	})
	if err != nil {
		respondCourierWriteError(c, err, "error.courier_update_failed")
		return
	}

	// 状态或密码变动后令缓存的登录态失效
	if req.Status != nil || req.Password != nil {
		if err := cache.DelUserAuthState(c.Request.Context(), courierID); err != nil {
			requestLog(c).Warnw("auth_state_evict_failed", "user_id", courierID, "error", err)
		}
	}

	response.Success(c, courier)
}

// AdminDeleteCourier 管理端删除骑手
func (h *Handler) AdminDeleteCourier(c *gin.Context) {
	courierID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.courier_id_invalid", nil)
		return
	}

	if err := h.UserService.DeleteCourier(courierID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.courier_not_found", nil)
		case errors.Is(err, service.ErrCourierInUse):
			respondError(c, response.CodeConflict, "error.courier_in_use", nil)
		default:
			respondError(c, response.CodeInternal, "error.courier_delete_failed", err)
		}
		return
	}

	response.Success(c, nil)
}

func respondCourierWriteError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, response.CodeNotFound, "error.courier_not_found", nil)
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, response.CodeConflict, "error.email_taken", nil)
	case errors.Is(err, service.ErrInvalidPhone):
		respondError(c, response.CodeBadRequest, "error.invalid_phone", nil)
	case errors.Is(err, service.ErrWeakPassword):
		respondError(c, response.CodeBadRequest, "error.weak_password", err)
	case errors.Is(err, service.ErrInvalidParameter):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
