package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/repository"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListClients 管理端客户列表
func (h *Handler) AdminListClients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	search := strings.TrimSpace(c.Query("search"))
	pickupZone := strings.TrimSpace(c.Query("pickup_zone"))

	clients, total, err := h.ClientService.List(repository.ClientListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     search,
		PickupZone: pickupZone,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.client_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, clients, response.NewPagination(page, pageSize, total))
}

// AdminGetClient 管理端客户详情
func (h *Handler) AdminGetClient(c *gin.Context) {
	clientID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.client_id_invalid", nil)
		return
	}

	client, err := h.ClientService.Get(clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			respondError(c, response.CodeNotFound, "error.client_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.client_fetch_failed", err)
		}
		return
	}

	response.Success(c, client)
}

// AdminCreateClientRequest 创建客户请求
type AdminCreateClientRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone"`
	PickupAddress string `json:"pickup_address"`
	PickupZone    string `json:"pickup_zone"`
	Note          string `json:"note"`
}

// AdminCreateClient 管理端创建客户
func (h *Handler) AdminCreateClient(c *gin.Context) {
	var req AdminCreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	client, err := h.ClientService.Create(service.CreateClientInput{
		Name:          req.Name,
		Phone:         req.Phone,
		PickupAddress: req.PickupAddress,
		PickupZone:    req.PickupZone,
		Note:          req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhone):
			respondError(c, response.CodeBadRequest, "error.invalid_phone", nil)
		case errors.Is(err, service.ErrInvalidParameter):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.client_create_failed", err)
		}
		return
	}

	response.Success(c, client)
}

// AdminUpdateClientRequest 更新客户请求
type AdminUpdateClientRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	PickupAddress *string `json:"pickup_address"`
	PickupZone    *string `json:"pickup_zone"`
	Note          *string `json:"note"`
}

// AdminUpdateClient 管理端更新客户
func (h *Handler) AdminUpdateClient(c *gin.Context) {
	clientID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.client_id_invalid", nil)
		return
	}

	var req AdminUpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	client, err := h.ClientService.Update(clientID, service.UpdateClientInput{
		Name:          req.Name,
		Phone:         req.Phone,
		PickupAddress: req.PickupAddress,
		PickupZone:    req.PickupZone,
		Note:          req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			respondError(c, response.CodeNotFound, "error.client_not_found", nil)
		case errors.Is(err, service.ErrInvalidPhone):
			respondError(c, response.CodeBadRequest, "error.invalid_phone", nil)
		case errors.Is(err, service.ErrInvalidParameter):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.client_update_failed", err)
		}
		return
	}

	response.Success(c, client)
}

// AdminDeleteClient 管理端删除客户
func (h *Handler) AdminDeleteClient(c *gin.Context) {
	clientID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.client_id_invalid", nil)
		return
	}

	if err := h.ClientService.Delete(clientID); err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			respondError(c, response.CodeNotFound, "error.client_not_found", nil)
		case errors.Is(err, service.ErrClientInUse):
			respondError(c, response.CodeConflict, "error.client_in_use", nil)
		default:
			respondError(c, response.CodeInternal, "error.client_delete_failed", err)
		}
		return
	}

	response.Success(c, nil)
}
