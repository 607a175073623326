package courier

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/colis-next/internal/constants"
	handlershared "github.com/colis-next/internal/http/handlers/shared"
	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/repository"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListDeliveries 骑手名下配送单列表
func (h *Handler) ListDeliveries(c *gin.Context) {
	courierID, ok := getCourierID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))

	filter := repository.DeliveryListFilter{
		Page:       page,
		PageSize:   pageSize,
		CourierID:  courierID,
		Status:     status,
		WithSender: true,
	}
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		filter.DateFrom = &date
		filter.DateTo = &date
	}
	// 默认只看进行中的单
	if status == "" && c.Query("all") != "1" {
		filter.Statuses = []string{
			constants.DeliveryStatusCreated,
			constants.DeliveryStatusPickedUp,
			constants.DeliveryStatusPostponed,
			constants.DeliveryStatusDelivered,
		}
	}

	deliveries, total, err := h.DeliveryService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.delivery_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, deliveries, response.NewPagination(page, pageSize, total))
}

// GetDelivery 骑手配送单详情（附可用状态流转）
func (h *Handler) GetDelivery(c *gin.Context) {
	courierID, ok := getCourierID(c)
	if !ok {
		return
	}
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	delivery, err := h.DeliveryService.GetForCourier(deliveryID, courierID)
	if err != nil {
		respondCourierDeliveryError(c, err, "error.delivery_fetch_failed")
		return
	}

	response.Success(c, gin.H{
		"delivery":      delivery,
		"next_statuses": service.NextStatuses(delivery.Status, constants.RoleCourier),
	})
}

// UpdateStatusRequest 状态流转请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 骑手推进配送单状态
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := h.getCourierUser(c)
	if !ok {
		return
	}
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	delivery, err := h.DeliveryService.UpdateStatus(deliveryID, req.Status, actor)
	if err != nil {
		respondCourierDeliveryError(c, err, "error.delivery_status_failed")
		return
	}

	requestLog(c).Infow("courier_status_updated",
		"delivery_id", delivery.ID,
		"courier_id", actor.ID,
		"status", delivery.Status,
	)
	response.Success(c, delivery)
}

// PostponeRequest 改期请求
type PostponeRequest struct {
	PostponedTo string `json:"postponed_to" binding:"required"`
}

// Postpone 骑手改期配送单（仅限明天及之后）
func (h *Handler) Postpone(c *gin.Context) {
	actor, ok := h.getCourierUser(c)
	if !ok {
		return
	}
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	var req PostponeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	postponedTo, err := time.Parse("2006-01-02", req.PostponedTo)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.planned_date_invalid", err)
		return
	}

	delivery, err := h.DeliveryService.Postpone(deliveryID, postponedTo, actor, time.Now())
	if err != nil {
		respondCourierDeliveryError(c, err, "error.delivery_postpone_failed")
		return
	}

	response.Success(c, delivery)
}

// TransferRequest 转单请求
type TransferRequest struct {
	CourierID uint `json:"courier_id" binding:"required"`
}

// Transfer 骑手把未取件的单转给其他骑手
func (h *Handler) Transfer(c *gin.Context) {
	actor, ok := h.getCourierUser(c)
	if !ok {
		return
	}
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	delivery, err := h.DeliveryService.Transfer(deliveryID, req.CourierID, actor)
	if err != nil {
		respondCourierDeliveryError(c, err, "error.delivery_transfer_failed")
		return
	}

	response.Success(c, delivery)
}

// RemarksRequest 备注请求
type RemarksRequest struct {
	Remarks string `json:"remarks"`
}

// UpdateRemarks 骑手更新配送备注
func (h *Handler) UpdateRemarks(c *gin.Context) {
	courierID, ok := getCourierID(c)
	if !ok {
		return
	}
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	var req RemarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	delivery, err := h.DeliveryService.UpdateRemarks(deliveryID, req.Remarks, courierID)
	if err != nil {
		respondCourierDeliveryError(c, err, "error.delivery_update_failed")
		return
	}

	response.Success(c, delivery)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseDateNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func respondCourierDeliveryError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrDeliveryNotFound):
		respondError(c, response.CodeNotFound, "error.delivery_not_found", nil)
	case errors.Is(err, service.ErrNotAssignedCourier):
		respondError(c, response.CodeForbidden, "error.not_assigned_courier", nil)
	case errors.Is(err, service.ErrInvalidTransition):
		respondError(c, response.CodeConflict, "error.invalid_transition", nil)
	case errors.Is(err, service.ErrPostponeNotAllowed):
		respondError(c, response.CodeConflict, "error.postpone_not_allowed", nil)
	case errors.Is(err, service.ErrPostponeDateInvalid):
		respondError(c, response.CodeBadRequest, "error.postpone_date_invalid", nil)
	case errors.Is(err, service.ErrTransferInvalid):
		respondError(c, response.CodeConflict, "error.transfer_invalid", nil)
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, response.CodeBadRequest, "error.courier_not_found", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
