package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/repository"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminListDeliveries 管理端配送单列表
func (h *Handler) AdminListDeliveries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))
	zone := strings.TrimSpace(c.Query("zone"))
	trackingNo := strings.TrimSpace(c.Query("tracking_no"))
	search := strings.TrimSpace(c.Query("search"))

	var senderID, courierID uint
	if raw := strings.TrimSpace(c.Query("sender_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			senderID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("courier_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			courierID = uint(parsed)
		}
	}

	dateFrom, err := parseDateNullable(strings.TrimSpace(c.Query("date_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	dateTo, err := parseDateNullable(strings.TrimSpace(c.Query("date_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	deliveries, total, err := h.DeliveryService.List(repository.DeliveryListFilter{
		Page:        page,
		PageSize:    pageSize,
		SenderID:    senderID,
		CourierID:   courierID,
		Status:      status,
		Zone:        zone,
		TrackingNo:  trackingNo,
		Search:      search,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		WithSender:  true,
		WithCourier: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.delivery_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, deliveries, response.NewPagination(page, pageSize, total))
}

// AdminGetDelivery 管理端配送单详情
func (h *Handler) AdminGetDelivery(c *gin.Context) {
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	delivery, err := h.DeliveryService.Get(deliveryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeliveryNotFound):
			respondError(c, response.CodeNotFound, "error.delivery_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.delivery_fetch_failed", err)
		}
		return
	}

	response.Success(c, delivery)
}

// AdminCreateDeliveryRequest 创建配送单请求
type AdminCreateDeliveryRequest struct {
	SenderID           uint   `json:"sender_id" binding:"required"`
	CourierID          *uint  `json:"courier_id"`
	PlannedDate        string `json:"planned_date" binding:"required"`
	ReceiverName       string `json:"receiver_name" binding:"required"`
	ReceiverPhone      string `json:"receiver_phone"`
	ReceiverAddress    string `json:"receiver_address"`
	ParcelCount        int    `json:"parcel_count"`
	WeightKg           string `json:"weight_kg" binding:"required"`
	Description        string `json:"description"`
	Zone               string `json:"zone" binding:"required"`
	IsExpress          bool   `json:"is_express"`
	PriceOverride      *int64 `json:"price_override"`
	CollectAmount      *int64 `json:"collect_amount"`
	IsPrepaid          bool   `json:"is_prepaid"`
	DeliveryFeePrepaid bool   `json:"delivery_fee_prepaid"`
}

// AdminCreateDelivery 管理端创建配送单
func (h *Handler) AdminCreateDelivery(c *gin.Context) {
	var req AdminCreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	plannedDate, err := time.Parse("2006-01-02", req.PlannedDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.planned_date_invalid", err)
		return
	}
	weightKg, err := decimal.NewFromString(req.WeightKg)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.weight_invalid", err)
		return
	}

	delivery, err := h.DeliveryService.Create(service.CreateDeliveryInput{
		SenderID:           req.SenderID,
		CourierID:          req.CourierID,
		PlannedDate:        plannedDate,
		ReceiverName:       req.ReceiverName,
		ReceiverPhone:      req.ReceiverPhone,
		ReceiverAddress:    req.ReceiverAddress,
		ParcelCount:        req.ParcelCount,
		WeightKg:           weightKg,
		Description:        req.Description,
		Zone:               req.Zone,
		IsExpress:          req.IsExpress,
		PriceOverride:      req.PriceOverride,
		CollectAmount:      req.CollectAmount,
		IsPrepaid:          req.IsPrepaid,
		DeliveryFeePrepaid: req.DeliveryFeePrepaid,
	})
	if err != nil {
		respondDeliveryWriteError(c, err, "error.delivery_create_failed")
		return
	}

	response.Success(c, delivery)
}

// AdminUpdateDeliveryRequest 更新配送单请求
type AdminUpdateDeliveryRequest struct {
	CourierID          *uint   `json:"courier_id"`
	PlannedDate        *string `json:"planned_date"`
	ReceiverName       *string `json:"receiver_name"`
	ReceiverPhone      *string `json:"receiver_phone"`
	ReceiverAddress    *string `json:"receiver_address"`
	ParcelCount        *int    `json:"parcel_count"`
	WeightKg           *string `json:"weight_kg"`
	Description        *string `json:"description"`
	Zone               *string `json:"zone"`
	IsExpress          *bool   `json:"is_express"`
	PriceOverride      *int64  `json:"price_override"`
	CollectAmount      *int64  `json:"collect_amount"`
	ClearCollectAmount bool    `json:"clear_collect_amount"`
	IsPrepaid          *bool   `json:"is_prepaid"`
	DeliveryFeePrepaid *bool   `json:"delivery_fee_prepaid"`
}

// AdminUpdateDelivery 管理端更新配送单
func (h *Handler) AdminUpdateDelivery(c *gin.Context) {
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	var req AdminUpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input := service.UpdateDeliveryInput{
		CourierID:          req.CourierID,
		ReceiverName:       req.ReceiverName,
		ReceiverPhone:      req.ReceiverPhone,
		ReceiverAddress:    req.ReceiverAddress,
		ParcelCount:        req.ParcelCount,
		Description:        req.Description,
		Zone:               req.Zone,
		IsExpress:          req.IsExpress,
		PriceOverride:      req.PriceOverride,
		CollectAmount:      req.CollectAmount,
		ClearCollectAmount: req.ClearCollectAmount,
		IsPrepaid:          req.IsPrepaid,
		DeliveryFeePrepaid: req.DeliveryFeePrepaid,
	}
	if req.PlannedDate != nil {
		plannedDate, err := time.Parse("2006-01-02", *req.PlannedDate)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.planned_date_invalid", err)
			return
		}
		input.PlannedDate = &plannedDate
	}
	if req.WeightKg != nil {
		weightKg, err := decimal.NewFromString(*req.WeightKg)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.weight_invalid", err)
			return
		}
		input.WeightKg = &weightKg
	}

	delivery, err := h.DeliveryService.Update(deliveryID, input)
	if err != nil {
		respondDeliveryWriteError(c, err, "error.delivery_update_failed")
		return
	}

	response.Success(c, delivery)
}

// AdminDeleteDelivery 管理端删除配送单
func (h *Handler) AdminDeleteDelivery(c *gin.Context) {
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	if err := h.DeliveryService.Delete(deliveryID); err != nil {
		switch {
		case errors.Is(err, service.ErrDeliveryNotFound):
			respondError(c, response.CodeNotFound, "error.delivery_not_found", nil)
		case errors.Is(err, service.ErrDeliveryNotDeletable):
			respondError(c, response.CodeConflict, "error.delivery_not_deletable", nil)
		default:
			respondError(c, response.CodeInternal, "error.delivery_delete_failed", err)
		}
		return
	}

	response.Success(c, nil)
}

// AdminSetDeliveryStatusRequest 状态设置请求
type AdminSetDeliveryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminSetDeliveryStatus 管理端设置配送单状态（不受骑手状态机约束）
func (h *Handler) AdminSetDeliveryStatus(c *gin.Context) {
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	var req AdminSetDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	actor, ok := h.getAdminUser(c)
	if !ok {
		return
	}

	delivery, err := h.DeliveryService.UpdateStatus(deliveryID, req.Status, actor)
	if err != nil {
		respondDeliveryWriteError(c, err, "error.delivery_status_failed")
		return
	}

	response.Success(c, delivery)
}

// AdminPostponeDeliveryRequest 改期请求
type AdminPostponeDeliveryRequest struct {
	PostponedTo string `json:"postponed_to" binding:"required"`
}

// AdminPostponeDelivery 管理端改期配送单
func (h *Handler) AdminPostponeDelivery(c *gin.Context) {
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	var req AdminPostponeDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	postponedTo, err := time.Parse("2006-01-02", req.PostponedTo)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.planned_date_invalid", err)
		return
	}

	actor, ok := h.getAdminUser(c)
	if !ok {
		return
	}

	delivery, err := h.DeliveryService.Postpone(deliveryID, postponedTo, actor, time.Now())
	if err != nil {
		respondDeliveryWriteError(c, err, "error.delivery_postpone_failed")
		return
	}

	response.Success(c, delivery)
}

// AdminTransferDeliveryRequest 转单请求
type AdminTransferDeliveryRequest struct {
	CourierID uint `json:"courier_id" binding:"required"`
}

// AdminTransferDelivery 管理端转单给其他骑手
func (h *Handler) AdminTransferDelivery(c *gin.Context) {
	deliveryID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.delivery_id_invalid", nil)
		return
	}

	var req AdminTransferDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	actor, ok := h.getAdminUser(c)
	if !ok {
		return
	}

	delivery, err := h.DeliveryService.Transfer(deliveryID, req.CourierID, actor)
	if err != nil {
		respondDeliveryWriteError(c, err, "error.delivery_transfer_failed")
		return
	}

	response.Success(c, delivery)
}

func respondDeliveryWriteError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrDeliveryNotFound):
		respondError(c, response.CodeNotFound, "error.delivery_not_found", nil)
	case errors.Is(err, service.ErrClientNotFound):
		respondError(c, response.CodeBadRequest, "error.client_not_found", nil)
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, response.CodeBadRequest, "error.courier_not_found", nil)
	case errors.Is(err, service.ErrInvalidPhone):
		respondError(c, response.CodeBadRequest, "error.invalid_phone", nil)
	case errors.Is(err, service.ErrInvalidTransition):
		respondError(c, response.CodeConflict, "error.invalid_transition", nil)
	case errors.Is(err, service.ErrPostponeNotAllowed):
		respondError(c, response.CodeConflict, "error.postpone_not_allowed", nil)
	case errors.Is(err, service.ErrPostponeDateInvalid):
		respondError(c, response.CodeBadRequest, "error.postpone_date_invalid", nil)
	case errors.Is(err, service.ErrTransferInvalid):
		respondError(c, response.CodeConflict, "error.transfer_invalid", nil)
	case errors.Is(err, service.ErrInvalidParameter):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
