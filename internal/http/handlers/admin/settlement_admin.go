package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/colis-next/internal/export"
	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminClientReport 客户对账报表
func (h *Handler) AdminClientReport(c *gin.Context) {
	clientID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.client_id_invalid", nil)
		return
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

	summary, err := h.SettlementService.ClientReport(clientID, dateFrom, dateTo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			respondError(c, response.CodeNotFound, "error.client_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.report_fetch_failed", err)
		}
		return
	}

	response.Success(c, summary)
}

// AdminExportClientReport 客户对账报表导出（xlsx）
func (h *Handler) AdminExportClientReport(c *gin.Context) {
	clientID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.client_id_invalid", nil)
		return
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

	summary, err := h.SettlementService.ClientReport(clientID, dateFrom, dateTo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			respondError(c, response.CodeNotFound, "error.client_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.report_fetch_failed", err)
		}
		return
	}

	workbook, err := export.ClientReportWorkbook(summary)
	if err != nil {
		respondError(c, response.CodeInternal, "error.report_export_failed", err)
		return
	}

	filename := export.ClientReportFilename(summary.Client.Name, time.Now())
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := workbook.Write(c.Writer); err != nil {
		requestLog(c).Errorw("report_export_write_failed", "client_id", clientID, "error", err)
	}
}

// AdminCourierReport 骑手上缴报表
func (h *Handler) AdminCourierReport(c *gin.Context) {
	courierID, ok := parseIDParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.courier_id_invalid", nil)
		return
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

	summary, err := h.SettlementService.CourierReport(courierID, dateFrom, dateTo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.courier_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.report_fetch_failed", err)
		}
		return
	}

	response.Success(c, summary)
}

// AdminPendingClientSettlements 待结算客户汇总（截止 J+1）
func (h *Handler) AdminPendingClientSettlements(c *gin.Context) {
	summaries, err := h.SettlementService.PendingClientSettlements(time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "error.settlement_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{
		"cutoff_date": h.SettlementService.CutoffDate(time.Now()).Format("2006-01-02"),
		"clients":     summaries,
	})
}

// AdminPendingCourierSettlements 待上缴骑手汇总
func (h *Handler) AdminPendingCourierSettlements(c *gin.Context) {
	summaries, err := h.SettlementService.PendingCourierSettlements()
	if err != nil {
		respondError(c, response.CodeInternal, "error.settlement_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{"couriers": summaries})
}

// AdminConfirmSettlementRequest 客户结算确认请求
type AdminConfirmSettlementRequest struct {
	DeliveryIDs    []uint `json:"delivery_ids" binding:"required"`
	SettlementType string `json:"settlement_type" binding:"required"`
}

// AdminConfirmClientSettlement 批量确认客户结算
func (h *Handler) AdminConfirmClientSettlement(c *gin.Context) {
	var req AdminConfirmSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	affected, err := h.SettlementService.ConfirmClientSettlement(req.DeliveryIDs, req.SettlementType, adminID)
	if err != nil {
		respondSettlementConfirmError(c, err)
		return
	}

	requestLog(c).Infow("client_settlement_confirmed",
		"admin_id", adminID,
		"requested", len(req.DeliveryIDs),
		"settled", affected,
	)
	response.Success(c, gin.H{
		"requested": len(req.DeliveryIDs),
		"settled":   affected,
	})
}

// AdminConfirmCourierSettlementRequest 骑手上缴确认请求
type AdminConfirmCourierSettlementRequest struct {
	DeliveryIDs []uint `json:"delivery_ids" binding:"required"`
}

// AdminConfirmCourierSettlement 批量确认骑手上缴
func (h *Handler) AdminConfirmCourierSettlement(c *gin.Context) {
	var req AdminConfirmCourierSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	affected, err := h.SettlementService.ConfirmCourierSettlement(req.DeliveryIDs, adminID)
	if err != nil {
		respondSettlementConfirmError(c, err)
		return
	}

	requestLog(c).Infow("courier_settlement_confirmed",
		"admin_id", adminID,
		"requested", len(req.DeliveryIDs),
		"settled", affected,
	)
	response.Success(c, gin.H{
		"requested": len(req.DeliveryIDs),
		"settled":   affected,
	})
}

func respondSettlementConfirmError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSettlementEmpty):
		respondError(c, response.CodeBadRequest, "error.settlement_empty", nil)
	case errors.Is(err, service.ErrInvalidParameter):
		respondError(c, response.CodeBadRequest, "error.settlement_type_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.settlement_confirm_failed", err)
	}
}
