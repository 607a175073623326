package courier

import (
	"errors"
	"strings"

	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MySettlement 骑手查询自己的待上缴汇总
func (h *Handler) MySettlement(c *gin.Context) {
	courierID, ok := getCourierID(c)
	if !ok {
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
			respondError(c, response.CodeForbidden, "error.forbidden", nil)
		default:
			respondError(c, response.CodeInternal, "error.report_fetch_failed", err)
		}
		return
	}

	response.Success(c, summary)
}
