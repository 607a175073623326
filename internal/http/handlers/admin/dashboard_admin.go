package admin

import (
	"strconv"
	"time"

	"github.com/colis-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminDashboard 管理端运营看板
func (h *Handler) AdminDashboard(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days < 1 || days > 90 {
		days = 7
	}
	rankLimit, _ := strconv.Atoi(c.DefaultQuery("rank_limit", "5"))
	if rankLimit < 1 || rankLimit > 20 {
		rankLimit = 5
	}

	overview, err := h.DashboardService.Overview(time.Now(), days, rankLimit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}

	response.Success(c, overview)
}
