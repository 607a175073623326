package courier

import (
	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

func getCourierID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("current_user_id")
	if !exists {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
			return 0, false
		}
		return uint(v), true
	default:
		respondError(c, response.CodeInternal, "error.user_id_type_invalid", nil)
		return 0, false
	}
}

// getCourierUser 从上下文取当前骑手账号
func (h *Handler) getCourierUser(c *gin.Context) (*models.User, bool) {
	courierID, ok := getCourierID(c)
	if !ok {
		return nil, false
	}
	user, err := h.UserRepo.GetByID(courierID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return nil, false
	}
	if user == nil || user.Role != constants.RoleCourier {
		respondError(c, response.CodeForbidden, "error.forbidden", service.ErrUserNotFound)
		return nil, false
	}
	return user, true
}
