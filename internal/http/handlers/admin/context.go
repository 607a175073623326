package admin

import (
	"github.com/colis-next/internal/http/response"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			respondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			respondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		respondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

func getAdminID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "current_user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

// getAdminUser 从上下文取当前管理员账号
func (h *Handler) getAdminUser(c *gin.Context) (*models.User, bool) {
	adminID, ok := getAdminID(c)
	if !ok {
		return nil, false
	}
	user, err := h.UserRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return nil, false
	}
	if user == nil {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", service.ErrUserNotFound)
		return nil, false
	}
	return user, true
}
