package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/service"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"gorm.io/gorm"
)

// Success 统一成功响应
func Success(c *gin.Context, data gin.H) {
	resp := gin.H{
		"code":    e.SUCCESS,
		"message": e.GetMsg(e.SUCCESS),
	}
	for k, v := range data {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

// Fail 统一失败响应
func Fail(c *gin.Context, status, code int) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": e.GetMsg(code),
	})
}

// RenderError 把服务层/存储层错误映射成统一响应。
// 字段校验错误带上逐字段明细，业务冲突给 409
func RenderError(c *gin.Context, err error) {
	var fieldErrs e.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":         e.INVALID_PARAMS,
			"message":      e.GetMsg(e.INVALID_PARAMS),
			"field_errors": fieldErrs,
		})
		return
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		Fail(c, http.StatusNotFound, e.ERROR)
	case errors.Is(err, dao.ErrInsufficientStock):
		Fail(c, http.StatusConflict, e.ERROR_STOCK_NOT_ENOUGH)
	case errors.Is(err, dao.ErrInsufficientBalance):
		Fail(c, http.StatusConflict, e.ERROR_PAYMENT_BALANCE)
	case errors.Is(err, dao.ErrOrderHeld):
		Fail(c, http.StatusConflict, e.ERROR_ORDER_HELD)
	case errors.Is(err, dao.ErrPaymentFinalized):
		Fail(c, http.StatusConflict, e.ERROR_PAYMENT_FINALIZED)
	case errors.Is(err, dao.ErrSiteSettingsMissing):
		Fail(c, http.StatusInternalServerError, e.ERROR_SITE_SETTINGS_MISSING)
	case errors.Is(err, service.ErrDuplicateOrder):
		Fail(c, http.StatusConflict, e.ERROR_ORDER_DUPLICATE)
	case errors.Is(err, service.ErrWrongPassword):
		Fail(c, http.StatusUnauthorized, e.ERROR_PASSWORD)
	case errors.Is(err, service.ErrInvalidPaymentStatus),
		errors.Is(err, service.ErrUnknownPeriod):
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
	default:
		Fail(c, http.StatusInternalServerError, e.ERROR)
	}
}
