package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qwertyllionman/Alijahon/internal/service"
	"github.com/qwertyllionman/Alijahon/pkg/e"
)

// AuthHandler 处理认证
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// Login 手机号登录；首次出现的手机号直接注册
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		RenderError(c, err)
		return
	}

	Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":           user.ID,
			"phone_number": user.PhoneNumber,
			"role":         user.Role,
			"first_name":   user.FirstName,
			"last_name":    user.LastName,
		},
	})
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePassword 修改密码（需登录）
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.authService.ChangePassword(c.Request.Context(), userID,
		req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		RenderError(c, err)
		return
	}

	Success(c, nil)
}

// RegisterRoutes 注册路由
func (h *AuthHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)
	authed.POST("/auth/change-password", h.ChangePassword)
}
