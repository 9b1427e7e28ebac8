package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/internal/service"
	"github.com/qwertyllionman/Alijahon/pkg/e"
)

// UserHandler 用户资料与心愿单
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes 注册路由（需 JWT）
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.PUT("/profile", h.UpdateProfile)
	rg.POST("/wishlist/:product_id", h.ToggleWishList)
	rg.GET("/wishlist", h.ListWishList)
}

func profileView(u *model.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"phone_number": u.PhoneNumber,
		"role":         u.Role,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"telegram_id":  u.TelegramID,
		"about":        u.About,
		"address":      u.Address,
		"district_id":  u.DistrictID,
		"balance":      u.Balance,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"user": profileView(user)})
}

type updateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	DistrictID *int64  `json:"district_id"`
	Address    *string `json:"address"`
	TelegramID *string `json:"telegram_id"`
	About      *string `json:"about"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	userID := c.GetInt64("user_id")
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdateInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		DistrictID: req.DistrictID,
		Address:    req.Address,
		TelegramID: req.TelegramID,
		About:      req.About,
	})
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"user": profileView(user)})
}

// ToggleWishList 收藏/取消收藏商品
func (h *UserHandler) ToggleWishList(c *gin.Context) {
	userID := c.GetInt64("user_id")
	productID := toInt64(c.Param("product_id"))

	added, err := h.userService.ToggleWishList(c.Request.Context(), userID, productID)
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"added": added})
}

func (h *UserHandler) ListWishList(c *gin.Context) {
	userID := c.GetInt64("user_id")
	products, err := h.userService.ListWishList(c.Request.Context(), userID)
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"products": products})
}
