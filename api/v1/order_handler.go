package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/internal/service"
	"github.com/qwertyllionman/Alijahon/pkg/e"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	orderService *service.OrderService
	userService  *service.UserService
}

func NewOrderHandler(orderService *service.OrderService, userService *service.UserService) *OrderHandler {
	return &OrderHandler{orderService: orderService, userService: userService}
}

// RegisterRoutes 注册订单相关路由
// authed: 任意登录用户；staff: 操作员/配送员/管理员
func (h *OrderHandler) RegisterRoutes(authed, staff *gin.RouterGroup) {
	authed.POST("/orders", h.PlaceOrder)
	authed.GET("/orders/my", h.ListMyOrders)
	authed.GET("/orders/:id", h.GetOrder)

	staff.GET("/orders", h.ListOrders)
	staff.POST("/orders/:id/claim", h.ClaimOrder)
	staff.PUT("/orders/:id", h.UpdateOrder)
	staff.POST("/orders/release", h.ReleaseHeldOrders)
}

type placeOrderRequest struct {
	ProductSlug string `json:"product_slug" binding:"required"`
	Fullname    string `json:"fullname"`
	PhoneNumber string `json:"phone_number"`
	ThreadID    *int64 `json:"thread_id"`
}

// PlaceOrder 客户下单，数量固定为1
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), service.PlaceOrderInput{
		CustomerID:  c.GetInt64("user_id"),
		ProductSlug: req.ProductSlug,
		Fullname:    req.Fullname,
		PhoneNumber: req.PhoneNumber,
		ThreadID:    req.ThreadID,
	})
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"order": order})
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.orderService.ListMyOrders(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"orders": orders})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), toInt64(c.Param("id")))
	if err != nil {
		RenderError(c, err)
		return
	}
	// 普通用户只能看自己的订单；customer_id 在客户注销后为 NULL，此时同样拒绝
	if c.GetString("role") == model.RoleUser &&
		(order.CustomerID == nil || *order.CustomerID != c.GetInt64("user_id")) {
		Fail(c, http.StatusForbidden, e.ERROR_FORBIDDEN)
		return
	}
	Success(c, gin.H{"order": order})
}

// orderQueueItem 队列视图行，held 表示租约当前有效（别的操作员正在编辑）
type orderQueueItem struct {
	*model.Order
	Held bool `json:"held"`
}

// ListOrders 操作台队列
// ?status= 缺省为 new；new 队列对所有操作员可见，其余状态只看自己名下
func (h *OrderHandler) ListOrders(c *gin.Context) {
	f := dao.OrderFilter{Status: c.Query("status")}
	if v := c.Query("category_id"); v != "" {
		f.CategoryID = toInt64(v)
	}
	if v := c.Query("district_id"); v != "" {
		f.DistrictID = toInt64(v)
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), f, c.GetInt64("user_id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	now := time.Now()
	items := make([]orderQueueItem, len(orders))
	for i, o := range orders {
		items[i] = orderQueueItem{Order: o, Held: o.HeldAt(now)}
	}
	Success(c, gin.H{"orders": items})
}

// ClaimOrder 操作员认领订单（租约式持有）
func (h *OrderHandler) ClaimOrder(c *gin.Context) {
	order, err := h.orderService.ClaimOrder(c.Request.Context(), toInt64(c.Param("id")), c.GetInt64("user_id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"order": order})
}

type updateOrderRequest struct {
	OperatorID   *int64  `json:"operator_id"`
	Quantity     *int    `json:"quantity"`
	Status       *string `json:"status"`
	DistrictID   *int64  `json:"district_id"`
	Comment      *string `json:"comment"`
	DeliveryDate *string `json:"delivery_date"` // 2006-01-02
}

// UpdateOrder 按 (角色, 字段) 权限表改单
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	// 权限表依赖操作者的完整档案（配送员要回落到其固定操作员）
	actor, err := h.userService.GetProfile(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	in := service.UpdateOrderInput{
		OrderID:    toInt64(c.Param("id")),
		Actor:      actor,
		OperatorID: req.OperatorID,
		Quantity:   req.Quantity,
		Status:     req.Status,
		DistrictID: req.DistrictID,
		Comment:    req.Comment,
	}
	if req.DeliveryDate != nil {
		t, parseErr := time.ParseInLocation("2006-01-02", *req.DeliveryDate, time.Local)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":         e.INVALID_PARAMS,
				"message":      e.GetMsg(e.INVALID_PARAMS),
				"field_errors": e.FieldErrors{"delivery_date": "日期格式无效"},
			})
			return
		}
		in.DeliveryDate = &t
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), in)
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"order": order})
}

// ReleaseHeldOrders 操作员主动释放自己名下的全部租约
func (h *OrderHandler) ReleaseHeldOrders(c *gin.Context) {
	if err := h.orderService.ReleaseHeldOrders(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		RenderError(c, err)
		return
	}
	Success(c, nil)
}

// 工具
func toInt64(s string) int64 {
	var r int64
	_, _ = fmt.Sscan(s, &r)
	return r
}
