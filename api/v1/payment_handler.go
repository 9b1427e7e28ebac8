package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qwertyllionman/Alijahon/internal/service"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/shopspring/decimal"
)

// PaymentHandler 提现申请与审核
type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes 注册路由
// authed: 推广者提交/查看自己的提现单；admin: 管理员终审
func (h *PaymentHandler) RegisterRoutes(authed, admin *gin.RouterGroup) {
	authed.POST("/payments", h.SubmitPayment)
	authed.GET("/payments", h.ListPayments)

	admin.POST("/payments/:id/resolve", h.ResolvePayment)
}

type submitPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	CardNumber string          `json:"card_number"`
}

// SubmitPayment 提交提现申请：校验通过即扣减余额，单据进入 review
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var req submitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	payment, err := h.paymentService.SubmitPayment(c.Request.Context(),
		c.GetInt64("user_id"), req.Amount, req.CardNumber)
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"payment": payment})
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.ListPayments(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"payments": payments})
}

type resolvePaymentRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// ResolvePayment 管理员终审：completed 不动余额，cancel 返还一次
func (h *PaymentHandler) ResolvePayment(c *gin.Context) {
	var req resolvePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	payment, err := h.paymentService.ResolvePayment(c.Request.Context(),
		toInt64(c.Param("id")), req.Status, req.Comment)
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"payment": payment})
}
