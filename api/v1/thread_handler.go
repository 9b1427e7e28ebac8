package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qwertyllionman/Alijahon/internal/service"
	"github.com/qwertyllionman/Alijahon/pkg/e"
	"github.com/shopspring/decimal"
)

// ThreadHandler 推广链接与统计
type ThreadHandler struct {
	threadService     *service.ThreadService
	statisticsService *service.StatisticsService
}

func NewThreadHandler(threadService *service.ThreadService, statisticsService *service.StatisticsService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService, statisticsService: statisticsService}
}

// RegisterRoutes 注册路由
// public: 访客点击推广链接无需登录；authed: 推广者管理自己的链接
func (h *ThreadHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/threads/:id/visit", h.VisitThread)

	authed.POST("/threads", h.CreateThread)
	authed.GET("/threads", h.ListThreads)
	authed.GET("/statistics", h.GetStatistics)
	authed.GET("/competition", h.Competition)
}

type createThreadRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Name      string          `json:"name"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateThread 创建推广链接，折扣上限为商品的推广者价
func (h *ThreadHandler) CreateThread(c *gin.Context) {
	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	thread, err := h.threadService.CreateThread(c.Request.Context(),
		c.GetInt64("user_id"), req.ProductID, req.Name, req.Discount)
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"thread": thread})
}

func (h *ThreadHandler) ListThreads(c *gin.Context) {
	threads, err := h.threadService.ListThreads(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"threads": threads})
}

// VisitThread 访客打开推广链接：访问数自增，返回带折扣价的商品页数据
func (h *ThreadHandler) VisitThread(c *gin.Context) {
	thread, err := h.threadService.VisitThread(c.Request.Context(), toInt64(c.Param("id")))
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{
		"thread":         thread,
		"discount_price": thread.DiscountPrice(),
	})
}

// GetStatistics 推广者统计面板
// ?period= today/last_day/weekly/monthly/all，缺省 all
func (h *ThreadHandler) GetStatistics(c *gin.Context) {
	period := c.DefaultQuery("period", service.PeriodAll)
	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), c.GetInt64("user_id"), period)
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"statistics": stats})
}

// Competition 竞赛排行榜：竞赛窗口内妥投订单数排名
func (h *ThreadHandler) Competition(c *gin.Context) {
	rows, settings, err := h.statisticsService.Competition(c.Request.Context())
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{
		"board":              rows,
		"competition_start":  settings.CompetitionStart,
		"competition_finish": settings.CompetitionFinish,
		"competition_info":   settings.CompetitionInfo,
	})
}
