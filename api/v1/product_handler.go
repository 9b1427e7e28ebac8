package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/qwertyllionman/Alijahon/internal/service"
)

// ProductHandler 商品目录 HTTP 处理器
type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes 商品目录为公开路由
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:slug", h.GetProduct)
	rg.GET("/categories", h.ListCategories)
}

// ListProducts 商品列表
// ?category= 为空返回全部，"top" 按订单量排序，否则按分类 slug 过滤
func (h *ProductHandler) ListProducts(c *gin.Context) {
	categorySlug := c.Query("category")
	products, err := h.productService.ListProducts(c.Request.Context(), categorySlug)
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"products": products})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"product": product})
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		RenderError(c, err)
		return
	}
	Success(c, gin.H{"categories": categories})
}
