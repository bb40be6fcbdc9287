package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minsuk-ha/go-shop-ddd/internal/container"
	handlers "github.com/minsuk-ha/go-shop-ddd/internal/interface/http"
	"github.com/minsuk-ha/go-shop-ddd/internal/interface/middleware"
	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
)

// ProductModule wires catalog HTTP handlers into routes.
// Public reads resolve the member when a token is present so product views
// land in the member's recently-viewed list; writes are admin only.

type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	// Public reads with optional member context
	public := rg.Group("/")
	public.Use(middleware.AuthOptional(container.GetRedis(), m.JWT))
	{
		public.GET("/products", readLimiter, m.Handler.List)
		public.GET("/products/search", searchLimiter, m.Handler.Search)
		public.GET("/products/:id", readLimiter, m.Handler.Get)
		public.GET("/categories", readLimiter, m.Handler.Categories)
	}

	// Member-only reads
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.GET("/members/me/recent-products", m.Handler.RecentlyViewed)
	}

	// Admin writes
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT), middleware.RequireAdmin())
	{
		admin.POST("/products", m.Handler.Register)
		admin.PUT("/products/:id", m.Handler.Update)
		admin.DELETE("/products/:id", m.Handler.Delete)
		admin.POST("/products/:id/images", m.Handler.UploadImage)
	}
}
