package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minsuk-ha/go-shop-ddd/internal/container"
	handlers "github.com/minsuk-ha/go-shop-ddd/internal/interface/http"
	"github.com/minsuk-ha/go-shop-ddd/internal/interface/middleware"
	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
)

// MemberModule wires member HTTP handlers and auth middleware into routes.
// Public: POST /api/members, POST /api/signin, POST /api/refresh
// Protected: member profile, password, sign-out, delete
// Admin: POST /api/admin/members

type MemberModule struct {
	Handler *handlers.MemberHandler
	JWT     *helpers.JWTManager
}

func NewMemberModule(h *handlers.MemberHandler, jwt *helpers.JWTManager) *MemberModule {
	return &MemberModule{Handler: h, JWT: jwt}
}

func (m *MemberModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	joinLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	signInLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/members", joinLimiter, m.Handler.Join)
	rg.POST("/signin", signInLimiter, m.Handler.SignIn)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByMemberID(), nil),
	)
	{
		auth.POST("/signout", m.Handler.SignOut)
		auth.GET("/members/me", m.Handler.Me)
		auth.PUT("/members/me", m.Handler.Update)
		auth.PUT("/members/me/password", m.Handler.ChangePassword)
		auth.DELETE("/members/me", m.Handler.Delete)
	}

	// Admin
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT), middleware.RequireAdmin())
	{
		admin.POST("/members", m.Handler.AdminJoin)
		admin.POST("/members/:id/block", m.Handler.Block)
		admin.POST("/members/:id/unblock", m.Handler.Unblock)
	}
}
