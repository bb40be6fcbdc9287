package router

import (
	"github.com/minsuk-ha/go-shop-ddd/internal/application"
	"github.com/minsuk-ha/go-shop-ddd/internal/container"
	pginfra "github.com/minsuk-ha/go-shop-ddd/internal/infrastructure/postgres"
	handlers "github.com/minsuk-ha/go-shop-ddd/internal/interface/http"
	"github.com/minsuk-ha/go-shop-ddd/internal/router/modules"
	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
)

func buildMemberHandler() *handlers.MemberHandler {
	pool := container.GetPGPool()
	cfg := container.GetConfig()

	service := application.NewMemberService(
		pginfra.NewMemberRepository(pool),
		pginfra.NewOutboxRepository(pool),
		pginfra.NewTxManager(pool),
		helpers.BcryptHasher{},
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
	)

	return handlers.NewMemberHandler(
		service,
		container.GetJWT(),
		container.GetLogger(),
		cfg.CookieDomain,
		cfg.CookieSecure,
	)
}

func buildProductHandler() *handlers.ProductHandler {
	pool := container.GetPGPool()
	cfg := container.GetConfig()

	service := application.NewProductService(
		pginfra.NewProductRepository(pool),
		pginfra.NewCategoryRepository(pool),
		pginfra.NewTxManager(pool),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESProductsIndex,
		cfg.RecentProductsMax,
	)

	return handlers.NewProductHandler(service, container.GetLogger())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(modules.NewMemberModule(buildMemberHandler(), container.GetJWT()))
	r.Add(modules.NewProductModule(buildProductHandler(), container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
