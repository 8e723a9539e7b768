package api

import (
	"time"

	"github.com/fsdevblog/groph-shop/internal/metrics"
	"github.com/fsdevblog/groph-shop/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup           = "/api/shop"
	CategoriesRoute      = "/categories"
	CategoryItemsRoute   = "/categories/:id/items"
	ItemRoute            = "/items/:id"
	BuyRoute             = "/buy"
	SellRoute            = "/sell"
	SendRoute            = "/send"
	MyItemsRoute         = "/my-items"
	UserItemsRoute       = "/users/:id/items"
	QuickEditRemoveRoute = "/quick-edit/remove"
	StatsPurchasesRoute  = "/stats/purchases"
	MetricsRoute         = "/metrics"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	CatalogService CatalogServicer
	ShopService    ShopServicer
	AuditService   AuditServicer
	Metrics        *metrics.Metrics
	JWTSecretKey   []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	if args.Metrics != nil {
		r.GET(MetricsRoute, gin.WrapH(args.Metrics.Handler()))
	}

	catalogHandler := NewCatalogHandler(args.CatalogService)
	shopHandler := NewShopHandler(args.ShopService, args.Metrics)
	moderationHandler := NewModerationHandler(args.ShopService)
	statsHandler := NewStatsHandler(args.AuditService)

	api := r.Group(RouteGroup)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(CategoriesRoute, catalogHandler.Categories)
	api.GET(CategoryItemsRoute, catalogHandler.CategoryItems)
	api.GET(ItemRoute, catalogHandler.Show)

	api.POST(BuyRoute, shopHandler.Buy)
	api.POST(SellRoute, shopHandler.Sell)
	api.POST(SendRoute, shopHandler.Send)

	api.GET(MyItemsRoute, catalogHandler.MyItems)
	api.GET(UserItemsRoute, catalogHandler.UserItems)

	api.POST(QuickEditRemoveRoute, moderationHandler.QuickEditRemove)
	api.GET(StatsPurchasesRoute, statsHandler.RecentPurchases)
	return r, nil
}
