package app

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-shop/internal/cache"
	"github.com/fsdevblog/groph-shop/internal/config"
	"github.com/fsdevblog/groph-shop/internal/metrics"
	"github.com/fsdevblog/groph-shop/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/internal/service"
	"github.com/fsdevblog/groph-shop/internal/transport/api"
	"github.com/fsdevblog/groph-shop/internal/transport/pm"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	"os/signal"
	"syscall"

	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %+v", a.Config)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	appCache, cacheErr := a.initCache(notifyCtx)
	if cacheErr != nil {
		return fmt.Errorf("app run: %s", cacheErr.Error())
	}

	var messenger service.Messenger
	var dispatcher *pm.Dispatcher
	if a.Config.PMEndpoint != "" {
		dispatcher = pm.New(pm.NewHTTPClient(a.Config.PMEndpoint), a.Logger)
		messenger = dispatcher
	}

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		Cache:     appCache,
		Messenger: messenger,
		Catalog: service.CatalogServiceArgs{
			PerPage:         a.Config.PerPage,
			ModeratorGroups: a.Config.ModeratorGroups,
		},
		Shop: service.ShopServiceArgs{
			SellPercent:     a.Config.SellPercent,
			ModeratorGroups: a.Config.ModeratorGroups,
			RefundOnRemove:  a.Config.QuickEditRefund,
			RestockOnRemove: a.Config.QuickEditRestock,
			PMBuyerDefault:  a.Config.PMBuyerTemplate,
			PMAdminDefault:  a.Config.PMAdminTemplate,
			PMAdminIDs:      a.Config.PMAdminIDs,
		},
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:         a.Logger,
		CatalogService: services.CatalogService,
		ShopService:    services.ShopService,
		AuditService:   services.AuditService,
		Metrics:        metrics.New(),
		JWTSecretKey:   []byte(a.Config.JWTUserSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	if dispatcher != nil {
		go dispatcher.Run(notifyCtx)
	}

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func (a *App) initCache(ctx context.Context) (cache.Cache, error) {
	if a.Config.RedisAddr == "" {
		return cache.NewMemoryCache(), nil
	}
	redisCache, err := cache.NewRedisCache(ctx, a.Config.RedisAddr, "shop")
	if err != nil {
		return nil, fmt.Errorf("init cache: %s", err.Error())
	}
	return redisCache, nil
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	// user repo
	userRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewUserRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.UserRepoName), userRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// catalog repo
	catalogRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewCatalogRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.CatalogRepoName), catalogRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// inventory repo
	inventoryRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewInventoryRepository(dbtx)
	}
	if regErr := unitOfWork.Register(
		uow.RepositoryName(repoargs.InventoryRepoName),
		inventoryRepoFactoryFn,
	); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// audit repo
	auditRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewAuditRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.AuditRepoName), auditRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	return unitOfWork, nil
}
