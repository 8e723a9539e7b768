package service

import (
	"fmt"

	"github.com/fsdevblog/groph-shop/internal/cache"
	"github.com/fsdevblog/groph-shop/pkg/uow"
)

type AppServices struct {
	CatalogService *CatalogService
	ShopService    *ShopService
	AuditService   *AuditService
}

// FactoryArgs зависимости и настройки сервисного слоя.
type FactoryArgs struct {
	Cache     cache.Cache
	Messenger Messenger
	Catalog   CatalogServiceArgs
	Shop      ShopServiceArgs
}

// Factory собирает сервисы приложения поверх единого UnitOfWork.
// Все репозитории должны быть зарегистрированы в u до вызова.
func Factory(u uow.UOW, args FactoryArgs) (*AppServices, error) {
	catalogService, catalogErr := NewCatalogService(u, args.Cache, args.Catalog)
	if catalogErr != nil {
		return nil, fmt.Errorf("init catalog service: %w", catalogErr)
	}
	shopService, shopErr := NewShopService(u, args.Messenger, args.Shop)
	if shopErr != nil {
		return nil, fmt.Errorf("init shop service: %w", shopErr)
	}
	auditService, auditErr := NewAuditService(u)
	if auditErr != nil {
		return nil, fmt.Errorf("init audit service: %w", auditErr)
	}
	return &AppServices{
		CatalogService: catalogService,
		ShopService:    shopService,
		AuditService:   auditService,
	}, nil
}
