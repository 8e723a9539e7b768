package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/service"
)

// CatalogServicer интерфейс исключительно для моков.
type CatalogServicer interface {
	GetItem(ctx context.Context, requester service.Requester, itemID int64) (*service.ItemView, error)
	ListCategories(ctx context.Context, requester service.Requester) ([]service.CategoryView, error)
	ListItems(ctx context.Context, requester service.Requester, categoryID int64, page uint) (*service.ItemsPageView, error)
	ListUserInventory(ctx context.Context, requester service.Requester, ownerID int64, page uint) (*service.InventoryPageView, error)
}

type ShopServicer interface {
	Buy(ctx context.Context, userID, itemID int64) (*service.PurchaseReceipt, error)
	Sell(ctx context.Context, userID, itemID int64) (*service.SaleReceipt, error)
	Send(ctx context.Context, userID, itemID int64, recipientUsername string) (*service.TransferReceipt, error)
	QuickEditBatchRemove(ctx context.Context, moderatorID, userID int64, entryIDs []int64) ([]service.RemovalOutcome, error)
}

type AuditServicer interface {
	RecentPurchases(ctx context.Context, limit uint) ([]domain.AuditRecord, error)
}
