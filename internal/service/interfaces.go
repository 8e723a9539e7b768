package service

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type CatalogRepository interface {
	FindItem(ctx context.Context, itemID int64) (*domain.Item, error)
	FindCategory(ctx context.Context, categoryID int64) (*domain.Category, error)
	GetAllCategories(ctx context.Context) ([]domain.Category, error)
	GetItemsByCategory(ctx context.Context, args repoargs.ItemsPage) ([]domain.Item, error)
	CountItemsByCategory(ctx context.Context, categoryID int64, includeHidden bool) (int64, error)
	DecrementStock(ctx context.Context, itemID int64) error
	IncrementStock(ctx context.Context, itemID int64) error
	FindGroupRate(ctx context.Context, usergroupID int64) (*domain.GroupRate, error)
}

type InventoryRepository interface {
	CountOwned(ctx context.Context, userID, itemID int64) (int64, error)
	GetByUser(ctx context.Context, args repoargs.InventoryPage) ([]domain.InventoryEntry, error)
	CountByUser(ctx context.Context, userID int64, includeHidden bool) (int64, error)
	Create(ctx context.Context, args repoargs.InventoryEntryCreate) (*domain.InventoryEntry, error)
	FindOldestOwned(ctx context.Context, userID, itemID int64) (*domain.InventoryEntry, error)
	RemoveOldest(ctx context.Context, userID, itemID int64) (*domain.InventoryEntry, error)
	Transfer(ctx context.Context, entryID, toUserID int64) (*domain.InventoryEntry, error)
	FindByIDForUser(ctx context.Context, entryID, userID int64) (*domain.InventoryEntry, error)
	DeleteByID(ctx context.Context, entryID int64) error
}

type UserRepository interface {
	Find(ctx context.Context, userID int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) (*domain.User, error)
}

type AuditRepository interface {
	Create(ctx context.Context, args repoargs.AuditRecordCreate) (*domain.AuditRecord, error)
	GetRecentByKind(ctx context.Context, kind domain.AuditKind, limit uint) ([]domain.AuditRecord, error)
}

// Message личное сообщение для доставки хост-системой.
type Message struct {
	RecipientID int64
	Subject     string
	Body        string
}

// Messenger очередь доставки личных сообщений. Enqueue не блокирует: при
// переполненной очереди возвращает false, сообщение теряется. Доставка
// сообщений никогда не входит в транзакционную границу операций магазина.
type Messenger interface {
	Enqueue(msg Message) bool
}
