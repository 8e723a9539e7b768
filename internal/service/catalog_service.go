package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-shop/internal/cache"
	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/shopspring/decimal"
)

const (
	categoriesCacheKey = "categories"
	categoriesCacheTTL = time.Minute

	// DefaultPerPage размер страницы листингов, когда в конфигурации задан ноль.
	DefaultPerPage = 10
)

// ItemView предмет каталога глазами конкретного пользователя: цена уже
// умножена на множитель его группы.
type ItemView struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	Icon        string
	Price       decimal.Decimal
	Stock       string
	IsVisible   bool
	IsSellable  bool
	IsSendable  bool
}

type CategoryView struct {
	ID          int64
	Name        string
	Description string
	Icon        string
	IsExpanded  bool
	ItemsCount  int64
}

// ItemsPageView страница предметов категории.
type ItemsPageView struct {
	CategoryID int64
	Page       uint
	TotalPages uint
	Total      int64
	Items      []ItemView
}

// InventoryEntryView запись инвентаря вместе с данными предмета.
type InventoryEntryView struct {
	EntryID    int64
	ItemID     int64
	ItemName   string
	Icon       string
	PricePaid  decimal.Decimal
	IsVisible  bool
	AcquiredAt time.Time
}

// InventoryPageView страница инвентаря пользователя.
type InventoryPageView struct {
	UserID     int64
	Page       uint
	TotalPages uint
	Total      int64
	Entries    []InventoryEntryView
}

// CatalogServiceArgs параметры витрины каталога.
type CatalogServiceArgs struct {
	PerPage         uint
	ModeratorGroups []int64
}

// CatalogService витрина каталога: категории, предметы и инвентарь с учетом
// видимости и группового ценообразования. Все методы только читают данные.
type CatalogService struct {
	catalogRepo   CatalogRepository
	inventoryRepo InventoryRepository
	cache         cache.Cache
	args          CatalogServiceArgs
}

func NewCatalogService(u uow.UOW, c cache.Cache, args CatalogServiceArgs) (*CatalogService, error) {
	catalogRepo, catalogErr := uow.GetRepositoryAs[CatalogRepository](u, uow.RepositoryName(repoargs.CatalogRepoName))
	if catalogErr != nil {
		return nil, fmt.Errorf("resolving catalog repository: %w", catalogErr)
	}
	inventoryRepo, inventoryErr := uow.GetRepositoryAs[InventoryRepository](u, uow.RepositoryName(repoargs.InventoryRepoName))
	if inventoryErr != nil {
		return nil, fmt.Errorf("resolving inventory repository: %w", inventoryErr)
	}
	if args.PerPage == 0 {
		args.PerPage = DefaultPerPage
	}
	return &CatalogService{
		catalogRepo:   catalogRepo,
		inventoryRepo: inventoryRepo,
		cache:         c,
		args:          args,
	}, nil
}

// GetItem возвращает карточку предмета для запрашивающего. Скрытый предмет
// и предмет недоступной категории для обычного пользователя не существуют.
func (s *CatalogService) GetItem(ctx context.Context, requester Requester, itemID int64) (*ItemView, error) {
	item, err := s.catalogRepo.FindItem(ctx, itemID)
	if err != nil {
		return nil, mapNotFound(err, domain.ErrItemNotFound)
	}
	category, categoryErr := s.catalogRepo.FindCategory(ctx, item.CategoryID)
	if categoryErr != nil {
		return nil, mapNotFound(categoryErr, domain.ErrCategoryNotFound)
	}
	if !s.canAccess(requester, category, item) {
		return nil, domain.ErrItemNotFound
	}

	rate, rateErr := GroupItemsRate(ctx, s.catalogRepo, requester.UsergroupID)
	if rateErr != nil {
		return nil, rateErr
	}
	view := itemView(item, rate)
	return &view, nil
}

// ListCategories возвращает категории, доступные запрашивающему, в порядке
// витрины. Список всех категорий кэшируется, фильтрация по правам выполняется
// на каждый запрос. Модераторы видят скрытые категории и точное число
// предметов, включая скрытые.
func (s *CatalogService) ListCategories(ctx context.Context, requester Requester) ([]CategoryView, error) {
	categories, err := s.allCategories(ctx)
	if err != nil {
		return nil, err
	}

	moderator := s.isModerator(requester.UsergroupID)
	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		category := &categories[i]
		if !moderator {
			if !category.IsVisible || !domain.IsMemberOfAny(requester.UsergroupID, category.AllowedGroupIDs) {
				continue
			}
		}
		itemsCount := int64(category.ItemsCount)
		if moderator {
			count, countErr := s.catalogRepo.CountItemsByCategory(ctx, category.ID, true)
			if countErr != nil {
				return nil, countErr
			}
			itemsCount = count
		}
		views = append(views, CategoryView{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			Icon:        category.Icon,
			IsExpanded:  category.IsExpanded,
			ItemsCount:  itemsCount,
		})
	}
	return views, nil
}

// ListItems возвращает страницу предметов категории. Номер страницы за
// пределами диапазона сбрасывается на первую страницу, не на последнюю.
func (s *CatalogService) ListItems(ctx context.Context, requester Requester, categoryID int64, page uint) (*ItemsPageView, error) {
	category, err := s.catalogRepo.FindCategory(ctx, categoryID)
	if err != nil {
		return nil, mapNotFound(err, domain.ErrCategoryNotFound)
	}
	moderator := s.isModerator(requester.UsergroupID)
	if !moderator {
		if !category.IsVisible || !domain.IsMemberOfAny(requester.UsergroupID, category.AllowedGroupIDs) {
			return nil, domain.ErrCategoryNotFound
		}
	}

	total, totalErr := s.catalogRepo.CountItemsByCategory(ctx, categoryID, moderator)
	if totalErr != nil {
		return nil, totalErr
	}
	page, totalPages := normalizePage(page, total, s.args.PerPage)

	items, itemsErr := s.catalogRepo.GetItemsByCategory(ctx, repoargs.ItemsPage{
		CategoryID:    categoryID,
		Limit:         s.args.PerPage,
		Offset:        (page - 1) * s.args.PerPage,
		IncludeHidden: moderator,
	})
	if itemsErr != nil {
		return nil, itemsErr
	}

	rate, rateErr := GroupItemsRate(ctx, s.catalogRepo, requester.UsergroupID)
	if rateErr != nil {
		return nil, rateErr
	}
	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, itemView(&items[i], rate))
	}
	return &ItemsPageView{
		CategoryID: categoryID,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		Items:      views,
	}, nil
}

// ListUserInventory возвращает страницу инвентаря пользователя ownerID.
// Чужой инвентарь доступен любому пользователю. Скрытые записи видят только
// модераторы: скрытие записи — модераторская мера, владельцу она не видна.
func (s *CatalogService) ListUserInventory(ctx context.Context, requester Requester, ownerID int64, page uint) (*InventoryPageView, error) {
	moderator := s.isModerator(requester.UsergroupID)
	includeHidden := moderator

	total, totalErr := s.inventoryRepo.CountByUser(ctx, ownerID, includeHidden)
	if totalErr != nil {
		return nil, totalErr
	}
	page, totalPages := normalizePage(page, total, s.args.PerPage)

	entries, entriesErr := s.inventoryRepo.GetByUser(ctx, repoargs.InventoryPage{
		UserID:        ownerID,
		Limit:         s.args.PerPage,
		Offset:        (page - 1) * s.args.PerPage,
		IncludeHidden: includeHidden,
	})
	if entriesErr != nil {
		return nil, entriesErr
	}

	views := make([]InventoryEntryView, 0, len(entries))
	items := make(map[int64]*domain.Item, len(entries))
	for i := range entries {
		entry := &entries[i]
		item, ok := items[entry.ItemID]
		if !ok {
			var itemErr error
			item, itemErr = s.catalogRepo.FindItem(ctx, entry.ItemID)
			if itemErr != nil {
				// Предмет мог быть удален из каталога, запись инвентаря при этом остается.
				item = &domain.Item{ID: entry.ItemID}
			}
			items[entry.ItemID] = item
		}
		views = append(views, InventoryEntryView{
			EntryID:    entry.ID,
			ItemID:     entry.ItemID,
			ItemName:   item.Name,
			Icon:       item.Icon,
			PricePaid:  entry.PricePaid,
			IsVisible:  entry.IsVisible,
			AcquiredAt: entry.CreatedAt,
		})
	}
	return &InventoryPageView{
		UserID:     ownerID,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		Entries:    views,
	}, nil
}

// allCategories возвращает полный список категорий, кэш сквозной и best effort:
// ошибки кэша равносильны промаху.
func (s *CatalogService) allCategories(ctx context.Context) ([]domain.Category, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, categoriesCacheKey); err == nil {
			var cached []domain.Category
			if unmarshalErr := json.Unmarshal(raw, &cached); unmarshalErr == nil {
				return cached, nil
			}
		}
	}

	categories, err := s.catalogRepo.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, marshalErr := json.Marshal(categories); marshalErr == nil {
			_ = s.cache.Set(ctx, categoriesCacheKey, raw, categoriesCacheTTL)
		}
	}
	return categories, nil
}

func (s *CatalogService) canAccess(requester Requester, category *domain.Category, item *domain.Item) bool {
	if s.isModerator(requester.UsergroupID) {
		return true
	}
	if !item.IsVisible || !category.IsVisible {
		return false
	}
	return domain.IsMemberOfAny(requester.UsergroupID, category.AllowedGroupIDs)
}

func (s *CatalogService) isModerator(usergroupID int64) bool {
	return containsGroup(s.args.ModeratorGroups, usergroupID)
}

func itemView(item *domain.Item, rate decimal.Decimal) ItemView {
	stock := domain.StockInfinite
	if !item.IsInfinite {
		stock = fmt.Sprintf("%d", item.Stock)
	}
	return ItemView{
		ID:          item.ID,
		CategoryID:  item.CategoryID,
		Name:        item.Name,
		Description: item.Description,
		Icon:        item.Icon,
		Price:       EffectivePrice(item.Price, rate),
		Stock:       stock,
		IsVisible:   item.IsVisible,
		IsSellable:  item.IsSellable,
		IsSendable:  item.IsSendable,
	}
}

// normalizePage сбрасывает номер страницы за пределами диапазона на первую
// страницу и возвращает общее число страниц.
func normalizePage(page uint, total int64, perPage uint) (uint, uint) {
	totalPages := uint(0)
	if total > 0 {
		totalPages = uint((total + int64(perPage) - 1) / int64(perPage))
	}
	if page < 1 || (totalPages > 0 && page > totalPages) {
		page = 1
	}
	return page, totalPages
}
