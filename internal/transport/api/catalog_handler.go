package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/groph-shop/internal/service"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogSvs CatalogServicer
}

func NewCatalogHandler(catalogSvs CatalogServicer) *CatalogHandler {
	return &CatalogHandler{
		catalogSvs: catalogSvs,
	}
}

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	IsExpanded  bool   `json:"is_expanded"`
	ItemsCount  int64  `json:"items_count"`
}

type ItemResponse struct {
	ID          int64   `json:"id"`
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Price       float64 `json:"price"`
	Stock       string  `json:"stock"`
	IsVisible   bool    `json:"is_visible"`
	IsSellable  bool    `json:"is_sellable"`
	IsSendable  bool    `json:"is_sendable"`
}

type ItemsPageResponse struct {
	CategoryID int64          `json:"category_id"`
	Page       uint           `json:"page"`
	TotalPages uint           `json:"total_pages"`
	Total      int64          `json:"total"`
	Items      []ItemResponse `json:"items"`
}

type InventoryEntryResponse struct {
	EntryID    int64   `json:"entry_id"`
	ItemID     int64   `json:"item_id"`
	ItemName   string  `json:"item_name"`
	Icon       string  `json:"icon,omitempty"`
	PricePaid  float64 `json:"price_paid"`
	IsVisible  bool    `json:"is_visible"`
	AcquiredAt string  `json:"acquired_at"`
}

type InventoryPageResponse struct {
	UserID     int64                    `json:"user_id"`
	Page       uint                     `json:"page"`
	TotalPages uint                     `json:"total_pages"`
	Total      int64                    `json:"total"`
	Entries    []InventoryEntryResponse `json:"entries"`
}

// Categories GET RouteGroup + CategoriesRoute.
func (h *CatalogHandler) Categories(c *gin.Context) {
	requester := getRequesterFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	categories, err := h.catalogSvs.ListCategories(reqCtx, requester)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = CategoryResponse{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			Icon:        category.Icon,
			IsExpanded:  category.IsExpanded,
			ItemsCount:  category.ItemsCount,
		}
	}
	c.JSON(http.StatusOK, response)
}

// CategoryItems GET RouteGroup + CategoryItemsRoute.
func (h *CatalogHandler) CategoryItems(c *gin.Context) {
	requester := getRequesterFromContext(c)

	categoryID, ok := paramID(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	page, err := h.catalogSvs.ListItems(reqCtx, requester, categoryID, queryPage(c))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	items := make([]ItemResponse, len(page.Items))
	for i, item := range page.Items {
		items[i] = itemResponse(item)
	}
	c.JSON(http.StatusOK, &ItemsPageResponse{
		CategoryID: page.CategoryID,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
		Items:      items,
	})
}

// Show GET RouteGroup + ItemRoute.
func (h *CatalogHandler) Show(c *gin.Context) {
	requester := getRequesterFromContext(c)

	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	item, err := h.catalogSvs.GetItem(reqCtx, requester, itemID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	response := itemResponse(*item)
	c.JSON(http.StatusOK, &response)
}

// MyItems GET RouteGroup + MyItemsRoute.
func (h *CatalogHandler) MyItems(c *gin.Context) {
	requester := getRequesterFromContext(c)
	h.renderInventory(c, requester.UserID)
}

// UserItems GET RouteGroup + UserItemsRoute.
func (h *CatalogHandler) UserItems(c *gin.Context) {
	ownerID, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.renderInventory(c, ownerID)
}

func (h *CatalogHandler) renderInventory(c *gin.Context, ownerID int64) {
	requester := getRequesterFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	page, err := h.catalogSvs.ListUserInventory(reqCtx, requester, ownerID, queryPage(c))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	entries := make([]InventoryEntryResponse, len(page.Entries))
	for i, entry := range page.Entries {
		entries[i] = InventoryEntryResponse{
			EntryID:    entry.EntryID,
			ItemID:     entry.ItemID,
			ItemName:   entry.ItemName,
			Icon:       entry.Icon,
			PricePaid:  entry.PricePaid.InexactFloat64(),
			IsVisible:  entry.IsVisible,
			AcquiredAt: entry.AcquiredAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, &InventoryPageResponse{
		UserID:     page.UserID,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
		Entries:    entries,
	})
}

func itemResponse(item service.ItemView) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		CategoryID:  item.CategoryID,
		Name:        item.Name,
		Description: item.Description,
		Icon:        item.Icon,
		Price:       item.Price.InexactFloat64(),
		Stock:       item.Stock,
		IsVisible:   item.IsVisible,
		IsSellable:  item.IsSellable,
		IsSendable:  item.IsSendable,
	}
}

// paramID разбирает числовой path-параметр. При ошибке пишет 400 и возвращает false.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatus(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryPage(c *gin.Context) uint {
	page, err := strconv.ParseUint(c.DefaultQuery("page", "1"), 10, 32)
	if err != nil || page < 1 {
		return 1
	}
	return uint(page)
}
