package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const itemColumns = `id, created_at, updated_at, category_id, name, description, price::text, icon,
	is_visible, display_order, is_infinite, stock, item_limit, is_sellable, is_sendable, pm_buyer, pm_admin`

const categoryColumns = `id, created_at, updated_at, name, description, is_visible, allowed_group_ids,
	icon, display_order, is_expanded, items_count`

type CatalogRepository struct {
	db uow.DBTX
}

func NewCatalogRepository(conn uow.DBTX) *CatalogRepository {
	return &CatalogRepository{db: conn}
}

func (c *CatalogRepository) FindItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	row := c.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, itemID)
	item, err := scanItem(row)
	if err != nil {
		return nil, convertErr(err, "finding item with id %d", itemID)
	}
	return item, nil
}

func (c *CatalogRepository) FindCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	row := c.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, categoryID)
	category, err := scanCategory(row)
	if err != nil {
		return nil, convertErr(err, "finding category with id %d", categoryID)
	}
	return category, nil
}

// GetAllCategories возвращает все категории (включая скрытые — фильтрация видимости
// принадлежит сервисному слою) в порядке display_order.
func (c *CatalogRepository) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := c.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY display_order ASC, id ASC`)
	if err != nil {
		return nil, convertErr(err, "getting categories")
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning category")
		}
		categories = append(categories, *category)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting categories")
	}
	return categories, nil
}

func (c *CatalogRepository) GetItemsByCategory(ctx context.Context, args repoargs.ItemsPage) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE category_id = $1`
	if !args.IncludeHidden {
		query += ` AND is_visible = TRUE`
	}
	query += ` ORDER BY display_order ASC, id ASC LIMIT $2 OFFSET $3`

	rows, err := c.db.Query(ctx, query, args.CategoryID, args.Limit, args.Offset)
	if err != nil {
		return nil, convertErr(err, "getting items for category %d", args.CategoryID)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning item")
		}
		items = append(items, *item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting items for category %d", args.CategoryID)
	}
	return items, nil
}

func (c *CatalogRepository) CountItemsByCategory(
	ctx context.Context,
	categoryID int64,
	includeHidden bool,
) (int64, error) {
	query := `SELECT COUNT(*) FROM items WHERE category_id = $1`
	if !includeHidden {
		query += ` AND is_visible = TRUE`
	}
	var count int64
	if err := c.db.QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, convertErr(err, "counting items for category %d", categoryID)
	}
	return count, nil
}

// DecrementStock уменьшает запас конечного предмета на единицу. Условие stock > 0
// в самом запросе гарантирует, что запас не уйдет в минус даже при конкурирующих покупках.
// Возвращает domain.ErrOutOfStock если запас исчерпан.
func (c *CatalogRepository) DecrementStock(ctx context.Context, itemID int64) error {
	tag, err := c.db.Exec(
		ctx,
		`UPDATE items SET stock = stock - 1, updated_at = now()
			WHERE id = $1 AND is_infinite = FALSE AND stock > 0`,
		itemID,
	)
	if err != nil {
		return convertErr(err, "decrementing stock for item %d", itemID)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOutOfStock
	}
	return nil
}

// IncrementStock возвращает единицу запаса в оборот (продажа, модераторское изъятие).
// Для бесконечных предметов запрос ничего не меняет и это не ошибка.
func (c *CatalogRepository) IncrementStock(ctx context.Context, itemID int64) error {
	_, err := c.db.Exec(
		ctx,
		`UPDATE items SET stock = stock + 1, updated_at = now()
			WHERE id = $1 AND is_infinite = FALSE`,
		itemID,
	)
	if err != nil {
		return convertErr(err, "incrementing stock for item %d", itemID)
	}
	return nil
}

func (c *CatalogRepository) FindGroupRate(ctx context.Context, usergroupID int64) (*domain.GroupRate, error) {
	var rate domain.GroupRate
	var rateStr string
	err := c.db.QueryRow(
		ctx,
		`SELECT usergroup_id, items_rate::text FROM group_rates WHERE usergroup_id = $1`,
		usergroupID,
	).Scan(&rate.UsergroupID, &rateStr)
	if err != nil {
		return nil, convertErr(err, "finding group rate for usergroup %d", usergroupID)
	}
	itemsRate, rateErr := scanDecimal(rateStr)
	if rateErr != nil {
		return nil, convertErr(rateErr, "finding group rate for usergroup %d", usergroupID)
	}
	rate.ItemsRate = itemsRate
	return &rate, nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	var priceStr string
	err := row.Scan(
		&item.ID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.CategoryID,
		&item.Name,
		&item.Description,
		&priceStr,
		&item.Icon,
		&item.IsVisible,
		&item.DisplayOrder,
		&item.IsInfinite,
		&item.Stock,
		&item.Limit,
		&item.IsSellable,
		&item.IsSendable,
		&item.PMBuyer,
		&item.PMAdmin,
	)
	if err != nil {
		return nil, err
	}
	price, priceErr := scanDecimal(priceStr)
	if priceErr != nil {
		return nil, priceErr
	}
	item.Price = price
	return &item, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	err := row.Scan(
		&category.ID,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.Name,
		&category.Description,
		&category.IsVisible,
		&category.AllowedGroupIDs,
		&category.Icon,
		&category.DisplayOrder,
		&category.IsExpanded,
		&category.ItemsCount,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
