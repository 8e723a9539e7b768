package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const inventoryColumns = `id, created_at, user_id, item_id, price_paid::text, display_order, is_visible`

type InventoryRepository struct {
	db uow.DBTX
}

func NewInventoryRepository(conn uow.DBTX) *InventoryRepository {
	return &InventoryRepository{db: conn}
}

// CountOwned возвращает кол-во экземпляров предмета у пользователя. Скрытые записи
// учитываются: модераторское скрытие не освобождает слот лимита.
func (i *InventoryRepository) CountOwned(ctx context.Context, userID, itemID int64) (int64, error) {
	var count int64
	err := i.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM inventory_entries WHERE user_id = $1 AND item_id = $2`,
		userID, itemID,
	).Scan(&count)
	if err != nil {
		return 0, convertErr(err, "counting owned items %d for user %d", itemID, userID)
	}
	return count, nil
}

func (i *InventoryRepository) GetByUser(
	ctx context.Context,
	args repoargs.InventoryPage,
) ([]domain.InventoryEntry, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_entries WHERE user_id = $1`
	if !args.IncludeHidden {
		query += ` AND is_visible = TRUE`
	}
	query += ` ORDER BY display_order DESC LIMIT $2 OFFSET $3`

	rows, err := i.db.Query(ctx, query, args.UserID, args.Limit, args.Offset)
	if err != nil {
		return nil, convertErr(err, "getting inventory for user %d", args.UserID)
	}
	defer rows.Close()

	var entries []domain.InventoryEntry
	for rows.Next() {
		entry, scanErr := scanInventoryEntry(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning inventory entry")
		}
		entries = append(entries, *entry)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting inventory for user %d", args.UserID)
	}
	return entries, nil
}

func (i *InventoryRepository) CountByUser(ctx context.Context, userID int64, includeHidden bool) (int64, error) {
	query := `SELECT COUNT(*) FROM inventory_entries WHERE user_id = $1`
	if !includeHidden {
		query += ` AND is_visible = TRUE`
	}
	var count int64
	if err := i.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, convertErr(err, "counting inventory for user %d", userID)
	}
	return count, nil
}

func (i *InventoryRepository) Create(
	ctx context.Context,
	args repoargs.InventoryEntryCreate,
) (*domain.InventoryEntry, error) {
	row := i.db.QueryRow(
		ctx,
		`INSERT INTO inventory_entries (user_id, item_id, price_paid)
			VALUES ($1, $2, $3) RETURNING `+inventoryColumns,
		args.UserID, args.ItemID, args.PricePaid.String(),
	)
	entry, err := scanInventoryEntry(row)
	if err != nil {
		return nil, convertErr(err, "creating inventory entry for user %d item %d", args.UserID, args.ItemID)
	}
	return entry, nil
}

// FindOldestOwned возвращает самый старый экземпляр предмета у пользователя (FIFO).
// Строка блокируется (FOR UPDATE) до конца транзакции.
func (i *InventoryRepository) FindOldestOwned(ctx context.Context, userID, itemID int64) (*domain.InventoryEntry, error) {
	row := i.db.QueryRow(
		ctx,
		`SELECT `+inventoryColumns+` FROM inventory_entries
			WHERE user_id = $1 AND item_id = $2
			ORDER BY display_order ASC, id ASC LIMIT 1 FOR UPDATE`,
		userID, itemID,
	)
	entry, err := scanInventoryEntry(row)
	if err != nil {
		return nil, convertErr(err, "finding oldest owned item %d for user %d", itemID, userID)
	}
	return entry, nil
}

// RemoveOldest удаляет самый старый экземпляр предмета у пользователя и возвращает его.
// Возвращает domain.ErrRecordNotFound если пользователь предметом не владеет.
func (i *InventoryRepository) RemoveOldest(ctx context.Context, userID, itemID int64) (*domain.InventoryEntry, error) {
	row := i.db.QueryRow(
		ctx,
		`DELETE FROM inventory_entries WHERE id = (
			SELECT id FROM inventory_entries
				WHERE user_id = $1 AND item_id = $2
				ORDER BY display_order ASC, id ASC LIMIT 1 FOR UPDATE
		) RETURNING `+inventoryColumns,
		userID, itemID,
	)
	entry, err := scanInventoryEntry(row)
	if err != nil {
		return nil, convertErr(err, "removing oldest item %d for user %d", itemID, userID)
	}
	return entry, nil
}

// Transfer переназначает запись новому владельцу. Запись получает свежий порядок
// приобретения: для получателя предмет считается приобретенным сейчас.
func (i *InventoryRepository) Transfer(ctx context.Context, entryID, toUserID int64) (*domain.InventoryEntry, error) {
	row := i.db.QueryRow(
		ctx,
		`UPDATE inventory_entries
			SET user_id = $2, display_order = nextval('inventory_acquisition_seq')
			WHERE id = $1 RETURNING `+inventoryColumns,
		entryID, toUserID,
	)
	entry, err := scanInventoryEntry(row)
	if err != nil {
		return nil, convertErr(err, "transferring entry %d to user %d", entryID, toUserID)
	}
	return entry, nil
}

func (i *InventoryRepository) FindByIDForUser(ctx context.Context, entryID, userID int64) (*domain.InventoryEntry, error) {
	row := i.db.QueryRow(
		ctx,
		`SELECT `+inventoryColumns+` FROM inventory_entries
			WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		entryID, userID,
	)
	entry, err := scanInventoryEntry(row)
	if err != nil {
		return nil, convertErr(err, "finding entry %d for user %d", entryID, userID)
	}
	return entry, nil
}

func (i *InventoryRepository) DeleteByID(ctx context.Context, entryID int64) error {
	tag, err := i.db.Exec(ctx, `DELETE FROM inventory_entries WHERE id = $1`, entryID)
	if err != nil {
		return convertErr(err, "deleting entry %d", entryID)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func scanInventoryEntry(row pgx.Row) (*domain.InventoryEntry, error) {
	var entry domain.InventoryEntry
	var priceStr string
	err := row.Scan(
		&entry.ID,
		&entry.CreatedAt,
		&entry.UserID,
		&entry.ItemID,
		&priceStr,
		&entry.DisplayOrder,
		&entry.IsVisible,
	)
	if err != nil {
		return nil, err
	}
	price, priceErr := scanDecimal(priceStr)
	if priceErr != nil {
		return nil, priceErr
	}
	entry.PricePaid = price
	return &entry, nil
}
