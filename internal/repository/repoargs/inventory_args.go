package repoargs

import "github.com/shopspring/decimal"

type InventoryEntryCreate struct {
	UserID    int64
	ItemID    int64
	PricePaid decimal.Decimal
}

// InventoryPage параметры постраничной выборки инвентаря пользователя.
type InventoryPage struct {
	UserID        int64
	Limit         uint
	Offset        uint
	IncludeHidden bool
}
