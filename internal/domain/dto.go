package domain

type AuditKind string

const (
	AuditKindPurchase         AuditKind = "shop_purchase"
	AuditKindSell             AuditKind = "shop_sell"
	AuditKindTransfer         AuditKind = "shop_send"
	AuditKindModerationRemove AuditKind = "shop_quick_item_delete"
)

// StockInfinite отображаемое значение запаса для бесконечных предметов.
const StockInfinite = "infinite"
