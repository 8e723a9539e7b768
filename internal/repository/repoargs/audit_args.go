package repoargs

import (
	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/shopspring/decimal"
)

type AuditRecordCreate struct {
	Kind     domain.AuditKind
	ActorID  int64
	ItemID   int64
	TargetID int64
	Amount   decimal.Decimal
}
