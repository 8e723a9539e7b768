package domain

import (
	"github.com/shopspring/decimal"

	"time"
)

// User проекция аккаунта форума. Сервис магазина владеет только балансом,
// группа и имя пользователя принадлежат хост-системе.
type User struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Username    string
	UsergroupID int64
	Balance     decimal.Decimal
}

type Category struct {
	ID              int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Name            string
	Description     string
	IsVisible       bool
	AllowedGroupIDs []int64
	Icon            string
	DisplayOrder    int32
	IsExpanded      bool
	ItemsCount      int32
}

type Item struct {
	ID           int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CategoryID   int64
	Name         string
	Description  string
	Price        decimal.Decimal
	Icon         string
	IsVisible    bool
	DisplayOrder int32
	IsInfinite   bool
	Stock        int32
	Limit        int32
	IsSellable   bool
	IsSendable   bool
	PMBuyer      string
	PMAdmin      string
}

// GroupRate множитель цены предметов для группы пользователей. Отсутствие записи
// для группы трактуется как множитель 1.0.
type GroupRate struct {
	UsergroupID int64
	ItemsRate   decimal.Decimal
}

// InventoryEntry запись о владении экземпляром предмета. DisplayOrder — сквозной
// порядок приобретения, по нему выбирается самый старый экземпляр при продаже и передаче.
type InventoryEntry struct {
	ID           int64
	CreatedAt    time.Time
	UserID       int64
	ItemID       int64
	PricePaid    decimal.Decimal
	DisplayOrder int64
	IsVisible    bool
}

// AuditRecord неизменяемая запись журнала о завершенной операции. Записи никогда
// не редактируются и не удаляются, коррекции — только новыми записями.
type AuditRecord struct {
	ID        int64
	CreatedAt time.Time
	Kind      AuditKind
	ActorID   int64
	ItemID    int64
	TargetID  int64
	Amount    decimal.Decimal
}

// IsMemberOfAny проверяет принадлежность группы к списку разрешенных.
// Пустой список означает "разрешено всем".
func IsMemberOfAny(usergroupID int64, allowedGroupIDs []int64) bool {
	if len(allowedGroupIDs) == 0 {
		return true
	}
	for _, id := range allowedGroupIDs {
		if id == usergroupID {
			return true
		}
	}
	return false
}
