package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	ErrItemNotFound      = errors.New("item not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOutOfStock        = errors.New("out of stock")
	ErrLimitReached      = errors.New("item limit reached")
	ErrNotOwned          = errors.New("item not owned")
	ErrInvalidRecipient  = errors.New("invalid recipient")
	ErrNotSellable       = errors.New("item not sellable")
	ErrNotSendable       = errors.New("item not sendable")

	// ErrBusy возвращается когда конкурирующие транзакции исчерпали лимит повторов.
	// Отличается от доменных ошибок: запрос можно просто повторить.
	ErrBusy = errors.New("storage busy, try again")
)

// LimitReachedError вариант ErrLimitReached с контекстом для отображения.
type LimitReachedError struct {
	ItemID int64
	Limit  int32
	Owned  int64
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("item %d limit reached: owned %d of %d", e.ItemID, e.Owned, e.Limit)
}

func (e *LimitReachedError) Unwrap() error {
	return ErrLimitReached
}
