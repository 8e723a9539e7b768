package service

import (
	"context"
	"errors"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/shopspring/decimal"
)

// EffectivePrice вычисляет цену предмета для группы с множителем itemsRate.
// Нулевой множитель явно дает нулевую цену, без умножения: это отсекает
// краевые случаи плавающей арифметики вокруг нуля.
//
// Функция чистая и используется всеми потребителями цены — листингом каталога,
// карточкой предмета и движком транзакций — чтобы цена на витрине и цена
// списания в рамках одного запроса всегда совпадали.
func EffectivePrice(basePrice, itemsRate decimal.Decimal) decimal.Decimal {
	if itemsRate.IsZero() {
		return decimal.Zero
	}
	return basePrice.Mul(itemsRate)
}

// GroupItemsRate возвращает множитель цены для группы пользователей.
// Если правило для группы не настроено, множитель равен 1.0.
func GroupItemsRate(ctx context.Context, repo CatalogRepository, usergroupID int64) (decimal.Decimal, error) {
	rate, err := repo.FindGroupRate(ctx, usergroupID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, err //nolint:wrapcheck
	}
	return rate.ItemsRate, nil
}
