package pgrepo

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// scanDecimal парсит значение колонки numeric, полученное как text.
// Колонки numeric выбираются с кастом ::text чтобы не тащить отдельный
// кодек pgx для shopspring/decimal.
func scanDecimal(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing numeric column: %s", err.Error())
	}
	return d, nil
}

// safeConvertUintToInt32 безопасно конвертирует uint в int32. В случае выхода значения за рамки диапазона
// выбрасывает ошибку.
func safeConvertUintToInt32(val uint) (int32, error) {
	if val > uint(math.MaxInt32) {
		return 0, fmt.Errorf("value is out of range: %d", val)
	}
	return int32(val), nil
}
