package pgrepo

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"
)

// convertErr приводит ошибку драйвера к доменной. Исходная ошибка сохраняется в цепочке,
// чтобы uow мог распознать конфликт сериализации и повторить транзакцию.
func convertErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	errType := domain.ErrUnknown

	if errors.Is(err, pgx.ErrNoRows) {
		errType = domain.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isUniqueViolationErr(pgErr) {
		errType = domain.ErrDuplicateKey
	}

	return fmt.Errorf("[repository/%s] %w", fmt.Sprintf(format, args...), errors.Join(errType, err))
}

func isUniqueViolationErr(err *pgconn.PgError) bool {
	return err.Code == uniqueViolationCode
}
