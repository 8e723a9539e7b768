package pgrepo

import (
	"context"
	"errors"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userColumns = `id, created_at, updated_at, username, usergroup_id, balance::text`

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{db: conn}
}

func (u *UserRepository) Find(ctx context.Context, userID int64) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user with id %d", userID)
	}
	return user, nil
}

func (u *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username `%s`", username)
	}
	return user, nil
}

// AdjustBalance изменяет баланс пользователя на delta (списание — отрицательная delta).
// Условие balance + delta >= 0 в самом запросе не дает балансу уйти в минус:
// при нехватке средств возвращается domain.ErrInsufficientFunds.
func (u *UserRepository) AdjustBalance(
	ctx context.Context,
	userID int64,
	delta decimal.Decimal,
) (*domain.User, error) {
	row := u.db.QueryRow(
		ctx,
		`UPDATE users SET balance = balance + $2, updated_at = now()
			WHERE id = $1 AND balance + $2 >= 0
			RETURNING `+userColumns,
		userID, delta.String(),
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) && delta.IsNegative() {
			return nil, domain.ErrInsufficientFunds
		}
		return nil, convertErr(err, "adjusting balance for user %d", userID)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var balanceStr string
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Username,
		&user.UsergroupID,
		&balanceStr,
	)
	if err != nil {
		return nil, err
	}
	balance, balanceErr := scanDecimal(balanceStr)
	if balanceErr != nil {
		return nil, balanceErr
	}
	user.Balance = balance
	return &user, nil
}
