package uow

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(DBTX) Repository

// Коды SQLSTATE, при которых сериализуемую транзакцию имеет смысл повторить.
const (
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

// DefaultSerializableAttempts кол-во попыток выполнения сериализуемой транзакции
// до возврата ErrSerializationFailure.
const DefaultSerializableAttempts = 3

type UnitOfWork struct {
	conn         *pgxpool.Pool
	repositories map[RepositoryName]RepositoryFactory
	maxAttempts  uint
}

func NewUnitOfWork(conn *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{
		conn:         conn,
		repositories: make(map[RepositoryName]RepositoryFactory),
		maxAttempts:  DefaultSerializableAttempts,
	}
}

// SetSerializableAttempts устанавливает лимит повторов для DoSerializable.
func (u *UnitOfWork) SetSerializableAttempts(attempts uint) *UnitOfWork {
	if attempts > 0 {
		u.maxAttempts = attempts
	}
	return u
}

// Register регистрирует репозиторий у себя в мапе. Если репозиторий уже зарегистрирован, возвращает
// ошибку ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	if _, ok := u.repositories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	u.repositories[name] = factory
	return nil
}

// Do выполняет функцию fn внутри транзакции с уровнем изоляции по умолчанию.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) error {
	return u.doTx(ctx, pgx.TxOptions{}, fn)
}

// DoSerializable выполняет fn внутри транзакции с уровнем изоляции Serializable.
// При конфликте сериализации (SQLSTATE 40001/40P01) транзакция перезапускается с нуля,
// не более maxAttempts раз. После исчерпания попыток возвращается ErrSerializationFailure.
//
// fn обязана быть идемпотентной: при повторе она вызывается заново на чистой транзакции.
func (u *UnitOfWork) DoSerializable(ctx context.Context, fn func(context.Context, TX) error) error {
	var err error
	for range u.maxAttempts {
		err = u.doTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
		if err == nil || !isRetryableTxErr(err) {
			return err
		}
	}
	return errors.Join(ErrSerializationFailure, err)
}

func (u *UnitOfWork) doTx(ctx context.Context, opts pgx.TxOptions, fn func(context.Context, TX) error) (err error) {
	tx, txErr := u.conn.BeginTx(ctx, opts)
	if txErr != nil {
		return txErr //nolint:wrapcheck
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			if err == nil {
				err = rollbackErr
			} else {
				err = errors.Join(err, rollbackErr)
			}
		}
	}()

	transErr := fn(ctx, NewTransaction(tx, u.repositories))
	if transErr != nil {
		return transErr
	}
	err = tx.Commit(ctx)
	return
}

func isRetryableTxErr(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == serializationFailureCode || pgErr.Code == deadlockDetectedCode
}

// GetRepository возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	if repoFactory, ok := u.repositories[name]; ok {
		return repoFactory(u.conn), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// GetRepositoryAs возвращает репозиторий по имени name и приводит его к типу T. Возвращает ошибки
// ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)

	if !ok {
		return res, ErrInvalidRepositoryType
	}

	return r, nil
}
