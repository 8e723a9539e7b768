package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const auditColumns = `id, created_at, kind, actor_id, item_id, target_id, amount::text`

// AuditRepository журнал завершенных операций. Только вставка и выборка:
// записи журнала никогда не обновляются и не удаляются.
type AuditRepository struct {
	db uow.DBTX
}

func NewAuditRepository(conn uow.DBTX) *AuditRepository {
	return &AuditRepository{db: conn}
}

func (a *AuditRepository) Create(ctx context.Context, args repoargs.AuditRecordCreate) (*domain.AuditRecord, error) {
	row := a.db.QueryRow(
		ctx,
		`INSERT INTO audit_log (kind, actor_id, item_id, target_id, amount)
			VALUES ($1, $2, $3, $4, $5) RETURNING `+auditColumns,
		string(args.Kind), args.ActorID, args.ItemID, args.TargetID, args.Amount.String(),
	)
	record, err := scanAuditRecord(row)
	if err != nil {
		return nil, convertErr(err, "creating audit record kind `%s`", args.Kind)
	}
	return record, nil
}

func (a *AuditRepository) GetRecentByKind(
	ctx context.Context,
	kind domain.AuditKind,
	limit uint,
) ([]domain.AuditRecord, error) {
	safeLimit, safeLimitErr := safeConvertUintToInt32(limit)
	if safeLimitErr != nil {
		return nil, convertErr(safeLimitErr, "converting limit to int32")
	}

	rows, err := a.db.Query(
		ctx,
		`SELECT `+auditColumns+` FROM audit_log
			WHERE kind = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		string(kind), safeLimit,
	)
	if err != nil {
		return nil, convertErr(err, "getting recent audit records kind `%s`", kind)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		record, scanErr := scanAuditRecord(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning audit record")
		}
		records = append(records, *record)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting recent audit records kind `%s`", kind)
	}
	return records, nil
}

func scanAuditRecord(row pgx.Row) (*domain.AuditRecord, error) {
	var record domain.AuditRecord
	var kind string
	var amountStr string
	err := row.Scan(
		&record.ID,
		&record.CreatedAt,
		&kind,
		&record.ActorID,
		&record.ItemID,
		&record.TargetID,
		&amountStr,
	)
	if err != nil {
		return nil, err
	}
	record.Kind = domain.AuditKind(kind)
	amount, amountErr := scanDecimal(amountStr)
	if amountErr != nil {
		return nil, amountErr
	}
	record.Amount = amount
	return &record, nil
}
