package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
)

// DefaultRecentLimit размер выборки последних записей журнала по умолчанию.
const DefaultRecentLimit = 10

// AuditService читающий доступ к журналу операций. Записи в журнал делает
// только движок транзакций внутри своих транзакций.
type AuditService struct {
	auditRepo AuditRepository
}

func NewAuditService(u uow.UOW) (*AuditService, error) {
	auditRepo, err := uow.GetRepositoryAs[AuditRepository](u, uow.RepositoryName(repoargs.AuditRepoName))
	if err != nil {
		return nil, fmt.Errorf("resolving audit repository: %w", err)
	}
	return &AuditService{auditRepo: auditRepo}, nil
}

// RecentPurchases возвращает последние покупки, от новых к старым.
func (s *AuditService) RecentPurchases(ctx context.Context, limit uint) ([]domain.AuditRecord, error) {
	return s.QueryRecent(ctx, domain.AuditKindPurchase, limit)
}

// QueryRecent возвращает последние записи журнала указанного вида.
func (s *AuditService) QueryRecent(ctx context.Context, kind domain.AuditKind, limit uint) ([]domain.AuditRecord, error) {
	if limit == 0 {
		limit = DefaultRecentLimit
	}
	return s.auditRepo.GetRecentByKind(ctx, kind, limit)
}
