package service

import (
	"errors"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
)

// Requester идентичность запрашивающего, переданная хост-системой явно.
// Никакого процессного состояния сессии в сервисном слое нет.
type Requester struct {
	UserID      int64
	UsergroupID int64
}

// txRepos набор репозиториев, разрезолвленных внутри одной транзакции.
type txRepos struct {
	catalog   CatalogRepository
	inventory InventoryRepository
	user      UserRepository
	audit     AuditRepository
}

func repositoriesFromTx(tx uow.TX) (*txRepos, error) {
	catalogRepo, catalogErr := uow.GetAs[CatalogRepository](tx, uow.RepositoryName(repoargs.CatalogRepoName))
	if catalogErr != nil {
		return nil, catalogErr //nolint:wrapcheck
	}
	inventoryRepo, inventoryErr := uow.GetAs[InventoryRepository](tx, uow.RepositoryName(repoargs.InventoryRepoName))
	if inventoryErr != nil {
		return nil, inventoryErr //nolint:wrapcheck
	}
	userRepo, userErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userErr != nil {
		return nil, userErr //nolint:wrapcheck
	}
	auditRepo, auditErr := uow.GetAs[AuditRepository](tx, uow.RepositoryName(repoargs.AuditRepoName))
	if auditErr != nil {
		return nil, auditErr //nolint:wrapcheck
	}
	return &txRepos{
		catalog:   catalogRepo,
		inventory: inventoryRepo,
		user:      userRepo,
		audit:     auditRepo,
	}, nil
}

// mapNotFound подменяет ErrRecordNotFound на доменную ошибку конкретной операции.
func mapNotFound(err, sentinel error) error {
	if err != nil && errors.Is(err, domain.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func containsGroup(groupIDs []int64, usergroupID int64) bool {
	for _, id := range groupIDs {
		if id == usergroupID {
			return true
		}
	}
	return false
}
