package repoargs

type RepositoryName string

const (
	UserRepoName      RepositoryName = "user"
	CatalogRepoName   RepositoryName = "catalog"
	InventoryRepoName RepositoryName = "inventory"
	AuditRepoName     RepositoryName = "audit"
)
