package domain

// EntityKind names a type of entity a backend knows how to build and load.
type EntityKind string

const (
	KindRepository EntityKind = "repo"
	KindAccount    EntityKind = "account"
	KindOperation  EntityKind = "operation"
	KindItem       EntityKind = "item"
	KindBranch     EntityKind = "branch"
	KindTag        EntityKind = "tag"
)

// Entity is implemented by every persisted version control object.
type Entity interface {
	Kind() EntityKind
	EntityID() uint
}

// RepositoryOwned is implemented by entities that belong to a repository.
type RepositoryOwned interface {
	Entity
	OwnerRepoID() uint
	AttachRepository(repo *Repository)
	ParentRepository() *Repository
}
