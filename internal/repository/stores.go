package repository

import (
	"context"

	"gorm.io/gorm"
)

// Stores groups every store bound to the same database handle, so that a
// cascade can use all of them inside one transaction.
type Stores struct {
	Repositories RepositoryStore
	Accounts     AccountStore
	Operations   OperationStore
	Labels       LabelStore
	Items        ItemRevisionStore
}

// UnitOfWork hands out stores and runs cascades atomically.
type UnitOfWork interface {
	Stores() Stores
	// Transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(Stores) error) error
}

type gormUnitOfWork struct {
	db     *gorm.DB
	stores Stores
}

// NewGormUnitOfWork initializes the gorm stores on db
func NewGormUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db, stores: NewGormStores(db)}
}

func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Repositories: NewGormRepositoryStore(db),
		Accounts:     NewGormAccountStore(db),
		Operations:   NewGormOperationStore(db),
		Labels:       NewGormLabelStore(db),
		Items:        NewGormItemRevisionStore(db),
	}
}

func (u *gormUnitOfWork) Stores() Stores {
	return u.stores
}

func (u *gormUnitOfWork) Transaction(ctx context.Context, fn func(Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStores(tx))
	})
}
