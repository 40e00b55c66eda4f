package repository

import (
	"time"

	"gorm.io/datatypes"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

// Repository is the database row of a version control repository
type Repository struct {
	ID                      uint                                     `gorm:"primaryKey"`
	Name                    string                                   `gorm:"uniqueIndex;size:255;not null"`
	VCS                     string                                   `gorm:"column:vcs;index;size:8;not null"`
	Root                    string                                   `gorm:"size:255"`
	AuthorizationMethod     string                                   `gorm:"size:64;not null"`
	UpdateMethod            int                                      `gorm:"not null;default:0"`
	AllowUnauthorizedAccess bool                                     `gorm:"not null;default:false"`
	Locked                  int64                                    `gorm:"not null;default:0"`
	Updated                 int64                                    `gorm:"not null;default:0"`
	Settings                datatypes.JSONMap                        `gorm:"column:settings"`
	Plugins                 datatypes.JSONMap                        `gorm:"column:plugins"`
	URLs                    datatypes.JSONType[domain.RepositoryURLs] `gorm:"column:urls"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (Repository) TableName() string { return "repositories" }

// Account maps a vcs username to a local user within one repository
type Account struct {
	ID          uint   `gorm:"primaryKey"`
	RepoID      uint   `gorm:"column:repo_id;not null;uniqueIndex:idx_account_repo_uid"`
	UID         uint   `gorm:"column:uid;not null;uniqueIndex:idx_account_repo_uid"`
	VCSUsername string `gorm:"column:vcs_username;size:64;not null;index"`
	CreatedAt   time.Time
}

func (Account) TableName() string { return "accounts" }

// Operation is a commit, branch or tag operation row
type Operation struct {
	ID           uint      `gorm:"primaryKey"`
	RepoID       uint      `gorm:"column:repo_id;not null;index"`
	Type         int       `gorm:"not null;index"`
	Revision     string    `gorm:"size:255;index"`
	Author       string    `gorm:"size:64;index"`
	Committer    string    `gorm:"size:64;index"`
	AuthorUID    uint      `gorm:"column:author_uid;not null;default:0;index"`
	CommitterUID uint      `gorm:"column:committer_uid;not null;default:0;index"`
	Date         time.Time `gorm:"index"`
	Message      string    `gorm:"type:text"`
	CreatedAt    time.Time
}

func (Operation) TableName() string { return "operations" }

// Label is a branch or a tag
type Label struct {
	ID     uint   `gorm:"primaryKey"`
	RepoID uint   `gorm:"column:repo_id;not null;uniqueIndex:idx_label_repo_type_name"`
	Type   int    `gorm:"not null;uniqueIndex:idx_label_repo_type_name"`
	Name   string `gorm:"size:255;not null;uniqueIndex:idx_label_repo_type_name"`
}

func (Label) TableName() string { return "labels" }

// OperationLabel associates a label with an operation and what happened to it
type OperationLabel struct {
	OperationID uint `gorm:"column:operation_id;primaryKey;autoIncrement:false"`
	LabelID     uint `gorm:"column:label_id;primaryKey;autoIncrement:false;index"`
	Action      int  `gorm:"not null"`
}

func (OperationLabel) TableName() string { return "operation_labels" }

// ItemRevision is a path as changed by an operation
type ItemRevision struct {
	ID             uint   `gorm:"primaryKey"`
	RepoID         uint   `gorm:"column:repo_id;not null;index"`
	OperationID    uint   `gorm:"column:operation_id;not null;index"`
	Path           string `gorm:"size:1024;not null"`
	Revision       string `gorm:"size:255"`
	Type           int    `gorm:"not null;default:0"`
	Action         int    `gorm:"not null;default:0"`
	SourceItemID   uint   `gorm:"column:source_item_id;not null;default:0"`
	ReplacedItemID uint   `gorm:"column:replaced_item_id;not null;default:0"`
}

func (ItemRevision) TableName() string { return "item_revisions" }

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{
		&Repository{},
		&Account{},
		&Operation{},
		&Label{},
		&OperationLabel{},
		&ItemRevision{},
	}
}

func (r *Repository) ToDomain() *domain.Repository {
	repo := &domain.Repository{
		ID:                      r.ID,
		Name:                    r.Name,
		VCS:                     r.VCS,
		Root:                    r.Root,
		AuthorizationMethod:     r.AuthorizationMethod,
		UpdateMethod:            r.UpdateMethod,
		AllowUnauthorizedAccess: r.AllowUnauthorizedAccess,
		Locked:                  r.Locked,
		Updated:                 r.Updated,
		URLs:                    r.URLs.Data(),
	}
	if len(r.Settings) > 0 {
		repo.Settings = map[string]any(r.Settings)
	}
	if len(r.Plugins) > 0 {
		repo.Plugins = make(map[string]string, len(r.Plugins))
		for slot, name := range r.Plugins {
			if s, ok := name.(string); ok {
				repo.Plugins[slot] = s
			}
		}
	}
	return repo
}

func ToGormRepo(repo *domain.Repository) *Repository {
	r := &Repository{
		ID:                      repo.ID,
		Name:                    repo.Name,
		VCS:                     repo.VCS,
		Root:                    repo.Root,
		AuthorizationMethod:     repo.AuthorizationMethod,
		UpdateMethod:            repo.UpdateMethod,
		AllowUnauthorizedAccess: repo.AllowUnauthorizedAccess,
		Locked:                  repo.Locked,
		Updated:                 repo.Updated,
		URLs:                    datatypes.NewJSONType(repo.URLs),
	}
	if repo.Settings != nil {
		r.Settings = datatypes.JSONMap(repo.Settings)
	}
	if repo.Plugins != nil {
		r.Plugins = make(datatypes.JSONMap, len(repo.Plugins))
		for slot, name := range repo.Plugins {
			r.Plugins[slot] = name
		}
	}
	return r
}

func (a *Account) ToDomain() *domain.Account {
	return &domain.Account{
		ID:          a.ID,
		RepoID:      a.RepoID,
		UID:         a.UID,
		VCSUsername: a.VCSUsername,
	}
}

func ToGormAccount(a *domain.Account) *Account {
	return &Account{
		ID:          a.ID,
		RepoID:      a.RepoID,
		UID:         a.UID,
		VCSUsername: a.VCSUsername,
	}
}

func (o *Operation) ToDomain() *domain.Operation {
	return &domain.Operation{
		ID:           o.ID,
		RepoID:       o.RepoID,
		Type:         domain.OperationType(o.Type),
		Revision:     o.Revision,
		Author:       o.Author,
		Committer:    o.Committer,
		AuthorUID:    o.AuthorUID,
		CommitterUID: o.CommitterUID,
		Date:         o.Date,
		Message:      o.Message,
	}
}

func ToGormOperation(o *domain.Operation) *Operation {
	return &Operation{
		ID:           o.ID,
		RepoID:       o.RepoID,
		Type:         int(o.Type),
		Revision:     o.Revision,
		Author:       o.Author,
		Committer:    o.Committer,
		AuthorUID:    o.AuthorUID,
		CommitterUID: o.CommitterUID,
		Date:         o.Date,
		Message:      o.Message,
	}
}

func (l *Label) ToDomain() *domain.Label {
	return &domain.Label{
		ID:     l.ID,
		RepoID: l.RepoID,
		Name:   l.Name,
		Type:   domain.LabelType(l.Type),
	}
}

func ToGormLabel(l *domain.Label) *Label {
	return &Label{
		ID:     l.ID,
		RepoID: l.RepoID,
		Name:   l.Name,
		Type:   int(l.Type),
	}
}

func (i *ItemRevision) ToDomain() *domain.ItemRevision {
	return &domain.ItemRevision{
		ID:             i.ID,
		RepoID:         i.RepoID,
		OperationID:    i.OperationID,
		Path:           i.Path,
		Revision:       i.Revision,
		Type:           domain.ItemType(i.Type),
		Action:         domain.Action(i.Action),
		SourceItemID:   i.SourceItemID,
		ReplacedItemID: i.ReplacedItemID,
	}
}

func ToGormItemRevision(i *domain.ItemRevision) *ItemRevision {
	return &ItemRevision{
		ID:             i.ID,
		RepoID:         i.RepoID,
		OperationID:    i.OperationID,
		Path:           i.Path,
		Revision:       i.Revision,
		Type:           int(i.Type),
		Action:         int(i.Action),
		SourceItemID:   i.SourceItemID,
		ReplacedItemID: i.ReplacedItemID,
	}
}
