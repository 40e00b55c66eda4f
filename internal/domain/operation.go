package domain

import (
	"fmt"
	"time"
)

// OperationType tells commits apart from branch and tag operations.
type OperationType int

const (
	OperationCommit OperationType = 1
	OperationBranch OperationType = 2
	OperationTag    OperationType = 3
)

func (t OperationType) String() string {
	switch t {
	case OperationCommit:
		return "commit"
	case OperationBranch:
		return "branch"
	case OperationTag:
		return "tag"
	default:
		return fmt.Sprintf("operation(%d)", int(t))
	}
}

// Valid reports whether t is one of the known operation types.
func (t OperationType) Valid() bool {
	return t >= OperationCommit && t <= OperationTag
}

// Action describes what happened to an item or label during an operation.
type Action int

const (
	ActionAdded    Action = 1
	ActionModified Action = 2
	ActionMoved    Action = 3
	ActionCopied   Action = 4
	ActionMerged   Action = 5
	ActionDeleted  Action = 6
	ActionReplaced Action = 7
	ActionOther    Action = 8
)

// DefaultLabelAction is recorded for label associations whose action was
// never set by the backend that produced the operation.
const DefaultLabelAction = ActionModified

func (a Action) String() string {
	switch a {
	case ActionAdded:
		return "added"
	case ActionModified:
		return "modified"
	case ActionMoved:
		return "moved"
	case ActionCopied:
		return "copied"
	case ActionMerged:
		return "merged"
	case ActionDeleted:
		return "deleted"
	case ActionReplaced:
		return "replaced"
	case ActionOther:
		return "other"
	default:
		return "unset"
	}
}

// RevisionFormat selects between the raw and the compact revision identifier.
type RevisionFormat string

const (
	RevisionFull  RevisionFormat = "full"
	RevisionShort RevisionFormat = "short"
)

// Operation is a commit, branch or tag event recorded against a repository.
// AuthorUID and CommitterUID stay 0 until a matching account exists.
type Operation struct {
	ID            uint           `json:"id"`
	RepoID        uint           `json:"repo_id" validate:"required"`
	Type          OperationType  `json:"type" validate:"required,gte=1,lte=3"`
	Revision      string         `json:"revision" validate:"max=255"`
	Author        string         `json:"author" validate:"max=64"`
	Committer     string         `json:"committer" validate:"max=64"`
	AuthorUID     uint           `json:"author_uid"`
	CommitterUID  uint           `json:"committer_uid"`
	Date          time.Time      `json:"date"`
	Message       string         `json:"message"`
	Labels        []Label        `json:"labels,omitempty" validate:"dive"`
	ItemRevisions []ItemRevision `json:"item_revisions,omitempty" validate:"dive"`
	Repository    *Repository    `json:"-"`
}

func (o *Operation) Kind() EntityKind { return KindOperation }

func (o *Operation) EntityID() uint { return o.ID }

func (o *Operation) OwnerRepoID() uint { return o.RepoID }

func (o *Operation) AttachRepository(repo *Repository) {
	o.Repository = repo
	if repo != nil {
		o.RepoID = repo.ID
	}
}

func (o *Operation) ParentRepository() *Repository { return o.Repository }
