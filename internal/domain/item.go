package domain

// ItemType distinguishes files from directories.
type ItemType int

const (
	ItemFile      ItemType = 1
	ItemDirectory ItemType = 2
)

// ItemRevision is the state of one path as changed by an operation.
type ItemRevision struct {
	ID             uint     `json:"id"`
	RepoID         uint     `json:"repo_id"`
	OperationID    uint     `json:"operation_id"`
	Path           string   `json:"path" validate:"required"`
	Revision       string   `json:"revision" validate:"max=255"`
	Type           ItemType `json:"type" validate:"gte=0,lte=2"`
	Action         Action   `json:"action" validate:"gte=0,lte=8"`
	SourceItemID   uint     `json:"source_item_id,omitempty"`
	ReplacedItemID uint     `json:"replaced_item_id,omitempty"`

	Repository *Repository `json:"-"`
}

func (i *ItemRevision) Kind() EntityKind { return KindItem }

func (i *ItemRevision) EntityID() uint { return i.ID }

func (i *ItemRevision) OwnerRepoID() uint { return i.RepoID }

func (i *ItemRevision) AttachRepository(repo *Repository) {
	i.Repository = repo
	if repo != nil {
		i.RepoID = repo.ID
	}
}

func (i *ItemRevision) ParentRepository() *Repository { return i.Repository }

// IsFile reports whether the item is a file. Items without a type count as files.
func (i *ItemRevision) IsFile() bool {
	return i.Type != ItemDirectory
}
