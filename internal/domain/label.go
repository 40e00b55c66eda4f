package domain

// LabelType is either a branch or a tag.
type LabelType int

const (
	LabelBranch LabelType = 1
	LabelTag    LabelType = 2
)

// Label is a branch or tag affected by an operation. Action is only
// meaningful in the context of the operation that carries the label.
type Label struct {
	ID     uint      `json:"id"`
	RepoID uint      `json:"repo_id"`
	Name   string    `json:"name" validate:"required,max=255"`
	Type   LabelType `json:"type" validate:"required,gte=1,lte=2"`
	Action Action    `json:"action,omitempty" validate:"gte=0,lte=8"`

	Repository *Repository `json:"-"`
}

func (l *Label) Kind() EntityKind {
	if l.Type == LabelTag {
		return KindTag
	}
	return KindBranch
}

func (l *Label) EntityID() uint { return l.ID }

func (l *Label) OwnerRepoID() uint { return l.RepoID }

func (l *Label) AttachRepository(repo *Repository) {
	l.Repository = repo
	if repo != nil {
		l.RepoID = repo.ID
	}
}

func (l *Label) ParentRepository() *Repository { return l.Repository }

// EffectiveAction is the action stored for the label's association.
func (l *Label) EffectiveAction() Action {
	if l.Action == 0 {
		return DefaultLabelAction
	}
	return l.Action
}
