package domain

// Account binds a VCS username to a local user inside one repository.
// UID 0 means no local user is associated.
type Account struct {
	ID          uint        `json:"id"`
	RepoID      uint        `json:"repo_id" validate:"required"`
	UID         uint        `json:"uid" validate:"required"`
	VCSUsername string      `json:"vcs_username" validate:"required,max=64"`
	Repository  *Repository `json:"-"`
}

func (a *Account) Kind() EntityKind { return KindAccount }

func (a *Account) EntityID() uint { return a.ID }

func (a *Account) OwnerRepoID() uint { return a.RepoID }

// AttachRepository also takes over the repository's id.
func (a *Account) AttachRepository(repo *Repository) {
	a.Repository = repo
	if repo != nil {
		a.RepoID = repo.ID
	}
}

func (a *Account) ParentRepository() *Repository { return a.Repository }
