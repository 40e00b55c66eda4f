package dtos

import "github.com/just-nibble/versioncontrol/internal/domain"

// RepositoryInput is the body of repository create and update requests.
// An empty vcs selects the configured default backend.
type RepositoryInput struct {
	Name                    string                `json:"name" validate:"required,max=255"`
	VCS                     string                `json:"vcs" validate:"max=8"`
	Root                    string                `json:"root" validate:"max=255"`
	AuthorizationMethod     string                `json:"authorization_method" validate:"max=64"`
	UpdateMethod            int                   `json:"update_method" validate:"gte=0"`
	AllowUnauthorizedAccess bool                  `json:"allow_unauthorized_access"`
	Settings                map[string]any        `json:"settings"`
	Plugins                 map[string]string     `json:"plugins"`
	URLs                    domain.RepositoryURLs `json:"urls"`
}

func (in RepositoryInput) ToDomain() *domain.Repository {
	repo := &domain.Repository{}
	in.Apply(repo)
	return repo
}

// Apply overwrites the editable fields of repo. Lock state and ids are kept.
func (in RepositoryInput) Apply(repo *domain.Repository) {
	repo.Name = in.Name
	if in.VCS != "" {
		repo.VCS = in.VCS
	}
	repo.Root = in.Root
	if in.AuthorizationMethod != "" {
		repo.AuthorizationMethod = in.AuthorizationMethod
	}
	repo.UpdateMethod = in.UpdateMethod
	repo.AllowUnauthorizedAccess = in.AllowUnauthorizedAccess
	repo.Settings = in.Settings
	repo.Plugins = in.Plugins
	repo.URLs = in.URLs
}
