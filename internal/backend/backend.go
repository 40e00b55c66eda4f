// Package backend holds the per version control system strategies and the
// entity store that builds and loads entities for one of them.
package backend

import (
	"regexp"
	"strings"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

// Factory returns a new, empty entity of one kind.
type Factory func() domain.Entity

// Backend is the behavior specific to one version control system.
type Backend interface {
	// VCS is the identifier stored on repositories, e.g. "git".
	VCS() string
	Name() string
	Description() string
	// Factories lists the entity kinds the backend supports.
	Factories() map[domain.EntityKind]Factory
	FormatRevisionIdentifier(revision string, format domain.RevisionFormat) string
	// IsUsernameValid returns the username as it should be stored, and
	// whether it is acceptable at all.
	IsUsernameValid(username string) (string, bool)
	UsernameSuggestion(displayName string) string
}

var (
	baseUsername      = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	suggestionReplace = strings.NewReplacer(" ", "", "@", "", ".", "", "-", "", "_", "")
)

// DefaultFactories builds the domain types for every entity kind.
func DefaultFactories() map[domain.EntityKind]Factory {
	return map[domain.EntityKind]Factory{
		domain.KindRepository: func() domain.Entity { return &domain.Repository{} },
		domain.KindAccount:    func() domain.Entity { return &domain.Account{} },
		domain.KindOperation:  func() domain.Entity { return &domain.Operation{} },
		domain.KindItem:       func() domain.Entity { return &domain.ItemRevision{} },
		domain.KindBranch:     func() domain.Entity { return &domain.Label{Type: domain.LabelBranch} },
		domain.KindTag:        func() domain.Entity { return &domain.Label{Type: domain.LabelTag} },
	}
}

// Base implements the behavior shared by all backends. Concrete backends
// embed it and override what differs.
type Base struct {
	vcs         string
	name        string
	description string
}

func NewBase(vcs, name, description string) Base {
	return Base{vcs: vcs, name: name, description: description}
}

func (b Base) VCS() string         { return b.vcs }
func (b Base) Name() string        { return b.name }
func (b Base) Description() string { return b.description }

func (b Base) Factories() map[domain.EntityKind]Factory {
	return DefaultFactories()
}

func (b Base) FormatRevisionIdentifier(revision string, _ domain.RevisionFormat) string {
	return revision
}

func (b Base) IsUsernameValid(username string) (string, bool) {
	return username, baseUsername.MatchString(username)
}

func (b Base) UsernameSuggestion(displayName string) string {
	return strings.ToLower(suggestionReplace.Replace(displayName))
}
