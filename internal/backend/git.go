package backend

import (
	"regexp"
	"strings"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

const gitShortRevisionLength = 7

var gitUsername = regexp.MustCompile(`^[a-zA-Z0-9.\-_@+]+$`)

// Git is the backend for git repositories. Usernames are the author and
// committer names found in commit objects.
type Git struct {
	Base
}

func NewGit() *Git {
	return &Git{Base: NewBase("git", "Git", "Git distributed version control system")}
}

func (g *Git) FormatRevisionIdentifier(revision string, format domain.RevisionFormat) string {
	if format == domain.RevisionShort && len(revision) > gitShortRevisionLength {
		return revision[:gitShortRevisionLength]
	}
	return revision
}

func (g *Git) IsUsernameValid(username string) (string, bool) {
	username = strings.TrimSpace(username)
	return username, gitUsername.MatchString(username)
}
