package backend

import "regexp"

var svnUsername = regexp.MustCompile(`^[a-zA-Z0-9.\-_]+$`)

// SVN is the backend for Subversion repositories.
type SVN struct {
	Base
}

func NewSVN() *SVN {
	return &SVN{Base: NewBase("svn", "Subversion", "Centralized version control system")}
}

func (s *SVN) IsUsernameValid(username string) (string, bool) {
	return username, svnUsername.MatchString(username)
}
